package client

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"booknstay/internal/domain"
)

// topHotels is the page size of the home screen list.
const topHotels = 10

// CatalogReader mirrors the top-rated hotels into local state through a
// single live subscription. Snapshots replace the whole set; there is no
// incremental diffing.
type CatalogReader struct {
	catalog domain.Catalog
	log     zerolog.Logger

	mu      sync.Mutex
	hotels  []domain.Hotel
	loading bool
	sub     domain.Subscription
}

func NewCatalogReader(catalog domain.Catalog, log zerolog.Logger) *CatalogReader {
	return &CatalogReader{catalog: catalog, log: log, loading: true}
}

// Start opens the subscription, releasing any previous one first so a
// remount never leaks the old live connection. onChange fires after
// every applied snapshot so the owner can re-render; it may be nil.
func (r *CatalogReader) Start(ctx context.Context, onChange func()) error {
	r.Release()
	r.mu.Lock()
	r.loading = true
	r.mu.Unlock()

	sub, err := r.catalog.WatchTopHotels(ctx, topHotels, func(s domain.HotelSnapshot) {
		r.apply(s)
		if onChange != nil {
			onChange()
		}
	})
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.sub = sub
	r.mu.Unlock()
	return nil
}

func (r *CatalogReader) apply(s domain.HotelSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// The first delivery, error or not, ends the loading state.
	r.loading = false

	if s.Err != nil {
		// Keep the last known set; the list degrades to stale, not empty.
		r.log.Warn().Err(s.Err).Msg("hotel subscription error")
		return
	}

	kept := make([]domain.Hotel, 0, len(s.Hotels))
	for _, h := range s.Hotels {
		if h.Name == "" {
			// A hotel document without a name is unusable; drop it.
			continue
		}
		kept = append(kept, h)
	}
	r.hotels = kept
}

// Hotels returns the current mirrored set.
func (r *CatalogReader) Hotels() []domain.Hotel {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Hotel, len(r.hotels))
	copy(out, r.hotels)
	return out
}

func (r *CatalogReader) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Release closes the subscription. Safe to call more than once.
func (r *CatalogReader) Release() {
	r.mu.Lock()
	sub := r.sub
	r.sub = nil
	r.mu.Unlock()
	if sub != nil {
		sub.Release()
	}
}
