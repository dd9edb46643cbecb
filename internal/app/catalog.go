package app

import (
	"context"
	"fmt"
	"time"

	"booknstay/internal/domain"
)

// CatalogService serves the hotels collection: the read path behind both
// the one-shot list endpoint and the live watch endpoint, and the write
// path used by the seeder. Every write invalidates the cached top-N page
// and ticks the change feed so connected watchers push a fresh snapshot.
type CatalogService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	feed     domain.Feed
	cacheTTL time.Duration
}

func NewCatalogService(r domain.HotelRepository, c domain.Cache, f domain.Feed, ttl time.Duration) *CatalogService {
	return &CatalogService{repo: r, cache: c, feed: f, cacheTTL: ttl}
}

func topKey(limit int) string { return fmt.Sprintf("hotels:top:%d", limit) }

func (s *CatalogService) TopHotels(ctx context.Context, limit int) ([]domain.Hotel, error) {
	key := topKey(limit)
	var cached []domain.Hotel
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}
	hs, err := s.repo.TopHotels(ctx, limit)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, hs, int(s.cacheTTL.Seconds()))
	return hs, nil
}

func (s *CatalogService) UpsertHotel(ctx context.Context, h domain.Hotel, rating float64) error {
	if h.Name == "" {
		return fmt.Errorf("hotel name is required")
	}
	if err := s.repo.UpsertHotel(ctx, h, rating); err != nil {
		return err
	}
	s.invalidate(ctx)
	return s.feed.Publish(ctx, domain.HotelsChannel)
}

// invalidate clears the common top-N page sizes.
func (s *CatalogService) invalidate(ctx context.Context) {
	for _, lim := range []int{10, 20, 50} {
		_ = s.cache.Del(ctx, topKey(lim))
	}
}
