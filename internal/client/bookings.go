package client

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"booknstay/internal/domain"
)

// BookingStore mirrors the signed-in user's bookings and appends new
// ones. The read path converges on its own; Create never waits for the
// subscription to reflect the write.
type BookingStore struct {
	bookings domain.Bookings
	log      zerolog.Logger

	mu     sync.Mutex
	userID string
	list   []domain.Booking
	sub    domain.Subscription
}

func NewBookingStore(bookings domain.Bookings, log zerolog.Logger) *BookingStore {
	return &BookingStore{bookings: bookings, log: log}
}

// Rebind points the live subscription at userID, releasing any previous
// one first. An empty userID just tears the subscription down.
func (s *BookingStore) Rebind(ctx context.Context, userID string, onChange func()) error {
	s.Release()

	s.mu.Lock()
	s.userID = userID
	s.list = nil
	s.mu.Unlock()

	if userID == "" {
		return nil
	}

	sub, err := s.bookings.WatchBookings(ctx, userID, func(snap domain.BookingSnapshot) {
		s.apply(snap)
		if onChange != nil {
			onChange()
		}
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()
	return nil
}

func (s *BookingStore) apply(snap domain.BookingSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Err != nil {
		// Swallowed: the list keeps its last known value.
		s.log.Warn().Err(snap.Err).Msg("booking subscription error")
		return
	}
	s.list = snap.Bookings
}

// Bookings returns the mirrored history, newest first.
func (s *BookingStore) Bookings() []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Booking, len(s.list))
	copy(out, s.list)
	return out
}

// Create appends one booking carrying a denormalized snapshot of the
// hotel at call time. The append is attempted exactly once.
func (s *BookingStore) Create(ctx context.Context, hotel domain.Hotel, checkIn, checkOut, guests, paymentMethod string) (domain.Booking, error) {
	s.mu.Lock()
	uid := s.userID
	s.mu.Unlock()
	if uid == "" {
		return domain.Booking{}, domain.ErrNotAuthenticated
	}

	b := domain.Booking{
		UserID:        uid,
		HotelID:       hotel.ID,
		HotelName:     hotel.Name,
		City:          hotel.City,
		Price:         hotel.Price,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Guests:        guests,
		PaymentMethod: paymentMethod,
	}
	return s.bookings.CreateBooking(ctx, b)
}

// Release closes the subscription. Safe to call more than once.
func (s *BookingStore) Release() {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()
	if sub != nil {
		sub.Release()
	}
}
