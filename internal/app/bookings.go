package app

import (
	"context"
	"fmt"

	"booknstay/internal/domain"
)

const bookingsPageLimit = 200

// BookingService owns the bookings collection: append-only writes stamped
// with the database clock, per-user reads newest first. After a commit it
// ticks the owner's change-feed channel; the writer never waits for the
// read path to catch up.
type BookingService struct {
	repo domain.BookingRepository
	feed domain.Feed
}

func NewBookingService(r domain.BookingRepository, f domain.Feed) *BookingService {
	return &BookingService{repo: r, feed: f}
}

func (s *BookingService) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if b.UserID == "" {
		return domain.Booking{}, domain.ErrNotAuthenticated
	}
	if b.HotelID == "" || b.HotelName == "" {
		return domain.Booking{}, fmt.Errorf("booking needs a hotel")
	}
	created, err := s.repo.InsertBooking(ctx, b)
	if err != nil {
		return domain.Booking{}, err
	}
	_ = s.feed.Publish(ctx, domain.BookingsChannel(b.UserID))
	return created, nil
}

func (s *BookingService) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.repo.BookingsByUser(ctx, userID, bookingsPageLimit)
}
