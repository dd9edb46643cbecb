package domain

import "context"

// HotelSnapshot is one delivery from a live hotel query: either a full
// replacement result set or the error that interrupted the stream.
type HotelSnapshot struct {
	Hotels []Hotel
	Err    error
}

// BookingSnapshot is one delivery from a live per-user booking query.
type BookingSnapshot struct {
	Bookings []Booking
	Err      error
}

// Subscription is a handle on a live query. Release must be safe to call
// more than once; the first call stops deliveries and frees the backend
// connection.
type Subscription interface {
	Release()
}

// Catalog is the client-side view of the hotels collection.
type Catalog interface {
	// WatchTopHotels opens a live query for the top-limit hotels ordered by
	// rating descending. fn receives every snapshot until Release.
	WatchTopHotels(ctx context.Context, limit int, fn func(HotelSnapshot)) (Subscription, error)
}

// Bookings is the client-side view of the bookings collection.
type Bookings interface {
	// WatchBookings opens a live query filtered to userID, ordered by
	// creation time descending.
	WatchBookings(ctx context.Context, userID string, fn func(BookingSnapshot)) (Subscription, error)
	// CreateBooking appends one booking document. The backend assigns ID
	// and CreatedAt. The call is not retried on failure.
	CreateBooking(ctx context.Context, b Booking) (Booking, error)
}

// Identity wraps the external identity provider.
type Identity interface {
	SignIn(ctx context.Context, email, password string) (userID string, err error)
	SignUp(ctx context.Context, fullName, email, password string) (userID string, err error)
	SignOut(ctx context.Context) error
}

// ---- server-side ports ----

type HotelRepository interface {
	UpsertHotel(ctx context.Context, h Hotel, rating float64) error
	TopHotels(ctx context.Context, limit int) ([]Hotel, error)
}

type BookingRepository interface {
	// InsertBooking persists b and returns it with the backend-assigned ID
	// and creation timestamp filled in.
	InsertBooking(ctx context.Context, b Booking) (Booking, error)
	BookingsByUser(ctx context.Context, userID string, limit int) ([]Booking, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u User) error
	UserByEmail(ctx context.Context, email string) (User, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Change-feed channel names shared by writers and watchers.
const HotelsChannel = "docs:hotels"

func BookingsChannel(userID string) string { return "docs:bookings:" + userID }

// Feed is the change-notification bus behind live queries: writers publish
// a channel name after committing, watchers re-query on every tick.
type Feed interface {
	Publish(ctx context.Context, channel string) error
	// Watch returns a tick channel and a stop function. Ticks are
	// coalesced; a slow watcher sees at least one tick per burst.
	Watch(ctx context.Context, channel string) (<-chan struct{}, func())
}
