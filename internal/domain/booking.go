package domain

import "time"

// Booking is immutable once created; there is no update or cancel path.
// HotelName, City and Price are copied from the hotel at booking time so
// the history keeps showing what the user actually booked, even if the
// catalog entry changes later.
type Booking struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	HotelID       string    `json:"hotelId"`
	HotelName     string    `json:"hotelName"`
	City          string    `json:"city"`
	CheckIn       string    `json:"checkIn"`
	CheckOut      string    `json:"checkOut"`
	Guests        string    `json:"guests"`
	Price         string    `json:"price"`
	PaymentMethod string    `json:"paymentMethod"` // "Card" | "Cash"
	CreatedAt     time.Time `json:"createdAt"`     // assigned by the backend at write commit
}
