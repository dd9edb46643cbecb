package client

import (
	"strings"

	"booknstay/internal/domain"
)

// Tab is the bottom-navigation selection. It is a closed set.
type Tab int

const (
	TabHome Tab = iota
	TabHistory
	TabPayment
)

func (t Tab) String() string {
	switch t {
	case TabHome:
		return "home"
	case TabHistory:
		return "history"
	case TabPayment:
		return "payment"
	default:
		return "unknown"
	}
}

// Payment method chips shown on the payment screen.
const (
	PayCard = "Card"
	PayCash = "Cash"
)

// State is everything the presentation layer renders. It is a plain
// value; reduce produces the next one without mutating its input.
type State struct {
	Tab      Tab
	UserID   string
	Hotels   []domain.Hotel
	Loading  bool
	Bookings []domain.Booking

	// Selected is only meaningful while Tab == TabPayment.
	Selected *domain.Hotel

	// Transient form fields.
	Destination   string
	CheckIn       string
	CheckOut      string
	Guests        string
	PaymentMethod string

	// Searching marks that Filtered, not Hotels, is on display.
	Searching bool
	Filtered  []domain.Hotel

	// Notice is the last user-visible message, cleared on the next event.
	Notice string
}

// initialState is the post-login screen state.
func initialState(userID string) State {
	return State{Tab: TabHome, UserID: userID, Loading: true, PaymentMethod: PayCard}
}

// Visible returns the hotel list currently on display.
func (s State) Visible() []domain.Hotel {
	if s.Searching {
		return s.Filtered
	}
	return s.Hotels
}

// Event is a user intent or an asynchronous notification folded into
// the state. Effectful intents (confirm, logout) are handled by the
// Controller, which then feeds the resulting events through reduce.
type Event interface{ isEvent() }

type (
	// HotelSelected moves to the payment screen for the given hotel.
	HotelSelected struct{ Hotel domain.Hotel }

	// TabChanged switches the bottom navigation.
	TabChanged struct{ Tab Tab }

	// DestinationChanged, StayChanged and PaymentChosen update form fields.
	DestinationChanged struct{ Value string }
	StayChanged        struct{ CheckIn, CheckOut, Guests string }
	PaymentChosen      struct{ Method string }

	// SearchSubmitted filters the fetched list client-side.
	SearchSubmitted struct{}
	// SearchCleared goes back to the unfiltered list.
	SearchCleared struct{}

	// CatalogChanged and HistoryChanged mirror subscription snapshots.
	CatalogChanged struct {
		Hotels  []domain.Hotel
		Loading bool
	}
	HistoryChanged struct{ Bookings []domain.Booking }

	// BookingAccepted is emitted after a successful write.
	BookingAccepted struct{}
	// Noticed surfaces a user-visible message without other changes.
	Noticed struct{ Message string }
	// SignedOut discards the session and all screen state.
	SignedOut struct{}
)

func (HotelSelected) isEvent()      {}
func (TabChanged) isEvent()         {}
func (DestinationChanged) isEvent() {}
func (StayChanged) isEvent()        {}
func (PaymentChosen) isEvent()      {}
func (SearchSubmitted) isEvent()    {}
func (SearchCleared) isEvent()      {}
func (CatalogChanged) isEvent()     {}
func (HistoryChanged) isEvent()     {}
func (BookingAccepted) isEvent()    {}
func (Noticed) isEvent()            {}
func (SignedOut) isEvent()          {}

// reduce is the one-way data-flow update function. It is pure: no I/O,
// no clocks, no dependency on anything but its arguments.
func reduce(s State, ev Event) State {
	s.Notice = ""

	switch e := ev.(type) {
	case HotelSelected:
		h := e.Hotel
		s.Tab = TabPayment
		s.Selected = &h
		s.CheckIn, s.CheckOut, s.Guests = "", "", ""
		s.PaymentMethod = PayCard

	case TabChanged:
		s.Tab = e.Tab
		if e.Tab != TabPayment {
			s.Selected = nil
		}

	case DestinationChanged:
		s.Destination = e.Value

	case StayChanged:
		s.CheckIn, s.CheckOut, s.Guests = e.CheckIn, e.CheckOut, e.Guests

	case PaymentChosen:
		s.PaymentMethod = e.Method

	case SearchSubmitted:
		q := strings.TrimSpace(s.Destination)
		if q == "" {
			s.Searching = false
			s.Filtered = nil
			s.Notice = "Please enter a destination"
			break
		}
		s.Filtered = filterHotels(s.Hotels, q)
		s.Searching = true
		if len(s.Filtered) == 0 {
			s.Notice = "No hotels found"
		}

	case SearchCleared:
		s.Searching = false
		s.Filtered = nil
		s.Destination = ""

	case CatalogChanged:
		s.Hotels = e.Hotels
		s.Loading = e.Loading
		if s.Searching {
			// Re-apply the active filter so the shown list stays current.
			s.Filtered = filterHotels(s.Hotels, strings.TrimSpace(s.Destination))
		}

	case HistoryChanged:
		s.Bookings = e.Bookings

	case BookingAccepted:
		s.Tab = TabHistory
		s.Selected = nil
		s.CheckIn, s.CheckOut, s.Guests = "", "", ""
		s.PaymentMethod = PayCard
		s.Notice = "Booking confirmed!"

	case Noticed:
		s.Notice = e.Message

	case SignedOut:
		s = initialState("")
	}

	return s
}

// filterHotels matches q case-insensitively against city or name.
func filterHotels(hotels []domain.Hotel, q string) []domain.Hotel {
	q = strings.ToLower(q)
	out := make([]domain.Hotel, 0, len(hotels))
	for _, h := range hotels {
		if strings.Contains(strings.ToLower(h.City), q) || strings.Contains(strings.ToLower(h.Name), q) {
			out = append(out, h)
		}
	}
	return out
}
