package client

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Notifier surfaces short user-visible messages (toasts).
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Controller is the screen state machine. Every event, whether a user
// intent or a subscription snapshot, is folded into the state under one
// lock, so the presentation layer always observes a consistent value.
type Controller struct {
	gateway *Gateway
	catalog *CatalogReader
	store   *BookingStore
	notify  Notifier
	log     zerolog.Logger

	mu    sync.Mutex
	state State

	events chan Event
}

func NewController(gw *Gateway, catalog *CatalogReader, store *BookingStore, notify Notifier, log zerolog.Logger) *Controller {
	if notify == nil {
		notify = NotifierFunc(func(string) {})
	}
	return &Controller{
		gateway: gw,
		catalog: catalog,
		store:   store,
		notify:  notify,
		log:     log,
		state:   initialState(""),
		events:  make(chan Event, 64),
	}
}

// State returns a copy of the current screen state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Handle folds one event into the state and surfaces any notice it
// produced. It is synchronous; Run feeds the queue through it.
func (c *Controller) Handle(ev Event) State {
	c.mu.Lock()
	c.state = reduce(c.state, ev)
	st := c.state
	c.mu.Unlock()

	if st.Notice != "" {
		c.notify.Notify(st.Notice)
	}
	return st
}

// Dispatch queues an event for Run. Subscription callbacks use it so
// snapshot application never blocks the transport.
func (c *Controller) Dispatch(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.log.Warn().Msg("event queue full, dropping event")
	}
}

// Run drains the event queue until ctx is done.
func (c *Controller) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.events:
			c.Handle(ev)
		}
	}
}

// SignIn authenticates and, on success, mounts both live subscriptions.
func (c *Controller) SignIn(ctx context.Context, email, password string) error {
	uid, err := c.gateway.SignIn(ctx, email, password)
	if err != nil {
		c.notify.Notify("Login failed: " + err.Error())
		return err
	}
	return c.mount(ctx, uid)
}

// SignUp registers a new account and signs it in.
func (c *Controller) SignUp(ctx context.Context, fullName, email, password string) error {
	uid, err := c.gateway.SignUp(ctx, fullName, email, password)
	if err != nil {
		c.notify.Notify("Signup failed: " + err.Error())
		return err
	}
	c.notify.Notify("Account created!")
	return c.mount(ctx, uid)
}

func (c *Controller) mount(ctx context.Context, userID string) error {
	c.mu.Lock()
	c.state = initialState(userID)
	c.mu.Unlock()

	if err := c.catalog.Start(ctx, func() {
		c.Dispatch(CatalogChanged{Hotels: c.catalog.Hotels(), Loading: c.catalog.Loading()})
	}); err != nil {
		return err
	}
	return c.store.Rebind(ctx, userID, func() {
		c.Dispatch(HistoryChanged{Bookings: c.store.Bookings()})
	})
}

// ConfirmBooking validates the payment form and appends the booking.
// Any blank field stops the write before it starts.
func (c *Controller) ConfirmBooking(ctx context.Context) error {
	c.mu.Lock()
	st := c.state
	c.mu.Unlock()

	if st.Selected == nil {
		c.Handle(Noticed{Message: "Please select a hotel first"})
		return nil
	}
	if blank(st.CheckIn) || blank(st.CheckOut) || blank(st.Guests) {
		c.Handle(Noticed{Message: "Please enter all fields"})
		return nil
	}

	_, err := c.store.Create(ctx, *st.Selected, st.CheckIn, st.CheckOut, st.Guests, st.PaymentMethod)
	if err != nil {
		c.Handle(Noticed{Message: "Booking failed: " + err.Error()})
		return err
	}
	c.Handle(BookingAccepted{})
	return nil
}

// Logout signs out, releases both subscriptions and resets the screen.
func (c *Controller) Logout(ctx context.Context) {
	c.catalog.Release()
	c.store.Release()
	if err := c.gateway.SignOut(ctx); err != nil {
		c.log.Warn().Err(err).Msg("sign out")
	}
	c.Handle(SignedOut{})
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
