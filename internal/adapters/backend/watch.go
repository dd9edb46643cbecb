package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"booknstay/internal/domain"
)

// subscription wraps one watch socket. Release is idempotent: the first
// call closes the connection and silences the read loop, later calls do
// nothing.
type subscription struct {
	conn     *websocket.Conn
	released atomic.Bool
	once     sync.Once
}

func (s *subscription) Release() {
	s.once.Do(func() {
		s.released.Store(true)
		_ = s.conn.Close()
	})
}

func (c *Client) WatchTopHotels(ctx context.Context, limit int, fn func(domain.HotelSnapshot)) (domain.Subscription, error) {
	u := fmt.Sprintf("%s/v1/hotels/watch?limit=%d", c.wsBase(), limit)
	conn, err := c.dial(ctx, u, "")
	if err != nil {
		return nil, err
	}
	sub := &subscription{conn: conn}
	go func() {
		for {
			var payload struct {
				Hotels []domain.Hotel `json:"hotels"`
			}
			if err := conn.ReadJSON(&payload); err != nil {
				if !sub.released.Load() {
					fn(domain.HotelSnapshot{Err: err})
				}
				return
			}
			fn(domain.HotelSnapshot{Hotels: payload.Hotels})
		}
	}()
	return sub, nil
}

func (c *Client) WatchBookings(ctx context.Context, userID string, fn func(domain.BookingSnapshot)) (domain.Subscription, error) {
	tok := c.sessionToken()
	if tok == "" {
		return nil, domain.ErrNotAuthenticated
	}
	conn, err := c.dial(ctx, c.wsBase()+"/v1/bookings/watch", tok)
	if err != nil {
		return nil, err
	}
	sub := &subscription{conn: conn}
	go func() {
		for {
			var payload struct {
				Bookings []domain.Booking `json:"bookings"`
			}
			if err := conn.ReadJSON(&payload); err != nil {
				if !sub.released.Load() {
					fn(domain.BookingSnapshot{Err: err})
				}
				return
			}
			fn(domain.BookingSnapshot{Bookings: payload.Bookings})
		}
	}()
	return sub, nil
}

func (c *Client) dial(ctx context.Context, url, token string) (*websocket.Conn, error) {
	var hdr http.Header
	if token != "" {
		hdr = http.Header{"Authorization": []string{"Bearer " + token}}
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, hdr)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, err
	}
	return conn, nil
}

// wsBase rewrites http(s) to ws(s).
func (c *Client) wsBase() string {
	return "ws" + strings.TrimPrefix(c.base, "http")
}
