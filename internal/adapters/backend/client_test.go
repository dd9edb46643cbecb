package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"booknstay/internal/adapters/backend"
	"booknstay/internal/domain"
)

func TestSignIn_SuccessAndFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/auth/signin" {
			http.NotFound(w, r)
			return
		}
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "hunter2" {
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"userId": "u1", "token": "tok"})
	}))
	defer ts.Close()

	cl := backend.New(ts.URL, 100)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	uid, err := cl.SignIn(ctx, "ana@example.com", "hunter2")
	if err != nil || uid != "u1" {
		t.Fatalf("SignIn: uid=%s err=%v", uid, err)
	}

	_, err = cl.SignIn(ctx, "ana@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCreateBooking_RequiresSession(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer ts.Close()

	cl := backend.New(ts.URL, 100)
	_, err := cl.CreateBooking(context.Background(), domain.Booking{HotelID: "h1"})
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatal("no HTTP call expected without a session")
	}
}

func TestCreateBooking_SingleAttempt(t *testing.T) {
	var posts int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/signin":
			_ = json.NewEncoder(w).Encode(map[string]string{"userId": "u1", "token": "tok"})
		case "/v1/bookings":
			atomic.AddInt32(&posts, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer ts.Close()

	cl := backend.New(ts.URL, 100)
	ctx := context.Background()
	if _, err := cl.SignIn(ctx, "a@b.c", "x"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	_, err := cl.CreateBooking(ctx, domain.Booking{HotelID: "h1", HotelName: "X"})
	if err == nil {
		t.Fatal("expected error")
	}
	// the append is never replayed on failure
	if got := atomic.LoadInt32(&posts); got != 1 {
		t.Fatalf("expected exactly 1 POST, got %d", got)
	}
}

var testUpgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func TestWatchTopHotels_SnapshotsAndRelease(t *testing.T) {
	send := make(chan []domain.Hotel, 2)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for hs := range send {
			if err := conn.WriteJSON(map[string]any{"hotels": hs}); err != nil {
				return
			}
		}
		// keep the socket open until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer ts.Close()

	send <- []domain.Hotel{{ID: "h1", Name: "City Hotel", City: "London", Price: "£100"}}
	close(send)

	cl := backend.New(ts.URL, 100)
	snaps := make(chan domain.HotelSnapshot, 4)
	sub, err := cl.WatchTopHotels(context.Background(), 10, func(s domain.HotelSnapshot) { snaps <- s })
	if err != nil {
		t.Fatalf("WatchTopHotels: %v", err)
	}

	select {
	case s := <-snaps:
		if s.Err != nil || len(s.Hotels) != 1 || s.Hotels[0].ID != "h1" {
			t.Fatalf("unexpected snapshot: %+v", s)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot received")
	}

	// release twice: safe, and no error snapshot is delivered afterwards
	sub.Release()
	sub.Release()
	select {
	case s := <-snaps:
		t.Fatalf("unexpected delivery after release: %+v", s)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatchBookings_RequiresSession(t *testing.T) {
	cl := backend.New("http://localhost:0", 100)
	_, err := cl.WatchBookings(context.Background(), "u1", func(domain.BookingSnapshot) {})
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}
