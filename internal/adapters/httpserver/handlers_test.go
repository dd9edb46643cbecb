package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	httpserver "booknstay/internal/adapters/httpserver"
	"booknstay/internal/adapters/identity"
	"booknstay/internal/app"
	"booknstay/internal/domain"
)

// ---- fakes ----

type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]domain.User
}

func (f *memUsers) CreateUser(ctx context.Context, u domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byEmail == nil {
		f.byEmail = map[string]domain.User{}
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrEmailTaken
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *memUsers) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

type memHotels struct {
	mu     sync.Mutex
	hotels []domain.Hotel
}

func (f *memHotels) UpsertHotel(ctx context.Context, h domain.Hotel, rating float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hotels = append(f.hotels, h)
	return nil
}

func (f *memHotels) TopHotels(ctx context.Context, limit int) ([]domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]domain.Hotel(nil), f.hotels...)
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type memBookings struct {
	mu   sync.Mutex
	rows []domain.Booking
	seq  int
}

func (f *memBookings) InsertBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	b.ID = "bk-" + string(rune('0'+f.seq))
	b.CreatedAt = time.Now()
	f.rows = append([]domain.Booking{b}, f.rows...) // newest first
	return b, nil
}

func (f *memBookings) BookingsByUser(ctx context.Context, userID string, limit int) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Booking
	for _, b := range f.rows {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

type nopCache struct{}

func (nopCache) Get(ctx context.Context, key string, dst any) (bool, error) { return false, nil }
func (nopCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	return nil
}
func (nopCache) Del(ctx context.Context, key string) error { return nil }

// chanFeed delivers publishes to every watcher of the same channel.
type chanFeed struct {
	mu       sync.Mutex
	watchers map[string][]chan struct{}
}

func (f *chanFeed) Publish(ctx context.Context, channel string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.watchers[channel] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

func (f *chanFeed) Watch(ctx context.Context, channel string) (<-chan struct{}, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watchers == nil {
		f.watchers = map[string][]chan struct{}{}
	}
	ch := make(chan struct{}, 1)
	f.watchers[channel] = append(f.watchers[channel], ch)
	return ch, func() {}
}

// ---- harness ----

type harness struct {
	ts     *httptest.Server
	hotels *memHotels
	feed   *chanFeed
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	hotels := &memHotels{}
	feed := &chanFeed{}
	ident := identity.NewService(&memUsers{}, identity.NewTokenService("test-secret", time.Hour))

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{
		Catalog:      app.NewCatalogService(hotels, nopCache{}, feed, time.Minute),
		Bookings:     app.NewBookingService(&memBookings{}, feed),
		Identity:     ident,
		Feed:         feed,
		CatalogLimit: 10,
	})

	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return &harness{ts: ts, hotels: hotels, feed: feed}
}

func (h *harness) postJSON(t *testing.T, path string, body any, token string) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, h.ts.URL+path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func (h *harness) signup(t *testing.T) identity.AuthResult {
	t.Helper()
	resp := h.postJSON(t, "/v1/auth/signup", map[string]string{
		"fullName": "Ana Test", "email": "ana@example.com", "password": "hunter2",
	}, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status: %d", resp.StatusCode)
	}
	var res identity.AuthResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode signup: %v", err)
	}
	return res
}

// ---- tests ----

func TestSignupAndSignin(t *testing.T) {
	h := newHarness(t)
	res := h.signup(t)
	if res.UserID == "" || res.Token == "" {
		t.Fatalf("unexpected signup result: %+v", res)
	}

	resp := h.postJSON(t, "/v1/auth/signin", map[string]string{
		"email": "ana@example.com", "password": "hunter2",
	}, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signin status: %d", resp.StatusCode)
	}

	bad := h.postJSON(t, "/v1/auth/signin", map[string]string{
		"email": "ana@example.com", "password": "wrong",
	}, "")
	defer bad.Body.Close()
	if bad.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad signin status: %d", bad.StatusCode)
	}
	if ct := bad.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("expected problem+json, got %s", ct)
	}
}

func TestBookings_RequireAuth(t *testing.T) {
	h := newHarness(t)
	resp, err := http.Get(h.ts.URL + "/v1/bookings")
	if err != nil {
		t.Fatalf("GET bookings: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestCreateBookingThenList(t *testing.T) {
	h := newHarness(t)
	auth := h.signup(t)

	create := h.postJSON(t, "/v1/bookings", map[string]string{
		"hotelId": "h1", "hotelName": "City Hotel", "city": "London",
		"checkIn": "01/02/2026", "checkOut": "03/02/2026", "guests": "2 adults",
		"price": "£100", "paymentMethod": "Card",
	}, auth.Token)
	defer create.Body.Close()
	if create.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %d", create.StatusCode)
	}
	var created domain.Booking
	if err := json.NewDecoder(create.Body).Decode(&created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" || created.UserID != auth.UserID || created.CreatedAt.IsZero() {
		t.Fatalf("unexpected created booking: %+v", created)
	}

	req, _ := http.NewRequest(http.MethodGet, h.ts.URL+"/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET bookings: %v", err)
	}
	defer resp.Body.Close()
	var out struct {
		Bookings []domain.Booking `json:"bookings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode bookings: %v", err)
	}
	if len(out.Bookings) != 1 || out.Bookings[0].HotelName != "City Hotel" {
		t.Fatalf("unexpected bookings: %+v", out.Bookings)
	}
}

func TestWatchHotels_InitialAndUpdateSnapshots(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_ = h.hotels.UpsertHotel(ctx, domain.Hotel{ID: "h1", Name: "City Hotel", City: "London"}, 4.0)

	wsURL := strings.Replace(h.ts.URL, "http", "ws", 1) + "/v1/hotels/watch"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var snap struct {
		Hotels []domain.Hotel `json:"hotels"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("initial snapshot: %v", err)
	}
	if len(snap.Hotels) != 1 || snap.Hotels[0].ID != "h1" {
		t.Fatalf("unexpected initial snapshot: %+v", snap.Hotels)
	}

	// a write ticks the feed, which pushes a fresh full snapshot
	_ = h.hotels.UpsertHotel(ctx, domain.Hotel{ID: "h2", Name: "Grand Palace", City: "Paris"}, 4.9)
	_ = h.feed.Publish(ctx, "docs:hotels")

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("update snapshot: %v", err)
	}
	if len(snap.Hotels) != 2 {
		t.Fatalf("expected replacement snapshot with 2 hotels, got %+v", snap.Hotels)
	}
}
