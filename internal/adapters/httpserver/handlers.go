package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"booknstay/internal/adapters/identity"
	"booknstay/internal/app"
	"booknstay/internal/domain"
)

type Handlers struct {
	Catalog      *app.CatalogService
	Bookings     *app.BookingService
	Identity     *identity.Service
	Feed         domain.Feed
	CatalogLimit int
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	if h.CatalogLimit <= 0 {
		h.CatalogLimit = 10
	}
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	// one-shot routes get the request timeout
	s.mux.Group(func(r chi.Router) {
		r.Use(Timeout(15 * time.Second))

		r.Post("/v1/auth/signup", h.signup)
		r.Post("/v1/auth/signin", h.signin)
		r.Get("/v1/hotels", h.listHotels)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Get("/v1/bookings", h.listBookings)
			r.Post("/v1/bookings", h.createBooking)
		})
	})

	// long-lived watch sockets, no timeout
	s.mux.Get("/v1/hotels/watch", h.watchHotels)
	s.mux.With(h.requireAuth).Get("/v1/bookings/watch", h.watchBookings)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// ---- auth ----

type ctxKey int

const userIDKey ctxKey = 0

func userID(r *http.Request) string {
	v, _ := r.Context().Value(userIDKey).(string)
	return v
}

func (h *Handlers) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerToken(r)
		if tok == "" {
			writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		uid, err := h.Identity.UserIDFromToken(tok)
		if err != nil {
			writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, uid)))
	})
}

// bearerToken reads the Authorization header, falling back to the token
// query parameter for websocket clients that cannot set headers.
func bearerToken(r *http.Request) string {
	if ah := r.Header.Get("Authorization"); strings.HasPrefix(ah, "Bearer ") {
		return strings.TrimPrefix(ah, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// ---- auth handlers ----

type signupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "malformed JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "email and password are required")
		return
	}
	res, err := h.Identity.Register(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			writeProblem(w, http.StatusConflict, "Conflict", "email already registered")
			return
		}
		log.Error().Err(err).Msg("signup failed")
		writeProblem(w, http.StatusInternalServerError, "Internal", "signup failed")
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handlers) signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "malformed JSON")
		return
	}
	res, err := h.Identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
			return
		}
		log.Error().Err(err).Msg("signin failed")
		writeProblem(w, http.StatusInternalServerError, "Internal", "signin failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ---- collection handlers ----

type hotelsResponse struct {
	Hotels []domain.Hotel `json:"hotels"`
}

type bookingsResponse struct {
	Bookings []domain.Booking `json:"bookings"`
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	limit := h.CatalogLimit
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 50 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 50")
			return
		}
		limit = l
	}
	hs, err := h.Catalog.TopHotels(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("list hotels failed")
		writeProblem(w, http.StatusInternalServerError, "Internal", "could not list hotels")
		return
	}
	writeJSON(w, http.StatusOK, hotelsResponse{Hotels: hs})
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Bookings.ListByUser(r.Context(), userID(r))
	if err != nil {
		log.Error().Err(err).Msg("list bookings failed")
		writeProblem(w, http.StatusInternalServerError, "Internal", "could not list bookings")
		return
	}
	writeJSON(w, http.StatusOK, bookingsResponse{Bookings: bs})
}

type createBookingRequest struct {
	HotelID       string `json:"hotelId"`
	HotelName     string `json:"hotelName"`
	City          string `json:"city"`
	CheckIn       string `json:"checkIn"`
	CheckOut      string `json:"checkOut"`
	Guests        string `json:"guests"`
	Price         string `json:"price"`
	PaymentMethod string `json:"paymentMethod"`
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "malformed JSON")
		return
	}
	created, err := h.Bookings.Create(r.Context(), domain.Booking{
		UserID:        userID(r),
		HotelID:       req.HotelID,
		HotelName:     req.HotelName,
		City:          req.City,
		CheckIn:       req.CheckIn,
		CheckOut:      req.CheckOut,
		Guests:        req.Guests,
		Price:         req.Price,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			writeProblem(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
			return
		}
		log.Error().Err(err).Msg("create booking failed")
		writeProblem(w, http.StatusBadRequest, "Invalid booking", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
