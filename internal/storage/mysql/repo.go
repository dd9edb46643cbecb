package mysql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"booknstay/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel, rating float64) error {
	id := h.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, upsertHotelSQL, id, h.Name, h.Location, h.Price, h.City, rating)
	return err
}

func (r *Repo) TopHotels(ctx context.Context, limit int) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, topHotelsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		var h domain.Hotel
		var location, price, city sql.NullString
		if err := rows.Scan(&h.ID, &h.Name, &location, &price, &city); err != nil {
			return nil, err
		}
		h.Location = location.String
		h.Price = price.String
		h.City = city.String
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) InsertBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	b.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.ID,
		b.UserID,
		b.HotelID,
		b.HotelName,
		b.City,
		b.CheckIn,
		b.CheckOut,
		b.Guests,
		b.Price,
		b.PaymentMethod,
	)
	if err != nil {
		return domain.Booking{}, err
	}
	// read back the database-assigned timestamp
	if err := r.db.QueryRowContext(ctx, bookingCreatedAtSQL, b.ID).Scan(&b.CreatedAt); err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}

func (r *Repo) BookingsByUser(ctx context.Context, userID string, limit int) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, bookingsByUserSQL, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID,
			&b.UserID,
			&b.HotelID,
			&b.HotelName,
			&b.City,
			&b.CheckIn,
			&b.CheckOut,
			&b.Guests,
			&b.Price,
			&b.PaymentMethod,
			&b.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, insertUserSQL, u.ID, u.Email, u.FullName, u.PasswordHash)
	if isDuplicate(err) {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *Repo) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, userByEmailSQL, email)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if me, ok := err.(*mysql.MySQLError); ok {
		return me.Number == 1062
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}
