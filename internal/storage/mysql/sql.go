package mysql

const upsertHotelSQL = `
INSERT INTO hotels
  (id, name, location, price, city, rating)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name       = VALUES(name),
  location   = VALUES(location),
  price      = VALUES(price),
  city       = VALUES(city),
  rating     = VALUES(rating),
  updated_at = CURRENT_TIMESTAMP
`

// Top-N catalog page; the app never paginates past the first page.
const topHotelsSQL = `
SELECT id, name, location, price, city
FROM hotels
ORDER BY rating DESC, id ASC
LIMIT ?
`

// created_at is assigned by the database, never by the caller. That is the
// "server timestamp" the booking history sorts on.
const insertBookingSQL = `
INSERT INTO bookings
  (id, user_id, hotel_id, hotel_name, city, check_in, check_out, guests, price, payment_method)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const bookingCreatedAtSQL = `SELECT created_at FROM bookings WHERE id = ?`

const bookingsByUserSQL = `
SELECT id, user_id, hotel_id, hotel_name, city, check_in, check_out, guests, price, payment_method, created_at
FROM bookings
WHERE user_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`

const insertUserSQL = `
INSERT INTO users (id, email, full_name, password_hash)
VALUES (?, ?, ?, ?)
`

const userByEmailSQL = `
SELECT id, email, full_name, password_hash, created_at
FROM users
WHERE email = ?
`
