package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/seatflow/seatflow/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  There is
// deliberately no locking here: the unique indexes on (user_id, date) and
// (seat_id, date) are the arbiter when two requests race for the same
// seat, and the loser receives ErrBookingConflict.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookingDetail is a booking joined with its seat for list responses.
type BookingDetail struct {
	ID           uint64    `json:"id"`
	SeatID       uint64    `json:"seatId"`
	SeatNumber   uint32    `json:"seatNumber"`
	SeatCategory string    `json:"seatCategory"`
	Date         string    `json:"date"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Occupancy pairs a seat with the user occupying it on a date.  Used by
// the availability projection to flag occupied seats and show who holds
// them.
type Occupancy struct {
	SeatID       uint64
	UserID       uint64
	OccupantName string
}

// Create inserts a booking and returns it with ID and created_at
// populated.  A duplicate-key error on either unique index is surfaced as
// ErrBookingConflict.
func (r *BookingRepo) Create(ctx context.Context, userID, seatID uint64, date string) (model.Booking, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (user_id, seat_id, date) VALUES (?, ?, ?)`,
		userID, seatID, date)
	if err != nil {
		if isDuplicate(err) {
			return model.Booking{}, ErrBookingConflict
		}
		return model.Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Booking{}, err
	}

	b := model.Booking{ID: uint64(id), UserID: userID, SeatID: seatID, Date: date}
	// Read back created_at so the response carries the DB timestamp.
	err = r.db.QueryRowContext(ctx,
		`SELECT created_at FROM bookings WHERE id = ?`, b.ID).Scan(&b.CreatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

// GetByIDAndUser fetches a booking only when it belongs to the given user.
// Someone else's booking is indistinguishable from a missing one.
func (r *BookingRepo) GetByIDAndUser(ctx context.Context, id, userID uint64) (model.Booking, error) {
	var b model.Booking
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, seat_id, date, created_at FROM bookings WHERE id = ? AND user_id = ? LIMIT 1`,
		id, userID).Scan(&b.ID, &b.UserID, &b.SeatID, &b.Date, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// Delete removes a booking by id.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// ListByUser returns the user's bookings joined with seat details, newest
// first.  An empty date returns all of the user's bookings.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64, date string) ([]BookingDetail, error) {
	q := `SELECT b.id, b.seat_id, s.seat_number, s.category, b.date, b.created_at
	      FROM bookings b
	      JOIN seats s ON s.id = b.seat_id
	      WHERE b.user_id = ?`
	args := []interface{}{userID}
	if date != "" {
		q += ` AND b.date = ?`
		args = append(args, date)
	}
	q += ` ORDER BY b.created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookingDetail
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(&d.ID, &d.SeatID, &d.SeatNumber, &d.SeatCategory, &d.Date, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// OccupanciesByDate returns which seats are taken on a date and by whom.
func (r *BookingRepo) OccupanciesByDate(ctx context.Context, date string) ([]Occupancy, error) {
	const q = `SELECT b.seat_id, b.user_id, u.name
	           FROM bookings b
	           JOIN users u ON u.id = b.user_id
	           WHERE b.date = ?`
	rows, err := r.db.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Occupancy
	for rows.Next() {
		var o Occupancy
		if err := rows.Scan(&o.SeatID, &o.UserID, &o.OccupantName); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
