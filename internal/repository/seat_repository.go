package repository // repository defines data access for seats

import (
	"context"
	"database/sql"
	"errors"

	"github.com/seatflow/seatflow/internal/model"
)

// SeatRepo provides methods to work with seats in the database.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// Create inserts a single seat record.  On success the seat's ID is populated.
func (r *SeatRepo) Create(ctx context.Context, s *model.Seat) error {
	const q = `INSERT INTO seats (seat_number, category) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.SeatNumber, s.Category)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// CreateBulk inserts multiple seats in a single statement.  Used by the
// seeding tool.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (seat_number, category) VALUES `
	args := make([]interface{}, 0, len(seats)*2)
	for i, seat := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, seat.SeatNumber, seat.Category)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// List retrieves all seats ordered by seat_number.
func (r *SeatRepo) List(ctx context.Context) ([]model.Seat, error) {
	const q = `SELECT id, seat_number, category, created_at, updated_at
	           FROM seats ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.SeatNumber, &s.Category, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a seat by its id.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT id, seat_number, category, created_at, updated_at FROM seats WHERE id = ?`
	var s model.Seat
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.SeatNumber, &s.Category, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// DeleteAll removes every seat.  Only the seeding tool calls this.
func (r *SeatRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM seats`)
	return err
}
