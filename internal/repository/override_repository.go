package repository

import (
	"context"
	"database/sql"

	"github.com/seatflow/seatflow/internal/model"
)

// OverrideRepo manages per-date seat category overrides.  An override maps
// a (seat, date) pair to the category that replaces the seat's base
// category for that date only; the unique index keeps at most one
// override per pair.
type OverrideRepo struct {
	db *sql.DB
}

// NewOverrideRepo constructs an OverrideRepo with the given DB handle.
func NewOverrideRepo(db *sql.DB) *OverrideRepo {
	return &OverrideRepo{db: db}
}

// Upsert inserts or updates the override for (seatID, date).  Releasing a
// standard seat calls this with the floating category, which is what moves
// the seat into the floating pool for that date.
func (r *OverrideRepo) Upsert(ctx context.Context, seatID uint64, date, category string) error {
	const q = `INSERT INTO seat_overrides (seat_id, date, category) VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE category = VALUES(category)`
	_, err := r.db.ExecContext(ctx, q, seatID, date, category)
	return err
}

// Get returns the override for (seatID, date), or sql.ErrNoRows when the
// seat has no override on that date.
func (r *OverrideRepo) Get(ctx context.Context, seatID uint64, date string) (model.SeatOverride, error) {
	const q = `SELECT id, seat_id, date, category FROM seat_overrides WHERE seat_id = ? AND date = ? LIMIT 1`
	var o model.SeatOverride
	err := r.db.QueryRowContext(ctx, q, seatID, date).Scan(&o.ID, &o.SeatID, &o.Date, &o.Category)
	return o, err
}

// ListByDate returns all overrides for a given date.
func (r *OverrideRepo) ListByDate(ctx context.Context, date string) ([]model.SeatOverride, error) {
	const q = `SELECT id, seat_id, date, category FROM seat_overrides WHERE date = ?`
	rows, err := r.db.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SeatOverride
	for rows.Next() {
		var o model.SeatOverride
		if err := rows.Scan(&o.ID, &o.SeatID, &o.Date, &o.Category); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
