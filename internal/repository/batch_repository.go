package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/seatflow/seatflow/internal/model"
)

// BatchRepo provides access to the batches table.  The weekday list is
// stored as a JSON array in a varchar column; MySQL never inspects it, the
// rule engine carries its own fixed schedule.
type BatchRepo struct {
	db *sql.DB
}

func NewBatchRepo(db *sql.DB) *BatchRepo { return &BatchRepo{db: db} }

// Create inserts a batch and populates its ID.  Duplicate names surface
// as ErrNameExists.
func (r *BatchRepo) Create(ctx context.Context, b *model.Batch) error {
	days, err := json.Marshal(b.Days)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO batches (name, days, week) VALUES (?, ?, ?)`,
		b.Name, string(days), b.Week)
	if err != nil {
		if isDuplicate(err) {
			return ErrNameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// List returns all batches ordered by id.
func (r *BatchRepo) List(ctx context.Context) ([]model.Batch, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, days, week, created_at, updated_at FROM batches ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Batch
	for rows.Next() {
		var (
			b    model.Batch
			days string
		)
		if err := rows.Scan(&b.ID, &b.Name, &days, &b.Week, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(days), &b.Days); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// DeleteAll removes every batch.  Only the seeding tool calls this.
func (r *BatchRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM batches`)
	return err
}
