package repository

import (
	"context"
	"database/sql"

	"github.com/seatflow/seatflow/internal/model"
)

// SquadRepo provides access to the squads table.  Squads are plain
// grouping metadata with no booking rules attached.
type SquadRepo struct {
	db *sql.DB
}

func NewSquadRepo(db *sql.DB) *SquadRepo { return &SquadRepo{db: db} }

// Create inserts a squad and populates its ID.  Duplicate names surface
// as ErrNameExists.
func (r *SquadRepo) Create(ctx context.Context, s *model.Squad) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO squads (name) VALUES (?)`, s.Name)
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
	s.ID = uint64(id)
	return nil
}

// List returns all squads ordered by id.
func (r *SquadRepo) List(ctx context.Context) ([]model.Squad, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM squads ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Squad
	for rows.Next() {
		var s model.Squad
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteAll removes every squad.  Only the seeding tool calls this.
func (r *SquadRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM squads`)
	return err
}
