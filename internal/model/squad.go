package model

import "time"

// Squad is grouping metadata for users.  It carries no booking rules.
type Squad struct {
	ID        uint64    // squads.id
	Name      string    // squads.name
	CreatedAt time.Time // squads.created_at
	UpdatedAt time.Time // squads.updated_at
}

// Batch describes a cohort's schedule: the weekday indexes (1=Monday) on
// which its members book standard seats, and the week label used by the
// frontend.  The rule engine hardcodes the two known cohorts; this table
// exists for display and administration.
type Batch struct {
	ID        uint64    // batches.id
	Name      string    // batches.name
	Days      []int     // batches.days (JSON encoded weekday list)
	Week      int       // batches.week
	CreatedAt time.Time // batches.created_at
	UpdatedAt time.Time // batches.updated_at
}
