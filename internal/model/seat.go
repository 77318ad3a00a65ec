package model

import "time"

// Seat describes a numbered desk in the office.  Seats are uniquely
// identified by their seat number and carry a fixed base category:
// "standard" seats belong to the batch-day pool, "floating" seats to the
// next-business-day pool.  The base category only changes via admin
// seeding; per-date exceptions live in seat_overrides.
//
// Fields:
//  ID         – primary key identifier.
//  SeatNumber – human-facing seat number, unique.
//  Category   – base category (standard, floating).
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Seat struct {
	ID         uint64    // seats.id
	SeatNumber uint32    // seats.seat_number
	Category   string    // seats.category
	CreatedAt  time.Time // seats.created_at
	UpdatedAt  time.Time // seats.updated_at
}

// SeatOverride is a per-seat per-date category exception.  One is created
// when a standard seat's booking is released, moving that seat into the
// floating pool for that date only.  Unique per (seat, date).
//
// Fields:
//  ID       – primary key identifier.
//  SeatID   – seat the override applies to.
//  Date     – calendar date in YYYY-MM-DD form.
//  Category – effective category for that date.
type SeatOverride struct {
	ID       uint64 // seat_overrides.id
	SeatID   uint64 // seat_overrides.seat_id
	Date     string // seat_overrides.date
	Category string // seat_overrides.category
}
