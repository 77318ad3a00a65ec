package model

import "time"

// Booking links one user to one seat for one calendar date.  The database
// enforces at most one booking per user per date and at most one occupant
// per seat per date with unique compound indexes; concurrent double
// bookings surface as duplicate-key errors, never as application locks.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user holding the booking.
//  SeatID    – seat being occupied.
//  Date      – calendar date in YYYY-MM-DD form.
//  CreatedAt – creation timestamp.
type Booking struct {
	ID        uint64    // bookings.id
	UserID    uint64    // bookings.user_id
	SeatID    uint64    // bookings.seat_id
	Date      string    // bookings.date
	CreatedAt time.Time // bookings.created_at
}
