// Package repository implements data access over database/sql.  Sentinel
// errors defined here let handlers map storage failures onto HTTP statuses
// without inspecting driver internals: duplicate-key violations become 409
// responses, missing rows become 404s.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrUserExists is returned when an insert collides with the unique
// username or email index.
var ErrUserExists = errors.New("username or email already exists")

// ErrUserNotFound is returned when a user lookup yields no rows.
var ErrUserNotFound = errors.New("user not found")

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// ErrBookingNotFound is returned when a booking lookup yields no rows.
var ErrBookingNotFound = errors.New("booking not found")

// ErrBookingConflict is returned when a booking insert collides with the
// (user,date) or (seat,date) unique index.  This is the only concurrency
// control in the system: the second of two racing writers gets this error.
var ErrBookingConflict = errors.New("seat or user already booked for this date")

// ErrNameExists is returned when a squad or batch insert collides with a
// unique name.
var ErrNameExists = errors.New("name already exists")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).  The string check covers drivers and test doubles that do
// not surface a typed *mysql.MySQLError.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return err != nil && strings.Contains(err.Error(), "1062")
}
