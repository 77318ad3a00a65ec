// Package rules implements the booking-window and eligibility predicates
// that drive seat availability.  Every function is pure: the current time
// is always passed in explicitly so the engine stays deterministic and
// unit-testable.  Dates travel through the API as YYYY-MM-DD strings and
// are parsed here; a malformed date is the only error this package signals.
package rules

import (
	"errors"
	"time"
)

// Seat categories.  "standard" seats are tied to a batch's weekdays and can
// be booked up to two weeks ahead; "floating" seats open up for the next
// business day only, after the daily release time.
const (
	CategoryStandard = "standard"
	CategoryFloating = "floating"
)

// Batch types.  batch1 works on-site Monday through Wednesday, batch2 on
// Thursday and Friday.  A user's batch type is fixed at registration.
const (
	BatchOne = "batch1"
	BatchTwo = "batch2"
)

// DateLayout is the wire format for all calendar dates.
const DateLayout = "2006-01-02"

// floatingReleaseHour is the wall-clock hour from which floating seats for
// the next business day may be booked.
const floatingReleaseHour = 11

// ErrBadDate is returned by ParseDate for anything that is not a valid
// YYYY-MM-DD string.
var ErrBadDate = errors.New("date must be in YYYY-MM-DD format")

// ParseDate parses a strict YYYY-MM-DD string into a time.Time at midnight
// local time.  time.Parse alone would accept the layout but normalize
// out-of-range components, so the round trip check keeps inputs strict.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	if d.Format(DateLayout) != s {
		return time.Time{}, ErrBadDate
	}
	return d, nil
}

// IsBusinessDay reports whether d falls on Monday through Friday.
func IsBusinessDay(d time.Time) bool {
	wd := d.Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

// IsBatchDay reports whether the given date is one of the batch's on-site
// weekdays: Mon-Wed for batch1, Thu-Fri for batch2.  Unknown batch types
// have no batch days.
func IsBatchDay(batchType string, d time.Time) bool {
	wd := d.Weekday()
	switch batchType {
	case BatchOne:
		return wd >= time.Monday && wd <= time.Wednesday
	case BatchTwo:
		return wd == time.Thursday || wd == time.Friday
	}
	return false
}

// AllowedCategory returns the seat category the user may book on the given
// date: standard on the user's batch days, floating on every other weekday.
// Weekends are rejected upstream by IsBusinessDay before this is consulted.
func AllowedCategory(batchType string, d time.Time) string {
	if IsBatchDay(batchType, d) {
		return CategoryStandard
	}
	return CategoryFloating
}

// DayDiff returns the number of calendar days from now to target, ignoring
// time-of-day on both sides.  Positive means target is in the future.
func DayDiff(target, now time.Time) int {
	t := dateOnly(target)
	n := dateOnly(now)
	return int(t.Sub(n).Hours() / 24)
}

// StandardWindowOpen reports whether a standard seat may be booked for the
// target date: today up to fourteen days ahead, inclusive.
func StandardWindowOpen(target, now time.Time) bool {
	diff := DayDiff(target, now)
	return diff >= 0 && diff <= 14
}

// NextBusinessDay returns the first weekday strictly after now, at
// midnight.  A Friday (or weekend) rolls forward to the following Monday.
func NextBusinessDay(now time.Time) time.Time {
	next := dateOnly(now).AddDate(0, 0, 1)
	for !IsBusinessDay(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// FloatingWindowOpen reports whether a floating seat may be booked for the
// target date.  Floating seats are released at 11:00 for the next business
// day only; before the release hour, or for any other date, the window is
// closed.
func FloatingWindowOpen(target, now time.Time) bool {
	if now.Hour() < floatingReleaseHour {
		return false
	}
	return dateOnly(target).Equal(NextBusinessDay(now))
}

// WindowOpen dispatches to the window rule for the given seat category.
// Unknown categories are never bookable.
func WindowOpen(category string, target, now time.Time) bool {
	switch category {
	case CategoryStandard:
		return StandardWindowOpen(target, now)
	case CategoryFloating:
		return FloatingWindowOpen(target, now)
	}
	return false
}

// Cancellable reports whether a booking for the target date may still be
// released: only strictly future dates qualify, never same-day or past.
func Cancellable(target, now time.Time) bool {
	return DayDiff(target, now) > 0
}

// dateOnly reduces t to its civil date at midnight UTC.  Rebasing both
// sides of a comparison onto UTC keeps day arithmetic an exact multiple of
// 24h regardless of the zone or DST transitions of the inputs.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
