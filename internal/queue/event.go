// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds carried on the booking.events queue.
const (
	KindBookingCreated   = "booking.created"
	KindBookingCancelled = "booking.cancelled"
)

// BookingEvent is published after a booking is created or released.  It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type BookingEvent struct {
	Kind       string `json:"kind"`
	BookingID  uint64 `json:"booking_id"`
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username"`
	SeatID     uint64 `json:"seat_id"`
	SeatNumber uint32 `json:"seat_number"`
	Category   string `json:"category"`
	Date       string `json:"date"`
	OccurredAt string `json:"occurred_at"`
}
