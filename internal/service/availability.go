// Package service holds the seat availability projection and the event
// publisher.  The projection is a pure function over rows the handler has
// already loaded, so it can be tested without a database or a clock.
package service

import (
	"time"

	"github.com/seatflow/seatflow/internal/model"
	"github.com/seatflow/seatflow/internal/repository"
	"github.com/seatflow/seatflow/internal/rules"
)

// SeatStatus is one seat annotated for a specific user and date.
// Category is the effective category for that date (override-aware);
// BaseCategory is the seat's fixed category.
type SeatStatus struct {
	ID           uint64 `json:"id"`
	SeatNumber   uint32 `json:"seatNumber"`
	Category     string `json:"category"`
	BaseCategory string `json:"baseCategory"`
	IsBooked     bool   `json:"isBooked"`
	IsAllowed    bool   `json:"isAllowed"`
	BookedBy     string `json:"bookedBy,omitempty"`
}

// ProjectAvailability annotates every seat with occupancy and eligibility
// for the given user and date.  A seat is eligible when its effective
// category matches what the user's batch may book that day and the
// corresponding booking window is open at `now`.  Weekend dates
// short-circuit: nothing is bookable, nothing is shown as occupied.
func ProjectAvailability(seats []model.Seat, occupancies []repository.Occupancy, overrides []model.SeatOverride, batchType string, date, now time.Time) []SeatStatus {
	out := make([]SeatStatus, 0, len(seats))

	if !rules.IsBusinessDay(date) {
		for _, s := range seats {
			out = append(out, SeatStatus{
				ID:           s.ID,
				SeatNumber:   s.SeatNumber,
				Category:     s.Category,
				BaseCategory: s.Category,
			})
		}
		return out
	}

	occupied := make(map[uint64]repository.Occupancy, len(occupancies))
	for _, o := range occupancies {
		occupied[o.SeatID] = o
	}
	overrideFor := make(map[uint64]string, len(overrides))
	for _, o := range overrides {
		overrideFor[o.SeatID] = o.Category
	}

	allowed := rules.AllowedCategory(batchType, date)
	windowOpen := rules.WindowOpen(allowed, date, now)

	for _, s := range seats {
		effective := s.Category
		if cat, ok := overrideFor[s.ID]; ok {
			effective = cat
		}
		st := SeatStatus{
			ID:           s.ID,
			SeatNumber:   s.SeatNumber,
			Category:     effective,
			BaseCategory: s.Category,
			IsAllowed:    effective == allowed && windowOpen,
		}
		if occ, ok := occupied[s.ID]; ok {
			st.IsBooked = true
			st.BookedBy = occ.OccupantName
		}
		out = append(out, st)
	}
	return out
}
