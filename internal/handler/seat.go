package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seatflow/seatflow/internal/model"
	"github.com/seatflow/seatflow/internal/repository"
	"github.com/seatflow/seatflow/internal/rules"
	"github.com/seatflow/seatflow/internal/service"
)

// SeatHandler serves the seat list, plain or annotated with availability
// for a requested date.  Now is injected so tests can pin the clock; the
// rule engine itself never reads wall time.
type SeatHandler struct {
	Seats     *repository.SeatRepo
	Bookings  *repository.BookingRepo
	Overrides *repository.OverrideRepo
	Users     *repository.UserRepo
	Now       func() time.Time
}

func NewSeatHandler(s *repository.SeatRepo, b *repository.BookingRepo, o *repository.OverrideRepo, u *repository.UserRepo) *SeatHandler {
	return &SeatHandler{Seats: s, Bookings: b, Overrides: o, Users: u, Now: time.Now}
}

type seatResp struct {
	ID         uint64 `json:"id"`
	SeatNumber uint32 `json:"seatNumber"`
	Category   string `json:"category"`
}

// List handles GET /v1/seats.  Without a date it returns the raw seat
// list.  With ?date=YYYY-MM-DD each seat is annotated with occupancy and
// whether the calling user may book it on that date.
func (h *SeatHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	seats, err := h.Seats.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	dateStr := c.QueryParam("date")
	if dateStr == "" {
		out := make([]seatResp, 0, len(seats))
		for _, s := range seats {
			out = append(out, seatResp{ID: s.ID, SeatNumber: s.SeatNumber, Category: s.Category})
		}
		return c.JSON(http.StatusOK, out)
	}

	date, err := rules.ParseDate(dateStr)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	var (
		occupancies []repository.Occupancy
		overrides   []model.SeatOverride
	)
	// Weekends skip the per-date loads; nothing is bookable anyway.
	if rules.IsBusinessDay(date) {
		if occupancies, err = h.Bookings.OccupanciesByDate(ctx, dateStr); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if overrides, err = h.Overrides.ListByDate(ctx, dateStr); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	statuses := service.ProjectAvailability(seats, occupancies, overrides, u.BatchType, date, h.Now())
	return c.JSON(http.StatusOK, statuses)
}
