package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seatflow/seatflow/internal/model"
	"github.com/seatflow/seatflow/internal/queue"
	"github.com/seatflow/seatflow/internal/repository"
	"github.com/seatflow/seatflow/internal/rules"
	"github.com/seatflow/seatflow/internal/service"
)

// BookingHandler implements the booking lifecycle: list, create, release.
// Creation re-validates every rule server side and then lets the unique
// indexes arbitrate races; there are no locks and no retries.  Now is
// injected for deterministic tests.
type BookingHandler struct {
	Bookings  *repository.BookingRepo
	Seats     *repository.SeatRepo
	Overrides *repository.OverrideRepo
	Users     *repository.UserRepo
	Now       func() time.Time

	// Publish is called after a successful transition; swapped out in
	// tests.  Defaults to the RabbitMQ publisher.
	Publish func(ctx context.Context, ev queue.BookingEvent) error
}

func NewBookingHandler(b *repository.BookingRepo, s *repository.SeatRepo, o *repository.OverrideRepo, u *repository.UserRepo) *BookingHandler {
	return &BookingHandler{
		Bookings:  b,
		Seats:     s,
		Overrides: o,
		Users:     u,
		Now:       time.Now,
		Publish:   service.PublishBookingEvent,
	}
}

type createBookingReq struct {
	SeatID uint64 `json:"seatId"`
	Date   string `json:"date"`
}

type bookingResp struct {
	ID         uint64    `json:"id"`
	SeatID     uint64    `json:"seatId"`
	SeatNumber uint32    `json:"seatNumber"`
	Date       string    `json:"date"`
	CreatedAt  time.Time `json:"createdAt"`
}

// List handles GET /v1/bookings.  It returns only the caller's bookings,
// optionally filtered by ?date=, newest first.
func (h *BookingHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	date := c.QueryParam("date")
	if date != "" {
		if _, err := rules.ParseDate(date); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	list, err := h.Bookings.ListByUser(ctx, userID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if list == nil {
		list = []repository.BookingDetail{}
	}
	return c.JSON(http.StatusOK, list)
}

// Create handles POST /v1/bookings.  Preconditions are checked in order:
// parseable business-day date, existing user and seat, effective category
// matching what the batch may book that day, and the base category's
// window being open.  The insert itself resolves (user,date)/(seat,date)
// races via the unique indexes.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SeatID == 0 || req.Date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seatId and date are required"})
	}

	date, err := rules.ParseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if !rules.IsBusinessDay(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no booking allowed on weekends"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	seat, err := h.Seats.GetByID(ctx, req.SeatID)
	if err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	// Effective category for that date honors a release override.
	effective := seat.Category
	if o, err := h.Overrides.Get(ctx, seat.ID, req.Date); err == nil {
		effective = o.Category
	} else if !errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	now := h.Now()
	allowed := rules.AllowedCategory(u.BatchType, date)
	if effective != allowed {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat not allowed for " + req.Date})
	}
	// The window rule follows the seat's base category: a released
	// standard seat is picked up under the floating seat's own window.
	if !rules.WindowOpen(seat.Category, date, now) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking window is closed"})
	}

	b, err := h.Bookings.Create(ctx, userID, seat.ID, req.Date)
	if err != nil {
		if errors.Is(err, repository.ErrBookingConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat or user already booked for this date"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}

	h.publishEvent(queue.KindBookingCreated, b, u, seat)

	return c.JSON(http.StatusCreated, bookingResp{
		ID:         b.ID,
		SeatID:     seat.ID,
		SeatNumber: seat.SeatNumber,
		Date:       b.Date,
		CreatedAt:  b.CreatedAt,
	})
}

// Delete handles DELETE /v1/bookings/:id.  Only future bookings owned by
// the caller can be released.  Releasing a standard seat moves it into
// the floating pool for that date via an override; the override never
// reverts automatically.
func (h *BookingHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	b, err := h.Bookings.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	date, err := rules.ParseDate(b.Date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stored date invalid"})
	}
	if !rules.Cancellable(date, h.Now()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot cancel on or after booking date"})
	}

	seat, err := h.Seats.GetByID(ctx, b.SeatID)
	if err != nil && !errors.Is(err, repository.ErrSeatNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if seat != nil && seat.Category == rules.CategoryStandard {
		if err := h.Overrides.Upsert(ctx, seat.ID, b.Date, rules.CategoryFloating); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "release seat failed"})
		}
	}

	if err := h.Bookings.Delete(ctx, b.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete booking failed"})
	}

	if seat != nil {
		u, uerr := h.Users.GetByID(ctx, userID)
		if uerr == nil {
			h.publishEvent(queue.KindBookingCancelled, b, u, seat)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "booking cancelled"})
}

// publishEvent fires a booking event in the background.  Failures are the
// publisher's problem; the booking itself has already committed.
func (h *BookingHandler) publishEvent(kind string, b model.Booking, u model.User, seat *model.Seat) {
	if h.Publish == nil {
		return
	}
	ev := queue.BookingEvent{
		Kind:       kind,
		BookingID:  b.ID,
		UserID:     u.ID,
		Username:   u.Username,
		SeatID:     seat.ID,
		SeatNumber: seat.SeatNumber,
		Category:   seat.Category,
		Date:       b.Date,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()
		_ = h.Publish(ctx, ev)
	}()
}
