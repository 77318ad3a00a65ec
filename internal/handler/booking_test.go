package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatflow/seatflow/internal/queue"
	"github.com/seatflow/seatflow/internal/repository"
)

// fixedNow pins the clock to Monday 2025-06-02 09:00 UTC for every
// booking test so window checks are reproducible.
var fixedNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

// eventSink records published events instead of touching RabbitMQ.
type eventSink struct {
	mu     sync.Mutex
	events []queue.BookingEvent
	done   chan struct{}
}

func newEventSink() *eventSink {
	return &eventSink{done: make(chan struct{}, 8)}
}

func (s *eventSink) publish(_ context.Context, ev queue.BookingEvent) error {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}

func (s *eventSink) wait(t *testing.T) queue.BookingEvent {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[len(s.events)-1]
}

func newBookingHandler(t *testing.T) (*BookingHandler, sqlmock.Sqlmock, *eventSink) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewSeatRepo(db),
		repository.NewOverrideRepo(db),
		repository.NewUserRepo(db),
	)
	h.Now = func() time.Time { return fixedNow }
	sink := newEventSink()
	h.Publish = sink.publish
	return h, mock, sink
}

func newJSONContext(method, target, body string, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	return c, rec
}

func expectUserRow(mock sqlmock.Sqlmock, id uint64, batchType string) {
	rows := sqlmock.NewRows([]string{"id", "name", "username", "email", "password_hash", "batch_type", "created_at", "updated_at"}).
		AddRow(id, "User", "user", "user@seatflow.local", "hash", batchType, fixedNow, fixedNow)
	mock.ExpectQuery(`SELECT id,name,username,email,password_hash,batch_type,created_at,updated_at FROM users WHERE id=`).
		WithArgs(id).WillReturnRows(rows)
}

func expectSeatRow(mock sqlmock.Sqlmock, id uint64, number uint32, category string) {
	rows := sqlmock.NewRows([]string{"id", "seat_number", "category", "created_at", "updated_at"}).
		AddRow(id, number, category, fixedNow, fixedNow)
	mock.ExpectQuery(`SELECT id, seat_number, category, created_at, updated_at FROM seats WHERE id =`).
		WithArgs(id).WillReturnRows(rows)
}

func expectNoOverride(mock sqlmock.Sqlmock, seatID uint64, date string) {
	mock.ExpectQuery(`SELECT id, seat_id, date, category FROM seat_overrides`).
		WithArgs(seatID, date).
		WillReturnRows(sqlmock.NewRows([]string{"id", "seat_id", "date", "category"}))
}

func TestCreateBookingValidation(t *testing.T) {
	h, _, _ := newBookingHandler(t)

	t.Run("missing fields", func(t *testing.T) {
		c, rec := newJSONContext(http.MethodPost, "/v1/bookings", `{"date":"2025-06-09"}`, 7)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed date", func(t *testing.T) {
		c, rec := newJSONContext(http.MethodPost, "/v1/bookings", `{"seatId":5,"date":"09-06-2025"}`, 7)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("weekend rejected", func(t *testing.T) {
		c, rec := newJSONContext(http.MethodPost, "/v1/bookings", `{"seatId":5,"date":"2025-06-07"}`, 7)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "weekend")
	})
}

func TestCreateBookingSuccess(t *testing.T) {
	h, mock, sink := newBookingHandler(t)

	// batch1 user books a standard seat for next Monday: in the 14-day
	// window and on a batch day.
	expectUserRow(mock, 7, "batch1")
	expectSeatRow(mock, 5, 5, "standard")
	expectNoOverride(mock, 5, "2025-06-09")
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(uint64(7), uint64(5), "2025-06-09").
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectQuery(`SELECT created_at FROM bookings`).
		WithArgs(uint64(31)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(fixedNow))

	c, rec := newJSONContext(http.MethodPost, "/v1/bookings", `{"seatId":5,"date":"2025-06-09"}`, 7)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp bookingResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(31), resp.ID)
	assert.Equal(t, uint64(5), resp.SeatID)
	assert.Equal(t, "2025-06-09", resp.Date)

	ev := sink.wait(t)
	assert.Equal(t, queue.KindBookingCreated, ev.Kind)
	assert.Equal(t, uint64(31), ev.BookingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingCategoryMismatch(t *testing.T) {
	h, mock, _ := newBookingHandler(t)

	// Monday is a batch1 day, so a batch2 user may only book floating
	// seats; a standard seat is rejected before any insert.
	expectUserRow(mock, 7, "batch2")
	expectSeatRow(mock, 5, 5, "standard")
	expectNoOverride(mock, 5, "2025-06-09")

	c, rec := newJSONContext(http.MethodPost, "/v1/bookings", `{"seatId":5,"date":"2025-06-09"}`, 7)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not allowed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingWindowClosed(t *testing.T) {
	h, mock, _ := newBookingHandler(t)

	// 2025-06-23 is a Monday 21 days out: batch day, but outside the
	// 14-day standard window.
	expectUserRow(mock, 7, "batch1")
	expectSeatRow(mock, 5, 5, "standard")
	expectNoOverride(mock, 5, "2025-06-23")

	c, rec := newJSONContext(http.MethodPost, "/v1/bookings", `{"seatId":5,"date":"2025-06-23"}`, 7)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "window")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingConflict(t *testing.T) {
	h, mock, _ := newBookingHandler(t)

	expectUserRow(mock, 7, "batch1")
	expectSeatRow(mock, 5, 5, "standard")
	expectNoOverride(mock, 5, "2025-06-09")
	mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	c, rec := newJSONContext(http.MethodPost, "/v1/bookings", `{"seatId":5,"date":"2025-06-09"}`, 7)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingUnknownSeat(t *testing.T) {
	h, mock, _ := newBookingHandler(t)

	expectUserRow(mock, 7, "batch1")
	mock.ExpectQuery(`SELECT id, seat_number, category, created_at, updated_at FROM seats WHERE id =`).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "seat_number", "category", "created_at", "updated_at"}))

	c, rec := newJSONContext(http.MethodPost, "/v1/bookings", `{"seatId":99,"date":"2025-06-09"}`, 7)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectOwnedBooking(mock sqlmock.Sqlmock, id, userID, seatID uint64, date string) {
	rows := sqlmock.NewRows([]string{"id", "user_id", "seat_id", "date", "created_at"}).
		AddRow(id, userID, seatID, date, fixedNow)
	mock.ExpectQuery(`SELECT id, user_id, seat_id, date, created_at FROM bookings`).
		WithArgs(id, userID).WillReturnRows(rows)
}

func TestDeleteBookingReleasesStandardSeat(t *testing.T) {
	h, mock, sink := newBookingHandler(t)

	expectOwnedBooking(mock, 31, 7, 5, "2025-06-09")
	expectSeatRow(mock, 5, 5, "standard")
	// Standard seat: a floating override is upserted before the delete.
	mock.ExpectExec(`INSERT INTO seat_overrides`).
		WithArgs(uint64(5), "2025-06-09", "floating").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`DELETE FROM bookings`).
		WithArgs(uint64(31)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectUserRow(mock, 7, "batch1")

	c, rec := newJSONContext(http.MethodDelete, "/v1/bookings/31", "", 7)
	c.SetParamNames("id")
	c.SetParamValues("31")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	ev := sink.wait(t)
	assert.Equal(t, queue.KindBookingCancelled, ev.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBookingFloatingSeatSkipsOverride(t *testing.T) {
	h, mock, _ := newBookingHandler(t)

	expectOwnedBooking(mock, 31, 7, 44, "2025-06-03")
	expectSeatRow(mock, 44, 44, "floating")
	mock.ExpectExec(`DELETE FROM bookings`).
		WithArgs(uint64(31)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectUserRow(mock, 7, "batch1")

	c, rec := newJSONContext(http.MethodDelete, "/v1/bookings/31", "", 7)
	c.SetParamNames("id")
	c.SetParamValues("31")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBookingSameDayRejected(t *testing.T) {
	h, mock, _ := newBookingHandler(t)

	expectOwnedBooking(mock, 31, 7, 5, "2025-06-02") // today
	c, rec := newJSONContext(http.MethodDelete, "/v1/bookings/31", "", 7)
	c.SetParamNames("id")
	c.SetParamValues("31")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBookingNotOwner(t *testing.T) {
	h, mock, _ := newBookingHandler(t)

	mock.ExpectQuery(`SELECT id, user_id, seat_id, date, created_at FROM bookings`).
		WithArgs(uint64(31), uint64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "seat_id", "date", "created_at"}))

	c, rec := newJSONContext(http.MethodDelete, "/v1/bookings/31", "", 8)
	c.SetParamNames("id")
	c.SetParamValues("31")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookingsBadDate(t *testing.T) {
	h, _, _ := newBookingHandler(t)

	c, rec := newJSONContext(http.MethodGet, "/v1/bookings?date=junk", "", 7)
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
