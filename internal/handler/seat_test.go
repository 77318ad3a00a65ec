package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatflow/seatflow/internal/repository"
	"github.com/seatflow/seatflow/internal/service"
)

func newSeatHandler(t *testing.T) (*SeatHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewSeatHandler(
		repository.NewSeatRepo(db),
		repository.NewBookingRepo(db),
		repository.NewOverrideRepo(db),
		repository.NewUserRepo(db),
	)
	h.Now = func() time.Time { return fixedNow }
	return h, mock
}

func expectSeatList(mock sqlmock.Sqlmock) {
	rows := sqlmock.NewRows([]string{"id", "seat_number", "category", "created_at", "updated_at"}).
		AddRow(1, 1, "standard", fixedNow, fixedNow).
		AddRow(2, 41, "floating", fixedNow, fixedNow)
	mock.ExpectQuery(`SELECT id, seat_number, category, created_at, updated_at\s+FROM seats`).
		WillReturnRows(rows)
}

func TestListSeatsPlain(t *testing.T) {
	h, mock := newSeatHandler(t)
	expectSeatList(mock)

	c, rec := newJSONContext(http.MethodGet, "/v1/seats", "", 7)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out []seatResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, uint32(1), out[0].SeatNumber)
	assert.Equal(t, "floating", out[1].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSeatsBadDate(t *testing.T) {
	h, mock := newSeatHandler(t)
	expectSeatList(mock)

	c, rec := newJSONContext(http.MethodGet, "/v1/seats?date=2025-6-9", "", 7)
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSeatsWeekend(t *testing.T) {
	h, mock := newSeatHandler(t)
	expectSeatList(mock)
	expectUserRow(mock, 7, "batch1")

	// Saturday: no occupancy or override queries, every seat comes back
	// unbooked and not bookable.
	c, rec := newJSONContext(http.MethodGet, "/v1/seats?date=2025-06-07", "", 7)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out []service.SeatStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	for _, s := range out {
		assert.False(t, s.IsBooked)
		assert.False(t, s.IsAllowed)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSeatsBatchDay(t *testing.T) {
	h, mock := newSeatHandler(t)
	expectSeatList(mock)
	mock.ExpectQuery(`SELECT b.seat_id, b.user_id, u.name`).
		WithArgs("2025-06-09").
		WillReturnRows(sqlmock.NewRows([]string{"seat_id", "user_id", "name"}).AddRow(1, 9, "Sam"))
	mock.ExpectQuery(`SELECT id, seat_id, date, category FROM seat_overrides WHERE date =`).
		WithArgs("2025-06-09").
		WillReturnRows(sqlmock.NewRows([]string{"id", "seat_id", "date", "category"}))
	expectUserRow(mock, 7, "batch1")

	// Next Monday for a batch1 caller: the booked standard seat shows its
	// occupant, the floating seat is out of reach on a batch day.
	c, rec := newJSONContext(http.MethodGet, "/v1/seats?date=2025-06-09", "", 7)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out []service.SeatStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.True(t, out[0].IsBooked)
	assert.Equal(t, "Sam", out[0].BookedBy)
	assert.True(t, out[0].IsAllowed)
	assert.False(t, out[1].IsBooked)
	assert.False(t, out[1].IsAllowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
