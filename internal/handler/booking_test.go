package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/artyokhov/seatbook-bot/internal/calendar"
	"github.com/artyokhov/seatbook-bot/internal/repository"
	"github.com/artyokhov/seatbook-bot/internal/service"
)

func newBookingHandler(t *testing.T) (*BookingHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	cal, err := calendar.NewWithClock("Europe/Moscow", 14, func() time.Time {
		return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	})
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	repo := repository.NewBookingRepo(db)
	return NewBookingHandler(
		service.NewAvailabilityService(repo, cal, []string{"A1", "A2"}),
		service.NewBookingService(repo, cal),
		cal,
	), mock
}

func TestFreeSeatsRejectsBadDate(t *testing.T) {
	h, _ := newBookingHandler(t)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("date")
	c.SetParamValues("12.06.2025")

	assert.NoError(t, h.FreeSeats(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFreeSeatsFullDateConflicts(t *testing.T) {
	h, mock := newBookingHandler(t)
	mock.ExpectQuery("SELECT seat_label FROM bookings").
		WithArgs("2025-06-12").
		WillReturnRows(sqlmock.NewRows([]string{"seat_label"}).AddRow("A1").AddRow("A2"))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("date")
	c.SetParamValues("2025-06-12")

	assert.NoError(t, h.FreeSeats(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFreeSeatsListsRemainder(t *testing.T) {
	h, mock := newBookingHandler(t)
	mock.ExpectQuery("SELECT seat_label FROM bookings").
		WithArgs("2025-06-12").
		WillReturnRows(sqlmock.NewRows([]string{"seat_label"}).AddRow("A1"))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("date")
	c.SetParamValues("2025-06-12")

	assert.NoError(t, h.FreeSeats(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"seats":["A2"]}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsInvalidKind(t *testing.T) {
	h, mock := newBookingHandler(t)

	e := echo.New()
	body := `{"date":"2025-06-12","seat_label":"A1","kind":"weekly"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("employee_id", uint64(5))

	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithoutIdentityIsUnauthorized(t *testing.T) {
	h, _ := newBookingHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteRejectsBadID(t *testing.T) {
	h, _ := newBookingHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("employee_id", uint64(5))
	c.SetParamNames("id")
	c.SetParamValues("abc")

	assert.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
