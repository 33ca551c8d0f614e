package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/artyokhov/seatbook-bot/internal/calendar"
	"github.com/artyokhov/seatbook-bot/internal/repository"
)

// testCalendar returns a 14-day window anchored at 2025-06-10 in the
// office timezone.
func testCalendar(t *testing.T) *calendar.Calendar {
	t.Helper()
	fixed := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	cal, err := calendar.NewWithClock("Europe/Moscow", 14, func() time.Time { return fixed })
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	return cal
}

func newMockRepo(t *testing.T) (*repository.BookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return repository.NewBookingRepo(db), mock
}

func dateSet(dates []time.Time) map[string]struct{} {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d.Format(calendar.ISODate)] = struct{}{}
	}
	return set
}

func TestPersonalDatesExcludesOwnAndFullDates(t *testing.T) {
	repo, mock := newMockRepo(t)
	cal := testCalendar(t)
	svc := NewAvailabilityService(repo, cal, []string{"A1", "A2"})

	loc := cal.Today().Location()
	mock.ExpectQuery("SELECT booking_date FROM bookings WHERE employee_id").
		WithArgs(uint64(42), "personal").
		WillReturnRows(sqlmock.NewRows([]string{"booking_date"}).
			AddRow(time.Date(2025, 6, 11, 0, 0, 0, 0, loc)))
	mock.ExpectQuery("SELECT booking_date, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"booking_date", "count"}).
			AddRow(time.Date(2025, 6, 12, 0, 0, 0, 0, loc), 2).
			AddRow(time.Date(2025, 6, 13, 0, 0, 0, 0, loc), 1))

	dates, err := svc.PersonalDates(context.Background(), 42)
	assert.NoError(t, err)
	assert.Len(t, dates, 12)

	got := dateSet(dates)
	assert.Contains(t, got, "2025-06-10")
	assert.NotContains(t, got, "2025-06-11") // already booked personally
	assert.NotContains(t, got, "2025-06-12") // at capacity
	assert.Contains(t, got, "2025-06-13")    // one of two desks taken
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestDatesIgnoreCallersOwnBookings(t *testing.T) {
	repo, mock := newMockRepo(t)
	cal := testCalendar(t)
	svc := NewAvailabilityService(repo, cal, []string{"A1", "A2"})

	loc := cal.Today().Location()
	mock.ExpectQuery("SELECT booking_date, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"booking_date", "count"}).
			AddRow(time.Date(2025, 6, 12, 0, 0, 0, 0, loc), 2))

	dates, err := svc.GuestDates(context.Background())
	assert.NoError(t, err)
	assert.Len(t, dates, 13)

	got := dateSet(dates)
	assert.NotContains(t, got, "2025-06-12")
	// A date the sponsor personally booked is still offered for guests.
	assert.Contains(t, got, "2025-06-10")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatesWithoutSeatExcludesPersonalVisits(t *testing.T) {
	repo, mock := newMockRepo(t)
	cal := testCalendar(t)
	svc := NewAvailabilityService(repo, cal, []string{"A1"})

	loc := cal.Today().Location()
	mock.ExpectQuery("SELECT booking_date FROM bookings WHERE employee_id").
		WithArgs(uint64(7), "personal", "personal_candidate").
		WillReturnRows(sqlmock.NewRows([]string{"booking_date"}).
			AddRow(time.Date(2025, 6, 10, 0, 0, 0, 0, loc)))

	dates, err := svc.DatesWithoutSeat(context.Background(), 7)
	assert.NoError(t, err)
	assert.Len(t, dates, 13)
	assert.NotContains(t, dateSet(dates), "2025-06-10")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFreeSeatsPreserveInventoryOrder(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewAvailabilityService(repo, testCalendar(t), []string{"A1", "A2", "A3"})

	mock.ExpectQuery("SELECT seat_label FROM bookings").
		WithArgs("2025-06-12").
		WillReturnRows(sqlmock.NewRows([]string{"seat_label"}).AddRow("A2"))

	free, err := svc.FreeSeats(context.Background(), time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, []string{"A1", "A3"}, free)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFreeSeatsWhenDateIsFull(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewAvailabilityService(repo, testCalendar(t), []string{"A1", "A2"})

	mock.ExpectQuery("SELECT seat_label FROM bookings").
		WithArgs("2025-06-12").
		WillReturnRows(sqlmock.NewRows([]string{"seat_label"}).AddRow("A1").AddRow("A2"))

	_, err := svc.FreeSeats(context.Background(), time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, repository.ErrNoFreeSeats)
	assert.NoError(t, mock.ExpectationsWereMet())
}
