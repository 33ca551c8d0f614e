// Package service implements the booking engine: availability
// computation, reservation commits under the seat-per-day uniqueness
// guarantee, directory maintenance and retention cleanup.  Handlers
// stay thin and delegate here; every operation that writes runs inside
// a single transaction.
package service

import (
	"context"
	"time"

	"github.com/artyokhov/seatbook-bot/internal/calendar"
	"github.com/artyokhov/seatbook-bot/internal/model"
	"github.com/artyokhov/seatbook-bot/internal/repository"
)

// AvailabilityService turns the planning window plus existing bookings
// into the choice sets offered to a user: which dates they can book,
// which dates they can visit without a desk, which dates can take a
// guest, and which desks are free on a chosen date.
type AvailabilityService struct {
	bookings *repository.BookingRepo
	cal      *calendar.Calendar
	seats    []string // configured desk inventory, in offer order
}

// NewAvailabilityService constructs an AvailabilityService.  All
// dependencies must be non-nil and the seat inventory non-empty.
func NewAvailabilityService(bookings *repository.BookingRepo, cal *calendar.Calendar, seats []string) *AvailabilityService {
	if bookings == nil || cal == nil || len(seats) == 0 {
		panic("invalid dependencies passed to NewAvailabilityService")
	}
	return &AvailabilityService{bookings: bookings, cal: cal, seats: seats}
}

// PersonalDates returns the dates of the planning window on which the
// employee can book a desk for themselves: dates where they already
// hold a personal booking are dropped, as are dates where the seated
// headcount has reached the desk inventory.  The employee's own guest
// bookings do not block a date; one person sponsoring a guest may still
// book their own desk that day.
func (s *AvailabilityService) PersonalDates(ctx context.Context, employeeID uint64) ([]time.Time, error) {
	booked, err := s.bookings.DatesBookedByEmployee(ctx, employeeID, model.KindPersonal)
	if err != nil {
		return nil, err
	}
	counts, err := s.bookings.CountSeatedByDate(ctx)
	if err != nil {
		return nil, err
	}
	capacity := len(s.seats)
	out := make([]time.Time, 0)
	for _, d := range s.cal.Upcoming() {
		key := d.Format(calendar.ISODate)
		if _, taken := booked[key]; taken {
			continue
		}
		if counts[key] >= capacity {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// DatesWithoutSeat returns the dates on which the employee can announce
// a visit without a desk.  Only their own personal and
// personal-candidate bookings exclude a date; capacity is irrelevant
// because a seatless visit consumes no desk.
func (s *AvailabilityService) DatesWithoutSeat(ctx context.Context, employeeID uint64) ([]time.Time, error) {
	booked, err := s.bookings.DatesBookedByEmployee(ctx, employeeID,
		model.KindPersonal, model.KindPersonalCandidate)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0)
	for _, d := range s.cal.Upcoming() {
		if _, taken := booked[d.Format(calendar.ISODate)]; taken {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// GuestDates returns the dates on which a guest desk can still be
// booked.  The filter is capacity only: an employee may sponsor guests
// on any date regardless of their own bookings.
func (s *AvailabilityService) GuestDates(ctx context.Context) ([]time.Time, error) {
	counts, err := s.bookings.CountSeatedByDate(ctx)
	if err != nil {
		return nil, err
	}
	capacity := len(s.seats)
	out := make([]time.Time, 0)
	for _, d := range s.cal.Upcoming() {
		if counts[d.Format(calendar.ISODate)] >= capacity {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// FreeSeats returns the configured desks not yet reserved on the given
// date, in inventory order.  When every desk is taken it returns
// repository.ErrNoFreeSeats; the date-level filters normally prevent
// such a request, so hitting the error means the caller acted on a
// stale date list.
func (s *AvailabilityService) FreeSeats(ctx context.Context, date time.Time) ([]string, error) {
	occupied, err := s.bookings.OccupiedSeats(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(occupied) >= len(s.seats) {
		return nil, repository.ErrNoFreeSeats
	}
	taken := make(map[string]struct{}, len(occupied))
	for _, seat := range occupied {
		taken[seat] = struct{}{}
	}
	free := make([]string, 0, len(s.seats)-len(occupied))
	for _, seat := range s.seats {
		if _, ok := taken[seat]; !ok {
			free = append(free, seat)
		}
	}
	return free, nil
}
