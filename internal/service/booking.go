package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/artyokhov/seatbook-bot/internal/calendar"
	"github.com/artyokhov/seatbook-bot/internal/model"
	"github.com/artyokhov/seatbook-bot/internal/repository"
)

// BookingService commits and cancels reservations and enumerates them
// for the transport layer.  Each mutating call is one transaction:
// committed on success, rolled back on any failure path.  Seat
// uniqueness is pre-checked for a fast, friendly rejection, but the
// unique index on (booking_date, seat_label) is what actually decides
// races between concurrent callers.
type BookingService struct {
	bookings *repository.BookingRepo
	cal      *calendar.Calendar
}

// NewBookingService constructs a BookingService.  All dependencies must
// be non-nil.
func NewBookingService(bookings *repository.BookingRepo, cal *calendar.Calendar) *BookingService {
	if bookings == nil || cal == nil {
		panic("invalid dependencies passed to NewBookingService")
	}
	return &BookingService{bookings: bookings, cal: cal}
}

// CreateBookingInput carries everything needed to commit a reservation.
// SeatLabel must be nil exactly when Kind is a candidate kind, and
// GuestFullName is required for guest kinds.
type CreateBookingInput struct {
	EmployeeID    uint64
	Date          time.Time
	SeatLabel     *string
	Kind          model.Kind
	GuestFullName *string
}

// validate enforces the kind/seat/guest-name consistency rules before
// anything reaches the database.  The schema carries matching check
// constraints, so a violation slipping through would still fail there.
func (in *CreateBookingInput) validate() error {
	if !in.Kind.Valid() {
		return repository.ErrInvalidState
	}
	if in.Kind.ForGuest() && (in.GuestFullName == nil || *in.GuestFullName == "") {
		return repository.ErrInvalidState
	}
	if in.Kind.Candidate() != (in.SeatLabel == nil) {
		return repository.ErrInvalidState
	}
	return nil
}

// Create commits a new reservation.  For seated kinds it first checks
// whether the (date, seat) pair is already taken and fails fast with
// repository.ErrConflict; the insert afterwards relies on the unique
// index to catch the race where two callers pick the same free seat
// simultaneously, which surfaces as the same ErrConflict.  On success
// the persisted booking is returned with its generated id and
// timestamp.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	tx, err := s.bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if in.SeatLabel != nil {
		taken, err := s.bookings.SeatTakenTx(ctx, tx, in.Date, *in.SeatLabel)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, repository.ErrConflict
		}
	}
	b := &model.Booking{
		EmployeeID:    in.EmployeeID,
		BookingDate:   in.Date,
		SeatLabel:     in.SeatLabel,
		Kind:          in.Kind,
		GuestFullName: in.GuestFullName,
	}
	if err := s.bookings.CreateTx(ctx, tx, b); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return b, nil
}

// Delete removes a reservation by id and returns a snapshot of the
// deleted row for caller-side logging and notification.  It fails with
// repository.ErrNotFound when the id does not exist.  When owner is
// non-nil the booking must belong to that employee, otherwise
// repository.ErrForbidden is returned; admins pass nil to delete any
// booking.
func (s *BookingService) Delete(ctx context.Context, id uint64, owner *uint64) (*model.Booking, error) {
	tx, err := s.bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	b, err := s.bookings.GetTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if owner != nil && b.EmployeeID != *owner {
		return nil, repository.ErrForbidden
	}
	if err := s.bookings.DeleteTx(ctx, tx, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return b, nil
}

// ListFutureForEmployee returns the employee's bookings dated today or
// later, ascending by date.
func (s *BookingService) ListFutureForEmployee(ctx context.Context, employeeID uint64) ([]model.Booking, error) {
	return s.bookings.ListFutureForEmployee(ctx, employeeID, s.cal.Today())
}

// ListAllFuture returns every future booking joined with its owner's
// name, ascending by date.
func (s *BookingService) ListAllFuture(ctx context.Context) ([]repository.BookingWithOwner, error) {
	return s.bookings.ListAllFutureWithOwner(ctx, s.cal.Today())
}

// DatesWithVisitors returns the distinct future dates with at least one
// booking, ascending.
func (s *BookingService) DatesWithVisitors(ctx context.Context) ([]time.Time, error) {
	return s.bookings.DatesWithVisitors(ctx, s.cal.Today())
}

// VisitorsOnDate returns all bookings on a date with seat, kind and
// effective display name, ordered by seat label.
func (s *BookingService) VisitorsOnDate(ctx context.Context, date time.Time) ([]repository.Visitor, error) {
	return s.bookings.VisitorsOnDate(ctx, date)
}

// DB exposes the underlying handle; the directory service uses it to
// coordinate booking removal with directory updates in one transaction.
func (s *BookingService) DB() *sql.DB { return s.bookings.DB() }
