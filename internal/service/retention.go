package service

import (
	"context"
	"time"

	"github.com/artyokhov/seatbook-bot/internal/calendar"
	"github.com/artyokhov/seatbook-bot/internal/repository"
)

// RetentionService purges bookings older than a retention threshold.
// The sweep is a re-runnable maintenance operation: running it twice
// with the same clock deletes nothing the second time.
type RetentionService struct {
	bookings *repository.BookingRepo
	cal      *calendar.Calendar
}

// NewRetentionService constructs a RetentionService.
func NewRetentionService(bookings *repository.BookingRepo, cal *calendar.Calendar) *RetentionService {
	if bookings == nil || cal == nil {
		panic("invalid dependencies passed to NewRetentionService")
	}
	return &RetentionService{bookings: bookings, cal: cal}
}

// PurgeOlderThan deletes every booking dated strictly before today (in
// the office timezone) minus the given number of days, in one
// transaction.  It returns the number of rows removed and the cutoff
// date used.
func (s *RetentionService) PurgeOlderThan(ctx context.Context, days int) (int64, time.Time, error) {
	cutoff := s.cal.Today().AddDate(0, 0, -days)
	tx, err := s.bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, cutoff, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	n, err := s.bookings.DeleteOlderThanTx(ctx, tx, cutoff)
	if err != nil {
		return 0, cutoff, err
	}
	if err := tx.Commit(); err != nil {
		return 0, cutoff, err
	}
	committed = true
	return n, cutoff, nil
}
