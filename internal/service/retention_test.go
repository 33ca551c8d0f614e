package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPurgeOlderThanUsesRetentionCutoff(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewRetentionService(repo, testCalendar(t))

	// Today is 2025-06-10 in the office timezone; 90 days back lands
	// on 2025-03-12.
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM bookings WHERE booking_date <").
		WithArgs("2025-03-12").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	n, cutoff, err := svc.PurgeOlderThan(context.Background(), 90)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, "2025-03-12", cutoff.Format("2006-01-02"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeIsIdempotent(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewRetentionService(repo, testCalendar(t))

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM bookings WHERE booking_date <").
		WithArgs("2025-03-12").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	n, _, err := svc.PurgeOlderThan(context.Background(), 90)
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
