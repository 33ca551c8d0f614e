package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/artyokhov/seatbook-bot/internal/repository"
)

func newDirectoryService(t *testing.T) (*DirectoryService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewDirectoryService(repository.NewEmployeeRepo(db), repository.NewBookingRepo(db)), mock
}

func TestClaimLinksAccount(t *testing.T) {
	svc, mock := newDirectoryService(t)

	mock.ExpectExec("UPDATE employees SET account_id").
		WithArgs(int64(1001), "ivanov", int64(555), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, account_id, handle, chat_id, full_name FROM employees WHERE id").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "handle", "chat_id", "full_name"}).
			AddRow(3, 1001, "ivanov", 555, "Ivan Ivanov"))

	e, err := svc.Claim(context.Background(), 3, 1001, "ivanov", 555)
	assert.NoError(t, err)
	assert.True(t, e.Claimed())
	assert.Equal(t, "Ivan Ivanov", e.FullName)
	assert.Equal(t, int64(1001), *e.AccountID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimAlreadyClaimedRecord(t *testing.T) {
	svc, mock := newDirectoryService(t)

	mock.ExpectExec("UPDATE employees SET account_id").
		WithArgs(int64(1001), "ivanov", int64(555), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// The record exists, so zero rows means someone else claimed it.
	mock.ExpectQuery("SELECT id, account_id, handle, chat_id, full_name FROM employees WHERE id").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "handle", "chat_id", "full_name"}).
			AddRow(3, 2002, "petrov", 777, "Ivan Ivanov"))

	_, err := svc.Claim(context.Background(), 3, 1001, "ivanov", 555)
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimMissingRecord(t *testing.T) {
	svc, mock := newDirectoryService(t)

	mock.ExpectExec("UPDATE employees SET account_id").
		WithArgs(int64(1001), "ivanov", int64(555), uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, account_id, handle, chat_id, full_name FROM employees WHERE id").
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Claim(context.Background(), 404, 1001, "ivanov", 555)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnclaimRemovesBookingsInSameTransaction(t *testing.T) {
	svc, mock := newDirectoryService(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM bookings WHERE employee_id").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE employees SET account_id = NULL").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, svc.Unclaim(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnclaimAlreadyUnclaimedRecordSucceeds(t *testing.T) {
	svc, mock := newDirectoryService(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM bookings WHERE employee_id").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// With clientFoundRows the server counts the matched row even
	// though every column already held NULL.
	mock.ExpectExec("UPDATE employees SET account_id = NULL").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, svc.Unclaim(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRollsBackWhenRecordMissing(t *testing.T) {
	svc, mock := newDirectoryService(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM bookings WHERE employee_id").
		WithArgs(uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM employees WHERE id").
		WithArgs(uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := svc.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUnclaimedPaging(t *testing.T) {
	svc, mock := newDirectoryService(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery("SELECT id, account_id, handle, chat_id, full_name FROM employees WHERE account_id IS NULL").
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "handle", "chat_id", "full_name"}).
			AddRow(21, nil, nil, nil, "Zoya Last"))

	page, err := svc.ListUnclaimed(context.Background(), 2)
	assert.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Employees, 1)
	assert.False(t, page.Employees[0].Claimed())
	assert.NoError(t, mock.ExpectationsWereMet())
}
