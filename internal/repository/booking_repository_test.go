package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/artyokhov/seatbook-bot/internal/model"
)

func TestVisitorsOnDateOrdersCandidatesLast(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewBookingRepo(db)

	// The IS NULL term in the ORDER BY pushes seatless rows behind the
	// seated ones; a plain ORDER BY would put them first.
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY b.seat_label IS NULL, b.seat_label")).
		WithArgs("2025-06-12").
		WillReturnRows(sqlmock.NewRows([]string{"seat_label", "kind", "guest_full_name", "full_name"}).
			AddRow("A1", "personal", nil, "Ivan Ivanov").
			AddRow("A2", "guest", "Pat Visitor", "Anna Petrova").
			AddRow(nil, "personal_candidate", nil, "Oleg Sidorov"))

	visitors, err := repo.VisitorsOnDate(context.Background(), time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Len(t, visitors, 3)

	assert.Equal(t, "A1", *visitors[0].SeatLabel)
	assert.Equal(t, "Ivan Ivanov", visitors[0].FullName)
	// Guest rows show the guest's name, not the sponsor's.
	assert.Equal(t, "Pat Visitor", visitors[1].FullName)
	assert.Nil(t, visitors[2].SeatLabel)
	assert.Equal(t, model.KindPersonalCandidate, visitors[2].Kind)
	assert.Equal(t, "Oleg Sidorov", visitors[2].FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
