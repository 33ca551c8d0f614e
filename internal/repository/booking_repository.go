package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/artyokhov/seatbook-bot/internal/model"
)

// dateFormat is how DATE parameters are passed to the driver.  Scanned
// DATE columns come back as time.Time because the DSN sets parseTime.
const dateFormat = "2006-01-02"

// BookingRepo provides data access to the bookings table.  Every date
// comparison is done on the plain DATE column; callers supply dates
// already truncated to midnight in the office timezone.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so that services can open
// transactions spanning several repository calls.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// kindPlaceholders renders an IN (...) argument list for a set of
// booking kinds.
func kindPlaceholders(kinds []model.Kind) (string, []interface{}) {
	ph := make([]string, len(kinds))
	args := make([]interface{}, len(kinds))
	for i, k := range kinds {
		ph[i] = "?"
		args[i] = string(k)
	}
	return strings.Join(ph, ","), args
}

// DatesBookedByEmployee returns the set of booking dates (as YYYY-MM-DD
// strings) on which the employee holds a booking of one of the given
// kinds.  The availability calculator uses it to drop dates the caller
// has already taken for themselves.
func (r *BookingRepo) DatesBookedByEmployee(ctx context.Context, employeeID uint64, kinds ...model.Kind) (map[string]struct{}, error) {
	ph, kindArgs := kindPlaceholders(kinds)
	q := `SELECT booking_date FROM bookings WHERE employee_id = ? AND kind IN (` + ph + `)`
	args := append([]interface{}{employeeID}, kindArgs...)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	dates := make(map[string]struct{})
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates[d.Format(dateFormat)] = struct{}{}
	}
	return dates, rows.Err()
}

// CountSeatedByDate returns, per date, how many seat-consuming bookings
// exist.  Only the personal and guest kinds count: candidate visits
// never occupy a desk.
func (r *BookingRepo) CountSeatedByDate(ctx context.Context) (map[string]int, error) {
	const q = `SELECT booking_date, COUNT(id) FROM bookings
	           WHERE kind IN ('personal', 'guest')
	           GROUP BY booking_date`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var d time.Time
		var n int
		if err := rows.Scan(&d, &n); err != nil {
			return nil, err
		}
		counts[d.Format(dateFormat)] = n
	}
	return counts, rows.Err()
}

// OccupiedSeats returns the seat labels already reserved on the given
// date, in no particular order.
func (r *BookingRepo) OccupiedSeats(ctx context.Context, date time.Time) ([]string, error) {
	const q = `SELECT seat_label FROM bookings
	           WHERE booking_date = ? AND seat_label IS NOT NULL`
	rows, err := r.db.QueryContext(ctx, q, date.Format(dateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// SeatTakenTx reports whether a seat is already reserved on the given
// date.  It runs inside the caller's transaction as the fast-path
// conflict check before an insert; the unique index remains the
// authoritative guard against concurrent commits.
func (r *BookingRepo) SeatTakenTx(ctx context.Context, tx *sql.Tx, date time.Time, seat string) (bool, error) {
	const q = `SELECT id FROM bookings WHERE booking_date = ? AND seat_label = ?`
	var id uint64
	err := tx.QueryRowContext(ctx, q, date.Format(dateFormat), seat).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateTx inserts a new booking within the scope of an existing
// transaction and reads the persisted row back to populate the
// generated id and creation timestamp.  A unique key violation on
// (booking_date, seat_label) is translated to ErrConflict: it means a
// concurrent caller won the seat between the pre-check and this insert.
// The caller must commit or roll back the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (employee_id, booking_date, seat_label, kind, guest_full_name)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.EmployeeID, b.BookingDate.Format(dateFormat), b.SeatLabel, string(b.Kind), b.GuestFullName,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT id, employee_id, booking_date, seat_label, kind, guest_full_name, created_at
	             FROM bookings WHERE id = ?`
	return scanBooking(tx.QueryRowContext(ctx, sel, b.ID), b)
}

// GetTx loads a booking by id within a transaction.  It returns
// ErrNotFound when no such row exists.
func (r *BookingRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	const q = `SELECT id, employee_id, booking_date, seat_label, kind, guest_full_name, created_at
	           FROM bookings WHERE id = ?`
	var b model.Booking
	if err := scanBooking(tx.QueryRowContext(ctx, q, id), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// DeleteTx removes a booking by id within a transaction.  It returns
// ErrNotFound when the row was already gone.
func (r *BookingRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByEmployeeTx removes every booking owned by an employee and
// returns the number of rows deleted.  Used when an admin unlinks or
// deletes the employee record.
func (r *BookingRepo) DeleteByEmployeeTx(ctx context.Context, tx *sql.Tx, employeeID uint64) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE employee_id = ?`, employeeID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteOlderThanTx removes every booking dated strictly before the
// cutoff and returns the number of rows deleted.  The operation is
// idempotent: a second run with the same cutoff deletes nothing.
func (r *BookingRepo) DeleteOlderThanTx(ctx context.Context, tx *sql.Tx, cutoff time.Time) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`DELETE FROM bookings WHERE booking_date < ?`, cutoff.Format(dateFormat))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListFutureForEmployee returns the employee's bookings dated today or
// later, ascending by date.
func (r *BookingRepo) ListFutureForEmployee(ctx context.Context, employeeID uint64, from time.Time) ([]model.Booking, error) {
	const q = `SELECT id, employee_id, booking_date, seat_label, kind, guest_full_name, created_at
	           FROM bookings
	           WHERE employee_id = ? AND booking_date >= ?
	           ORDER BY booking_date`
	rows, err := r.db.QueryContext(ctx, q, employeeID, from.Format(dateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// BookingWithOwner pairs a booking with its owner's full name so the
// transport layer can render the effective display name without another
// lookup.
type BookingWithOwner struct {
	model.Booking
	OwnerName string
}

// ListAllFutureWithOwner returns every booking dated today or later,
// joined with the owner's name, ascending by date.
func (r *BookingRepo) ListAllFutureWithOwner(ctx context.Context, from time.Time) ([]BookingWithOwner, error) {
	const q = `SELECT b.id, b.employee_id, b.booking_date, b.seat_label, b.kind, b.guest_full_name, b.created_at, e.full_name
	           FROM bookings b
	           JOIN employees e ON e.id = b.employee_id
	           WHERE b.booking_date >= ?
	           ORDER BY b.booking_date`
	rows, err := r.db.QueryContext(ctx, q, from.Format(dateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingWithOwner, 0)
	for rows.Next() {
		var bo BookingWithOwner
		var seat, guest sql.NullString
		if err := rows.Scan(&bo.ID, &bo.EmployeeID, &bo.BookingDate, &seat, &bo.Kind, &guest, &bo.CreatedAt, &bo.OwnerName); err != nil {
			return nil, err
		}
		assignNullable(&bo.Booking, seat, guest)
		out = append(out, bo)
	}
	return out, rows.Err()
}

// DatesWithVisitors returns the distinct dates, today or later, on
// which at least one booking of any kind exists, ascending.
func (r *BookingRepo) DatesWithVisitors(ctx context.Context, from time.Time) ([]time.Time, error) {
	const q = `SELECT DISTINCT booking_date FROM bookings
	           WHERE booking_date >= ?
	           ORDER BY booking_date`
	rows, err := r.db.QueryContext(ctx, q, from.Format(dateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Visitor is one booking on a date as shown on the office overview:
// seat (nil for candidates), kind, and the effective display name
// (guest name when present, otherwise the owner's name).
type Visitor struct {
	SeatLabel *string
	Kind      model.Kind
	FullName  string
}

// VisitorsOnDate returns all bookings on a date ordered by seat label,
// seatless candidate rows last.  MySQL sorts NULLs first on a plain
// ascending ORDER BY, so the IS NULL term pushes them to the end.
func (r *BookingRepo) VisitorsOnDate(ctx context.Context, date time.Time) ([]Visitor, error) {
	const q = `SELECT b.seat_label, b.kind, b.guest_full_name, e.full_name
	           FROM bookings b
	           JOIN employees e ON e.id = b.employee_id
	           WHERE b.booking_date = ?
	           ORDER BY b.seat_label IS NULL, b.seat_label`
	rows, err := r.db.QueryContext(ctx, q, date.Format(dateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Visitor, 0)
	for rows.Next() {
		var v Visitor
		var seat, guest sql.NullString
		var owner string
		if err := rows.Scan(&seat, &v.Kind, &guest, &owner); err != nil {
			return nil, err
		}
		if seat.Valid {
			s := seat.String
			v.SeatLabel = &s
		}
		v.FullName = owner
		if guest.Valid && guest.String != "" {
			v.FullName = guest.String
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// rowScanner lets scanBooking work for both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner, b *model.Booking) error {
	var seat, guest sql.NullString
	if err := row.Scan(&b.ID, &b.EmployeeID, &b.BookingDate, &seat, &b.Kind, &guest, &b.CreatedAt); err != nil {
		return err
	}
	assignNullable(b, seat, guest)
	return nil
}

func assignNullable(b *model.Booking, seat, guest sql.NullString) {
	if seat.Valid {
		s := seat.String
		b.SeatLabel = &s
	}
	if guest.Valid {
		g := guest.String
		b.GuestFullName = &g
	}
}
