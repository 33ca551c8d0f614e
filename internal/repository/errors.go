// Package repository implements data access for employees and bookings
// on top of database/sql.  This file defines the sentinel errors shared
// across repositories so that services and handlers can branch on
// failure kind with errors.Is instead of inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrConflict is returned when an insert or update collides with
// existing state: a seat already taken on a date, a full name or
// account that is already registered.  Callers should re-offer the
// choice rather than retry blindly.
var ErrConflict = errors.New("conflict")

// ErrNotFound is returned when a referenced booking or employee no
// longer exists.  Deleting a missing row fails with this error rather
// than silently succeeding.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// booking they do not own.  Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrNoFreeSeats is returned when a seat listing is requested for a
// date on which every configured seat is already reserved.  The
// date-level availability filter normally prevents this; the error is
// a second line of defense against a stale date choice.
var ErrNoFreeSeats = errors.New("no free seats")

// ErrInvalidState is returned when a query succeeds but its result
// violates an expected invariant.  It is surfaced upward as a generic
// failure.
var ErrInvalidState = errors.New("invalid state")

// mysqlDuplicateEntry is the server error number for a unique key
// violation.
const mysqlDuplicateEntry = 1062

// isDuplicateEntry reports whether err is a MySQL unique constraint
// violation.  The unique index on (booking_date, seat_label) makes the
// database the final arbiter of seat uniqueness; this check translates
// its verdict into the domain's conflict signal.
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
