package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/artyokhov/seatbook-bot/internal/model"
)

// directoryPageSize is how many employees each directory listing page
// holds.
const directoryPageSize = 10

// EmployeeRepo provides data access to the employees table.  The table
// is the employee directory: records are seeded with only a full name
// and later linked to an external account when claimed.
type EmployeeRepo struct {
	db *sql.DB
}

// NewEmployeeRepo returns a new EmployeeRepo bound to the given database.
func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

// DB exposes the underlying handle for transaction-spanning callers.
func (r *EmployeeRepo) DB() *sql.DB { return r.db }

const employeeColumns = `id, account_id, handle, chat_id, full_name`

func scanEmployee(row rowScanner, e *model.Employee) error {
	var accountID, chatID sql.NullInt64
	var handle sql.NullString
	if err := row.Scan(&e.ID, &accountID, &handle, &chatID, &e.FullName); err != nil {
		return err
	}
	if accountID.Valid {
		v := accountID.Int64
		e.AccountID = &v
	}
	if handle.Valid {
		h := handle.String
		e.Handle = &h
	}
	if chatID.Valid {
		v := chatID.Int64
		e.ChatID = &v
	}
	return nil
}

// GetByAccountID resolves an external account id to its employee record.
// It returns ErrNotFound when no record has been claimed by the account.
func (r *EmployeeRepo) GetByAccountID(ctx context.Context, accountID int64) (*model.Employee, error) {
	q := `SELECT ` + employeeColumns + ` FROM employees WHERE account_id = ?`
	var e model.Employee
	if err := scanEmployee(r.db.QueryRowContext(ctx, q, accountID), &e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// GetByID loads an employee by primary key.  It returns ErrNotFound
// when the record does not exist.
func (r *EmployeeRepo) GetByID(ctx context.Context, id uint64) (*model.Employee, error) {
	q := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ?`
	var e model.Employee
	if err := scanEmployee(r.db.QueryRowContext(ctx, q, id), &e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// EmployeePage is one page of a directory listing.
type EmployeePage struct {
	Employees  []model.Employee `json:"employees"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// list returns one page of employees matching the given WHERE clause,
// ordered by full name.
func (r *EmployeeRepo) list(ctx context.Context, where string, page int) (*EmployeePage, error) {
	if page < 0 {
		page = 0
	}
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(id) FROM employees `+where).Scan(&total); err != nil {
		return nil, err
	}
	q := `SELECT ` + employeeColumns + ` FROM employees ` + where +
		` ORDER BY full_name LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, directoryPageSize, page*directoryPageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := &EmployeePage{
		Employees: make([]model.Employee, 0),
		Page:      page,
		PageSize:  directoryPageSize,
	}
	if total > 0 {
		out.TotalPages = (total + directoryPageSize - 1) / directoryPageSize
	}
	for rows.Next() {
		var e model.Employee
		if err := scanEmployee(rows, &e); err != nil {
			return nil, err
		}
		out.Employees = append(out.Employees, e)
	}
	return out, rows.Err()
}

// ListUnclaimed returns a page of records not yet linked to an account.
func (r *EmployeeRepo) ListUnclaimed(ctx context.Context, page int) (*EmployeePage, error) {
	return r.list(ctx, `WHERE account_id IS NULL`, page)
}

// ListClaimed returns a page of records already linked to an account.
func (r *EmployeeRepo) ListClaimed(ctx context.Context, page int) (*EmployeePage, error) {
	return r.list(ctx, `WHERE account_id IS NOT NULL`, page)
}

// Claim links an external account to a pre-seeded employee record.  It
// only succeeds when the record is still unclaimed; claiming an already
// linked record, or reusing an account/handle/chat that is linked
// elsewhere, fails with ErrConflict.  A missing record fails with
// ErrNotFound.
func (r *EmployeeRepo) Claim(ctx context.Context, id uint64, accountID int64, handle string, chatID int64) (*model.Employee, error) {
	const q = `UPDATE employees SET account_id = ?, handle = ?, chat_id = ?
	           WHERE id = ? AND account_id IS NULL`
	res, err := r.db.ExecContext(ctx, q, accountID, handle, chatID, id)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Distinguish "no such record" from "record already claimed".
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}
	return r.GetByID(ctx, id)
}

// UnclaimTx resets the account linkage of an employee record, keeping
// only the full name.  The caller removes the employee's bookings in
// the same transaction.  It returns ErrNotFound when the record does
// not exist; unclaiming an already-unclaimed record succeeds (the DSN
// sets clientFoundRows, so a no-op update still counts its matched
// row).
func (r *EmployeeRepo) UnclaimTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `UPDATE employees SET account_id = NULL, handle = NULL, chat_id = NULL
	           WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, id)
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

// DeleteTx removes an employee record entirely; the full name becomes
// available for re-seeding.  The caller removes the employee's bookings
// in the same transaction (the schema also cascades as a backstop).  It
// returns ErrNotFound when the record does not exist.
func (r *EmployeeRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
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

// Create seeds a new directory record with only the full name set.
// Duplicate names fail with ErrConflict.
func (r *EmployeeRepo) Create(ctx context.Context, fullName string) (*model.Employee, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO employees (full_name) VALUES (?)`, fullName)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Employee{ID: uint64(id), FullName: fullName}, nil
}
