package model

// Employee represents a row in the `employees` table.  Records are
// pre-seeded by an administrator with only the full name set; the
// account fields are filled in when the employee claims the record
// through registration and reset to NULL when an admin unlinks it.
// The full name is unique so a record can be claimed exactly once.
type Employee struct {
	ID        uint64  // employees.id
	AccountID *int64  // employees.account_id (nullable)
	Handle    *string // employees.handle (nullable)
	ChatID    *int64  // employees.chat_id (nullable)
	FullName  string  // employees.full_name
}

// Claimed reports whether the record has been linked to an external
// account.
func (e *Employee) Claimed() bool { return e.AccountID != nil }
