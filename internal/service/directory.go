package service

import (
	"context"

	"github.com/artyokhov/seatbook-bot/internal/model"
	"github.com/artyokhov/seatbook-bot/internal/repository"
)

// DirectoryService maintains the employee directory.  Unlinking and
// deleting a record both remove the employee's bookings in the same
// transaction, so a half-applied unlink is never observable.
type DirectoryService struct {
	employees *repository.EmployeeRepo
	bookings  *repository.BookingRepo
}

// NewDirectoryService constructs a DirectoryService.
func NewDirectoryService(employees *repository.EmployeeRepo, bookings *repository.BookingRepo) *DirectoryService {
	if employees == nil || bookings == nil {
		panic("invalid dependencies passed to NewDirectoryService")
	}
	return &DirectoryService{employees: employees, bookings: bookings}
}

// ResolveAccount maps an external account id to its employee record.
func (s *DirectoryService) ResolveAccount(ctx context.Context, accountID int64) (*model.Employee, error) {
	return s.employees.GetByAccountID(ctx, accountID)
}

// Get loads an employee record by id.
func (s *DirectoryService) Get(ctx context.Context, id uint64) (*model.Employee, error) {
	return s.employees.GetByID(ctx, id)
}

// ListUnclaimed pages through records not yet linked to an account.
func (s *DirectoryService) ListUnclaimed(ctx context.Context, page int) (*repository.EmployeePage, error) {
	return s.employees.ListUnclaimed(ctx, page)
}

// ListClaimed pages through records linked to an account.
func (s *DirectoryService) ListClaimed(ctx context.Context, page int) (*repository.EmployeePage, error) {
	return s.employees.ListClaimed(ctx, page)
}

// Claim links an external account to a pre-seeded record.  Handles are
// stored lowercase without a leading "@" so the admin list comparison
// stays case-insensitive.
func (s *DirectoryService) Claim(ctx context.Context, id uint64, accountID int64, handle string, chatID int64) (*model.Employee, error) {
	return s.employees.Claim(ctx, id, accountID, handle, chatID)
}

// Create seeds a new record with only the full name set.
func (s *DirectoryService) Create(ctx context.Context, fullName string) (*model.Employee, error) {
	return s.employees.Create(ctx, fullName)
}

// Unclaim resets an employee's account linkage and removes all of their
// bookings in one transaction.  The full name stays and can be claimed
// again later.
func (s *DirectoryService) Unclaim(ctx context.Context, id uint64) error {
	tx, err := s.employees.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := s.bookings.DeleteByEmployeeTx(ctx, tx, id); err != nil {
		return err
	}
	if err := s.employees.UnclaimTx(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes an employee record together with all of their bookings
// in one transaction.  The name becomes unavailable for registration.
func (s *DirectoryService) Delete(ctx context.Context, id uint64) error {
	tx, err := s.employees.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := s.bookings.DeleteByEmployeeTx(ctx, tx, id); err != nil {
		return err
	}
	if err := s.employees.DeleteTx(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
