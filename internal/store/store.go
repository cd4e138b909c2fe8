package store

import (
	"context"
	"errors"
	"fmt"

	"autoget/backend/internal/domain"
)

var (
	// ErrNotFound is returned when a mutation target id does not exist.
	// Both adapters agree on this, including delete of a missing id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRecord is returned for records that fail domain validation.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrUnsupported is returned by an adapter that cannot carry out the
	// operation, e.g. explicit category writes against the local backend
	// where categories are inferred from expenses.
	ErrUnsupported = errors.New("operation not supported by this backend")
)

// PartialWriteError reports a stock-entry creation that persisted the header
// but failed for one or more lines. RepairStockEntryLines re-attempts only
// the missing lines.
type PartialWriteError struct {
	EntryID  string
	Inserted int
	Missing  []domain.StockEntryLine
	Cause    error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("stock entry %s: %d line(s) inserted, %d missing: %v", e.EntryID, e.Inserted, len(e.Missing), e.Cause)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Cause
}

// Repository is the persistence port. Both backends return normalized domain
// records regardless of their own field-naming conventions; every successful
// mutation is reflected by the next List call. Returned values are read-only
// snapshots; callers must route every mutation back through the port.
type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error)
	UpdateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error

	// ListStockEntries embeds lines eagerly in the local backend and leaves
	// them to FetchStockEntryLines in the remote backend.
	ListStockEntries(ctx context.Context) ([]domain.StockEntry, error)
	// CreateStockEntry persists the header and all lines as one logical
	// unit. The remote adapter may return *PartialWriteError when the
	// header landed but lines did not.
	CreateStockEntry(ctx context.Context, entry domain.StockEntry) (*domain.StockEntry, error)
	UpdateStockEntry(ctx context.Context, entry domain.StockEntry) (*domain.StockEntry, error)
	DeleteStockEntry(ctx context.Context, id string) error
	FetchStockEntryLines(ctx context.Context, entryID string) ([]domain.StockEntryLine, error)
	// RepairStockEntryLines inserts only the lines missing from a
	// partially written entry. A no-op success in the local backend.
	RepairStockEntryLines(ctx context.Context, entryID string, lines []domain.StockEntryLine) (*domain.StockEntry, error)

	ListPayments(ctx context.Context) ([]domain.Payment, error)
	CreatePayment(ctx context.Context, payment domain.Payment) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, payment domain.Payment) (*domain.Payment, error)
	DeletePayment(ctx context.Context, id string) error

	ListExpenses(ctx context.Context) ([]domain.Expense, error)
	CreateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, id string) error

	// Category resolution is polymorphic: the local backend infers
	// categories from distinct expense category names and rejects explicit
	// writes with ErrUnsupported; the remote backend stores first-class
	// rows.
	ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error)
	CreateExpenseCategory(ctx context.Context, category domain.ExpenseCategory) (*domain.ExpenseCategory, error)
	DeleteExpenseCategory(ctx context.Context, id string) error

	ListPackages(ctx context.Context) ([]domain.Package, error)
	CreatePackage(ctx context.Context, pkg domain.Package) (*domain.Package, error)
	UpdatePackage(ctx context.Context, pkg domain.Package) (*domain.Package, error)
	DeletePackage(ctx context.Context, id string) error

	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	CreateEmployee(ctx context.Context, employee domain.Employee) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, employee domain.Employee) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error

	ListSalaryAdvances(ctx context.Context) ([]domain.SalaryAdvance, error)
	CreateSalaryAdvance(ctx context.Context, advance domain.SalaryAdvance) (*domain.SalaryAdvance, error)
	UpdateSalaryAdvance(ctx context.Context, advance domain.SalaryAdvance) (*domain.SalaryAdvance, error)
	DeleteSalaryAdvance(ctx context.Context, id string) error

	// Snapshot returns a read-only copy of every collection.
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
}
