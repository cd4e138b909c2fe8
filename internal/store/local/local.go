// Package local is the in-process adapter: an action-dispatch store whose
// pure transition function produces a new immutable snapshot per mutation,
// with each snapshot durably written as one JSON document. Synchronous, no
// network latency.
package local

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"autoget/backend/internal/domain"
	"autoget/backend/internal/store"
	"autoget/backend/internal/xid"
)

type Store struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	st     domain.Snapshot
}

// New opens the store backed by the snapshot file at path, loading the
// previous session's state when the file exists. An empty path keeps the
// store purely in-memory (used by tests).
func New(path string) (*Store, error) {
	st := normalized(domain.Snapshot{})
	if path != "" {
		loaded, err := loadSnapshot(path)
		if err != nil {
			return nil, err
		}
		st = loaded
	}
	return &Store{
		path:   path,
		logger: slog.Default(),
		st:     st,
	}, nil
}

// dispatch applies one action under the lock, swaps in the new state and
// triggers the durable write. Snapshot-write failures are logged and
// swallowed: in-memory state stays authoritative for the session but is not
// guaranteed to survive a restart.
func (s *Store) dispatch(act action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := apply(s.st, act)
	if err != nil {
		return err
	}
	s.st = next

	if s.path == "" {
		return nil
	}
	if err := writeSnapshot(s.path, s.st); err != nil {
		s.logger.Warn("snapshot write failed, state kept in memory only", "path", s.path, "error", err)
	}
	return nil
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.Products), nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	if strings.TrimSpace(product.Name) == "" || product.PurchasePriceCents < 0 {
		return nil, store.ErrInvalidRecord
	}
	if product.ID == "" {
		product.ID = xid.New("prod")
	}
	if err := s.dispatch(action{kind: productCreate, payload: product}); err != nil {
		return nil, err
	}
	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || strings.TrimSpace(product.Name) == "" || product.PurchasePriceCents < 0 {
		return nil, store.ErrInvalidRecord
	}
	if err := s.dispatch(action{kind: productUpdate, payload: product}); err != nil {
		return nil, err
	}
	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	return s.dispatch(action{kind: productDelete, payload: id})
}

func (s *Store) ListSuppliers(_ context.Context) ([]domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.Suppliers), nil
}

func (s *Store) CreateSupplier(_ context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	if strings.TrimSpace(supplier.Name) == "" {
		return nil, store.ErrInvalidRecord
	}
	if supplier.ID == "" {
		supplier.ID = xid.New("sup")
	}
	if err := s.dispatch(action{kind: supplierCreate, payload: supplier}); err != nil {
		return nil, err
	}
	created := supplier
	return &created, nil
}

func (s *Store) UpdateSupplier(_ context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	if supplier.ID == "" || strings.TrimSpace(supplier.Name) == "" {
		return nil, store.ErrInvalidRecord
	}
	if err := s.dispatch(action{kind: supplierUpdate, payload: supplier}); err != nil {
		return nil, err
	}
	updated := supplier
	return &updated, nil
}

func (s *Store) DeleteSupplier(_ context.Context, id string) error {
	return s.dispatch(action{kind: supplierDelete, payload: id})
}

// ListStockEntries returns entries with lines eagerly embedded.
func (s *Store) ListStockEntries(_ context.Context) ([]domain.StockEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]domain.StockEntry, 0, len(s.st.StockEntries))
	for _, entry := range s.st.StockEntries {
		entries = append(entries, cloneEntry(entry))
	}
	return entries, nil
}

// CreateStockEntry persists the header and its lines as one transition, so a
// partial write cannot happen in this backend.
func (s *Store) CreateStockEntry(_ context.Context, entry domain.StockEntry) (*domain.StockEntry, error) {
	if !domain.ValidDate(entry.Date) || entry.SupplierID == "" {
		return nil, store.ErrInvalidRecord
	}
	for _, line := range entry.Lines {
		if line.ProductID == "" || line.Quantity < 1 {
			return nil, store.ErrInvalidRecord
		}
	}
	if entry.ID == "" {
		entry.ID = xid.New("ent")
	}
	if err := s.dispatch(action{kind: entryCreate, payload: entry}); err != nil {
		return nil, err
	}
	created := cloneEntry(entry)
	return &created, nil
}

func (s *Store) UpdateStockEntry(_ context.Context, entry domain.StockEntry) (*domain.StockEntry, error) {
	if entry.ID == "" || !domain.ValidDate(entry.Date) || entry.SupplierID == "" {
		return nil, store.ErrInvalidRecord
	}
	if err := s.dispatch(action{kind: entryUpdate, payload: entry}); err != nil {
		return nil, err
	}
	updated := cloneEntry(entry)
	return &updated, nil
}

func (s *Store) DeleteStockEntry(_ context.Context, id string) error {
	return s.dispatch(action{kind: entryDelete, payload: id})
}

func (s *Store) FetchStockEntryLines(_ context.Context, entryID string) ([]domain.StockEntryLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.st.StockEntries {
		if entry.ID == entryID {
			return slices.Clone(entry.Lines), nil
		}
	}
	return nil, store.ErrNotFound
}

// RepairStockEntryLines is a no-op success here: entries and lines are
// written as one unit, so there is never anything to repair.
func (s *Store) RepairStockEntryLines(_ context.Context, entryID string, _ []domain.StockEntryLine) (*domain.StockEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.st.StockEntries {
		if entry.ID == entryID {
			repaired := cloneEntry(entry)
			return &repaired, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListPayments(_ context.Context) ([]domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.Payments), nil
}

func (s *Store) CreatePayment(_ context.Context, payment domain.Payment) (*domain.Payment, error) {
	if payment.SupplierID == "" || payment.AmountCents < 0 || !domain.ValidDate(payment.Date) {
		return nil, store.ErrInvalidRecord
	}
	if payment.ID == "" {
		payment.ID = xid.New("pay")
	}
	if err := s.dispatch(action{kind: paymentCreate, payload: payment}); err != nil {
		return nil, err
	}
	created := payment
	return &created, nil
}

func (s *Store) UpdatePayment(_ context.Context, payment domain.Payment) (*domain.Payment, error) {
	if payment.ID == "" || payment.SupplierID == "" || payment.AmountCents < 0 || !domain.ValidDate(payment.Date) {
		return nil, store.ErrInvalidRecord
	}
	if err := s.dispatch(action{kind: paymentUpdate, payload: payment}); err != nil {
		return nil, err
	}
	updated := payment
	return &updated, nil
}

func (s *Store) DeletePayment(_ context.Context, id string) error {
	return s.dispatch(action{kind: paymentDelete, payload: id})
}

func (s *Store) ListExpenses(_ context.Context) ([]domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.Expenses), nil
}

func (s *Store) CreateExpense(_ context.Context, expense domain.Expense) (*domain.Expense, error) {
	if expense.AmountCents < 0 || !domain.ValidDate(expense.Date) {
		return nil, store.ErrInvalidRecord
	}
	if expense.ID == "" {
		expense.ID = xid.New("exp")
	}
	if err := s.dispatch(action{kind: expenseCreate, payload: expense}); err != nil {
		return nil, err
	}
	created := expense
	return &created, nil
}

func (s *Store) UpdateExpense(_ context.Context, expense domain.Expense) (*domain.Expense, error) {
	if expense.ID == "" || expense.AmountCents < 0 || !domain.ValidDate(expense.Date) {
		return nil, store.ErrInvalidRecord
	}
	if err := s.dispatch(action{kind: expenseUpdate, payload: expense}); err != nil {
		return nil, err
	}
	updated := expense
	return &updated, nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	return s.dispatch(action{kind: expenseDelete, payload: id})
}

// ListExpenseCategories infers categories from the distinct category names
// already used by expenses; this backend has no category rows of its own.
func (s *Store) ListExpenseCategories(_ context.Context) ([]domain.ExpenseCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	categories := make([]domain.ExpenseCategory, 0, 16)
	for _, expense := range s.st.Expenses {
		name := strings.TrimSpace(expense.CategoryName)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		categories = append(categories, domain.ExpenseCategory{ID: name, Name: name})
	}
	slices.SortFunc(categories, func(a, b domain.ExpenseCategory) int {
		return strings.Compare(a.Name, b.Name)
	})
	return categories, nil
}

func (s *Store) CreateExpenseCategory(_ context.Context, _ domain.ExpenseCategory) (*domain.ExpenseCategory, error) {
	return nil, store.ErrUnsupported
}

func (s *Store) DeleteExpenseCategory(_ context.Context, _ string) error {
	return store.ErrUnsupported
}

func (s *Store) ListPackages(_ context.Context) ([]domain.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.Packages), nil
}

func (s *Store) CreatePackage(_ context.Context, pkg domain.Package) (*domain.Package, error) {
	if pkg.Count < 1 || !domain.ValidDate(pkg.Date) {
		return nil, store.ErrInvalidRecord
	}
	if pkg.ID == "" {
		pkg.ID = xid.New("pkg")
	}
	if err := s.dispatch(action{kind: packageCreate, payload: pkg}); err != nil {
		return nil, err
	}
	created := pkg
	return &created, nil
}

func (s *Store) UpdatePackage(_ context.Context, pkg domain.Package) (*domain.Package, error) {
	if pkg.ID == "" || pkg.Count < 1 || !domain.ValidDate(pkg.Date) {
		return nil, store.ErrInvalidRecord
	}
	if err := s.dispatch(action{kind: packageUpdate, payload: pkg}); err != nil {
		return nil, err
	}
	updated := pkg
	return &updated, nil
}

func (s *Store) DeletePackage(_ context.Context, id string) error {
	return s.dispatch(action{kind: packageDelete, payload: id})
}

func (s *Store) ListEmployees(_ context.Context) ([]domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.Employees), nil
}

func (s *Store) CreateEmployee(_ context.Context, employee domain.Employee) (*domain.Employee, error) {
	if strings.TrimSpace(employee.Name) == "" || employee.MonthlySalaryCents < 0 {
		return nil, store.ErrInvalidRecord
	}
	if employee.ID == "" {
		employee.ID = xid.New("emp")
	}
	if err := s.dispatch(action{kind: employeeCreate, payload: employee}); err != nil {
		return nil, err
	}
	created := employee
	return &created, nil
}

func (s *Store) UpdateEmployee(_ context.Context, employee domain.Employee) (*domain.Employee, error) {
	if employee.ID == "" || strings.TrimSpace(employee.Name) == "" || employee.MonthlySalaryCents < 0 {
		return nil, store.ErrInvalidRecord
	}
	if err := s.dispatch(action{kind: employeeUpdate, payload: employee}); err != nil {
		return nil, err
	}
	updated := employee
	return &updated, nil
}

func (s *Store) DeleteEmployee(_ context.Context, id string) error {
	return s.dispatch(action{kind: employeeDelete, payload: id})
}

func (s *Store) ListSalaryAdvances(_ context.Context) ([]domain.SalaryAdvance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.SalaryAdvances), nil
}

func (s *Store) CreateSalaryAdvance(_ context.Context, advance domain.SalaryAdvance) (*domain.SalaryAdvance, error) {
	if advance.EmployeeID == "" || advance.AmountCents < 0 || !domain.ValidDate(advance.Date) {
		return nil, store.ErrInvalidRecord
	}
	if advance.ID == "" {
		advance.ID = xid.New("adv")
	}
	if err := s.dispatch(action{kind: advanceCreate, payload: advance}); err != nil {
		return nil, err
	}
	created := advance
	return &created, nil
}

func (s *Store) UpdateSalaryAdvance(_ context.Context, advance domain.SalaryAdvance) (*domain.SalaryAdvance, error) {
	if advance.ID == "" || advance.EmployeeID == "" || advance.AmountCents < 0 || !domain.ValidDate(advance.Date) {
		return nil, store.ErrInvalidRecord
	}
	if err := s.dispatch(action{kind: advanceUpdate, payload: advance}); err != nil {
		return nil, err
	}
	updated := advance
	return &updated, nil
}

func (s *Store) DeleteSalaryAdvance(_ context.Context, id string) error {
	return s.dispatch(action{kind: advanceDelete, payload: id})
}

func (s *Store) Snapshot(_ context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := cloneSnapshot(s.st)
	return &snapshot, nil
}

func cloneEntry(entry domain.StockEntry) domain.StockEntry {
	dup := entry
	dup.Lines = slices.Clone(entry.Lines)
	return dup
}

func cloneSnapshot(snapshot domain.Snapshot) domain.Snapshot {
	dup := normalized(snapshot)
	dup.Products = slices.Clone(dup.Products)
	dup.Suppliers = slices.Clone(dup.Suppliers)
	entries := make([]domain.StockEntry, 0, len(dup.StockEntries))
	for _, entry := range dup.StockEntries {
		entries = append(entries, cloneEntry(entry))
	}
	dup.StockEntries = entries
	dup.Payments = slices.Clone(dup.Payments)
	dup.Expenses = slices.Clone(dup.Expenses)
	dup.ExpenseCategories = slices.Clone(dup.ExpenseCategories)
	dup.Packages = slices.Clone(dup.Packages)
	dup.Employees = slices.Clone(dup.Employees)
	dup.SalaryAdvances = slices.Clone(dup.SalaryAdvances)
	return dup
}
