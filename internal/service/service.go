// Package service applies validation and cross-entity rules on top of the
// repository, and computes the reporting surface.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"autoget/backend/internal/cache"
	"autoget/backend/internal/domain"
	"autoget/backend/internal/store"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo      store.Repository
	cache     cache.ReportCache
	reportTTL time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func New(repo store.Repository, reportCache cache.ReportCache, reportTTL time.Duration, logger *slog.Logger) *Service {
	if reportCache == nil {
		reportCache = cache.NoopReportCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		repo:      repo,
		cache:     reportCache,
		reportTTL: reportTTL,
		logger:    logger,
		now:       time.Now,
	}
}

func requireAdmin(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return fmt.Errorf("admin role required")
	}
	return nil
}

// invalidateReports drops every cached report after a successful mutation.
// Cache failures are logged and swallowed; the store already holds the truth.
func (s *Service) invalidateReports(ctx context.Context) {
	keys := []string{
		dashboardCacheKey(""),
		dashboardCacheKey("today"),
		dashboardCacheKey("week"),
		dashboardCacheKey("month"),
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.logger.Warn("report cache invalidation failed", "error", err)
	}
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}

	product.ID = ""
	product.Name = strings.TrimSpace(product.Name)
	product.Reference = strings.TrimSpace(product.Reference)
	if product.Name == "" || product.PurchasePriceCents < 0 {
		return domain.Product{}, store.ErrInvalidRecord
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}
	s.invalidateReports(ctx)
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}

	existing, err := s.findProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, store.ErrInvalidRecord
		}
		updated.Name = name
	}
	if req.Reference != nil {
		updated.Reference = strings.TrimSpace(*req.Reference)
	}
	if req.PurchasePriceCents != nil {
		if *req.PurchasePriceCents < 0 {
			return domain.Product{}, store.ErrInvalidRecord
		}
		updated.PurchasePriceCents = *req.PurchasePriceCents
	}

	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}
	s.invalidateReports(ctx)
	return *saved, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *Service) findProduct(ctx context.Context, id string) (*domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Service) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

func (s *Service) CreateSupplier(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Supplier{}, err
	}

	supplier.ID = ""
	supplier.Name = strings.TrimSpace(supplier.Name)
	supplier.Contact = strings.TrimSpace(supplier.Contact)
	supplier.Address = strings.TrimSpace(supplier.Address)
	if supplier.Name == "" {
		return domain.Supplier{}, store.ErrInvalidRecord
	}

	created, err := s.repo.CreateSupplier(ctx, supplier)
	if err != nil {
		return domain.Supplier{}, err
	}
	s.invalidateReports(ctx)
	return *created, nil
}

func (s *Service) UpdateSupplier(ctx context.Context, id string, req domain.SupplierUpdateRequest) (domain.Supplier, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Supplier{}, err
	}

	existing, err := s.findSupplier(ctx, id)
	if err != nil {
		return domain.Supplier{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Supplier{}, store.ErrInvalidRecord
		}
		updated.Name = name
	}
	if req.Contact != nil {
		updated.Contact = strings.TrimSpace(*req.Contact)
	}
	if req.Address != nil {
		updated.Address = strings.TrimSpace(*req.Address)
	}

	saved, err := s.repo.UpdateSupplier(ctx, updated)
	if err != nil {
		return domain.Supplier{}, err
	}
	s.invalidateReports(ctx)
	return *saved, nil
}

func (s *Service) DeleteSupplier(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteSupplier(ctx, id); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *Service) findSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	suppliers, err := s.repo.ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range suppliers {
		if suppliers[i].ID == id {
			return &suppliers[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Service) ListStockEntries(ctx context.Context) ([]domain.StockEntry, error) {
	return s.repo.ListStockEntries(ctx)
}

// CreateStockEntry validates the header and every line up front, so a partial
// remote write can only be caused by transport failure, never by a line that
// was invalid from the start.
func (s *Service) CreateStockEntry(ctx context.Context, entry domain.StockEntry) (domain.StockEntry, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.StockEntry{}, err
	}

	entry.ID = ""
	entry.Date = strings.TrimSpace(entry.Date)
	if !domain.ValidDate(entry.Date) {
		return domain.StockEntry{}, store.ErrInvalidRecord
	}
	if _, err := s.findSupplier(ctx, entry.SupplierID); err != nil {
		return domain.StockEntry{}, err
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return domain.StockEntry{}, err
	}
	known := make(map[string]bool, len(products))
	for _, p := range products {
		known[p.ID] = true
	}
	for _, line := range entry.Lines {
		if line.Quantity < 1 || !known[line.ProductID] {
			return domain.StockEntry{}, store.ErrInvalidRecord
		}
	}

	created, err := s.repo.CreateStockEntry(ctx, entry)
	if err != nil {
		return domain.StockEntry{}, err
	}
	s.invalidateReports(ctx)
	return *created, nil
}

func (s *Service) UpdateStockEntry(ctx context.Context, id string, req domain.StockEntryUpdateRequest) (domain.StockEntry, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.StockEntry{}, err
	}

	existing, err := s.findStockEntry(ctx, id)
	if err != nil {
		return domain.StockEntry{}, err
	}

	updated := *existing
	if req.Date != nil {
		date := strings.TrimSpace(*req.Date)
		if !domain.ValidDate(date) {
			return domain.StockEntry{}, store.ErrInvalidRecord
		}
		updated.Date = date
	}
	if req.SupplierID != nil {
		if _, err := s.findSupplier(ctx, *req.SupplierID); err != nil {
			return domain.StockEntry{}, err
		}
		updated.SupplierID = *req.SupplierID
	}
	if req.Paid != nil {
		updated.Paid = *req.Paid
	}

	saved, err := s.repo.UpdateStockEntry(ctx, updated)
	if err != nil {
		return domain.StockEntry{}, err
	}
	s.invalidateReports(ctx)
	return *saved, nil
}

func (s *Service) DeleteStockEntry(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteStockEntry(ctx, id); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *Service) FetchStockEntryLines(ctx context.Context, entryID string) ([]domain.StockEntryLine, error) {
	return s.repo.FetchStockEntryLines(ctx, entryID)
}

// RepairStockEntryLines re-submits the intended line set after a reported
// partial write.
func (s *Service) RepairStockEntryLines(ctx context.Context, entryID string, lines []domain.StockEntryLine) (domain.StockEntry, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.StockEntry{}, err
	}
	for _, line := range lines {
		if line.ProductID == "" || line.Quantity < 1 {
			return domain.StockEntry{}, store.ErrInvalidRecord
		}
	}
	repaired, err := s.repo.RepairStockEntryLines(ctx, entryID, lines)
	if err != nil {
		return domain.StockEntry{}, err
	}
	s.invalidateReports(ctx)
	return *repaired, nil
}

func (s *Service) findStockEntry(ctx context.Context, id string) (*domain.StockEntry, error) {
	entries, err := s.repo.ListStockEntries(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Service) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return s.repo.ListPayments(ctx)
}

func (s *Service) CreatePayment(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Payment{}, err
	}

	payment.ID = ""
	payment.Date = strings.TrimSpace(payment.Date)
	payment.Description = strings.TrimSpace(payment.Description)
	if payment.AmountCents < 0 || !domain.ValidDate(payment.Date) {
		return domain.Payment{}, store.ErrInvalidRecord
	}
	if _, err := s.findSupplier(ctx, payment.SupplierID); err != nil {
		return domain.Payment{}, err
	}

	created, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		return domain.Payment{}, err
	}
	s.invalidateReports(ctx)
	return *created, nil
}

func (s *Service) UpdatePayment(ctx context.Context, id string, req domain.PaymentUpdateRequest) (domain.Payment, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Payment{}, err
	}

	existing, err := s.findPayment(ctx, id)
	if err != nil {
		return domain.Payment{}, err
	}

	updated := *existing
	if req.SupplierID != nil {
		if _, err := s.findSupplier(ctx, *req.SupplierID); err != nil {
			return domain.Payment{}, err
		}
		updated.SupplierID = *req.SupplierID
	}
	if req.AmountCents != nil {
		if *req.AmountCents < 0 {
			return domain.Payment{}, store.ErrInvalidRecord
		}
		updated.AmountCents = *req.AmountCents
	}
	if req.Date != nil {
		date := strings.TrimSpace(*req.Date)
		if !domain.ValidDate(date) {
			return domain.Payment{}, store.ErrInvalidRecord
		}
		updated.Date = date
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}

	saved, err := s.repo.UpdatePayment(ctx, updated)
	if err != nil {
		return domain.Payment{}, err
	}
	s.invalidateReports(ctx)
	return *saved, nil
}

func (s *Service) DeletePayment(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeletePayment(ctx, id); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *Service) findPayment(ctx context.Context, id string) (*domain.Payment, error) {
	payments, err := s.repo.ListPayments(ctx)
	if err != nil {
		return nil, err
	}
	for i := range payments {
		if payments[i].ID == id {
			return &payments[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Service) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	return s.repo.ListExpenses(ctx)
}

func (s *Service) CreateExpense(ctx context.Context, expense domain.Expense) (domain.Expense, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Expense{}, err
	}

	expense.ID = ""
	expense.CategoryName = strings.TrimSpace(expense.CategoryName)
	expense.Date = strings.TrimSpace(expense.Date)
	expense.Description = strings.TrimSpace(expense.Description)
	if expense.AmountCents < 0 || !domain.ValidDate(expense.Date) {
		return domain.Expense{}, store.ErrInvalidRecord
	}

	created, err := s.repo.CreateExpense(ctx, expense)
	if err != nil {
		return domain.Expense{}, err
	}
	s.invalidateReports(ctx)
	return *created, nil
}

func (s *Service) UpdateExpense(ctx context.Context, id string, req domain.ExpenseUpdateRequest) (domain.Expense, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Expense{}, err
	}

	existing, err := s.findExpense(ctx, id)
	if err != nil {
		return domain.Expense{}, err
	}

	updated := *existing
	if req.CategoryName != nil {
		updated.CategoryName = strings.TrimSpace(*req.CategoryName)
	}
	if req.AmountCents != nil {
		if *req.AmountCents < 0 {
			return domain.Expense{}, store.ErrInvalidRecord
		}
		updated.AmountCents = *req.AmountCents
	}
	if req.Date != nil {
		date := strings.TrimSpace(*req.Date)
		if !domain.ValidDate(date) {
			return domain.Expense{}, store.ErrInvalidRecord
		}
		updated.Date = date
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}

	saved, err := s.repo.UpdateExpense(ctx, updated)
	if err != nil {
		return domain.Expense{}, err
	}
	s.invalidateReports(ctx)
	return *saved, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *Service) findExpense(ctx context.Context, id string) (*domain.Expense, error) {
	expenses, err := s.repo.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		if expenses[i].ID == id {
			return &expenses[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Service) ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	return s.repo.ListExpenseCategories(ctx)
}

// CreateExpenseCategory is only meaningful on backends with first-class
// category records; others answer ErrUnsupported.
func (s *Service) CreateExpenseCategory(ctx context.Context, category domain.ExpenseCategory) (domain.ExpenseCategory, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.ExpenseCategory{}, err
	}

	category.ID = ""
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return domain.ExpenseCategory{}, store.ErrInvalidRecord
	}

	created, err := s.repo.CreateExpenseCategory(ctx, category)
	if err != nil {
		return domain.ExpenseCategory{}, err
	}
	s.invalidateReports(ctx)
	return *created, nil
}

func (s *Service) DeleteExpenseCategory(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteExpenseCategory(ctx, id); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *Service) ListPackages(ctx context.Context) ([]domain.Package, error) {
	return s.repo.ListPackages(ctx)
}

func (s *Service) CreatePackage(ctx context.Context, pkg domain.Package) (domain.Package, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Package{}, err
	}

	pkg.ID = ""
	pkg.Date = strings.TrimSpace(pkg.Date)
	pkg.Description = strings.TrimSpace(pkg.Description)
	if pkg.Count < 1 || !domain.ValidDate(pkg.Date) {
		return domain.Package{}, store.ErrInvalidRecord
	}

	created, err := s.repo.CreatePackage(ctx, pkg)
	if err != nil {
		return domain.Package{}, err
	}
	s.invalidateReports(ctx)
	return *created, nil
}

func (s *Service) UpdatePackage(ctx context.Context, id string, req domain.PackageUpdateRequest) (domain.Package, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Package{}, err
	}

	existing, err := s.findPackage(ctx, id)
	if err != nil {
		return domain.Package{}, err
	}

	updated := *existing
	if req.Count != nil {
		if *req.Count < 1 {
			return domain.Package{}, store.ErrInvalidRecord
		}
		updated.Count = *req.Count
	}
	if req.Date != nil {
		date := strings.TrimSpace(*req.Date)
		if !domain.ValidDate(date) {
			return domain.Package{}, store.ErrInvalidRecord
		}
		updated.Date = date
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}

	saved, err := s.repo.UpdatePackage(ctx, updated)
	if err != nil {
		return domain.Package{}, err
	}
	s.invalidateReports(ctx)
	return *saved, nil
}

func (s *Service) DeletePackage(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeletePackage(ctx, id); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *Service) findPackage(ctx context.Context, id string) (*domain.Package, error) {
	packages, err := s.repo.ListPackages(ctx)
	if err != nil {
		return nil, err
	}
	for i := range packages {
		if packages[i].ID == id {
			return &packages[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Service) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return s.repo.ListEmployees(ctx)
}

func (s *Service) CreateEmployee(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Employee{}, err
	}

	employee.ID = ""
	employee.Name = strings.TrimSpace(employee.Name)
	employee.Contact = strings.TrimSpace(employee.Contact)
	employee.Role = strings.TrimSpace(employee.Role)
	if employee.Name == "" || employee.MonthlySalaryCents < 0 {
		return domain.Employee{}, store.ErrInvalidRecord
	}

	created, err := s.repo.CreateEmployee(ctx, employee)
	if err != nil {
		return domain.Employee{}, err
	}
	s.invalidateReports(ctx)
	return *created, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, id string, req domain.EmployeeUpdateRequest) (domain.Employee, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Employee{}, err
	}

	existing, err := s.findEmployee(ctx, id)
	if err != nil {
		return domain.Employee{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Employee{}, store.ErrInvalidRecord
		}
		updated.Name = name
	}
	if req.MonthlySalaryCents != nil {
		if *req.MonthlySalaryCents < 0 {
			return domain.Employee{}, store.ErrInvalidRecord
		}
		updated.MonthlySalaryCents = *req.MonthlySalaryCents
	}
	if req.Contact != nil {
		updated.Contact = strings.TrimSpace(*req.Contact)
	}
	if req.Role != nil {
		updated.Role = strings.TrimSpace(*req.Role)
	}

	saved, err := s.repo.UpdateEmployee(ctx, updated)
	if err != nil {
		return domain.Employee{}, err
	}
	s.invalidateReports(ctx)
	return *saved, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteEmployee(ctx, id); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *Service) findEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	for i := range employees {
		if employees[i].ID == id {
			return &employees[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Service) ListSalaryAdvances(ctx context.Context) ([]domain.SalaryAdvance, error) {
	return s.repo.ListSalaryAdvances(ctx)
}

func (s *Service) CreateSalaryAdvance(ctx context.Context, advance domain.SalaryAdvance) (domain.SalaryAdvance, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.SalaryAdvance{}, err
	}

	advance.ID = ""
	advance.Date = strings.TrimSpace(advance.Date)
	advance.Description = strings.TrimSpace(advance.Description)
	if advance.AmountCents < 0 || !domain.ValidDate(advance.Date) {
		return domain.SalaryAdvance{}, store.ErrInvalidRecord
	}
	if _, err := s.findEmployee(ctx, advance.EmployeeID); err != nil {
		return domain.SalaryAdvance{}, err
	}

	created, err := s.repo.CreateSalaryAdvance(ctx, advance)
	if err != nil {
		return domain.SalaryAdvance{}, err
	}
	s.invalidateReports(ctx)
	return *created, nil
}

func (s *Service) UpdateSalaryAdvance(ctx context.Context, id string, req domain.SalaryAdvanceUpdateRequest) (domain.SalaryAdvance, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.SalaryAdvance{}, err
	}

	existing, err := s.findSalaryAdvance(ctx, id)
	if err != nil {
		return domain.SalaryAdvance{}, err
	}

	updated := *existing
	if req.EmployeeID != nil {
		if _, err := s.findEmployee(ctx, *req.EmployeeID); err != nil {
			return domain.SalaryAdvance{}, err
		}
		updated.EmployeeID = *req.EmployeeID
	}
	if req.AmountCents != nil {
		if *req.AmountCents < 0 {
			return domain.SalaryAdvance{}, store.ErrInvalidRecord
		}
		updated.AmountCents = *req.AmountCents
	}
	if req.Date != nil {
		date := strings.TrimSpace(*req.Date)
		if !domain.ValidDate(date) {
			return domain.SalaryAdvance{}, store.ErrInvalidRecord
		}
		updated.Date = date
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}

	saved, err := s.repo.UpdateSalaryAdvance(ctx, updated)
	if err != nil {
		return domain.SalaryAdvance{}, err
	}
	s.invalidateReports(ctx)
	return *saved, nil
}

func (s *Service) DeleteSalaryAdvance(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteSalaryAdvance(ctx, id); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *Service) findSalaryAdvance(ctx context.Context, id string) (*domain.SalaryAdvance, error) {
	advances, err := s.repo.ListSalaryAdvances(ctx)
	if err != nil {
		return nil, err
	}
	for i := range advances {
		if advances[i].ID == id {
			return &advances[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// Export returns the full snapshot of every collection.
func (s *Service) Export(ctx context.Context) (*domain.Snapshot, error) {
	return s.repo.Snapshot(ctx)
}
