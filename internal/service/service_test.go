package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"autoget/backend/internal/domain"
	"autoget/backend/internal/period"
	"autoget/backend/internal/store"
	"autoget/backend/internal/store/local"
)

// recordingCache remembers what was cached and what was invalidated.
type recordingCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	invalidated []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{data: make(map[string][]byte)}
}

func (c *recordingCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.data[key]
	return payload, ok, nil
}

func (c *recordingCache) Set(_ context.Context, key string, payload []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = payload
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.data, key)
		c.invalidated = append(c.invalidated, key)
	}
	return nil
}

func newTestService(t *testing.T) (*Service, *recordingCache) {
	t.Helper()
	repo, err := local.New("")
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	reportCache := newRecordingCache()
	svc := New(repo, reportCache, time.Minute, nil)
	svc.now = func() time.Time {
		now, _ := time.Parse(domain.DateLayout, "2025-03-05")
		return now
	}
	return svc, reportCache
}

func adminCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "admin", Role: "admin"})
}

func TestMutationsRequireAdmin(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateProduct(context.Background(), domain.Product{Name: "Widget"})
	if err == nil {
		t.Fatalf("expected create without actor to fail")
	}
	if err := svc.DeleteProduct(context.Background(), "prod-x"); err == nil {
		t.Fatalf("expected delete without actor to fail")
	}
}

func TestCreateProductTrimsAndValidates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := adminCtx()

	product, err := svc.CreateProduct(ctx, domain.Product{Name: "  Widget  ", Reference: " W-1 ", PurchasePriceCents: 100})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if product.Name != "Widget" || product.Reference != "W-1" {
		t.Fatalf("fields not trimmed: %+v", product)
	}

	if _, err := svc.CreateProduct(ctx, domain.Product{Name: "Neg", PurchasePriceCents: -1}); !errors.Is(err, store.ErrInvalidRecord) {
		t.Fatalf("negative price = %v, want ErrInvalidRecord", err)
	}
}

func TestPaymentRequiresKnownSupplier(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := adminCtx()

	_, err := svc.CreatePayment(ctx, domain.Payment{SupplierID: "sup-nope", AmountCents: 10, Date: "2025-03-05"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("payment to unknown supplier = %v, want ErrNotFound", err)
	}
}

func TestStockEntryRequiresKnownProducts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := adminCtx()

	supplier, err := svc.CreateSupplier(ctx, domain.Supplier{Name: "Acme"})
	if err != nil {
		t.Fatalf("create supplier: %v", err)
	}

	_, err = svc.CreateStockEntry(ctx, domain.StockEntry{
		Date:       "2025-03-05",
		SupplierID: supplier.ID,
		Lines:      []domain.StockEntryLine{{ProductID: "prod-nope", Quantity: 1}},
	})
	if !errors.Is(err, store.ErrInvalidRecord) {
		t.Fatalf("entry with unknown product = %v, want ErrInvalidRecord", err)
	}
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := adminCtx()

	employee, err := svc.CreateEmployee(ctx, domain.Employee{Name: "Sam", MonthlySalaryCents: 50000, Role: "driver"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	salary := int64(60000)
	updated, err := svc.UpdateEmployee(ctx, employee.ID, domain.EmployeeUpdateRequest{MonthlySalaryCents: &salary})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Sam" || updated.Role != "driver" || updated.MonthlySalaryCents != 60000 {
		t.Fatalf("patch touched unrelated fields: %+v", updated)
	}
}

func seedLedger(t *testing.T, svc *Service) (domain.Supplier, domain.Product) {
	t.Helper()
	ctx := adminCtx()

	supplier, err := svc.CreateSupplier(ctx, domain.Supplier{Name: "Acme"})
	if err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	product, err := svc.CreateProduct(ctx, domain.Product{Name: "Widget", PurchasePriceCents: 1000})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	_, err = svc.CreateStockEntry(ctx, domain.StockEntry{
		Date:       "2025-03-04",
		SupplierID: supplier.ID,
		Lines:      []domain.StockEntryLine{{ProductID: product.ID, Quantity: 4}},
	})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	_, err = svc.CreatePayment(ctx, domain.Payment{SupplierID: supplier.ID, AmountCents: 1500, Date: "2025-03-05"})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	return supplier, product
}

func TestDashboardSummaryWeek(t *testing.T) {
	svc, _ := newTestService(t)
	seedLedger(t, svc)
	ctx := adminCtx()

	if _, err := svc.CreateExpense(ctx, domain.Expense{CategoryName: "rent", AmountCents: 300, Date: "2025-03-03"}); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	// Outside the week window ending 2025-03-09.
	if _, err := svc.CreateExpense(ctx, domain.Expense{CategoryName: "rent", AmountCents: 9999, Date: "2025-02-01"}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	summary, err := svc.DashboardSummary(ctx, period.Week)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if summary.From != "2025-03-03" || summary.To != "2025-03-09" {
		t.Fatalf("window = %s..%s", summary.From, summary.To)
	}
	if summary.PurchaseTotalCents != 4000 || summary.EntryCount != 1 || summary.UnpaidEntryCount != 1 {
		t.Fatalf("purchases: %+v", summary)
	}
	if summary.PaymentTotalCents != 1500 || summary.ExpenseTotalCents != 300 {
		t.Fatalf("cash flows: %+v", summary)
	}
	if summary.OutstandingCents != 2500 {
		t.Fatalf("outstanding = %d, want 2500", summary.OutstandingCents)
	}
}

func TestDashboardSummaryUsesCache(t *testing.T) {
	svc, reportCache := newTestService(t)
	seedLedger(t, svc)
	ctx := adminCtx()

	first, err := svc.DashboardSummary(ctx, period.Month)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if _, ok := reportCache.data[dashboardCacheKey("month")]; !ok {
		t.Fatalf("expected dashboard to be cached")
	}

	second, err := svc.DashboardSummary(ctx, period.Month)
	if err != nil {
		t.Fatalf("dashboard again: %v", err)
	}
	if first != second {
		t.Fatalf("cached summary differs: %+v vs %+v", first, second)
	}
}

func TestDashboardSummaryUnknownPeriodIsNeverStale(t *testing.T) {
	svc, reportCache := newTestService(t)
	ctx := adminCtx()

	if _, err := svc.CreateExpense(ctx, domain.Expense{CategoryName: "rent", AmountCents: 100, Date: "2025-03-01"}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	first, err := svc.DashboardSummary(ctx, period.Period("bogus"))
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if first.ExpenseTotalCents != 100 {
		t.Fatalf("expenseTotal = %d, want 100", first.ExpenseTotalCents)
	}
	// The unknown period must land on the all-data key, not a key of its own
	// that invalidation would never touch.
	if _, ok := reportCache.data[dashboardCacheKey("bogus")]; ok {
		t.Fatalf("unknown period cached under its own key")
	}
	if _, ok := reportCache.data[dashboardCacheKey("")]; !ok {
		t.Fatalf("expected unknown period to share the all-data cache key")
	}

	if _, err := svc.CreateExpense(ctx, domain.Expense{CategoryName: "rent", AmountCents: 200, Date: "2025-03-02"}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	second, err := svc.DashboardSummary(ctx, period.Period("bogus"))
	if err != nil {
		t.Fatalf("dashboard after mutation: %v", err)
	}
	if second.ExpenseTotalCents != 300 {
		t.Fatalf("expenseTotal = %d, want fresh 300", second.ExpenseTotalCents)
	}
}

func TestMutationInvalidatesReportCache(t *testing.T) {
	svc, reportCache := newTestService(t)
	supplier, _ := seedLedger(t, svc)
	ctx := adminCtx()

	if _, err := svc.DashboardSummary(ctx, period.Month); err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if _, err := svc.CreatePayment(ctx, domain.Payment{SupplierID: supplier.ID, AmountCents: 100, Date: "2025-03-05"}); err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if _, ok := reportCache.data[dashboardCacheKey("month")]; ok {
		t.Fatalf("expected mutation to invalidate the dashboard cache")
	}

	summary, err := svc.DashboardSummary(ctx, period.Month)
	if err != nil {
		t.Fatalf("dashboard after mutation: %v", err)
	}
	if summary.PaymentTotalCents != 1600 {
		t.Fatalf("paymentTotal = %d, want 1600", summary.PaymentTotalCents)
	}
}

func TestSupplierSummary(t *testing.T) {
	svc, _ := newTestService(t)
	supplier, _ := seedLedger(t, svc)

	summary, err := svc.SupplierSummary(adminCtx(), supplier.ID)
	if err != nil {
		t.Fatalf("supplier summary: %v", err)
	}
	if summary.Balance.RemainingCents != 2500 || summary.Entries != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	if _, err := svc.SupplierSummary(adminCtx(), "sup-nope"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown supplier = %v, want ErrNotFound", err)
	}
}

func TestSuppliersOverviewSortsByDebt(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := adminCtx()

	product, err := svc.CreateProduct(ctx, domain.Product{Name: "Widget", PurchasePriceCents: 1000})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	small, _ := svc.CreateSupplier(ctx, domain.Supplier{Name: "Small"})
	big, _ := svc.CreateSupplier(ctx, domain.Supplier{Name: "Big"})
	for id, qty := range map[string]int{small.ID: 1, big.ID: 5} {
		_, err := svc.CreateStockEntry(ctx, domain.StockEntry{
			Date:       "2025-03-04",
			SupplierID: id,
			Lines:      []domain.StockEntryLine{{ProductID: product.ID, Quantity: qty}},
		})
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
	}

	overview, err := svc.SuppliersOverview(ctx)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.SupplierCount != 2 || overview.TotalRemainingCents != 6000 {
		t.Fatalf("unexpected overview %+v", overview)
	}
	if overview.Balances[0].SupplierID != big.ID {
		t.Fatalf("expected largest debt first, got %+v", overview.Balances)
	}
}

func TestEmployeeSummary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := adminCtx()

	employee, err := svc.CreateEmployee(ctx, domain.Employee{Name: "Sam", MonthlySalaryCents: 50000})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	for _, cents := range []int64{10000, 5000} {
		if _, err := svc.CreateSalaryAdvance(ctx, domain.SalaryAdvance{EmployeeID: employee.ID, AmountCents: cents, Date: "2025-03-05"}); err != nil {
			t.Fatalf("create advance: %v", err)
		}
	}

	summary, err := svc.EmployeeSummary(ctx, employee.ID)
	if err != nil {
		t.Fatalf("employee summary: %v", err)
	}
	if summary.Balance.RemainingCents != 35000 || summary.Balance.AdvanceCount != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestExpenseBreakdownShares(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := adminCtx()

	seed := []domain.Expense{
		{CategoryName: "rent", AmountCents: 1500, Date: "2025-03-03"},
		{CategoryName: "food", AmountCents: 500, Date: "2025-03-04"},
		{CategoryName: "", AmountCents: 0, Date: "2025-03-05"},
	}
	for _, e := range seed {
		if _, err := svc.CreateExpense(ctx, e); err != nil {
			t.Fatalf("create expense: %v", err)
		}
	}

	breakdown, err := svc.ExpenseBreakdown(ctx, period.Week)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if breakdown.TotalCents != 2000 {
		t.Fatalf("total = %d, want 2000", breakdown.TotalCents)
	}
	if breakdown.MinPositiveCents != 500 {
		t.Fatalf("minPositive = %d, want 500", breakdown.MinPositiveCents)
	}
	if len(breakdown.Categories) != 3 {
		t.Fatalf("expected 3 categories, got %+v", breakdown.Categories)
	}
	if breakdown.Categories[0].Category != "rent" || breakdown.Categories[0].Share != 75 {
		t.Fatalf("unexpected top category %+v", breakdown.Categories[0])
	}
}

func TestExportReturnsEveryCollection(t *testing.T) {
	svc, _ := newTestService(t)
	seedLedger(t, svc)

	snapshot, err := svc.Export(adminCtx())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(snapshot.Suppliers) != 1 || len(snapshot.Products) != 1 || len(snapshot.StockEntries) != 1 || len(snapshot.Payments) != 1 {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
	if len(snapshot.StockEntries[0].Lines) != 1 {
		t.Fatalf("expected lines embedded in export")
	}
}

func TestCategoryWritesUnsupportedOnLocalBackend(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateExpenseCategory(adminCtx(), domain.ExpenseCategory{Name: "misc"})
	if !errors.Is(err, store.ErrUnsupported) {
		t.Fatalf("create category = %v, want ErrUnsupported", err)
	}
}
