package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"autoget/backend/internal/domain"
	"autoget/backend/internal/ledger"
	"autoget/backend/internal/period"
	"autoget/backend/internal/stats"
)

// DashboardSummary aggregates every collection over one period window.
// Outstanding supplier debt is always all-time; windowing a running balance
// would make it meaningless.
type DashboardSummary struct {
	Period             string `json:"period"`
	From               string `json:"from,omitempty"`
	To                 string `json:"to,omitempty"`
	PurchaseTotalCents int64  `json:"purchaseTotalCents"`
	EntryCount         int    `json:"entryCount"`
	UnpaidEntryCount   int    `json:"unpaidEntryCount"`
	PaymentTotalCents  int64  `json:"paymentTotalCents"`
	PaymentCount       int    `json:"paymentCount"`
	ExpenseTotalCents  int64  `json:"expenseTotalCents"`
	ExpenseCount       int    `json:"expenseCount"`
	PackageCount       int    `json:"packageCount"`
	ParcelCount        int    `json:"parcelCount"`
	AdvanceTotalCents  int64  `json:"advanceTotalCents"`
	AdvanceCount       int    `json:"advanceCount"`
	OutstandingCents   int64  `json:"outstandingCents"`
}

type SupplierSummary struct {
	Supplier domain.Supplier        `json:"supplier"`
	Balance  ledger.SupplierBalance `json:"balance"`
	Entries  int                    `json:"entries"`
}

type SuppliersOverview struct {
	SupplierCount       int                      `json:"supplierCount"`
	TotalDueCents       int64                    `json:"totalDueCents"`
	TotalPaidCents      int64                    `json:"totalPaidCents"`
	TotalRemainingCents int64                    `json:"totalRemainingCents"`
	Balances            []ledger.SupplierBalance `json:"balances"`
}

type EmployeeSummary struct {
	Employee domain.Employee        `json:"employee"`
	Balance  ledger.EmployeeBalance `json:"balance"`
}

type ExpenseCategoryStat struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	TotalCents int64   `json:"totalCents"`
	Share      float64 `json:"share"`
}

type ExpenseBreakdown struct {
	Period           string                `json:"period"`
	TotalCents       int64                 `json:"totalCents"`
	AverageCents     float64               `json:"averageCents"`
	MaxCents         int64                 `json:"maxCents"`
	MinPositiveCents int64                 `json:"minPositiveCents"`
	Categories       []ExpenseCategoryStat `json:"categories"`
}

func dashboardCacheKey(p string) string {
	if p == "" {
		p = "all"
	}
	return "reports:dashboard:" + p
}

// DashboardSummary computes the window aggregate, serving from the report
// cache when a fresh copy exists. Cache errors never fail the report.
// Unknown periods collapse to the all-data summary so every cacheable key is
// one that invalidateReports knows about.
func (s *Service) DashboardSummary(ctx context.Context, p period.Period) (DashboardSummary, error) {
	if _, _, ok := period.Bounds(s.now(), p); !ok {
		p = ""
	}
	key := dashboardCacheKey(string(p))
	if payload, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("report cache read failed", "key", key, "error", err)
	} else if ok {
		var cached DashboardSummary
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
		s.logger.Warn("report cache entry unreadable, recomputing", "key", key)
	}

	snapshot, err := s.repo.Snapshot(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}

	summary := buildDashboard(s.now(), snapshot, p)

	if payload, err := json.Marshal(summary); err == nil {
		if err := s.cache.Set(ctx, key, payload, s.reportTTL); err != nil {
			s.logger.Warn("report cache write failed", "key", key, "error", err)
		}
	}
	return summary, nil
}

func buildDashboard(now time.Time, snapshot *domain.Snapshot, p period.Period) DashboardSummary {
	summary := DashboardSummary{Period: string(p)}
	summary.From, summary.To, _ = period.Bounds(now, p)

	productsByID := productIndex(snapshot.Products)

	entries := period.FilterAt(now, snapshot.StockEntries, func(e domain.StockEntry) string { return e.Date }, p)
	summary.EntryCount = stats.Count(entries)
	summary.PurchaseTotalCents = stats.Sum(entries, func(e domain.StockEntry) int64 {
		return domain.EntryTotalCents(e, productsByID)
	})
	for _, entry := range entries {
		if !entry.Paid {
			summary.UnpaidEntryCount++
		}
	}

	payments := period.FilterAt(now, snapshot.Payments, func(p domain.Payment) string { return p.Date }, p)
	summary.PaymentCount = stats.Count(payments)
	summary.PaymentTotalCents = stats.Sum(payments, func(p domain.Payment) int64 { return p.AmountCents })

	expenses := period.FilterAt(now, snapshot.Expenses, func(e domain.Expense) string { return e.Date }, p)
	summary.ExpenseCount = stats.Count(expenses)
	summary.ExpenseTotalCents = stats.Sum(expenses, func(e domain.Expense) int64 { return e.AmountCents })

	packages := period.FilterAt(now, snapshot.Packages, func(p domain.Package) string { return p.Date }, p)
	summary.PackageCount = stats.Count(packages)
	summary.ParcelCount = int(stats.Sum(packages, func(p domain.Package) int64 { return int64(p.Count) }))

	advances := period.FilterAt(now, snapshot.SalaryAdvances, func(a domain.SalaryAdvance) string { return a.Date }, p)
	summary.AdvanceCount = stats.Count(advances)
	summary.AdvanceTotalCents = stats.Sum(advances, func(a domain.SalaryAdvance) int64 { return a.AmountCents })

	for _, supplier := range snapshot.Suppliers {
		balance := ledger.ComputeSupplierBalance(supplier.ID, snapshot.StockEntries, snapshot.Payments, productsByID)
		summary.OutstandingCents += balance.RemainingCents
	}

	return summary
}

func (s *Service) SupplierSummary(ctx context.Context, supplierID string) (SupplierSummary, error) {
	supplier, err := s.findSupplier(ctx, supplierID)
	if err != nil {
		return SupplierSummary{}, err
	}

	snapshot, err := s.repo.Snapshot(ctx)
	if err != nil {
		return SupplierSummary{}, err
	}

	summary := SupplierSummary{
		Supplier: *supplier,
		Balance:  ledger.ComputeSupplierBalance(supplierID, snapshot.StockEntries, snapshot.Payments, productIndex(snapshot.Products)),
	}
	for _, entry := range snapshot.StockEntries {
		if entry.SupplierID == supplierID {
			summary.Entries++
		}
	}
	return summary, nil
}

// SuppliersOverview lists every supplier's balance, largest debt first.
func (s *Service) SuppliersOverview(ctx context.Context) (SuppliersOverview, error) {
	snapshot, err := s.repo.Snapshot(ctx)
	if err != nil {
		return SuppliersOverview{}, err
	}

	productsByID := productIndex(snapshot.Products)
	overview := SuppliersOverview{
		SupplierCount: len(snapshot.Suppliers),
		Balances:      make([]ledger.SupplierBalance, 0, len(snapshot.Suppliers)),
	}
	for _, supplier := range snapshot.Suppliers {
		balance := ledger.ComputeSupplierBalance(supplier.ID, snapshot.StockEntries, snapshot.Payments, productsByID)
		overview.TotalDueCents += balance.TotalDueCents
		overview.TotalPaidCents += balance.TotalPaidCents
		overview.TotalRemainingCents += balance.RemainingCents
		overview.Balances = append(overview.Balances, balance)
	}
	sort.Slice(overview.Balances, func(i, j int) bool {
		if overview.Balances[i].RemainingCents != overview.Balances[j].RemainingCents {
			return overview.Balances[i].RemainingCents > overview.Balances[j].RemainingCents
		}
		return overview.Balances[i].SupplierID < overview.Balances[j].SupplierID
	})
	return overview, nil
}

func (s *Service) EmployeeSummary(ctx context.Context, employeeID string) (EmployeeSummary, error) {
	employee, err := s.findEmployee(ctx, employeeID)
	if err != nil {
		return EmployeeSummary{}, err
	}

	advances, err := s.repo.ListSalaryAdvances(ctx)
	if err != nil {
		return EmployeeSummary{}, err
	}

	return EmployeeSummary{
		Employee: *employee,
		Balance:  ledger.ComputeEmployeeBalance(*employee, advances),
	}, nil
}

// ExpenseBreakdown groups the period's expenses by category, largest total
// first, each with its share of the period total.
func (s *Service) ExpenseBreakdown(ctx context.Context, p period.Period) (ExpenseBreakdown, error) {
	expenses, err := s.repo.ListExpenses(ctx)
	if err != nil {
		return ExpenseBreakdown{}, err
	}

	windowed := period.FilterAt(s.now(), expenses, func(e domain.Expense) string { return e.Date }, p)
	amountOf := func(e domain.Expense) int64 { return e.AmountCents }

	breakdown := ExpenseBreakdown{
		Period:           string(p),
		TotalCents:       stats.Sum(windowed, amountOf),
		AverageCents:     stats.Average(windowed, amountOf),
		MaxCents:         stats.Max(windowed, amountOf),
		MinPositiveCents: stats.MinPositive(windowed, amountOf),
	}

	groups := stats.GroupBy(windowed, func(e domain.Expense) string { return e.CategoryName }, amountOf)
	breakdown.Categories = make([]ExpenseCategoryStat, 0, len(groups))
	for category, group := range groups {
		breakdown.Categories = append(breakdown.Categories, ExpenseCategoryStat{
			Category:   category,
			Count:      group.Count,
			TotalCents: group.TotalCents,
			Share:      stats.Rate(group.TotalCents, breakdown.TotalCents),
		})
	}
	sort.Slice(breakdown.Categories, func(i, j int) bool {
		if breakdown.Categories[i].TotalCents != breakdown.Categories[j].TotalCents {
			return breakdown.Categories[i].TotalCents > breakdown.Categories[j].TotalCents
		}
		return breakdown.Categories[i].Category < breakdown.Categories[j].Category
	})
	return breakdown, nil
}

func productIndex(products []domain.Product) map[string]domain.Product {
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID
}
