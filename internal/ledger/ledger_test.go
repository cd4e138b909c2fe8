package ledger

import (
	"testing"

	"autoget/backend/internal/domain"
)

func testProducts() map[string]domain.Product {
	return map[string]domain.Product{
		"prod-a": {ID: "prod-a", Name: "Widget", PurchasePriceCents: 1000},
		"prod-b": {ID: "prod-b", Name: "Gadget", PurchasePriceCents: 500},
	}
}

func TestSupplierBalanceUnpaidEntriesOnly(t *testing.T) {
	entries := []domain.StockEntry{
		{ID: "ent-1", SupplierID: "sup-1", Paid: false, Lines: []domain.StockEntryLine{
			{ProductID: "prod-a", Quantity: 3},
			{ProductID: "prod-b", Quantity: 2},
		}},
		// Paid entries never contribute to due.
		{ID: "ent-2", SupplierID: "sup-1", Paid: true, Lines: []domain.StockEntryLine{
			{ProductID: "prod-a", Quantity: 10},
		}},
		// Another supplier's entry is ignored.
		{ID: "ent-3", SupplierID: "sup-2", Paid: false, Lines: []domain.StockEntryLine{
			{ProductID: "prod-b", Quantity: 1},
		}},
	}
	payments := []domain.Payment{
		{ID: "pay-1", SupplierID: "sup-1", AmountCents: 1500},
		{ID: "pay-2", SupplierID: "sup-2", AmountCents: 9999},
	}

	balance := ComputeSupplierBalance("sup-1", entries, payments, testProducts())

	if balance.TotalDueCents != 4000 {
		t.Fatalf("totalDue = %d, want 4000", balance.TotalDueCents)
	}
	if balance.TotalPaidCents != 1500 {
		t.Fatalf("totalPaid = %d, want 1500", balance.TotalPaidCents)
	}
	if balance.RemainingCents != 2500 {
		t.Fatalf("remaining = %d, want 2500", balance.RemainingCents)
	}
	if balance.UnpaidEntries != 1 || balance.PaymentCount != 1 {
		t.Fatalf("counts = %d unpaid, %d payments", balance.UnpaidEntries, balance.PaymentCount)
	}
}

func TestSupplierBalanceMayGoNegative(t *testing.T) {
	entries := []domain.StockEntry{
		{ID: "ent-1", SupplierID: "sup-1", Lines: []domain.StockEntryLine{
			{ProductID: "prod-b", Quantity: 2},
		}},
	}
	payments := []domain.Payment{
		{ID: "pay-1", SupplierID: "sup-1", AmountCents: 1500},
	}

	balance := ComputeSupplierBalance("sup-1", entries, payments, testProducts())
	if balance.RemainingCents != -500 {
		t.Fatalf("remaining = %d, want -500 (supplier credit)", balance.RemainingCents)
	}
}

func TestSupplierBalanceUnknownProductContributesZero(t *testing.T) {
	entries := []domain.StockEntry{
		{ID: "ent-1", SupplierID: "sup-1", Lines: []domain.StockEntryLine{
			{ProductID: "prod-missing", Quantity: 7},
			{ProductID: "prod-a", Quantity: 1},
		}},
	}

	balance := ComputeSupplierBalance("sup-1", entries, nil, testProducts())
	if balance.TotalDueCents != 1000 {
		t.Fatalf("totalDue = %d, want 1000", balance.TotalDueCents)
	}
}

func TestEmployeeBalance(t *testing.T) {
	employee := domain.Employee{ID: "emp-1", MonthlySalaryCents: 50000}
	advances := []domain.SalaryAdvance{
		{ID: "adv-1", EmployeeID: "emp-1", AmountCents: 10000},
		{ID: "adv-2", EmployeeID: "emp-1", AmountCents: 5000},
		{ID: "adv-3", EmployeeID: "emp-2", AmountCents: 99999},
	}

	balance := ComputeEmployeeBalance(employee, advances)
	if balance.TotalAdvancesCents != 15000 {
		t.Fatalf("totalAdvances = %d, want 15000", balance.TotalAdvancesCents)
	}
	if balance.RemainingCents != 35000 {
		t.Fatalf("remaining = %d, want 35000", balance.RemainingCents)
	}
	if balance.AdvanceCount != 2 {
		t.Fatalf("advanceCount = %d, want 2", balance.AdvanceCount)
	}
}

func TestEmployeeBalanceNoAdvances(t *testing.T) {
	employee := domain.Employee{ID: "emp-1", MonthlySalaryCents: 42000}
	balance := ComputeEmployeeBalance(employee, nil)
	if balance.RemainingCents != 42000 || balance.AdvanceCount != 0 {
		t.Fatalf("unexpected balance %+v", balance)
	}
}
