// Package ledger derives supplier and employee balances from the raw
// collections. This is the one place cross-entity invariants are computed.
package ledger

import (
	"autoget/backend/internal/domain"
)

// SupplierBalance is a heuristic snapshot, not a strict accounting identity:
// the Paid flag on an entry is set independently of the payment ledger, and
// payments are unallocated against the supplier's running total.
type SupplierBalance struct {
	SupplierID     string `json:"supplierId"`
	TotalDueCents  int64  `json:"totalDueCents"`
	TotalPaidCents int64  `json:"totalPaidCents"`
	// RemainingCents may be negative, meaning the supplier holds a credit.
	RemainingCents int64 `json:"remainingCents"`
	UnpaidEntries  int   `json:"unpaidEntries"`
	PaymentCount   int   `json:"paymentCount"`
}

// ComputeSupplierBalance sums entry totals over the supplier's unpaid entries
// and subtracts every payment recorded for the supplier, regardless of which
// entries those payments notionally cover.
func ComputeSupplierBalance(supplierID string, entries []domain.StockEntry, payments []domain.Payment, productsByID map[string]domain.Product) SupplierBalance {
	balance := SupplierBalance{SupplierID: supplierID}
	for _, entry := range entries {
		if entry.SupplierID != supplierID || entry.Paid {
			continue
		}
		balance.TotalDueCents += domain.EntryTotalCents(entry, productsByID)
		balance.UnpaidEntries++
	}
	for _, payment := range payments {
		if payment.SupplierID != supplierID {
			continue
		}
		balance.TotalPaidCents += payment.AmountCents
		balance.PaymentCount++
	}
	balance.RemainingCents = balance.TotalDueCents - balance.TotalPaidCents
	return balance
}

// EmployeeBalance is a running value: advances accumulate indefinitely and
// are never reset per pay cycle.
type EmployeeBalance struct {
	EmployeeID         string `json:"employeeId"`
	MonthlySalaryCents int64  `json:"monthlySalaryCents"`
	TotalAdvancesCents int64  `json:"totalAdvancesCents"`
	RemainingCents     int64  `json:"remainingCents"`
	AdvanceCount       int    `json:"advanceCount"`
}

func ComputeEmployeeBalance(employee domain.Employee, advances []domain.SalaryAdvance) EmployeeBalance {
	balance := EmployeeBalance{
		EmployeeID:         employee.ID,
		MonthlySalaryCents: employee.MonthlySalaryCents,
	}
	for _, advance := range advances {
		if advance.EmployeeID != employee.ID {
			continue
		}
		balance.TotalAdvancesCents += advance.AmountCents
		balance.AdvanceCount++
	}
	balance.RemainingCents = balance.MonthlySalaryCents - balance.TotalAdvancesCents
	return balance
}
