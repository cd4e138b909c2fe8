package domain

import "time"

// Calendar dates are zero-padded YYYY-MM-DD strings throughout. Period
// windowing relies on lexicographic comparison of this exact format, so the
// zero padding must never be dropped.
const DateLayout = "2006-01-02"

// ValidDate reports whether s is a zero-padded YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return false
	}
	return t.Format(DateLayout) == s
}

type Product struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Reference          string `json:"reference,omitempty"`
	PurchasePriceCents int64  `json:"purchasePriceCents"`
}

type Supplier struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
	Address string `json:"address,omitempty"`
}

// StockEntryLine is a (product, quantity) pair inside a stock entry. Lines
// have no independent identity in the local backend; the remote backend gives
// each row its own id, which is irrelevant to domain semantics and dropped on
// read.
type StockEntryLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// StockEntry is one stock-receipt event from a supplier. Paid is a
// whole-entry flag set independently of the payment ledger; it is not derived
// from payments.
type StockEntry struct {
	ID         string           `json:"id"`
	Date       string           `json:"date"`
	SupplierID string           `json:"supplierId"`
	Paid       bool             `json:"paid"`
	Lines      []StockEntryLine `json:"lines"`
}

// Payment reduces a supplier's outstanding balance. Payments are unallocated:
// they count against the supplier's running total, never a specific entry.
type Payment struct {
	ID          string `json:"id"`
	SupplierID  string `json:"supplierId"`
	AmountCents int64  `json:"amountCents"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

type Expense struct {
	ID           string `json:"id"`
	CategoryName string `json:"categoryName"`
	AmountCents  int64  `json:"amountCents"`
	Date         string `json:"date"`
	Description  string `json:"description,omitempty"`
}

type ExpenseCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Package is one shipped-parcel log entry.
type Package struct {
	ID          string `json:"id"`
	Count       int    `json:"count"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

type Employee struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	MonthlySalaryCents int64  `json:"monthlySalaryCents"`
	Contact            string `json:"contact,omitempty"`
	Role               string `json:"role,omitempty"`
}

// SalaryAdvance accumulates against the employee's running balance; advances
// are never reset per pay cycle.
type SalaryAdvance struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employeeId"`
	AmountCents int64  `json:"amountCents"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

// Snapshot is the read-only export of every collection: one JSON-serializable
// object keyed by collection name. The local backend also persists this exact
// shape as its durable snapshot.
type Snapshot struct {
	Products          []Product         `json:"products"`
	Suppliers         []Supplier        `json:"suppliers"`
	StockEntries      []StockEntry      `json:"stockEntries"`
	Payments          []Payment         `json:"payments"`
	Expenses          []Expense         `json:"expenses"`
	ExpenseCategories []ExpenseCategory `json:"expenseCategories"`
	Packages          []Package         `json:"packages"`
	Employees         []Employee        `json:"employees"`
	SalaryAdvances    []SalaryAdvance   `json:"salaryAdvances"`
}

// LineTotalCents is quantity times the product's purchase price.
func LineTotalCents(line StockEntryLine, product Product) int64 {
	return int64(line.Quantity) * product.PurchasePriceCents
}

// EntryTotalCents sums line totals over the entry. Lines referencing a
// product missing from the lookup contribute zero rather than failing;
// aggregation never throws for malformed input.
func EntryTotalCents(entry StockEntry, productsByID map[string]Product) int64 {
	total := int64(0)
	for _, line := range entry.Lines {
		total += LineTotalCents(line, productsByID[line.ProductID])
	}
	return total
}

type ProductUpdateRequest struct {
	Name               *string `json:"name,omitempty"`
	Reference          *string `json:"reference,omitempty"`
	PurchasePriceCents *int64  `json:"purchasePriceCents,omitempty"`
}

type SupplierUpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	Contact *string `json:"contact,omitempty"`
	Address *string `json:"address,omitempty"`
}

// StockEntryUpdateRequest patches the entry header. Lines are created with
// their parent entry and are not independently addressable afterwards.
type StockEntryUpdateRequest struct {
	Date       *string `json:"date,omitempty"`
	SupplierID *string `json:"supplierId,omitempty"`
	Paid       *bool   `json:"paid,omitempty"`
}

type PaymentUpdateRequest struct {
	SupplierID  *string `json:"supplierId,omitempty"`
	AmountCents *int64  `json:"amountCents,omitempty"`
	Date        *string `json:"date,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ExpenseUpdateRequest struct {
	CategoryName *string `json:"categoryName,omitempty"`
	AmountCents  *int64  `json:"amountCents,omitempty"`
	Date         *string `json:"date,omitempty"`
	Description  *string `json:"description,omitempty"`
}

type PackageUpdateRequest struct {
	Count       *int    `json:"count,omitempty"`
	Date        *string `json:"date,omitempty"`
	Description *string `json:"description,omitempty"`
}

type EmployeeUpdateRequest struct {
	Name               *string `json:"name,omitempty"`
	MonthlySalaryCents *int64  `json:"monthlySalaryCents,omitempty"`
	Contact            *string `json:"contact,omitempty"`
	Role               *string `json:"role,omitempty"`
}

type SalaryAdvanceUpdateRequest struct {
	EmployeeID  *string `json:"employeeId,omitempty"`
	AmountCents *int64  `json:"amountCents,omitempty"`
	Date        *string `json:"date,omitempty"`
	Description *string `json:"description,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}
