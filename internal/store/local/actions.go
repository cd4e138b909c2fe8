package local

import (
	"fmt"

	"autoget/backend/internal/domain"
	"autoget/backend/internal/store"
)

type actionKind string

const (
	productCreate actionKind = "products/create"
	productUpdate actionKind = "products/update"
	productDelete actionKind = "products/delete"

	supplierCreate actionKind = "suppliers/create"
	supplierUpdate actionKind = "suppliers/update"
	supplierDelete actionKind = "suppliers/delete"

	entryCreate actionKind = "stockEntries/create"
	entryUpdate actionKind = "stockEntries/update"
	entryDelete actionKind = "stockEntries/delete"

	paymentCreate actionKind = "payments/create"
	paymentUpdate actionKind = "payments/update"
	paymentDelete actionKind = "payments/delete"

	expenseCreate actionKind = "expenses/create"
	expenseUpdate actionKind = "expenses/update"
	expenseDelete actionKind = "expenses/delete"

	packageCreate actionKind = "packages/create"
	packageUpdate actionKind = "packages/update"
	packageDelete actionKind = "packages/delete"

	employeeCreate actionKind = "employees/create"
	employeeUpdate actionKind = "employees/update"
	employeeDelete actionKind = "employees/delete"

	advanceCreate actionKind = "salaryAdvances/create"
	advanceUpdate actionKind = "salaryAdvances/update"
	advanceDelete actionKind = "salaryAdvances/delete"
)

// action is one state transition command: a kind plus its payload (a domain
// record for create/update, an id string for delete).
type action struct {
	kind    actionKind
	payload any
}

// appended rejects a duplicate id with ErrInvalidRecord, the same error the
// relational backend maps a duplicate key onto.
func appended[T any](items []T, idOf func(T) string, item T) ([]T, error) {
	id := idOf(item)
	for _, existing := range items {
		if idOf(existing) == id {
			return nil, store.ErrInvalidRecord
		}
	}
	next := make([]T, 0, len(items)+1)
	next = append(next, items...)
	next = append(next, item)
	return next, nil
}

func replaced[T any](items []T, idOf func(T) string, item T, id string) ([]T, error) {
	next := make([]T, len(items))
	found := false
	for i, existing := range items {
		if idOf(existing) == id {
			next[i] = item
			found = true
			continue
		}
		next[i] = existing
	}
	if !found {
		return nil, store.ErrNotFound
	}
	return next, nil
}

func removed[T any](items []T, idOf func(T) string, id string) ([]T, error) {
	next := make([]T, 0, len(items))
	found := false
	for _, existing := range items {
		if idOf(existing) == id {
			found = true
			continue
		}
		next = append(next, existing)
	}
	if !found {
		return nil, store.ErrNotFound
	}
	return next, nil
}

// apply is the pure transition function: it never mutates prev, returning a
// fresh snapshot value with only the affected collection replaced.
func apply(prev domain.Snapshot, act action) (domain.Snapshot, error) {
	next := prev
	var err error

	switch act.kind {
	case productCreate:
		next.Products, err = appended(prev.Products, func(v domain.Product) string { return v.ID }, act.payload.(domain.Product))
	case productUpdate:
		p := act.payload.(domain.Product)
		next.Products, err = replaced(prev.Products, func(v domain.Product) string { return v.ID }, p, p.ID)
	case productDelete:
		next.Products, err = removed(prev.Products, func(v domain.Product) string { return v.ID }, act.payload.(string))

	case supplierCreate:
		next.Suppliers, err = appended(prev.Suppliers, func(v domain.Supplier) string { return v.ID }, act.payload.(domain.Supplier))
	case supplierUpdate:
		s := act.payload.(domain.Supplier)
		next.Suppliers, err = replaced(prev.Suppliers, func(v domain.Supplier) string { return v.ID }, s, s.ID)
	case supplierDelete:
		next.Suppliers, err = removed(prev.Suppliers, func(v domain.Supplier) string { return v.ID }, act.payload.(string))

	case entryCreate:
		next.StockEntries, err = appended(prev.StockEntries, func(v domain.StockEntry) string { return v.ID }, cloneEntry(act.payload.(domain.StockEntry)))
	case entryUpdate:
		e := cloneEntry(act.payload.(domain.StockEntry))
		next.StockEntries, err = replaced(prev.StockEntries, func(v domain.StockEntry) string { return v.ID }, e, e.ID)
	case entryDelete:
		next.StockEntries, err = removed(prev.StockEntries, func(v domain.StockEntry) string { return v.ID }, act.payload.(string))

	case paymentCreate:
		next.Payments, err = appended(prev.Payments, func(v domain.Payment) string { return v.ID }, act.payload.(domain.Payment))
	case paymentUpdate:
		p := act.payload.(domain.Payment)
		next.Payments, err = replaced(prev.Payments, func(v domain.Payment) string { return v.ID }, p, p.ID)
	case paymentDelete:
		next.Payments, err = removed(prev.Payments, func(v domain.Payment) string { return v.ID }, act.payload.(string))

	case expenseCreate:
		next.Expenses, err = appended(prev.Expenses, func(v domain.Expense) string { return v.ID }, act.payload.(domain.Expense))
	case expenseUpdate:
		e := act.payload.(domain.Expense)
		next.Expenses, err = replaced(prev.Expenses, func(v domain.Expense) string { return v.ID }, e, e.ID)
	case expenseDelete:
		next.Expenses, err = removed(prev.Expenses, func(v domain.Expense) string { return v.ID }, act.payload.(string))

	case packageCreate:
		next.Packages, err = appended(prev.Packages, func(v domain.Package) string { return v.ID }, act.payload.(domain.Package))
	case packageUpdate:
		p := act.payload.(domain.Package)
		next.Packages, err = replaced(prev.Packages, func(v domain.Package) string { return v.ID }, p, p.ID)
	case packageDelete:
		next.Packages, err = removed(prev.Packages, func(v domain.Package) string { return v.ID }, act.payload.(string))

	case employeeCreate:
		next.Employees, err = appended(prev.Employees, func(v domain.Employee) string { return v.ID }, act.payload.(domain.Employee))
	case employeeUpdate:
		e := act.payload.(domain.Employee)
		next.Employees, err = replaced(prev.Employees, func(v domain.Employee) string { return v.ID }, e, e.ID)
	case employeeDelete:
		next.Employees, err = removed(prev.Employees, func(v domain.Employee) string { return v.ID }, act.payload.(string))

	case advanceCreate:
		next.SalaryAdvances, err = appended(prev.SalaryAdvances, func(v domain.SalaryAdvance) string { return v.ID }, act.payload.(domain.SalaryAdvance))
	case advanceUpdate:
		a := act.payload.(domain.SalaryAdvance)
		next.SalaryAdvances, err = replaced(prev.SalaryAdvances, func(v domain.SalaryAdvance) string { return v.ID }, a, a.ID)
	case advanceDelete:
		next.SalaryAdvances, err = removed(prev.SalaryAdvances, func(v domain.SalaryAdvance) string { return v.ID }, act.payload.(string))

	default:
		return prev, fmt.Errorf("unknown action kind %q", act.kind)
	}

	if err != nil {
		return prev, err
	}
	return next, nil
}
