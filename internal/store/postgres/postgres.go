// Package postgres is the remote adapter: a thin client over a relational
// store. Wire records use snake_case columns and related rows; the adapter
// renames and flattens on read, expands on write, and re-fetches after every
// mutation so the server stays the definition of truth.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"autoget/backend/internal/domain"
	"autoget/backend/internal/store"
	"autoget/backend/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, reference, purchase_price_cents
		FROM products
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 64)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Reference, &p.PurchasePriceCents); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.Name == "" || product.PurchasePriceCents < 0 {
		return nil, store.ErrInvalidRecord
	}
	if product.ID == "" {
		product.ID = xid.New("prod")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, reference, purchase_price_cents)
		VALUES ($1,$2,$3,$4)
	`, product.ID, product.Name, product.Reference, product.PurchasePriceCents)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidRecord
		}
		return nil, err
	}
	return s.fetchProduct(ctx, product.ID)
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" || product.PurchasePriceCents < 0 {
		return nil, store.ErrInvalidRecord
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, reference = $3, purchase_price_cents = $4, updated_at = now()
		WHERE id = $1
	`, product.ID, product.Name, product.Reference, product.PurchasePriceCents)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return s.fetchProduct(ctx, product.ID)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `DELETE FROM products WHERE id = $1`, id)
}

func (s *Store) fetchProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, reference, purchase_price_cents
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Reference, &p.PurchasePriceCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, contact, address
		FROM suppliers
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := make([]domain.Supplier, 0, 32)
	for rows.Next() {
		var sup domain.Supplier
		if err := rows.Scan(&sup.ID, &sup.Name, &sup.Contact, &sup.Address); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, sup)
	}
	return suppliers, rows.Err()
}

func (s *Store) CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	if supplier.Name == "" {
		return nil, store.ErrInvalidRecord
	}
	if supplier.ID == "" {
		supplier.ID = xid.New("sup")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, contact, address)
		VALUES ($1,$2,$3,$4)
	`, supplier.ID, supplier.Name, supplier.Contact, supplier.Address)
	if err != nil {
		return nil, err
	}
	return s.fetchSupplier(ctx, supplier.ID)
}

func (s *Store) UpdateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	if supplier.ID == "" || supplier.Name == "" {
		return nil, store.ErrInvalidRecord
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE suppliers
		SET name = $2, contact = $3, address = $4, updated_at = now()
		WHERE id = $1
	`, supplier.ID, supplier.Name, supplier.Contact, supplier.Address)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return s.fetchSupplier(ctx, supplier.ID)
}

func (s *Store) DeleteSupplier(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
}

func (s *Store) fetchSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	var sup domain.Supplier
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, contact, address
		FROM suppliers
		WHERE id = $1
	`, id).Scan(&sup.ID, &sup.Name, &sup.Contact, &sup.Address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &sup, nil
}

// ListStockEntries returns headers only; lines are loaded lazily through
// FetchStockEntryLines.
func (s *Store) ListStockEntries(ctx context.Context) ([]domain.StockEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entry_date, supplier_id, paid
		FROM stock_entries
		ORDER BY entry_date DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.StockEntry, 0, 64)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// CreateStockEntry writes the header and then the lines, one round trip per
// row with no cross-row atomicity. A failure mid-way returns
// *PartialWriteError so the caller can re-attempt only the missing lines.
func (s *Store) CreateStockEntry(ctx context.Context, entry domain.StockEntry) (*domain.StockEntry, error) {
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_entries (id, entry_date, supplier_id, paid)
		VALUES ($1,$2,$3,$4)
	`, entry.ID, entry.Date, entry.SupplierID, entry.Paid)
	if err != nil {
		return nil, err
	}

	for i, line := range entry.Lines {
		if err := s.insertLine(ctx, entry.ID, line); err != nil {
			return nil, &store.PartialWriteError{
				EntryID:  entry.ID,
				Inserted: i,
				Missing:  entry.Lines[i:],
				Cause:    err,
			}
		}
	}

	return s.refetchEntry(ctx, entry.ID)
}

func (s *Store) insertLine(ctx context.Context, entryID string, line domain.StockEntryLine) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_entry_lines (id, entry_id, product_id, quantity)
		VALUES ($1,$2,$3,$4)
	`, xid.New("sel"), entryID, line.ProductID, line.Quantity)
	return err
}

func (s *Store) UpdateStockEntry(ctx context.Context, entry domain.StockEntry) (*domain.StockEntry, error) {
	if entry.ID == "" || !domain.ValidDate(entry.Date) || entry.SupplierID == "" {
		return nil, store.ErrInvalidRecord
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE stock_entries
		SET entry_date = $2, supplier_id = $3, paid = $4, updated_at = now()
		WHERE id = $1
	`, entry.ID, entry.Date, entry.SupplierID, entry.Paid)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return s.refetchEntry(ctx, entry.ID)
}

func (s *Store) DeleteStockEntry(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM stock_entry_lines WHERE entry_id = $1`, id); err != nil {
		return err
	}
	return s.deleteByID(ctx, `DELETE FROM stock_entries WHERE id = $1`, id)
}

// FetchStockEntryLines reads lines with their product rows embedded by the
// server and flattens them back to (productId, quantity) pairs.
func (s *Store) FetchStockEntryLines(ctx context.Context, entryID string) ([]domain.StockEntryLine, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM stock_entries WHERE id = $1)`, entryID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT l.product_id, l.quantity, COALESCE(p.name, ''), COALESCE(p.purchase_price_cents, 0)
		FROM stock_entry_lines l
		LEFT JOIN products p ON p.id = l.product_id
		WHERE l.entry_id = $1
		ORDER BY l.created_at, l.id
	`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]domain.StockEntryLine, 0, 8)
	for rows.Next() {
		var line domain.StockEntryLine
		var productName string
		var priceCents int64
		if err := rows.Scan(&line.ProductID, &line.Quantity, &productName, &priceCents); err != nil {
			return nil, err
		}
		// The embedded product columns are dropped: domain lines carry
		// only the reference, prices always come from the product
		// collection.
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// RepairStockEntryLines re-attempts a partial write: it compares the lines
// already on the server with the intended set and inserts only what is
// missing.
func (s *Store) RepairStockEntryLines(ctx context.Context, entryID string, lines []domain.StockEntryLine) (*domain.StockEntry, error) {
	existing, err := s.FetchStockEntryLines(ctx, entryID)
	if err != nil {
		return nil, err
	}

	remaining := make(map[domain.StockEntryLine]int, len(existing))
	for _, line := range existing {
		remaining[line]++
	}
	for _, line := range lines {
		if remaining[line] > 0 {
			remaining[line]--
			continue
		}
		if err := s.insertLine(ctx, entryID, line); err != nil {
			return nil, err
		}
	}

	return s.refetchEntry(ctx, entryID)
}

func (s *Store) refetchEntry(ctx context.Context, id string) (*domain.StockEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, entry_date, supplier_id, paid
		FROM stock_entries
		WHERE id = $1
	`, id)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	lines, err := s.FetchStockEntryLines(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return &entry, nil
}

func (s *Store) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, supplier_id, amount_cents, payment_date, description
		FROM payments
		ORDER BY payment_date DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0, 64)
	for rows.Next() {
		var p domain.Payment
		var date time.Time
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.AmountCents, &date, &p.Description); err != nil {
			return nil, err
		}
		p.Date = date.Format(domain.DateLayout)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *Store) CreatePayment(ctx context.Context, payment domain.Payment) (*domain.Payment, error) {
	if payment.SupplierID == "" || payment.AmountCents < 0 || !domain.ValidDate(payment.Date) {
		return nil, store.ErrInvalidRecord
	}
	if payment.ID == "" {
		payment.ID = xid.New("pay")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, supplier_id, amount_cents, payment_date, description)
		VALUES ($1,$2,$3,$4,$5)
	`, payment.ID, payment.SupplierID, payment.AmountCents, payment.Date, payment.Description)
	if err != nil {
		return nil, err
	}
	return s.fetchPayment(ctx, payment.ID)
}

func (s *Store) UpdatePayment(ctx context.Context, payment domain.Payment) (*domain.Payment, error) {
	if payment.ID == "" || payment.SupplierID == "" || payment.AmountCents < 0 || !domain.ValidDate(payment.Date) {
		return nil, store.ErrInvalidRecord
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE payments
		SET supplier_id = $2, amount_cents = $3, payment_date = $4, description = $5, updated_at = now()
		WHERE id = $1
	`, payment.ID, payment.SupplierID, payment.AmountCents, payment.Date, payment.Description)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return s.fetchPayment(ctx, payment.ID)
}

func (s *Store) DeletePayment(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `DELETE FROM payments WHERE id = $1`, id)
}

func (s *Store) fetchPayment(ctx context.Context, id string) (*domain.Payment, error) {
	var p domain.Payment
	var date time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT id, supplier_id, amount_cents, payment_date, description
		FROM payments
		WHERE id = $1
	`, id).Scan(&p.ID, &p.SupplierID, &p.AmountCents, &date, &p.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	p.Date = date.Format(domain.DateLayout)
	return &p, nil
}

func (s *Store) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_name, amount_cents, expense_date, description
		FROM expenses
		ORDER BY expense_date DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]domain.Expense, 0, 64)
	for rows.Next() {
		var e domain.Expense
		var date time.Time
		if err := rows.Scan(&e.ID, &e.CategoryName, &e.AmountCents, &date, &e.Description); err != nil {
			return nil, err
		}
		e.Date = date.Format(domain.DateLayout)
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *Store) CreateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	if expense.AmountCents < 0 || !domain.ValidDate(expense.Date) {
		return nil, store.ErrInvalidRecord
	}
	if expense.ID == "" {
		expense.ID = xid.New("exp")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, category_name, amount_cents, expense_date, description)
		VALUES ($1,$2,$3,$4,$5)
	`, expense.ID, expense.CategoryName, expense.AmountCents, expense.Date, expense.Description)
	if err != nil {
		return nil, err
	}
	return s.fetchExpense(ctx, expense.ID)
}

func (s *Store) UpdateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	if expense.ID == "" || expense.AmountCents < 0 || !domain.ValidDate(expense.Date) {
		return nil, store.ErrInvalidRecord
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE expenses
		SET category_name = $2, amount_cents = $3, expense_date = $4, description = $5, updated_at = now()
		WHERE id = $1
	`, expense.ID, expense.CategoryName, expense.AmountCents, expense.Date, expense.Description)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return s.fetchExpense(ctx, expense.ID)
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `DELETE FROM expenses WHERE id = $1`, id)
}

func (s *Store) fetchExpense(ctx context.Context, id string) (*domain.Expense, error) {
	var e domain.Expense
	var date time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT id, category_name, amount_cents, expense_date, description
		FROM expenses
		WHERE id = $1
	`, id).Scan(&e.ID, &e.CategoryName, &e.AmountCents, &date, &e.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	e.Date = date.Format(domain.DateLayout)
	return &e, nil
}

// ListExpenseCategories reads first-class category rows; this backend does
// not infer them from expenses.
func (s *Store) ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name
		FROM expense_categories
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]domain.ExpenseCategory, 0, 16)
	for rows.Next() {
		var c domain.ExpenseCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) CreateExpenseCategory(ctx context.Context, category domain.ExpenseCategory) (*domain.ExpenseCategory, error) {
	if category.Name == "" {
		return nil, store.ErrInvalidRecord
	}
	if category.ID == "" {
		category.ID = xid.New("cat")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expense_categories (id, name)
		VALUES ($1,$2)
	`, category.ID, category.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidRecord
		}
		return nil, err
	}
	created := category
	return &created, nil
}

func (s *Store) DeleteExpenseCategory(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `DELETE FROM expense_categories WHERE id = $1`, id)
}

func (s *Store) ListPackages(ctx context.Context) ([]domain.Package, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parcel_count, ship_date, description
		FROM packages
		ORDER BY ship_date DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	packages := make([]domain.Package, 0, 64)
	for rows.Next() {
		var p domain.Package
		var date time.Time
		if err := rows.Scan(&p.ID, &p.Count, &date, &p.Description); err != nil {
			return nil, err
		}
		p.Date = date.Format(domain.DateLayout)
		packages = append(packages, p)
	}
	return packages, rows.Err()
}

func (s *Store) CreatePackage(ctx context.Context, pkg domain.Package) (*domain.Package, error) {
	if pkg.Count < 1 || !domain.ValidDate(pkg.Date) {
		return nil, store.ErrInvalidRecord
	}
	if pkg.ID == "" {
		pkg.ID = xid.New("pkg")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO packages (id, parcel_count, ship_date, description)
		VALUES ($1,$2,$3,$4)
	`, pkg.ID, pkg.Count, pkg.Date, pkg.Description)
	if err != nil {
		return nil, err
	}
	return s.fetchPackage(ctx, pkg.ID)
}

func (s *Store) UpdatePackage(ctx context.Context, pkg domain.Package) (*domain.Package, error) {
	if pkg.ID == "" || pkg.Count < 1 || !domain.ValidDate(pkg.Date) {
		return nil, store.ErrInvalidRecord
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE packages
		SET parcel_count = $2, ship_date = $3, description = $4, updated_at = now()
		WHERE id = $1
	`, pkg.ID, pkg.Count, pkg.Date, pkg.Description)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return s.fetchPackage(ctx, pkg.ID)
}

func (s *Store) DeletePackage(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `DELETE FROM packages WHERE id = $1`, id)
}

func (s *Store) fetchPackage(ctx context.Context, id string) (*domain.Package, error) {
	var p domain.Package
	var date time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT id, parcel_count, ship_date, description
		FROM packages
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Count, &date, &p.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	p.Date = date.Format(domain.DateLayout)
	return &p, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, monthly_salary_cents, contact, role
		FROM employees
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]domain.Employee, 0, 32)
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.MonthlySalaryCents, &e.Contact, &e.Role); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Store) CreateEmployee(ctx context.Context, employee domain.Employee) (*domain.Employee, error) {
	if employee.Name == "" || employee.MonthlySalaryCents < 0 {
		return nil, store.ErrInvalidRecord
	}
	if employee.ID == "" {
		employee.ID = xid.New("emp")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, monthly_salary_cents, contact, role)
		VALUES ($1,$2,$3,$4,$5)
	`, employee.ID, employee.Name, employee.MonthlySalaryCents, employee.Contact, employee.Role)
	if err != nil {
		return nil, err
	}
	return s.fetchEmployee(ctx, employee.ID)
}

func (s *Store) UpdateEmployee(ctx context.Context, employee domain.Employee) (*domain.Employee, error) {
	if employee.ID == "" || employee.Name == "" || employee.MonthlySalaryCents < 0 {
		return nil, store.ErrInvalidRecord
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE employees
		SET name = $2, monthly_salary_cents = $3, contact = $4, role = $5, updated_at = now()
		WHERE id = $1
	`, employee.ID, employee.Name, employee.MonthlySalaryCents, employee.Contact, employee.Role)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return s.fetchEmployee(ctx, employee.ID)
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `DELETE FROM employees WHERE id = $1`, id)
}

func (s *Store) fetchEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	var e domain.Employee
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, monthly_salary_cents, contact, role
		FROM employees
		WHERE id = $1
	`, id).Scan(&e.ID, &e.Name, &e.MonthlySalaryCents, &e.Contact, &e.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (s *Store) ListSalaryAdvances(ctx context.Context) ([]domain.SalaryAdvance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, amount_cents, advance_date, description
		FROM salary_advances
		ORDER BY advance_date DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	advances := make([]domain.SalaryAdvance, 0, 64)
	for rows.Next() {
		var a domain.SalaryAdvance
		var date time.Time
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.AmountCents, &date, &a.Description); err != nil {
			return nil, err
		}
		a.Date = date.Format(domain.DateLayout)
		advances = append(advances, a)
	}
	return advances, rows.Err()
}

func (s *Store) CreateSalaryAdvance(ctx context.Context, advance domain.SalaryAdvance) (*domain.SalaryAdvance, error) {
	if advance.EmployeeID == "" || advance.AmountCents < 0 || !domain.ValidDate(advance.Date) {
		return nil, store.ErrInvalidRecord
	}
	if advance.ID == "" {
		advance.ID = xid.New("adv")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO salary_advances (id, employee_id, amount_cents, advance_date, description)
		VALUES ($1,$2,$3,$4,$5)
	`, advance.ID, advance.EmployeeID, advance.AmountCents, advance.Date, advance.Description)
	if err != nil {
		return nil, err
	}
	return s.fetchSalaryAdvance(ctx, advance.ID)
}

func (s *Store) UpdateSalaryAdvance(ctx context.Context, advance domain.SalaryAdvance) (*domain.SalaryAdvance, error) {
	if advance.ID == "" || advance.EmployeeID == "" || advance.AmountCents < 0 || !domain.ValidDate(advance.Date) {
		return nil, store.ErrInvalidRecord
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE salary_advances
		SET employee_id = $2, amount_cents = $3, advance_date = $4, description = $5, updated_at = now()
		WHERE id = $1
	`, advance.ID, advance.EmployeeID, advance.AmountCents, advance.Date, advance.Description)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return s.fetchSalaryAdvance(ctx, advance.ID)
}

func (s *Store) DeleteSalaryAdvance(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `DELETE FROM salary_advances WHERE id = $1`, id)
}

func (s *Store) fetchSalaryAdvance(ctx context.Context, id string) (*domain.SalaryAdvance, error) {
	var a domain.SalaryAdvance
	var date time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, amount_cents, advance_date, description
		FROM salary_advances
		WHERE id = $1
	`, id).Scan(&a.ID, &a.EmployeeID, &a.AmountCents, &date, &a.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	a.Date = date.Format(domain.DateLayout)
	return &a, nil
}

// Snapshot assembles the export object, embedding stock entry lines so the
// result matches the local backend's snapshot shape.
func (s *Store) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	snapshot := &domain.Snapshot{}
	var err error

	if snapshot.Products, err = s.ListProducts(ctx); err != nil {
		return nil, err
	}
	if snapshot.Suppliers, err = s.ListSuppliers(ctx); err != nil {
		return nil, err
	}
	if snapshot.StockEntries, err = s.ListStockEntries(ctx); err != nil {
		return nil, err
	}
	linesByEntry, err := s.listAllLines(ctx)
	if err != nil {
		return nil, err
	}
	for i := range snapshot.StockEntries {
		snapshot.StockEntries[i].Lines = linesByEntry[snapshot.StockEntries[i].ID]
	}
	if snapshot.Payments, err = s.ListPayments(ctx); err != nil {
		return nil, err
	}
	if snapshot.Expenses, err = s.ListExpenses(ctx); err != nil {
		return nil, err
	}
	if snapshot.ExpenseCategories, err = s.ListExpenseCategories(ctx); err != nil {
		return nil, err
	}
	if snapshot.Packages, err = s.ListPackages(ctx); err != nil {
		return nil, err
	}
	if snapshot.Employees, err = s.ListEmployees(ctx); err != nil {
		return nil, err
	}
	if snapshot.SalaryAdvances, err = s.ListSalaryAdvances(ctx); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *Store) listAllLines(ctx context.Context) (map[string][]domain.StockEntryLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_id, product_id, quantity
		FROM stock_entry_lines
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]domain.StockEntryLine)
	for rows.Next() {
		var entryID string
		var line domain.StockEntryLine
		if err := rows.Scan(&entryID, &line.ProductID, &line.Quantity); err != nil {
			return nil, err
		}
		result[entryID] = append(result[entryID], line)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (domain.StockEntry, error) {
	var entry domain.StockEntry
	var date time.Time
	if err := row.Scan(&entry.ID, &date, &entry.SupplierID, &entry.Paid); err != nil {
		return domain.StockEntry{}, err
	}
	entry.Date = date.Format(domain.DateLayout)
	entry.Lines = []domain.StockEntryLine{}
	return entry, nil
}

func (s *Store) deleteByID(ctx context.Context, query string, id string) error {
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
