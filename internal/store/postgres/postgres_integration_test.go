package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"autoget/backend/internal/domain"
	"autoget/backend/internal/store"
)

func TestStockEntryTwoPhaseWriteAndRepair(t *testing.T) {
	databaseURL := os.Getenv("AUTOGET_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set AUTOGET_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	supplier, err := s.CreateSupplier(ctx, domain.Supplier{Name: "IT Supplier"})
	if err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	product, err := s.CreateProduct(ctx, domain.Product{Name: "IT Widget", PurchasePriceCents: 250})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM stock_entry_lines WHERE product_id = $1`, product.ID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM stock_entries WHERE supplier_id = $1`, supplier.ID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, product.ID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, supplier.ID)
	})

	entry, err := s.CreateStockEntry(ctx, domain.StockEntry{
		Date:       "2025-03-05",
		SupplierID: supplier.ID,
		Lines: []domain.StockEntryLine{
			{ProductID: product.ID, Quantity: 2},
			{ProductID: product.ID, Quantity: 5},
		},
	})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if len(entry.Lines) != 2 {
		t.Fatalf("expected 2 lines after refetch, got %d", len(entry.Lines))
	}
	if entry.Date != "2025-03-05" {
		t.Fatalf("date round trip = %q", entry.Date)
	}

	// Simulate a partial write by deleting one line behind the adapter's back,
	// then repair against the intended set.
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM stock_entry_lines
		WHERE id IN (SELECT id FROM stock_entry_lines WHERE entry_id = $1 LIMIT 1)
	`, entry.ID); err != nil {
		t.Fatalf("drop line: %v", err)
	}

	repaired, err := s.RepairStockEntryLines(ctx, entry.ID, []domain.StockEntryLine{
		{ProductID: product.ID, Quantity: 2},
		{ProductID: product.ID, Quantity: 5},
	})
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if len(repaired.Lines) != 2 {
		t.Fatalf("expected 2 lines after repair, got %d", len(repaired.Lines))
	}

	if err := s.DeleteStockEntry(ctx, entry.ID); err != nil {
		t.Fatalf("delete entry: %v", err)
	}
	if _, err := s.FetchStockEntryLines(ctx, entry.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("fetch lines after delete = %v, want ErrNotFound", err)
	}
}

func TestExpenseCategoriesAreFirstClass(t *testing.T) {
	databaseURL := os.Getenv("AUTOGET_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set AUTOGET_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	category, err := s.CreateExpenseCategory(ctx, domain.ExpenseCategory{Name: "it-test-rent"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM expense_categories WHERE id = $1`, category.ID)
	})

	if _, err := s.CreateExpenseCategory(ctx, domain.ExpenseCategory{Name: "it-test-rent"}); !errors.Is(err, store.ErrInvalidRecord) {
		t.Fatalf("duplicate category = %v, want ErrInvalidRecord", err)
	}

	if err := s.DeleteExpenseCategory(ctx, category.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if err := s.DeleteExpenseCategory(ctx, category.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("delete twice = %v, want ErrNotFound", err)
	}
}
