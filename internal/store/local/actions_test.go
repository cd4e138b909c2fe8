package local

import (
	"errors"
	"testing"

	"autoget/backend/internal/domain"
	"autoget/backend/internal/store"
)

func TestApplyDoesNotMutatePrev(t *testing.T) {
	prev := normalized(domain.Snapshot{})
	prev.Products = []domain.Product{{ID: "prod-1", Name: "Widget"}}

	next, err := apply(prev, action{kind: productUpdate, payload: domain.Product{ID: "prod-1", Name: "Changed"}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if prev.Products[0].Name != "Widget" {
		t.Fatalf("prev state was mutated: %+v", prev.Products)
	}
	if next.Products[0].Name != "Changed" {
		t.Fatalf("next state missing the update: %+v", next.Products)
	}
}

func TestApplyEntryCloneIsolatesLines(t *testing.T) {
	lines := []domain.StockEntryLine{{ProductID: "prod-1", Quantity: 1}}
	entry := domain.StockEntry{ID: "ent-1", Date: "2025-03-05", SupplierID: "sup-1", Lines: lines}

	next, err := apply(normalized(domain.Snapshot{}), action{kind: entryCreate, payload: entry})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	lines[0].Quantity = 99
	if next.StockEntries[0].Lines[0].Quantity != 1 {
		t.Fatalf("caller's line slice aliases stored state")
	}
}

func TestApplyUnknownIDFailsAndKeepsState(t *testing.T) {
	prev := normalized(domain.Snapshot{})
	prev.Payments = []domain.Payment{{ID: "pay-1"}}

	next, err := apply(prev, action{kind: paymentDelete, payload: "pay-nope"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("apply = %v, want ErrNotFound", err)
	}
	if len(next.Payments) != 1 {
		t.Fatalf("failed action changed state: %+v", next.Payments)
	}
}

func TestApplyUnknownKind(t *testing.T) {
	_, err := apply(normalized(domain.Snapshot{}), action{kind: actionKind("bogus/create")})
	if err == nil {
		t.Fatalf("expected unknown action kind to fail")
	}
}
