package xid

import (
	"strings"
	"testing"
)

func TestNewCarriesPrefix(t *testing.T) {
	id := New("prod")
	if !strings.HasPrefix(id, "prod-") {
		t.Fatalf("id %q missing prefix", id)
	}
	if len(id) <= len("prod-") {
		t.Fatalf("id %q has no body", id)
	}
}

func TestNewDoesNotCollide(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := New("ent")
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}
