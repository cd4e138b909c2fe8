package period

import (
	"testing"
	"time"

	"autoget/backend/internal/domain"
)

func date(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBoundsToday(t *testing.T) {
	from, to, ok := Bounds(date("2025-03-05"), Today)
	if !ok {
		t.Fatalf("expected today to be a known period")
	}
	if from != "2025-03-05" || to != "2025-03-05" {
		t.Fatalf("unexpected bounds %s..%s", from, to)
	}
}

func TestBoundsWeekMidweek(t *testing.T) {
	// 2025-03-05 is a Wednesday; its week runs Monday 03-03 through Sunday 03-09.
	from, to, ok := Bounds(date("2025-03-05"), Week)
	if !ok {
		t.Fatalf("expected week to be a known period")
	}
	if from != "2025-03-03" || to != "2025-03-09" {
		t.Fatalf("unexpected week bounds %s..%s", from, to)
	}
}

func TestBoundsWeekSunday(t *testing.T) {
	// Sunday belongs to the week that started the previous Monday.
	from, to, _ := Bounds(date("2025-03-09"), Week)
	if from != "2025-03-03" || to != "2025-03-09" {
		t.Fatalf("unexpected week bounds %s..%s", from, to)
	}
}

func TestBoundsWeekMonday(t *testing.T) {
	from, to, _ := Bounds(date("2025-03-03"), Week)
	if from != "2025-03-03" || to != "2025-03-09" {
		t.Fatalf("unexpected week bounds %s..%s", from, to)
	}
}

func TestBoundsMonthLengths(t *testing.T) {
	cases := []struct {
		now  string
		from string
		to   string
	}{
		{"2025-02-14", "2025-02-01", "2025-02-28"},
		{"2024-02-14", "2024-02-01", "2024-02-29"},
		{"2025-04-30", "2025-04-01", "2025-04-30"},
		{"2025-12-01", "2025-12-01", "2025-12-31"},
	}
	for _, tc := range cases {
		from, to, ok := Bounds(date(tc.now), Month)
		if !ok {
			t.Fatalf("%s: expected month to be a known period", tc.now)
		}
		if from != tc.from || to != tc.to {
			t.Fatalf("%s: unexpected month bounds %s..%s", tc.now, from, to)
		}
	}
}

func TestBoundsUnknownPeriod(t *testing.T) {
	if _, _, ok := Bounds(date("2025-03-05"), Period("quarter")); ok {
		t.Fatalf("expected unknown period to report ok=false")
	}
}

func TestFilterAtWeekWindow(t *testing.T) {
	now := date("2025-03-05")
	items := []string{
		"2025-03-02", // previous Sunday, out
		"2025-03-03", // Monday, in
		"2025-03-05", // in
		"2025-03-09", // Sunday, in
		"2025-03-10", // next Monday, out
	}
	kept := FilterAt(now, items, func(s string) string { return s }, Week)
	if len(kept) != 3 {
		t.Fatalf("expected 3 items kept, got %d: %v", len(kept), kept)
	}
	if kept[0] != "2025-03-03" || kept[2] != "2025-03-09" {
		t.Fatalf("unexpected kept items %v", kept)
	}
}

func TestFilterAtUnknownPeriodIsIdentity(t *testing.T) {
	items := []string{"2025-01-01", "1999-12-31", "bogus"}
	kept := FilterAt(date("2025-03-05"), items, func(s string) string { return s }, Period("lifetime"))
	if len(kept) != len(items) {
		t.Fatalf("expected identity for unknown period, got %v", kept)
	}
}

func TestFilterAtEmptyInput(t *testing.T) {
	kept := FilterAt(date("2025-03-05"), nil, func(s string) string { return s }, Month)
	if len(kept) != 0 {
		t.Fatalf("expected empty result, got %v", kept)
	}
}
