package stats

import "testing"

type amount struct {
	key   string
	cents int64
}

func centsOf(a amount) int64 { return a.cents }

func TestSumAndCount(t *testing.T) {
	items := []amount{{cents: 100}, {cents: 250}, {cents: 0}}
	if got := Sum(items, centsOf); got != 350 {
		t.Fatalf("sum = %d, want 350", got)
	}
	if got := Count(items); got != 3 {
		t.Fatalf("count = %d, want 3", got)
	}
}

func TestAverageEmptyIsZero(t *testing.T) {
	if got := Average(nil, centsOf); got != 0 {
		t.Fatalf("average of empty = %v, want 0", got)
	}
}

func TestAverage(t *testing.T) {
	items := []amount{{cents: 100}, {cents: 200}}
	if got := Average(items, centsOf); got != 150 {
		t.Fatalf("average = %v, want 150", got)
	}
}

func TestMaxEmptyIsZero(t *testing.T) {
	if got := Max([]amount{}, centsOf); got != 0 {
		t.Fatalf("max of empty = %d, want 0", got)
	}
}

func TestMinPositiveSkipsZeroes(t *testing.T) {
	items := []amount{{cents: 0}, {cents: 500}, {cents: 30}, {cents: 0}}
	if got := MinPositive(items, centsOf); got != 30 {
		t.Fatalf("minPositive = %d, want 30", got)
	}
}

func TestMinPositiveNoPositiveValues(t *testing.T) {
	items := []amount{{cents: 0}, {cents: 0}}
	if got := MinPositive(items, centsOf); got != 0 {
		t.Fatalf("minPositive = %d, want 0", got)
	}
}

func TestGroupBy(t *testing.T) {
	items := []amount{
		{key: "rent", cents: 1000},
		{key: "food", cents: 200},
		{key: "rent", cents: 500},
		{key: "", cents: 70},
	}
	groups := GroupBy(items, func(a amount) string { return a.key }, centsOf)

	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if g := groups["rent"]; g.Count != 2 || g.TotalCents != 1500 {
		t.Fatalf("rent group = %+v", g)
	}
	if g := groups["food"]; g.Count != 1 || g.TotalCents != 200 {
		t.Fatalf("food group = %+v", g)
	}
	if g := groups[Uncategorized]; g.Count != 1 || g.TotalCents != 70 {
		t.Fatalf("uncategorized group = %+v", g)
	}
}

func TestRate(t *testing.T) {
	if got := Rate(1, 4); got != 25 {
		t.Fatalf("rate = %v, want 25", got)
	}
	if got := Rate(0, 0); got != 0 {
		t.Fatalf("rate with zero denominator = %v, want 0", got)
	}
	if got := Rate(5, -1); got != 0 {
		t.Fatalf("rate with negative denominator = %v, want 0", got)
	}
}
