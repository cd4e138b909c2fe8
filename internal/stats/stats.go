// Package stats is the single source of truth for how sums, averages and
// rates are computed across every reporting surface. All reducers degrade to
// zero-valued results on empty input instead of raising.
package stats

// Uncategorized is the grouping key used when an item has no key of its own.
const Uncategorized = "uncategorized"

func Sum[T any](items []T, amountOf func(T) int64) int64 {
	total := int64(0)
	for _, item := range items {
		total += amountOf(item)
	}
	return total
}

func Count[T any](items []T) int {
	return len(items)
}

// Average is sum/count, or 0 for empty input. Never NaN.
func Average[T any](items []T, amountOf func(T) int64) float64 {
	if len(items) == 0 {
		return 0
	}
	return float64(Sum(items, amountOf)) / float64(len(items))
}

func Max[T any](items []T, amountOf func(T) int64) int64 {
	max := int64(0)
	for _, item := range items {
		if v := amountOf(item); v > max {
			max = v
		}
	}
	return max
}

// MinPositive is the smallest strictly positive value, so zero-amount records
// do not force the minimum down artificially. 0 when no positive value
// exists.
func MinPositive[T any](items []T, amountOf func(T) int64) int64 {
	min := int64(0)
	for _, item := range items {
		v := amountOf(item)
		if v <= 0 {
			continue
		}
		if min == 0 || v < min {
			min = v
		}
	}
	return min
}

type GroupStat struct {
	Count      int   `json:"count"`
	TotalCents int64 `json:"totalCents"`
}

// GroupBy accumulates count and total per distinct key. Items with an empty
// key fall back to the Uncategorized sentinel.
func GroupBy[T any](items []T, keyOf func(T) string, amountOf func(T) int64) map[string]GroupStat {
	groups := make(map[string]GroupStat)
	for _, item := range items {
		key := keyOf(item)
		if key == "" {
			key = Uncategorized
		}
		group := groups[key]
		group.Count++
		group.TotalCents += amountOf(item)
		groups[key] = group
	}
	return groups
}

// Rate is numerator/denominator as a percentage, 0 when the denominator is
// not positive.
func Rate(numerator int64, denominator int64) float64 {
	if denominator <= 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}
