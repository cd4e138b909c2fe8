// Package period computes today/week/month date windows and filters dated
// collections into them.
package period

import (
	"time"

	"autoget/backend/internal/domain"
)

type Period string

const (
	Today Period = "today"
	Week  Period = "week"
	Month Period = "month"
)

// Bounds returns the inclusive [from, to] date-string window for p measured
// from now's local calendar. Week runs Monday through Sunday; month covers
// the first through the last calendar day (day 0 of the next month, so month
// length never matters). ok is false for unknown periods.
func Bounds(now time.Time, p Period) (from string, to string, ok bool) {
	switch p {
	case Today:
		d := now.Format(domain.DateLayout)
		return d, d, true
	case Week:
		daysSinceMonday := int(now.Weekday()) - 1
		if now.Weekday() == time.Sunday {
			daysSinceMonday = 6
		}
		monday := now.AddDate(0, 0, -daysSinceMonday)
		sunday := monday.AddDate(0, 0, 6)
		return monday.Format(domain.DateLayout), sunday.Format(domain.DateLayout), true
	case Month:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		last := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location())
		return first.Format(domain.DateLayout), last.Format(domain.DateLayout), true
	default:
		return "", "", false
	}
}

// FilterAt keeps the items whose date falls inside the window for p at the
// given clock. Comparison is lexicographic on the zero-padded YYYY-MM-DD
// strings; that is only valid because the format is zero padded, so numeric
// comparison stays forbidden. An unknown period returns the input unchanged.
func FilterAt[T any](now time.Time, items []T, dateOf func(T) string, p Period) []T {
	from, to, ok := Bounds(now, p)
	if !ok {
		return items
	}
	kept := make([]T, 0, len(items))
	for _, item := range items {
		d := dateOf(item)
		if d >= from && d <= to {
			kept = append(kept, item)
		}
	}
	return kept
}

// Filter is FilterAt against the local wall clock.
func Filter[T any](items []T, dateOf func(T) string, p Period) []T {
	return FilterAt(time.Now(), items, dateOf, p)
}
