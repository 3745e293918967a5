// Package timeutil provides week-bucketing helpers for the analytics engine.
// All aggregation views bucket ledger rows by ISO 8601 year-week, so the
// bucketing rules live in one place and are shared by SQL-side and Go-side
// computation. No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"sort"
	"time"
)

// YearWeek identifies an ISO 8601 week, formatted as "2026-W35".
// The ISO year may differ from the calendar year at year boundaries
// (e.g. 2026-12-29 may already fall in week 01 of ISO year 2027).
type YearWeek string

// ISOYearWeek returns the ISO year-week bucket for a timestamp.
func ISOYearWeek(t time.Time) YearWeek {
	year, week := t.UTC().ISOWeek()
	return YearWeek(fmt.Sprintf("%04d-W%02d", year, week))
}

// String returns the string representation.
func (yw YearWeek) String() string {
	return string(yw)
}

// Before reports whether yw sorts before other. The "YYYY-Www" format is
// lexicographically ordered, which is what makes string comparison valid here.
func (yw YearWeek) Before(other YearWeek) bool {
	return string(yw) < string(other)
}

// Time returns Monday 00:00:00 UTC of the week, and false when yw is not a
// well-formed "YYYY-Www" value.
func (yw YearWeek) Time() (time.Time, bool) {
	var year, week int
	if _, err := fmt.Sscanf(string(yw), "%04d-W%02d", &year, &week); err != nil || week < 1 || week > 53 {
		return time.Time{}, false
	}
	// January 4th always falls in ISO week 1 of its year.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	return StartOfISOWeek(jan4).AddDate(0, 0, 7*(week-1)), true
}

// Prev returns the calendar week immediately before yw. Malformed values
// are returned unchanged.
func (yw YearWeek) Prev() YearWeek {
	t, ok := yw.Time()
	if !ok {
		return yw
	}
	return ISOYearWeek(t.AddDate(0, 0, -7))
}

// SortWeeks sorts year-week buckets in ascending chronological order.
func SortWeeks(weeks []YearWeek) {
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].Before(weeks[j])
	})
}

// PrevWeek returns the year-week bucket of the week before t's week.
func PrevWeek(t time.Time) YearWeek {
	return ISOYearWeek(t.AddDate(0, 0, -7))
}

// StartOfISOWeek returns Monday 00:00:00 UTC of t's ISO week.
func StartOfISOWeek(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	monday := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

// WeeksAgo returns the start of the ISO week n weeks before t's week.
// WeeksAgo(t, 0) is the start of the current week.
func WeeksAgo(t time.Time, n int) time.Time {
	return StartOfISOWeek(t).AddDate(0, 0, -7*n)
}

// DaysSince returns the number of whole days elapsed from first to now,
// floored at a minimum of 1 so it can be used as a velocity divisor.
func DaysSince(first, now time.Time) int {
	days := int(now.Sub(first).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// StartOfDay returns midnight UTC of t's day.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
