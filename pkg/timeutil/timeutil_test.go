package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestISOYearWeek(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want YearWeek
	}{
		{
			name: "mid-year monday",
			in:   time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC),
			want: "2026-W35",
		},
		{
			name: "sunday belongs to same iso week as preceding monday",
			in:   time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC),
			want: "2026-W35",
		},
		{
			name: "january 1st can fall in previous iso year",
			in:   time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			want: "2026-W53",
		},
		{
			name: "late december can fall in next iso year",
			in:   time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
			want: "2025-W01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ISOYearWeek(tt.in))
		})
	}
}

func TestYearWeekOrdering(t *testing.T) {
	weeks := []YearWeek{"2026-W10", "2025-W52", "2026-W02"}
	SortWeeks(weeks)
	assert.Equal(t, []YearWeek{"2025-W52", "2026-W02", "2026-W10"}, weeks)

	assert.True(t, YearWeek("2025-W52").Before("2026-W01"))
	assert.False(t, YearWeek("2026-W10").Before("2026-W10"))
}

func TestPrevWeek(t *testing.T) {
	in := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC) // Monday, W35
	assert.Equal(t, YearWeek("2026-W34"), PrevWeek(in))

	// Crossing a year boundary.
	jan5 := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // Monday, W02
	assert.Equal(t, YearWeek("2026-W01"), PrevWeek(jan5))
}

func TestYearWeekTime(t *testing.T) {
	got, ok := YearWeek("2026-W35").Time()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), got)

	// Week 1 of an ISO year can start in the previous calendar year.
	got, ok = YearWeek("2025-W01").Time()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), got)

	_, ok = YearWeek("garbage").Time()
	assert.False(t, ok)
}

func TestYearWeekPrev(t *testing.T) {
	assert.Equal(t, YearWeek("2026-W34"), YearWeek("2026-W35").Prev())
	assert.Equal(t, YearWeek("2024-W52"), YearWeek("2025-W01").Prev())
	assert.Equal(t, YearWeek("garbage"), YearWeek("garbage").Prev())
}

func TestStartOfISOWeek(t *testing.T) {
	thursday := time.Date(2026, 8, 27, 15, 30, 0, 0, time.UTC)
	monday := StartOfISOWeek(thursday)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), monday)

	// Sunday still rolls back to the preceding Monday.
	sunday := time.Date(2026, 8, 30, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), StartOfISOWeek(sunday))

	// A Monday is its own week start.
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), StartOfISOWeek(monday))
}

func TestWeeksAgo(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), WeeksAgo(now, 0))
	assert.Equal(t, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC), WeeksAgo(now, 2))
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 10, DaysSince(now.AddDate(0, 0, -10), now))

	// Same-day and future first-seen values floor at 1 so velocity
	// division never blows up.
	assert.Equal(t, 1, DaysSince(now, now))
	assert.Equal(t, 1, DaysSince(now.Add(-2*time.Hour), now))
}
