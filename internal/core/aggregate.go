package core

import (
	"sort"
	"time"
)

// Totals groups entries by date and sums their hours, one DailyTotal per
// distinct date, sorted ascending by date. Grouping is total-preserving:
// the totals sum to exactly the sum of the input hours.
func Totals(entries []HourEntry) []DailyTotal {
	if len(entries) == 0 {
		return nil
	}
	byDate := make(map[int64]float64, len(entries))
	for _, e := range entries {
		byDate[e.SubmissionDate.Unix()] += e.Hours
	}
	keys := make([]int64, 0, len(byDate))
	for k := range byDate {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	totals := make([]DailyTotal, 0, len(keys))
	for _, k := range keys {
		totals = append(totals, DailyTotal{Date: time.Unix(k, 0).UTC(), TotalHours: byDate[k]})
	}
	return totals
}

// CumulativeByDate produces the running total per distinct date, ascending.
// The value at position i is the sum of all hours logged on or before that
// date, so the series is non-decreasing for non-negative hours.
func CumulativeByDate(entries []HourEntry) []CumulativePoint {
	totals := Totals(entries)
	if len(totals) == 0 {
		return nil
	}
	series := make([]CumulativePoint, 0, len(totals))
	var sum float64
	for _, t := range totals {
		sum += t.TotalHours
		series = append(series, CumulativePoint{Date: t.Date, CumulativeHours: sum})
	}
	return series
}

// RankedTotalsByDate returns the daily totals sorted descending by total
// hours. Dates with equal totals keep their ascending-date order; the
// stable sort over the date-ordered totals guarantees that.
func RankedTotalsByDate(entries []HourEntry) []DailyTotal {
	totals := Totals(entries)
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].TotalHours > totals[j].TotalHours
	})
	return totals
}

// SumHours is the plain sum over all entries, used for reporting and as
// the invariant anchor for the cumulative series.
func SumHours(entries []HourEntry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Hours
	}
	return sum
}
