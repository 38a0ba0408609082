// Package core holds the volunteer-hours domain model: raw spreadsheet
// rows, normalized entries, and the pure aggregation transforms that feed
// the chart renderers.
package core

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Column names the record source must provide.
const (
	ColumnSubmissionDate = "submission_date"
	ColumnHours          = "hours"
)

// RawRecord is one spreadsheet row keyed by header name, exactly as the
// source delivers it. Values may be missing, blank, or malformed.
type RawRecord map[string]string

// HourEntry is a normalized volunteer-hours record. Dates are truncated to
// midnight UTC so entries sharing a calendar day compare equal.
type HourEntry struct {
	SubmissionDate time.Time
	Hours          float64
}

// DailyTotal is the summed hours for one distinct date.
type DailyTotal struct {
	Date       time.Time
	TotalHours float64
}

// CumulativePoint is one step of the running total, reported per distinct
// date with the cumulative value as of end of that date.
type CumulativePoint struct {
	Date            time.Time
	CumulativeHours float64
}

// Validate reports whether the entry satisfies the domain invariants.
func (e HourEntry) Validate() error {
	if e.SubmissionDate.IsZero() {
		return goerr.New("submission date is zero")
	}
	if e.Hours < 0 {
		return goerr.New("hours is negative", goerr.V("hours", e.Hours))
	}
	return nil
}

// dateLayouts are the accepted calendar-date representations, tried in
// order. Day-first layouts are deliberately absent: mm/dd is what the
// source sheet produces and accepting both would make 03/04 ambiguous.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02T15:04:05Z07:00",
}

// ParseDate parses a calendar date from any accepted representation and
// truncates it to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, goerr.New("date is empty")
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, goerr.New("unrecognized date format", goerr.V("value", s))
}
