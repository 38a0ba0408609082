package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// RowError records a single row that failed normalization. It is not part
// of the fatal error taxonomy: the row is dropped, the batch continues.
type RowError struct {
	Row    int // zero-based index into the source rows
	Field  string
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
}

// Normalize converts raw source rows into typed entries. Rows that fail
// date or hours parsing are dropped and reported individually; a batch in
// which no row carries the required columns fails as a whole with
// ErrSchemaMismatch.
func Normalize(rows []RawRecord) ([]HourEntry, []RowError, error) {
	if len(rows) == 0 {
		return nil, nil, nil
	}

	withColumns := 0
	for _, row := range rows {
		if hasColumn(row, ColumnSubmissionDate) && hasColumn(row, ColumnHours) {
			withColumns++
		}
	}
	if withColumns == 0 {
		return nil, nil, goerr.Wrap(ErrSchemaMismatch, "normalize",
			goerr.V("required", []string{ColumnSubmissionDate, ColumnHours}),
			goerr.V("rows", len(rows)),
			goerr.T(TagSchema))
	}

	entries := make([]HourEntry, 0, len(rows))
	var rejects []RowError
	for i, row := range rows {
		date, err := ParseDate(row[ColumnSubmissionDate])
		if err != nil {
			rejects = append(rejects, RowError{Row: i, Field: ColumnSubmissionDate, Reason: err.Error()})
			continue
		}
		hours, err := parseHours(row[ColumnHours])
		if err != nil {
			rejects = append(rejects, RowError{Row: i, Field: ColumnHours, Reason: err.Error()})
			continue
		}
		entries = append(entries, HourEntry{SubmissionDate: date, Hours: hours})
	}
	return entries, rejects, nil
}

func hasColumn(row RawRecord, name string) bool {
	_, ok := row[name]
	return ok
}

// parseHours coerces the hours cell to a non-negative real number.
// Negative hours are rejected so the cumulative series stays monotonic.
func parseHours(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, goerr.New("hours is empty")
	}
	// Normalize decimal comma
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, goerr.New("hours is not numeric", goerr.V("value", s))
	}
	if f < 0 {
		return 0, goerr.New("hours is negative", goerr.V("value", s))
	}
	return f, nil
}
