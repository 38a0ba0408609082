package core

import (
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

func TestNormalize(t *testing.T) {
	t.Run("valid rows", func(t *testing.T) {
		rows := []RawRecord{
			{ColumnSubmissionDate: "2025-01-01", ColumnHours: "2.5"},
			{ColumnSubmissionDate: "01/02/2025", ColumnHours: "3"},
		}
		entries, rejects, err := Normalize(rows)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rejects) != 0 {
			t.Fatalf("unexpected rejects: %v", rejects)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if !entries[0].SubmissionDate.Equal(date(2025, 1, 1)) || entries[0].Hours != 2.5 {
			t.Errorf("entry 0 = %+v", entries[0])
		}
		if !entries[1].SubmissionDate.Equal(date(2025, 1, 2)) || entries[1].Hours != 3 {
			t.Errorf("entry 1 = %+v", entries[1])
		}
	})

	t.Run("non-numeric hours drops only that row", func(t *testing.T) {
		rows := []RawRecord{
			{ColumnSubmissionDate: "2025-01-01", ColumnHours: "two"},
			{ColumnSubmissionDate: "2025-01-02", ColumnHours: "1"},
		}
		entries, rejects, err := Normalize(rows)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if len(rejects) != 1 {
			t.Fatalf("expected 1 reject, got %d", len(rejects))
		}
		if rejects[0].Row != 0 || rejects[0].Field != ColumnHours {
			t.Errorf("reject = %+v", rejects[0])
		}
	})

	t.Run("unparseable date drops only that row", func(t *testing.T) {
		rows := []RawRecord{
			{ColumnSubmissionDate: "soon", ColumnHours: "2"},
			{ColumnSubmissionDate: "2025-01-02", ColumnHours: "1"},
		}
		entries, rejects, err := Normalize(rows)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 || len(rejects) != 1 {
			t.Fatalf("entries=%d rejects=%d, want 1/1", len(entries), len(rejects))
		}
		if rejects[0].Field != ColumnSubmissionDate {
			t.Errorf("reject field = %s", rejects[0].Field)
		}
	})

	t.Run("negative hours are rejected", func(t *testing.T) {
		rows := []RawRecord{
			{ColumnSubmissionDate: "2025-01-01", ColumnHours: "-2"},
		}
		entries, rejects, err := Normalize(rows)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 0 || len(rejects) != 1 {
			t.Fatalf("entries=%d rejects=%d, want 0/1", len(entries), len(rejects))
		}
	})

	t.Run("schema mismatch fails the whole batch", func(t *testing.T) {
		rows := []RawRecord{
			{"name": "a", "role": "helper"},
			{"name": "b", "role": "driver"},
		}
		_, _, err := Normalize(rows)
		if err == nil {
			t.Fatal("expected schema error")
		}
		if !errors.Is(err, ErrSchemaMismatch) {
			t.Errorf("expected ErrSchemaMismatch, got %v", err)
		}
		if !goerr.HasTag(err, TagSchema) {
			t.Errorf("expected schema tag on %v", err)
		}
	})

	t.Run("blank cells count as dirty rows, not schema mismatch", func(t *testing.T) {
		rows := []RawRecord{
			{ColumnSubmissionDate: "", ColumnHours: ""},
			{ColumnSubmissionDate: "2025-01-02", ColumnHours: "1"},
		}
		entries, rejects, err := Normalize(rows)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 || len(rejects) != 1 {
			t.Fatalf("entries=%d rejects=%d, want 1/1", len(entries), len(rejects))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		entries, rejects, err := Normalize(nil)
		if err != nil || entries != nil || rejects != nil {
			t.Errorf("empty input should be a no-op, got %v %v %v", entries, rejects, err)
		}
	})
}

func TestHourEntry_Validate(t *testing.T) {
	good := HourEntry{SubmissionDate: date(2025, 1, 1), Hours: 2}
	if err := good.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (HourEntry{Hours: 2}).Validate(); err == nil {
		t.Error("zero date should fail validation")
	}
	if err := (HourEntry{SubmissionDate: date(2025, 1, 1), Hours: -1}).Validate(); err == nil {
		t.Error("negative hours should fail validation")
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-09-05", date(2025, 9, 5)},
		{"2025/09/05", date(2025, 9, 5)},
		{"09/05/2025", date(2025, 9, 5)},
		{"9/5/2025", date(2025, 9, 5)},
		{"Sep 5, 2025", date(2025, 9, 5)},
		{" 2025-09-05 ", date(2025, 9, 5)},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "yesterday", "13/45/2025"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}
