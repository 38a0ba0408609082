package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"hoursreport/internal/core"
)

func TestFetchAll(t *testing.T) {
	rows := []core.RawRecord{
		{core.ColumnSubmissionDate: "2025-01-01", core.ColumnHours: "2"},
	}
	s := New(rows...)

	got, err := s.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0][core.ColumnHours] != "2" {
		t.Errorf("got %v", got)
	}

	t.Run("injected failure", func(t *testing.T) {
		s.FailWith(errors.New("offline"))
		if _, err := s.FetchAll(context.Background()); err == nil {
			t.Error("expected error after FailWith")
		}
	})
}

func TestNewFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hours.csv")
	data := "submission_date,hours\n2025-01-01,2\n2025-01-02,1.5\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewFromCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := s.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1][core.ColumnSubmissionDate] != "2025-01-02" || rows[1][core.ColumnHours] != "1.5" {
		t.Errorf("row 1 = %v", rows[1])
	}

	t.Run("missing file", func(t *testing.T) {
		if _, err := NewFromCSV(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
