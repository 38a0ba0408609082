// Package memory is an in-memory record source for tests and
// credential-free local runs.
package memory

import (
	"context"
	"encoding/csv"
	"os"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"hoursreport/internal/core"
	ports "hoursreport/internal/source"
)

type Store struct {
	mu   sync.Mutex
	rows []core.RawRecord
	err  error
}

var _ ports.Source = (*Store)(nil)

func New(rows ...core.RawRecord) *Store {
	return &Store{rows: rows}
}

// NewFromCSV seeds the store from a CSV file whose header row names the
// columns, matching the shape the sheet source delivers.
func NewFromCSV(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "open seed file", goerr.V("path", path), goerr.T(core.TagSource))
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, goerr.Wrap(err, "read seed file", goerr.V("path", path), goerr.T(core.TagSource))
	}
	if len(all) == 0 {
		return New(), nil
	}
	headers := all[0]
	rows := make([]core.RawRecord, 0, len(all)-1)
	for _, cells := range all[1:] {
		rec := make(core.RawRecord, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(cells) {
				rec[h] = cells[i]
			} else {
				rec[h] = ""
			}
		}
		rows = append(rows, rec)
	}
	return New(rows...), nil
}

// FailWith makes every subsequent FetchAll return err, for exercising
// fetch-failure paths.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Store) FetchAll(_ context.Context) ([]core.RawRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, goerr.Wrap(s.err, "fetch rows", goerr.T(core.TagSource))
	}
	out := make([]core.RawRecord, len(s.rows))
	copy(out, s.rows)
	return out, nil
}
