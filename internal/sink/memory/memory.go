// Package memory is an in-memory sink for tests and local dry runs.
package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"hoursreport/internal/core"
	ports "hoursreport/internal/sink"
)

type Store struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    map[string]error
}

var _ ports.Sink = (*Store)(nil)

func New() *Store {
	return &Store{
		objects: make(map[string][]byte),
		fail:    make(map[string]error),
	}
}

// FailOn makes uploads of the named object return err, for exercising
// per-chart failure paths.
func (s *Store) FailOn(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[name] = err
}

func (s *Store) Upload(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail[name]; err != nil {
		return goerr.Wrap(err, "upload object", goerr.V("object", name), goerr.T(core.TagSink))
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[name] = buf
	return nil
}

// Object returns the stored bytes for name and whether it exists.
func (s *Store) Object(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[name]
	return data, ok
}

// Len reports how many objects have been stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
