// Package memory is an in-process storage.LeadStore, used by default and in
// tests.
package memory

import (
	"context"
	"sync"

	"github.com/FranksOps/leadburr/internal/lead"
	"github.com/FranksOps/leadburr/internal/storage"
)

var _ storage.LeadStore = (*Store)(nil)

// Store keeps records in memory. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	byLink  map[string]*lead.Record
	records []*lead.Record
}

// New returns an empty store.
func New() *Store {
	return &Store{byLink: make(map[string]*lead.Record)}
}

func (s *Store) ExistsByLink(_ context.Context, link string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byLink[link]
	return ok, nil
}

func (s *Store) Create(_ context.Context, rec *lead.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byLink[rec.Link]; ok {
		return storage.ErrDuplicate
	}
	cp := *rec
	s.byLink[rec.Link] = &cp
	s.records = append(s.records, &cp)
	return nil
}

func (s *Store) List(_ context.Context, filter storage.Filter) ([]*lead.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := filter.Apply(s.records)
	for i, r := range out {
		cp := *r
		out[i] = &cp
	}
	return out, nil
}

func (s *Store) Close() error { return nil }
