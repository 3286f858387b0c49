// Package memstore keeps contacts in process memory.
package memstore

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/domains/contacts"
)

type Store struct {
	mu      sync.RWMutex
	records map[string]contacts.Record
}

func New() *Store {
	return &Store{records: make(map[string]contacts.Record)}
}

func (s *Store) List(_ context.Context) (map[string]contacts.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]contacts.Record, len(s.records))
	for k, v := range s.records {
		result[k] = v
	}

	return result, nil
}

func (s *Store) Get(_ context.Context, name string) (contacts.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[name]
	if !ok {
		return contacts.Record{}, errors.Wrapf(contacts.ErrNotFound, "name %q", name)
	}

	return rec, nil
}

func (s *Store) Put(_ context.Context, name string, rec contacts.Record) error {
	s.mu.Lock()
	s.records[name] = rec
	s.mu.Unlock()

	return nil
}

func (s *Store) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[name]; !ok {
		return errors.Wrapf(contacts.ErrNotFound, "name %q", name)
	}
	delete(s.records, name)

	return nil
}

// WithinTransaction runs fn against a copy of the records and commits it
// only when fn succeeds.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx contacts.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{records: make(map[string]contacts.Record, len(s.records))}
	for k, v := range s.records {
		tx.records[k] = v
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.records = tx.records

	return nil
}
