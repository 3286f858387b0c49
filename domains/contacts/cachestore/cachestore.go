// Package cachestore caches the contact list of another store.
package cachestore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/soldatov-s/go-contacts/domains/contacts"
	rediscache "github.com/soldatov-s/go-contacts/providers/redis/cache"
)

const listKey = "list"

//go:generate mockgen -destination=mock_cache_test.go -package=cachestore_test . Cache

type Cache interface {
	Get(ctx context.Context, key string, value interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

// Store serves List from cache and drops the cached list on every write.
// Cache failures are logged, the underlying store stays the source of truth.
type Store struct {
	store contacts.Store
	cache Cache
}

// TxStore is returned for stores implementing contacts.Transactor.
type TxStore struct {
	*Store
	tx contacts.Transactor
}

// New wraps store. The result implements contacts.Transactor only if
// store does.
func New(store contacts.Store, cache Cache) contacts.Store {
	s := &Store{store: store, cache: cache}
	if tx, ok := store.(contacts.Transactor); ok {
		return &TxStore{Store: s, tx: tx}
	}
	return s
}

func (s *Store) List(ctx context.Context) (map[string]contacts.Record, error) {
	var cached map[string]contacts.Record
	err := s.cache.Get(ctx, listKey, &cached)
	switch {
	case err == nil:
		return cached, nil
	case errors.Is(err, rediscache.ErrNotFoundInCache):
	default:
		zerolog.Ctx(ctx).Warn().Err(err).Msg("get contacts from cache")
	}

	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, listKey, records); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("put contacts to cache")
	}

	return records, nil
}

func (s *Store) Get(ctx context.Context, name string) (contacts.Record, error) {
	return s.store.Get(ctx, name)
}

func (s *Store) Put(ctx context.Context, name string, rec contacts.Record) error {
	defer s.invalidate(ctx)
	return s.store.Put(ctx, name, rec)
}

func (s *Store) Delete(ctx context.Context, name string) error {
	defer s.invalidate(ctx)
	return s.store.Delete(ctx, name)
}

func (s *Store) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, listKey); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("drop cached contacts")
	}
}

func (s *TxStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx contacts.Store) error) error {
	defer s.invalidate(ctx)
	return s.tx.WithinTransaction(ctx, fn)
}
