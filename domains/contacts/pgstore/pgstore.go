// Package pgstore keeps contacts in the postgres "contacts" table.
package pgstore

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/domains/contacts"
)

const (
	queryList   = `SELECT name, phone FROM contacts`
	queryGet    = `SELECT name, phone FROM contacts WHERE name = $1`
	queryDelete = `DELETE FROM contacts WHERE name = $1`
	queryPut    = `INSERT INTO contacts (name, phone, updated_at) VALUES (:name, :phone, now())
		ON CONFLICT (name) DO UPDATE SET phone = EXCLUDED.phone, updated_at = now()`
)

type row struct {
	Name  string `db:"name"`
	Phone string `db:"phone"`
}

// ConnGetter is implemented by postgres provider enity.
type ConnGetter interface {
	GetConn() *sqlx.DB
}

// querier is implemented by both *sqlx.DB and *sqlx.Tx.
type querier = sqlx.ExtContext

type Store struct {
	db ConnGetter
}

func New(db ConnGetter) *Store {
	return &Store{db: db}
}

func (s *Store) List(ctx context.Context) (map[string]contacts.Record, error) {
	return list(ctx, s.db.GetConn())
}

func (s *Store) Get(ctx context.Context, name string) (contacts.Record, error) {
	return get(ctx, s.db.GetConn(), name)
}

func (s *Store) Put(ctx context.Context, name string, rec contacts.Record) error {
	return put(ctx, s.db.GetConn(), name, rec)
}

func (s *Store) Delete(ctx context.Context, name string) error {
	return del(ctx, s.db.GetConn(), name)
}

// WithinTransaction runs fn in a database transaction, rolled back when fn
// fails.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx contacts.Store) error) error {
	tx, err := s.db.GetConn().BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	if err := fn(ctx, &txStore{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrapf(err, "rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}

	return nil
}

type txStore struct {
	tx *sqlx.Tx
}

func (s *txStore) List(ctx context.Context) (map[string]contacts.Record, error) {
	return list(ctx, s.tx)
}

func (s *txStore) Get(ctx context.Context, name string) (contacts.Record, error) {
	return get(ctx, s.tx, name)
}

func (s *txStore) Put(ctx context.Context, name string, rec contacts.Record) error {
	return put(ctx, s.tx, name, rec)
}

func (s *txStore) Delete(ctx context.Context, name string) error {
	return del(ctx, s.tx, name)
}

func list(ctx context.Context, q querier) (map[string]contacts.Record, error) {
	var rows []row
	if err := sqlx.SelectContext(ctx, q, &rows, queryList); err != nil {
		return nil, errors.Wrap(err, "select contacts")
	}

	result := make(map[string]contacts.Record, len(rows))
	for _, r := range rows {
		result[r.Name] = contacts.Record{Phone: r.Phone}
	}

	return result, nil
}

func get(ctx context.Context, q querier, name string) (contacts.Record, error) {
	var r row
	err := sqlx.GetContext(ctx, q, &r, queryGet, name)
	if errors.Is(err, sql.ErrNoRows) {
		return contacts.Record{}, errors.Wrapf(contacts.ErrNotFound, "name %q", name)
	}
	if err != nil {
		return contacts.Record{}, errors.Wrap(err, "select contact")
	}

	return contacts.Record{Phone: r.Phone}, nil
}

func put(ctx context.Context, q querier, name string, rec contacts.Record) error {
	if _, err := sqlx.NamedExecContext(ctx, q, queryPut, &row{Name: name, Phone: rec.Phone}); err != nil {
		return errors.Wrap(err, "upsert contact")
	}

	return nil
}

func del(ctx context.Context, q querier, name string) error {
	res, err := q.ExecContext(ctx, queryDelete, name)
	if err != nil {
		return errors.Wrap(err, "delete contact")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}

	if affected == 0 {
		return errors.Wrapf(contacts.ErrNotFound, "name %q", name)
	}

	return nil
}
