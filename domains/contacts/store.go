package contacts

import "context"

// Record is a stored contact value. Phone holds the display form.
type Record struct {
	Phone string `json:"phone" bson:"phone" db:"phone"`
}

//go:generate mockgen -destination=mock_store_test.go -package=contacts_test . Store,Transactor,Notifier,Locker

// Store is a persistence service keyed by contact name. Get and Delete
// return ErrNotFound for absent names, Put overwrites.
type Store interface {
	List(ctx context.Context) (map[string]Record, error)
	Get(ctx context.Context, name string) (Record, error)
	Put(ctx context.Context, name string, rec Record) error
	Delete(ctx context.Context, name string) error
}

// Transactor is implemented by stores which can run several calls atomically.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// Locker serializes writes across service instances.
type Locker interface {
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
}
