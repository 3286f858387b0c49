package pq

import (
	"context"
	"hash/crc32"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const (
	lockIDSalt           = uint32(1364987532)
	defaultCheckInterval = 100 * time.Millisecond
	requestLock          = "select pg_try_advisory_lock($1)"
	requestUnlock        = "select pg_advisory_unlock($1)"
)

var ErrDBConnNotEstablished = errors.New("connection not established")

// Mutex is a session level PostgreSQL advisory lock shared by every
// instance connected to the same database.
type Mutex struct {
	db            *sqlx.DB
	conn          *sqlx.Conn
	lockID        int64
	checkInterval time.Duration
}

// NewMutex creates new mutex with id generated from name.
func NewMutex(db *sqlx.DB, name string, checkInterval time.Duration) (*Mutex, error) {
	if db == nil {
		return nil, ErrDBConnNotEstablished
	}

	if checkInterval == 0 {
		checkInterval = defaultCheckInterval
	}

	return &Mutex{
		db:            db,
		lockID:        LockID(name),
		checkInterval: checkInterval,
	}, nil
}

// LockID generates advisory lock id from name.
func LockID(name string) int64 {
	return int64(crc32.ChecksumIEEE([]byte(name)) * lockIDSalt)
}

// Lock blocks until lock is taken or ctx is done. Lock is held by a single
// dedicated connection until Unlock.
func (m *Mutex) Lock(ctx context.Context) error {
	conn, err := m.db.Connx(ctx)
	if err != nil {
		return errors.Wrap(err, "get connection")
	}

	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		var locked bool
		if err := conn.GetContext(ctx, &locked, requestLock, m.lockID); err != nil {
			conn.Close()
			return errors.Wrap(err, "try lock")
		}

		if locked {
			m.conn = conn
			return nil
		}

		select {
		case <-ctx.Done():
			conn.Close()
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Unlock releases lock and returns connection to pool.
func (m *Mutex) Unlock(ctx context.Context) error {
	if m.conn == nil {
		return nil
	}

	defer func() {
		m.conn.Close()
		m.conn = nil
	}()

	if _, err := m.conn.ExecContext(ctx, requestUnlock, m.lockID); err != nil {
		return errors.Wrap(err, "unlock")
	}

	return nil
}
