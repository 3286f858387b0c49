package redis

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	defaultLockKey       = "contacts:lock"
	defaultCheckInterval = 100 * time.Millisecond
	defaultExpire        = 15 * time.Second
)

//go:generate mockgen -destination=mock_mutex_connector_test.go -package=redis_test . MutexConnector

var ErrNotLocked = errors.New("mutex is not locked")

// deletes KEYS[1] only while it holds ARGV[1]
const unlockScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

type MutexConnector interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Mutex provides a distributed mutex across multiple instances via Redis.
// Lock key expires, so a crashed holder does not block others forever.
type Mutex struct {
	conn          MutexConnector
	lockKey       string
	lockValue     string
	checkInterval time.Duration
	expire        time.Duration
	// serializes holders inside an instance
	mu sync.Mutex
}

type MutexOption func(*Mutex)

func WithCheckInterval(checkInterval time.Duration) MutexOption {
	return func(m *Mutex) {
		m.checkInterval = checkInterval
	}
}

func WithExpire(expire time.Duration) MutexOption {
	return func(m *Mutex) {
		m.expire = expire
	}
}

func WithLockKey(lockKey string) MutexOption {
	return func(m *Mutex) {
		m.lockKey = lockKey
	}
}

// NewMutex creates new distributed redis mutex
func NewMutex(conn MutexConnector, opts ...MutexOption) (*Mutex, error) {
	m := &Mutex{
		conn:          conn,
		lockKey:       defaultLockKey,
		checkInterval: defaultCheckInterval,
		expire:        defaultExpire,
	}

	lockValue, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.Wrap(err, "generate lock value")
	}
	m.lockValue = lockValue.String()

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Lock sets Redis-lock item. It is blocking call which will wait until
// redis lock key will be deleted or ctx is done.
func (m *Mutex) Lock(ctx context.Context) error {
	m.mu.Lock()

	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		ok, err := m.conn.SetNX(ctx, m.lockKey, m.lockValue, m.expire).Result()
		if err != nil {
			m.mu.Unlock()
			return errors.Wrap(err, "set nx lock")
		}

		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			m.mu.Unlock()
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Unlock deletes Redis-lock item if it is still owned by this mutex.
// Check and delete run as one script.
func (m *Mutex) Unlock(ctx context.Context) error {
	defer m.mu.Unlock()

	deleted, err := m.conn.Eval(ctx, unlockScript, []string{m.lockKey}, m.lockValue).Int64()
	if err != nil {
		return errors.Wrap(err, "del lock from redis")
	}

	if deleted == 0 {
		return ErrNotLocked
	}

	return nil
}

// Extend extends the timeout of a held Redis-lock.
func (m *Mutex) Extend(ctx context.Context, timeout time.Duration) error {
	owned, err := m.owned(ctx)
	if err != nil {
		return err
	}

	if !owned {
		return ErrNotLocked
	}

	if err := m.conn.Expire(ctx, m.lockKey, timeout).Err(); err != nil {
		return errors.Wrap(err, "expire lock in redis")
	}

	return nil
}

func (m *Mutex) owned(ctx context.Context) (bool, error) {
	value, err := m.conn.Get(ctx, m.lockKey).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "get lock from redis")
	}

	return value == m.lockValue, nil
}
