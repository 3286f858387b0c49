package redis

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/base"
	rediscache "github.com/soldatov-s/go-contacts/providers/redis/cache"
	"github.com/soldatov-s/go-contacts/x/stringsx"
	"golang.org/x/sync/errgroup"
)

const ProviderName = "redis"

// Enity is a connection controlling structure. It controls
// connection, caches and everything that related to
// specified connection.
type Enity struct {
	*base.Enity
	*base.MetricsStorage
	*base.ReadyCheckStorage
	conn     *redis.Client
	config   *Config
	cachesMu sync.Mutex
	caches   map[string]*rediscache.Cache
}

// NewEnity create new enity.
func NewEnity(ctx context.Context, name string, config *Config) (*Enity, error) {
	if config == nil {
		return nil, base.ErrInvalidEnityOptions
	}

	deps := &base.EnityDeps{
		ProviderName: ProviderName,
		Name:         name,
	}

	e := &Enity{
		Enity:             base.NewEnity(deps),
		MetricsStorage:    base.NewMetricsStorage(),
		ReadyCheckStorage: base.NewReadyCheckStorage(),
		config:            config.SetDefault(),
		caches:            make(map[string]*rediscache.Cache),
	}

	// connection is lazy, client is created right away so caches and
	// mutexes can be built before Start
	connOptions, err := e.config.Options()
	if err != nil {
		return nil, errors.Wrap(err, "parse options")
	}
	e.conn = redis.NewClient(connOptions)

	if err := e.buildMetrics(ctx); err != nil {
		return nil, errors.Wrap(err, "build metrics")
	}

	if err := e.buildReadyHandlers(ctx); err != nil {
		return nil, errors.Wrap(err, "build ready handlers")
	}

	return e, nil
}

func (e *Enity) GetConn() *redis.Client {
	return e.conn
}

func (e *Enity) GetConfig() *Config {
	return e.config
}

// AddCache creates a cache over enity connection. Cache metrics are
// collected by enity.
func (e *Enity) AddCache(ctx context.Context, config *rediscache.Config) (*rediscache.Cache, error) {
	e.cachesMu.Lock()
	defer e.cachesMu.Unlock()

	cfg := config.SetDefault()
	cfg.GlobalKeyPrefix = e.config.GlobalCacheKeyPrefix
	name := cfg.KeyPrefix
	if _, ok := e.caches[name]; ok {
		return nil, errors.Wrapf(base.ErrConflictName, "cache %q", name)
	}

	cache, err := rediscache.NewCache(ctx, stringsx.JoinStrings("_", e.GetFullName(), name), cfg, e.conn)
	if err != nil {
		return nil, errors.Wrap(err, "new cache")
	}

	if err := e.GetMetrics().Append(cache.GetMetrics()); err != nil {
		return nil, errors.Wrap(err, "append metrics")
	}
	e.caches[name] = cache

	return cache, nil
}

// NewMutex creates new redis mutex over enity connection.
func (e *Enity) NewMutex(opts ...MutexOption) (*Mutex, error) {
	return NewMutex(e.conn, opts...)
}

// Shutdown shutdowns connection watcher and closes connection. This is a
// blocking call.
func (e *Enity) Shutdown(ctx context.Context) error {
	e.GetLogger(ctx).Info().Msg("shutting down")
	e.SetShuttingDown(true)

	if e.config.StartWatcher {
		for !e.IsWatcherStopped() {
			time.Sleep(time.Millisecond * 500)
		}
	}

	if err := e.shutdown(ctx); err != nil {
		return errors.Wrapf(err, "shutdown %q", e.GetFullName())
	}

	e.GetLogger(ctx).Info().Msg("shutted down")
	return nil
}

// Start checks connection and starts connection watcher.
func (e *Enity) Start(ctx context.Context, errorGroup *errgroup.Group) error {
	logger := e.GetLogger(ctx)
	logger.Info().Msg("establishing connection ...")

	if err := e.Ping(ctx); err != nil {
		return errors.Wrap(err, "connect to enity")
	}

	logger.Info().Msg("connection established")

	if e.config.StartWatcher && e.IsWatcherStopped() {
		e.SetWatcher(false)
		errorGroup.Go(func() error {
			return e.startWatcher(ctx)
		})
	}

	return nil
}

// Connection watcher goroutine entrypoint.
func (e *Enity) startWatcher(ctx context.Context) error {
	e.GetLogger(ctx).Info().Msg("starting connection watcher")
	ticker := time.NewTicker(e.config.Timeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.GetLogger(ctx).Info().Msg("connection watcher stopped")
			e.SetWatcher(true)
			return ctx.Err()
		case <-ticker.C:
			if e.IsShuttingDown() {
				e.SetWatcher(true)
				return nil
			}
			if err := e.Ping(ctx); err != nil {
				e.GetLogger(ctx).Error().Err(err).Msg("connection lost")
			}
		}
	}
}

func (e *Enity) shutdown(ctx context.Context) error {
	e.GetLogger(ctx).Info().Msg("closing connection...")

	if err := e.conn.Close(); err != nil {
		return errors.Wrap(err, "failed to close connection")
	}

	return nil
}

// Ping pings connection if it's alive (or we think so).
func (e *Enity) Ping(ctx context.Context) error {
	if _, err := e.conn.Ping(ctx).Result(); err != nil {
		return errors.Wrap(err, "ping connection")
	}

	return nil
}

func (e *Enity) buildMetrics(_ context.Context) error {
	fullName := e.GetFullName()
	redactedDSN, err := stringsx.RedactedDSN(e.config.DSN)
	if err != nil {
		return errors.Wrap(err, "redacted dsn")
	}
	help := stringsx.JoinStrings(" ", "status link to", redactedDSN)
	metricFunc := func(ctx context.Context) (float64, error) {
		if err := e.Ping(ctx); err != nil {
			return 0, nil
		}
		return 1, nil
	}
	if _, err := e.GetMetrics().AddGauge(fullName, "status", help, metricFunc); err != nil {
		return errors.Wrap(err, "add gauge metric")
	}

	return nil
}

func (e *Enity) buildReadyHandlers(_ context.Context) error {
	checkOptions := &base.CheckOptions{
		Name: strings.ToUpper(e.GetFullName() + "_notfailed"),
		CheckFunc: func(ctx context.Context) error {
			if err := e.Ping(ctx); err != nil {
				return errors.Wrap(err, "ping")
			}

			return nil
		},
	}
	if err := e.GetReadyHandlers().Add(checkOptions); err != nil {
		return errors.Wrap(err, "add ready handler")
	}
	return nil
}
