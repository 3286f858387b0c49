package pq

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/base"
	contactssqlx "github.com/soldatov-s/go-contacts/x/sqlx"
	"github.com/soldatov-s/go-contacts/x/sqlx/migrations"
	"github.com/soldatov-s/go-contacts/x/stringsx"
	"golang.org/x/sync/errgroup"

	// a blank import
	_ "github.com/lib/pq"
)

const (
	ProviderName = "postgres"
	// migrations of several instances are serialized by advisory lock
	migrationsLockName = "goose migrations"
)

// Enity is a connection controlling structure. It controls
// connection, migrations and everything that related to
// specified connection.
type Enity struct {
	*base.Enity
	*base.MetricsStorage
	*base.ReadyCheckStorage
	conn     *sqlx.DB
	config   *Config
	migrator *migrations.Migrator
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
	}

	if err := e.buildMetrics(ctx); err != nil {
		return nil, errors.Wrap(err, "build metrics")
	}

	if err := e.buildReadyHandlers(ctx); err != nil {
		return nil, errors.Wrap(err, "build ready handlers")
	}

	return e, nil
}

func (e *Enity) GetConn() *sqlx.DB {
	return e.conn
}

func (e *Enity) GetConfig() *Config {
	return e.config
}

// Shutdown shutdowns connection watcher and closes connection to
// database. This is a blocking call.
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

// SetPoolLimits sets connection pool limits.
func (e *Enity) SetPoolLimits(maxIdleConnections, maxOpenedConnections int, connMaxLifetime time.Duration) {
	e.config.MaxIdleConnections = maxIdleConnections
	e.config.MaxOpenedConnections = maxOpenedConnections
	e.config.MaxConnectionLifetime = connMaxLifetime

	if e.conn != nil {
		e.conn.SetMaxIdleConns(maxIdleConnections)
		e.conn.SetMaxOpenConns(maxOpenedConnections)
		e.conn.SetConnMaxLifetime(connMaxLifetime)
	}
}

// Start connects to database, migrates it and starts connection watcher.
// It returns migrations.ErrMigrateOnly when only migration was requested.
func (e *Enity) Start(ctx context.Context, errorGroup *errgroup.Group) error {
	logger := e.GetLogger(ctx)

	if e.conn != nil {
		return nil
	}
	logger.Info().Msg("establishing connection...")
	conn, err := sqlx.ConnectContext(ctx, ProviderName, e.config.ComposeDSN())
	if err != nil {
		return errors.Wrap(err, "connect to enity")
	}
	e.conn = conn
	logger.Info().Msg("connection established")

	e.SetPoolLimits(e.config.MaxIdleConnections, e.config.MaxOpenedConnections, e.config.MaxConnectionLifetime)

	if err := e.migrate(ctx); err != nil {
		return err
	}

	if e.config.StartWatcher && e.IsWatcherStopped() {
		e.SetWatcher(false)
		errorGroup.Go(func() error {
			return e.startWatcher(ctx)
		})
	}

	return nil
}

func (e *Enity) migrate(ctx context.Context) error {
	if e.migrator == nil {
		e.migrator = migrations.NewMigrator(ProviderName, e.conn.DB, e.config.Migrate)
	}

	mu, err := NewMutex(e.conn, migrationsLockName, 0)
	if err != nil {
		return errors.Wrap(err, "new mutex")
	}

	if err := mu.Lock(ctx); err != nil {
		return errors.Wrap(err, "lock migrations")
	}

	defer func() {
		if err := mu.Unlock(ctx); err != nil {
			e.GetLogger(ctx).Err(err).Msg("unlock migrations")
		}
	}()

	if err := e.migrator.Migrate(ctx); err != nil {
		if errors.Is(err, migrations.ErrMigrateOnly) {
			return err
		}
		return errors.Wrap(err, "migrate")
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
	if e.conn == nil {
		return nil
	}
	e.GetLogger(ctx).Info().Msg("closing connection...")

	if err := e.conn.Close(); err != nil {
		return errors.Wrap(err, "failed to close connection")
	}

	e.conn = nil

	return nil
}

// Ping pings connection if it's alive (or we think so).
func (e *Enity) Ping(ctx context.Context) error {
	if e.conn == nil {
		return base.ErrNotConnected
	}

	if err := e.conn.PingContext(ctx); err != nil {
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

	dbStats, err := contactssqlx.StatsAsMetrics(e)
	if err != nil {
		return errors.Wrap(err, "stats as metrics")
	}

	if err := e.GetMetrics().Append(dbStats); err != nil {
		return errors.Wrap(err, "append db stats")
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
