package mongo

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/base"
	"github.com/soldatov-s/go-contacts/x/stringsx"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"golang.org/x/sync/errgroup"
)

const ProviderName = "mongo"

// Enity is a connection controlling structure. It controls
// connection, asynchronous queue and everything that related to
// specified connection.
type Enity struct {
	*base.Enity
	*base.MetricsStorage
	*base.ReadyCheckStorage
	conn   *mongo.Client
	config *Config
	dbName string
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

	enity := &Enity{
		Enity:             base.NewEnity(deps),
		MetricsStorage:    base.NewMetricsStorage(),
		ReadyCheckStorage: base.NewReadyCheckStorage(),
		config:            config.SetDefault(),
	}

	cs, err := connstring.ParseAndValidate(enity.config.ComposeDSN())
	if err != nil {
		return nil, errors.Wrap(err, "parse dsn")
	}
	enity.dbName = cs.Database

	if err := enity.buildMetrics(ctx); err != nil {
		return nil, errors.Wrap(err, "build metrics")
	}

	if err := enity.buildReadyHandlers(ctx); err != nil {
		return nil, errors.Wrap(err, "build ready handlers")
	}

	return enity, nil
}

func (e *Enity) GetConn() *mongo.Client {
	return e.conn
}

func (e *Enity) GetConfig() *Config {
	return e.config
}

// Database returns database from DSN.
func (e *Enity) Database() *mongo.Database {
	return e.conn.Database(e.dbName)
}

// Shutdown shutdowns connection watcher and closes connection to database.
// This is a blocking call.
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

// Start starts connection watcher and connection procedure itself.
func (e *Enity) Start(ctx context.Context, errorGroup *errgroup.Group) error {
	if e.conn == nil {
		e.GetLogger(ctx).Info().Msg("establishing connection to database...")

		conn, err := mongo.Connect(ctx, options.Client().ApplyURI(e.config.ComposeDSN()))
		if err != nil {
			return errors.Wrap(err, "connect to enity")
		}
		e.conn = conn
		e.GetLogger(ctx).Info().Msg("database connection established")
	}

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
	if e.conn == nil {
		return nil
	}
	e.GetLogger(ctx).Info().Msg("closing connection...")

	if err := e.conn.Disconnect(ctx); err != nil {
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

	if err := e.conn.Ping(ctx, nil); err != nil {
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
