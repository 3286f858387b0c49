package rabbitmq

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/base"
	rabbitmqconsum "github.com/soldatov-s/go-contacts/providers/rabbitmq/consumer"
	rabbitmqpub "github.com/soldatov-s/go-contacts/providers/rabbitmq/publisher"
	"github.com/soldatov-s/go-contacts/x/stringsx"
	"golang.org/x/sync/errgroup"
)

const ProviderName = "rabbitmq"

// Enity is a connection controlling structure. It controls
// connection, publishers, consumers and everything that related to
// specified connection.
type Enity struct {
	*base.Enity
	*base.MetricsStorage
	*base.ReadyCheckStorage
	config     *Config
	conn       *Connection
	mu         sync.Mutex
	started    bool
	consumers  map[string]*rabbitmqconsum.Consumer
	publishers map[string]*rabbitmqpub.Publisher
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
		consumers:         make(map[string]*rabbitmqconsum.Consumer),
		publishers:        make(map[string]*rabbitmqpub.Publisher),
	}
	e.conn = NewConnection(e.config.DSN, e.config.BackoffPolicy)

	if err := e.buildMetrics(ctx); err != nil {
		return nil, errors.Wrap(err, "build metrics")
	}

	if err := e.buildReadyHandlers(ctx); err != nil {
		return nil, errors.Wrap(err, "build ready handlers")
	}

	return e, nil
}

func (e *Enity) GetConn() *Connection {
	return e.conn
}

func (e *Enity) GetConfig() *Config {
	return e.config
}

func (e *Enity) AddConsumer(ctx context.Context, config *rabbitmqconsum.Config) (*rabbitmqconsum.Consumer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if config == nil {
		return nil, base.ErrInvalidEnityOptions
	}

	cfg := config.SetDefault()
	name := stringsx.JoinStrings("_", cfg.ExchangeName, cfg.Queue, cfg.RoutingKey)
	if _, ok := e.consumers[name]; ok {
		return nil, errors.Wrapf(base.ErrConflictName, "name is %q", name)
	}

	consumer, err := rabbitmqconsum.NewConsumer(ctx, metricName(e.GetFullName(), name), cfg, e.conn)
	if err != nil {
		return nil, errors.Wrap(err, "new consumer")
	}

	if err := e.GetMetrics().Append(consumer.GetMetrics()); err != nil {
		return nil, errors.Wrap(err, "append metrics")
	}
	e.consumers[name] = consumer

	return consumer, nil
}

func (e *Enity) AddPublisher(ctx context.Context, config *rabbitmqpub.Config) (*rabbitmqpub.Publisher, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if config == nil {
		return nil, base.ErrInvalidEnityOptions
	}

	cfg := config.SetDefault()
	name := stringsx.JoinStrings("_", cfg.ExchangeName, cfg.RoutingKey)
	if _, ok := e.publishers[name]; ok {
		return nil, errors.Wrapf(base.ErrConflictName, "name is %q", name)
	}

	publisher, err := rabbitmqpub.NewPublisher(ctx, metricName(e.GetFullName(), name), cfg, e.conn)
	if err != nil {
		return nil, errors.Wrap(err, "new publisher")
	}

	if err := e.GetMetrics().Append(publisher.GetMetrics()); err != nil {
		return nil, errors.Wrap(err, "append metrics")
	}
	e.publishers[name] = publisher

	return publisher, nil
}

// metricName replaces symbols allowed in amqp names but not in metric names.
func metricName(parts ...string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(stringsx.JoinStrings("_", parts...))
}

// Ping checks that rabbitMQ connection is live
func (e *Enity) Ping(_ context.Context) error {
	if !e.conn.IsConnected() {
		return base.ErrNotConnected
	}

	return nil
}

// Start connects to rabbitMQ. Reconnection goroutine is started in
// errorGroup.
func (e *Enity) Start(ctx context.Context, errorGroup *errgroup.Group) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil
	}

	logger := e.GetLogger(ctx)
	logger.Info().Msg("establishing connection...")

	if err := e.conn.Connect(logger.WithContext(ctx), errorGroup); err != nil {
		return errors.Wrap(err, "connect")
	}
	e.started = true

	logger.Info().Msg("connection established")

	return nil
}

// Shutdown closes connection. The reconnection goroutine exits when
// connection is closed.
func (e *Enity) Shutdown(ctx context.Context) error {
	e.GetLogger(ctx).Info().Msg("shutting down")
	e.SetShuttingDown(true)

	e.GetLogger(ctx).Info().Msg("closing connection...")
	if err := e.conn.Close(ctx); err != nil {
		return errors.Wrapf(err, "shutdown %q", e.GetFullName())
	}

	e.GetLogger(ctx).Info().Msg("shutted down")
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
