package rabbitmq

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/soldatov-s/go-contacts/base"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"
)

var ErrReconnectFailed = errors.New("reconnect to rabbitMQ failed")

// Connection holds one amqp connection with one channel and reopens
// both when the broker drops them.
type Connection struct {
	dsn           string
	backoffPolicy []time.Duration
	mu            sync.RWMutex
	conn          *amqp.Connection
	channel       *amqp.Channel
	isClosed      bool
}

func NewConnection(dsn string, backoffPolicy []time.Duration) *Connection {
	return &Connection{
		dsn:           dsn,
		backoffPolicy: backoffPolicy,
	}
}

func (c *Connection) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.conn != nil && !c.conn.IsClosed()
}

func (c *Connection) Close(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.isClosed = true
	if c.conn == nil {
		return nil
	}

	if err := c.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return errors.Wrap(err, "close rabbitMQ connection")
	}

	return nil
}

func (c *Connection) connect(_ context.Context) error {
	conn, err := amqp.Dial(c.dsn)
	if err != nil {
		return errors.Wrap(err, "connect to rabbitMQ")
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return errors.Wrap(err, "open a channel")
	}

	c.mu.Lock()
	c.conn = conn
	c.channel = channel
	c.mu.Unlock()

	return nil
}

// Connect dials rabbitMQ and starts a goroutine which reconnects
// when the channel is closed by the broker.
func (c *Connection) Connect(ctx context.Context, errorGroup *errgroup.Group) error {
	if err := c.connect(ctx); err != nil {
		return errors.Wrap(err, "connect")
	}

	errorGroup.Go(func() error {
		return c.watch(ctx)
	})

	return nil
}

func (c *Connection) watch(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	logger.Info().Msg("starting connection watcher")

	for {
		c.mu.RLock()
		notify := c.channel.NotifyClose(make(chan *amqp.Error, 1))
		c.mu.RUnlock()

		select {
		case <-ctx.Done():
			logger.Info().Msg("connection watcher stopped")
			return nil
		case reason := <-notify:
			c.mu.RLock()
			closed := c.isClosed
			c.mu.RUnlock()
			if closed {
				return nil
			}

			logger.Error().Err(reason).Msg("rabbitMQ channel unexpected closed")
			if err := c.reconnect(ctx); err != nil {
				return err
			}
		}
	}
}

func (c *Connection) reconnect(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	for _, timeout := range c.backoffPolicy {
		err := c.connect(ctx)
		if err == nil {
			logger.Info().Msg("reconnected to rabbitMQ")
			return nil
		}
		logger.Err(err).Msg("connection failed, trying to reconnect to rabbitMQ")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(timeout):
		}
	}

	return ErrReconnectFailed
}

func (c *Connection) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.channel == nil {
		return base.ErrNotConnected
	}

	return c.channel.ExchangeDeclare(name, kind, durable, autoDelete, internal, noWait, args)
}

func (c *Connection) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.channel == nil {
		return amqp.Queue{}, base.ErrNotConnected
	}

	return c.channel.QueueDeclare(name, durable, autoDelete, exclusive, noWait, args)
}

func (c *Connection) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.channel == nil {
		return base.ErrNotConnected
	}

	return c.channel.QueueBind(name, key, exchange, noWait, args)
}

func (c *Connection) Consume(
	queue, consumer string,
	autoAck, exclusive, noLocal, noWait bool,
	args amqp.Table) (<-chan amqp.Delivery, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.channel == nil {
		return nil, base.ErrNotConnected
	}

	return c.channel.Consume(queue, consumer, autoAck, exclusive, noLocal, noWait, args)
}

// nolint:gocritic // pass msg without pointer as in original func in amqp
func (c *Connection) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.channel == nil {
		return base.ErrNotConnected
	}

	return c.channel.Publish(exchange, key, mandatory, immediate, msg)
}
