package rabbitmqconsum

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/soldatov-s/go-contacts/base"
	"github.com/soldatov-s/go-contacts/x/stringsx"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -destination=mock_connector_test.go -package=rabbitmqconsum_test . Connector

type Connector interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Subscriber handles message bodies. A message is acked when Consume
// returns nil and dropped otherwise.
type Subscriber interface {
	Consume(ctx context.Context, data []byte) error
	Shutdown(ctx context.Context) error
}

// Consumer is a RabbitConsumer
type Consumer struct {
	*base.MetricsStorage
	config *Config
	conn   Connector
	name   string

	okMessages  prometheus.Counter
	badMessages prometheus.Counter
}

func NewConsumer(ctx context.Context, name string, config *Config, conn Connector) (*Consumer, error) {
	if config == nil {
		return nil, base.ErrInvalidEnityOptions
	}

	c := &Consumer{
		MetricsStorage: base.NewMetricsStorage(),
		config:         config.SetDefault(),
		name:           name,
		conn:           conn,
	}

	if err := c.buildMetrics(ctx); err != nil {
		return nil, errors.Wrap(err, "build metrics")
	}

	return c, nil
}

func (c *Consumer) GetConfig() *Config {
	return c.config
}

func (c *Consumer) connect(_ context.Context) (<-chan amqp.Delivery, error) {
	if err := c.conn.ExchangeDeclare(c.config.ExchangeName, c.config.ExchangeKind, true,
		false, false,
		false, nil); err != nil {
		return nil, errors.Wrap(err, "declare a exchange")
	}

	if _, err := c.conn.QueueDeclare(
		c.config.Queue, // name
		true,           // durable
		false,          // delete when unused
		false,          // exclusive
		false,          // no-wait
		nil,            // arguments
	); err != nil {
		return nil, errors.Wrap(err, "declare a queue")
	}

	if err := c.conn.QueueBind(
		c.config.Queue,        // queue name
		c.config.RoutingKey,   // routing key
		c.config.ExchangeName, // exchange
		false,
		nil,
	); err != nil {
		return nil, errors.Wrap(err, "bind to queue")
	}

	msg, err := c.conn.Consume(
		c.config.Queue,       // queue
		c.config.ConsumerTag, // consumer
		false,                // auto-ack
		false,                // exclusive
		false,                // no-local
		false,                // no-wait
		nil,                  // args
	)
	if err != nil {
		return nil, errors.Wrap(err, "consume message")
	}

	return msg, nil
}

func (c *Consumer) subscribe(ctx context.Context, subscriber Subscriber) error {
	logger := zerolog.Ctx(ctx)
	defer func() {
		if err := subscriber.Shutdown(ctx); err != nil {
			logger.Err(err).Msg("shutdown subscriber")
		}
	}()

	for {
		deliveries, err := c.connect(ctx)
		if err != nil {
			logger.Err(err).Msg("connect consumer to rabbitMQ")
		} else {
			c.consume(ctx, deliveries, subscriber)
		}

		select {
		case <-ctx.Done():
			logger.Info().Msg("consumer stopped")
			return nil
		case <-time.After(c.config.RetryInterval):
		}
	}
}

// consume returns when ctx is done or the channel is closed.
func (c *Consumer) consume(ctx context.Context, deliveries <-chan amqp.Delivery, subscriber Subscriber) {
	logger := zerolog.Ctx(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				logger.Warn().Msg("deliveries channel closed")
				return
			}

			logger.Debug().Msgf("got new event %s", string(d.Body))
			if err := subscriber.Consume(ctx, d.Body); err != nil {
				c.badMessages.Inc()
				logger.Err(err).Msg("consume message")
				if err := d.Nack(false, false); err != nil {
					logger.Err(err).Msg("nack")
				}
				continue
			}

			c.okMessages.Inc()
			if err := d.Ack(false); err != nil {
				logger.Err(err).Msg("ack")
			}
		}
	}
}

// Subscribe to channel for receiving message
func (c *Consumer) Subscribe(ctx context.Context, errorGroup *errgroup.Group, subscriber Subscriber) error {
	if subscriber == nil {
		return base.ErrFuncIsNil
	}

	errorGroup.Go(func() error {
		return c.subscribe(ctx, subscriber)
	})

	return nil
}

func (c *Consumer) buildMetrics(_ context.Context) error {
	fullName := stringsx.JoinStrings("_", c.name, "consumer")

	var err error
	c.okMessages, err = c.GetMetrics().AddIncCounter(fullName, "ok consumed messages", "ok consumed messages from queue")
	if err != nil {
		return errors.Wrap(err, "add inc metric")
	}

	c.badMessages, err = c.GetMetrics().AddIncCounter(fullName, "bad consumed messages", "rejected messages from queue")
	if err != nil {
		return errors.Wrap(err, "add inc metric")
	}

	return nil
}
