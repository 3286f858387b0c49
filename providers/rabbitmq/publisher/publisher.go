package rabbitmqpub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/soldatov-s/go-contacts/base"
	"github.com/soldatov-s/go-contacts/x/stringsx"
	"github.com/streadway/amqp"
)

const contentType = "application/json"

//go:generate mockgen -destination=mock_connector_test.go -package=rabbitmqpub_test . Connector

type Connector interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher sends JSON messages to one exchange with one routing key.
type Publisher struct {
	*base.MetricsStorage
	config *Config
	conn   Connector
	name   string

	mu       sync.Mutex
	declared bool

	okMessages  prometheus.Counter
	badMessages prometheus.Counter
}

func NewPublisher(ctx context.Context, name string, config *Config, conn Connector) (*Publisher, error) {
	if config == nil {
		return nil, base.ErrInvalidEnityOptions
	}

	p := &Publisher{
		MetricsStorage: base.NewMetricsStorage(),
		config:         config.SetDefault(),
		conn:           conn,
		name:           name,
	}
	if err := p.buildMetrics(ctx); err != nil {
		return nil, errors.Wrap(err, "build metrics")
	}

	return p, nil
}

func (p *Publisher) GetConfig() *Config {
	return p.config
}

func (p *Publisher) declare(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.declared {
		return nil
	}

	if err := p.conn.ExchangeDeclare(p.config.ExchangeName, p.config.ExchangeKind, true,
		false, false,
		false, nil); err != nil {
		return errors.Wrap(err, "declare a exchange")
	}

	p.declared = true

	return nil
}

func (p *Publisher) reset() {
	p.mu.Lock()
	p.declared = false
	p.mu.Unlock()
}

// SendMessage publish message to exchange
func (p *Publisher) SendMessage(ctx context.Context, message interface{}) error {
	logger := zerolog.Ctx(ctx)

	body, err := json.Marshal(message)
	if err != nil {
		return errors.Wrap(err, "marshal message")
	}

	logger.Debug().Msgf("send message: %s", string(body))

	if err := p.declare(ctx); err != nil {
		p.badMessages.Inc()
		return err
	}

	if err := p.conn.Publish(p.config.ExchangeName, p.config.RoutingKey, false,
		false, amqp.Publishing{
			ContentType:  contentType,
			DeliveryMode: amqp.Persistent,
			Body:         body,
		}); err != nil {
		// channel may be reopened, exchange is declared again on next send
		p.reset()
		p.badMessages.Inc()
		return errors.Wrap(err, "publish a message")
	}

	p.okMessages.Inc()

	return nil
}

func (p *Publisher) buildMetrics(_ context.Context) error {
	fullName := stringsx.JoinStrings("_", p.name, "publisher")

	var err error
	helpOKMessages := "ok send messages to exchange"
	p.okMessages, err = p.GetMetrics().AddIncCounter(fullName, "ok send messages", helpOKMessages)
	if err != nil {
		return errors.Wrap(err, "add inc metric")
	}

	helpBadMessages := "bad send messages to exchange"
	p.badMessages, err = p.GetMetrics().AddIncCounter(fullName, "bad send messages", helpBadMessages)
	if err != nil {
		return errors.Wrap(err, "add inc metric")
	}

	return nil
}
