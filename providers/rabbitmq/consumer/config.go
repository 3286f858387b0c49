package rabbitmqconsum

import "time"

const (
	defaultExchangeName  = "contacts"
	defaultExchangeKind  = "direct"
	defaultRoutingKey    = "contact.changed"
	defaultQueue         = "contacts.audit"
	defaultRetryInterval = 10 * time.Second
)

// Config describes struct with options for consumer
type Config struct {
	// ExchangeName is a name of rabbitmq exchange
	ExchangeName string `envconfig:"optional"`
	// ExchangeKind is a kind of declared exchange
	ExchangeKind string `envconfig:"optional"`
	// RoutingKey is a routing key of rabbitmq exchange
	RoutingKey string `envconfig:"optional"`
	// Queue is a name of rabbitmq queue
	Queue string `envconfig:"optional"`
	// ConsumerTag identifies consumer on the channel, generated by server when empty
	ConsumerTag string `envconfig:"optional"`
	// RetryInterval is a pause between attempts to subscribe
	RetryInterval time.Duration `envconfig:"optional"`
}

// SetDefault returns a copy of config with filled empty fields.
func (c *Config) SetDefault() *Config {
	cfgCopy := *c

	if cfgCopy.ExchangeName == "" {
		cfgCopy.ExchangeName = defaultExchangeName
	}

	if cfgCopy.ExchangeKind == "" {
		cfgCopy.ExchangeKind = defaultExchangeKind
	}

	if cfgCopy.RoutingKey == "" {
		cfgCopy.RoutingKey = defaultRoutingKey
	}

	if cfgCopy.Queue == "" {
		cfgCopy.Queue = defaultQueue
	}

	if cfgCopy.RetryInterval == 0 {
		cfgCopy.RetryInterval = defaultRetryInterval
	}

	return &cfgCopy
}
