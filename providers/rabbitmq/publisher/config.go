package rabbitmqpub

const (
	defaultExchangeName = "contacts"
	defaultExchangeKind = "direct"
	defaultRoutingKey   = "contact.changed"
)

// Config describes struct with publisher options
type Config struct {
	// ExchangeName is a name of rabbitmq exchange
	ExchangeName string `envconfig:"optional"`
	// ExchangeKind is a kind of declared exchange
	ExchangeKind string `envconfig:"optional"`
	// RoutingKey is a routing key of rabbitmq exchange
	RoutingKey string `envconfig:"optional"`
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

	return &cfgCopy
}
