package config

import (
	"sync"

	"github.com/pkg/errors"
)

// Provider is an interface that every configuration adapter
// should conform to.
type Provider interface {
	// Parse fills passed pointer to configuration struct.
	Parse(structure interface{}) error
}

// Collector holds configuration struct and providers which fill it.
type Collector struct {
	cfg       interface{}
	mu        sync.Mutex
	providers map[string]Provider
	// Providers are executed in registration order, latest wins.
	order []string
}

func NewCollector(cfg interface{}) *Collector {
	return &Collector{
		cfg:       cfg,
		providers: make(map[string]Provider),
	}
}

// RegisterProvider registers configuration adapter.
func (c *Collector) RegisterProvider(providerName string, p Provider) error {
	if providerName == "" {
		return ErrEmptyProviderName
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.providers[providerName]; ok {
		return errors.Wrapf(ErrProviderAlreadyRegistered, "providerName %q", providerName)
	}

	c.providers[providerName] = p
	c.order = append(c.order, providerName)

	return nil
}

// Parse executes every registered provider.
func (c *Collector) Parse() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.order) == 0 {
		return ErrNoProviderRegistred
	}

	for _, name := range c.order {
		if err := c.providers[name].Parse(c.cfg); err != nil {
			return errors.Wrapf(err, "parse config by %q", name)
		}
	}

	return nil
}

func (c *Collector) Config() interface{} {
	return c.cfg
}
