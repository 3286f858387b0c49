package envconfig

import (
	"github.com/pkg/errors"
	"github.com/vrischmann/envconfig"
)

const DefaultProviderName = "envconfig"

// Provider fills configuration from environment variables.
type Provider struct {
	prefix string
}

type Option func(*Provider)

// WithPrefix sets prefix of environment variables, e.g. "CONTACTS".
func WithPrefix(prefix string) Option {
	return func(p *Provider) {
		p.prefix = prefix
	}
}

func NewProvider(opts ...Option) *Provider {
	p := &Provider{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse executes parsing sequence.
func (p *Provider) Parse(structure interface{}) error {
	var err error
	if p.prefix == "" {
		err = envconfig.Init(structure)
	} else {
		err = envconfig.InitWithPrefix(structure, p.prefix)
	}

	if err != nil {
		return errors.Wrap(err, "init envconfig")
	}

	return nil
}
