// Package config describes contactsd configuration. Values come from
// environment variables with CONTACTS prefix, e.g. CONTACTS_STORE_BACKEND.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/domains/contacts/mongostore"
	v1 "github.com/soldatov-s/go-contacts/domains/contacts/v1"
	"github.com/soldatov-s/go-contacts/log"
	providersconfig "github.com/soldatov-s/go-contacts/providers/config"
	"github.com/soldatov-s/go-contacts/providers/config/envconfig"
	"github.com/soldatov-s/go-contacts/providers/echo"
	"github.com/soldatov-s/go-contacts/providers/mongo"
	"github.com/soldatov-s/go-contacts/providers/pq"
	"github.com/soldatov-s/go-contacts/providers/rabbitmq"
	rabbitmqconsum "github.com/soldatov-s/go-contacts/providers/rabbitmq/consumer"
	rabbitmqpub "github.com/soldatov-s/go-contacts/providers/rabbitmq/publisher"
	"github.com/soldatov-s/go-contacts/providers/redis"
	rediscache "github.com/soldatov-s/go-contacts/providers/redis/cache"
	"github.com/soldatov-s/go-contacts/x/vcard"
)

const (
	EnvPrefix = "CONTACTS"

	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"

	defaultAdminUser = "admin"
)

var ErrUnknownBackend = errors.New("unknown store backend")

type Store struct {
	// Backend is one of memory, mongo, postgres.
	Backend string `envconfig:"optional"`
	// UseCache keeps contact list in redis.
	UseCache bool `envconfig:"optional"`
	// UseLocker serializes writes of every replica with redis mutex.
	UseLocker bool `envconfig:"optional"`
	// UseEvents publishes contact changes to rabbitmq.
	UseEvents bool `envconfig:"optional"`
}

func (c *Store) SetDefault() *Store {
	cfgCopy := *c

	cfgCopy.Backend = strings.ToLower(cfgCopy.Backend)
	if cfgCopy.Backend == "" {
		cfgCopy.Backend = BackendMemory
	}

	return &cfgCopy
}

// Admin holds credentials of admin API. Admin API is disabled while
// PasswordHash is empty.
type Admin struct {
	User string `envconfig:"optional"`
	// PasswordHash is a bcrypt hash, see "contactsd hash-password".
	PasswordHash string `envconfig:"optional"`
}

func (c *Admin) SetDefault() *Admin {
	cfgCopy := *c

	if cfgCopy.User == "" {
		cfgCopy.User = defaultAdminUser
	}

	return &cfgCopy
}

func (c *Admin) Enabled() bool {
	return c.PasswordHash != ""
}

type Export struct {
	// DisableEscaping writes names as is, without vCard text escaping.
	DisableEscaping bool `envconfig:"optional"`
	// FileName is offered to browser in Content-Disposition.
	FileName string `envconfig:"optional"`
}

func (c *Export) SetDefault() *Export {
	cfgCopy := *c

	if cfgCopy.FileName == "" {
		cfgCopy.FileName = vcard.DefaultFileName
	}

	return &cfgCopy
}

// Encoder builds vCard encoder from export settings.
func (c *Export) Encoder() *vcard.Encoder {
	if c.DisableEscaping {
		return vcard.NewEncoder(vcard.WithoutEscaping())
	}

	return vcard.NewEncoder()
}

type Config struct {
	Logger     *log.Config            `envconfig:"optional"`
	HTTP       *echo.Config           `envconfig:"optional"`
	Store      *Store                 `envconfig:"optional"`
	Mongo      *mongo.Config          `envconfig:"optional"`
	MongoStore *mongostore.Config     `envconfig:"optional"`
	Postgres   *pq.Config             `envconfig:"optional"`
	Redis      *redis.Config          `envconfig:"optional"`
	Cache      *rediscache.Config     `envconfig:"optional"`
	RabbitMQ   *rabbitmq.Config       `envconfig:"optional"`
	Publisher  *rabbitmqpub.Config    `envconfig:"optional"`
	Consumer   *rabbitmqconsum.Config `envconfig:"optional"`
	Admin      *Admin                 `envconfig:"optional"`
	Export     *Export                `envconfig:"optional"`
	Theme      *v1.Theme              `envconfig:"optional"`
}

// SetDefault fills every section, absent ones are created empty first.
// Returns a copy of config.
// nolint:gocyclo // one branch per section
func (c *Config) SetDefault() *Config {
	cfgCopy := *c

	if cfgCopy.Logger == nil {
		cfgCopy.Logger = log.DefaultConfig()
	}
	cfgCopy.Logger = cfgCopy.Logger.SetDefault()

	if cfgCopy.HTTP == nil {
		cfgCopy.HTTP = &echo.Config{}
	}
	cfgCopy.HTTP = cfgCopy.HTTP.SetDefault()

	if cfgCopy.Store == nil {
		cfgCopy.Store = &Store{}
	}
	cfgCopy.Store = cfgCopy.Store.SetDefault()

	if cfgCopy.Mongo == nil {
		cfgCopy.Mongo = &mongo.Config{}
	}
	cfgCopy.Mongo = cfgCopy.Mongo.SetDefault()

	if cfgCopy.MongoStore == nil {
		cfgCopy.MongoStore = &mongostore.Config{}
	}
	cfgCopy.MongoStore = cfgCopy.MongoStore.SetDefault()

	if cfgCopy.Postgres == nil {
		cfgCopy.Postgres = &pq.Config{}
	}
	cfgCopy.Postgres = cfgCopy.Postgres.SetDefault()

	if cfgCopy.Redis == nil {
		cfgCopy.Redis = &redis.Config{}
	}
	cfgCopy.Redis = cfgCopy.Redis.SetDefault()

	if cfgCopy.Cache == nil {
		cfgCopy.Cache = &rediscache.Config{}
	}
	cfgCopy.Cache = cfgCopy.Cache.SetDefault()

	if cfgCopy.RabbitMQ == nil {
		cfgCopy.RabbitMQ = &rabbitmq.Config{}
	}
	cfgCopy.RabbitMQ = cfgCopy.RabbitMQ.SetDefault()

	if cfgCopy.Publisher == nil {
		cfgCopy.Publisher = &rabbitmqpub.Config{}
	}
	cfgCopy.Publisher = cfgCopy.Publisher.SetDefault()

	if cfgCopy.Consumer == nil {
		cfgCopy.Consumer = &rabbitmqconsum.Config{}
	}
	cfgCopy.Consumer = cfgCopy.Consumer.SetDefault()

	if cfgCopy.Admin == nil {
		cfgCopy.Admin = &Admin{}
	}
	cfgCopy.Admin = cfgCopy.Admin.SetDefault()

	if cfgCopy.Export == nil {
		cfgCopy.Export = &Export{}
	}
	cfgCopy.Export = cfgCopy.Export.SetDefault()

	if cfgCopy.Theme == nil {
		cfgCopy.Theme = &v1.Theme{}
	}
	cfgCopy.Theme = cfgCopy.Theme.SetDefault()

	return &cfgCopy
}

// Validate checks defaulted config.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendMongo, BackendPostgres:
	default:
		return errors.Wrapf(ErrUnknownBackend, "backend %q", c.Store.Backend)
	}

	return nil
}

// NeedRedis reports whether any enabled feature uses redis.
func (c *Config) NeedRedis() bool {
	return c.Store.UseCache || c.Store.UseLocker
}

// Parse reads config from environment and validates it.
func Parse() (*Config, error) {
	cfg := &Config{}
	collector := providersconfig.NewCollector(cfg)
	provider := envconfig.NewProvider(envconfig.WithPrefix(EnvPrefix))
	if err := collector.RegisterProvider(envconfig.DefaultProviderName, provider); err != nil {
		return nil, errors.Wrap(err, "register config provider")
	}

	if err := collector.Parse(); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	cfg = cfg.SetDefault()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}

	return cfg, nil
}
