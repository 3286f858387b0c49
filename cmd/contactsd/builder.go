package main

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/app"
	"github.com/soldatov-s/go-contacts/config"
	"github.com/soldatov-s/go-contacts/domains/contacts"
	"github.com/soldatov-s/go-contacts/domains/contacts/cachestore"
	"github.com/soldatov-s/go-contacts/domains/contacts/events"
	"github.com/soldatov-s/go-contacts/domains/contacts/memstore"
	"github.com/soldatov-s/go-contacts/domains/contacts/mongostore"
	"github.com/soldatov-s/go-contacts/domains/contacts/pgstore"
	"github.com/soldatov-s/go-contacts/log"
	"github.com/soldatov-s/go-contacts/providers/mongo"
	"github.com/soldatov-s/go-contacts/providers/pq"
	"github.com/soldatov-s/go-contacts/providers/rabbitmq"
	"github.com/soldatov-s/go-contacts/providers/redis"
	"golang.org/x/sync/errgroup"
)

const (
	httpEnityName   = "public"
	storeEnityName  = "contacts"
	redisEnityName  = "cache"
	brokerEnityName = "events"
	writeLockKey    = "contacts_write_lock"
)

// newManager builds logger and app manager, returned context carries
// the logger and is canceled when any managed goroutine fails.
func newManager(ctx context.Context, cfg *config.Config, statsName string, out io.Writer) (context.Context, *app.Manager, error) {
	logger, err := log.NewLogger(ctx, cfg.Logger, log.WithOutput(out))
	if err != nil {
		return nil, nil, errors.Wrap(err, "new logger")
	}
	ctx = logger.Zerolog().WithContext(ctx)

	errGroup, ctx := errgroup.WithContext(ctx)
	manager := app.NewManager(&app.ManagerDeps{
		Meta:               metaDeps(),
		StatsHTTPEnityName: statsName,
		Logger:             logger,
		ErrorGroup:         errGroup,
	})

	return ctx, manager, nil
}

func buildStore(ctx context.Context, cfg *config.Config, manager *app.Manager) (contacts.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMongo:
		enity, err := mongo.NewEnity(ctx, storeEnityName, cfg.Mongo)
		if err != nil {
			return nil, errors.Wrap(err, "new mongo enity")
		}
		if err := manager.Add(ctx, enity); err != nil {
			return nil, errors.Wrap(err, "add mongo enity")
		}
		return mongostore.New(enity, cfg.MongoStore), nil
	case config.BackendPostgres:
		enity, err := pq.NewEnity(ctx, storeEnityName, cfg.Postgres)
		if err != nil {
			return nil, errors.Wrap(err, "new postgres enity")
		}
		if err := manager.Add(ctx, enity); err != nil {
			return nil, errors.Wrap(err, "add postgres enity")
		}
		return pgstore.New(enity), nil
	case config.BackendMemory:
		return memstore.New(), nil
	default:
		return nil, errors.Wrapf(config.ErrUnknownBackend, "backend %q", cfg.Store.Backend)
	}
}

// buildService wires store, cache and, for writers, locker and event
// publisher into contacts service.
func buildService(ctx context.Context, cfg *config.Config, manager *app.Manager, writer bool) (*contacts.Service, error) {
	store, err := buildStore(ctx, cfg, manager)
	if err != nil {
		return nil, errors.Wrap(err, "build store")
	}

	opts := []contacts.Option{contacts.WithExporter(cfg.Export.Encoder())}

	useLocker := writer && cfg.Store.UseLocker
	if cfg.Store.UseCache || useLocker {
		redisEnity, err := redis.NewEnity(ctx, redisEnityName, cfg.Redis)
		if err != nil {
			return nil, errors.Wrap(err, "new redis enity")
		}
		if cfg.Store.UseCache {
			cache, err := redisEnity.AddCache(ctx, cfg.Cache)
			if err != nil {
				return nil, errors.Wrap(err, "add cache")
			}
			store = cachestore.New(store, cache)
		}

		if useLocker {
			mutex, err := redisEnity.NewMutex(redis.WithLockKey(writeLockKey))
			if err != nil {
				return nil, errors.Wrap(err, "new mutex")
			}
			opts = append(opts, contacts.WithLocker(mutex))
		}

		// cache metrics are collected by manager on add
		if err := manager.Add(ctx, redisEnity); err != nil {
			return nil, errors.Wrap(err, "add redis enity")
		}
	}

	if writer && cfg.Store.UseEvents {
		rabbitEnity, err := rabbitmq.NewEnity(ctx, brokerEnityName, cfg.RabbitMQ)
		if err != nil {
			return nil, errors.Wrap(err, "new rabbitmq enity")
		}
		publisher, err := rabbitEnity.AddPublisher(ctx, cfg.Publisher)
		if err != nil {
			return nil, errors.Wrap(err, "add publisher")
		}

		if err := manager.Add(ctx, rabbitEnity); err != nil {
			return nil, errors.Wrap(err, "add rabbitmq enity")
		}
		opts = append(opts, contacts.WithNotifier(events.NewNotifier(publisher)))
	}

	service, err := contacts.NewService(store, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "new contacts service")
	}

	if err := manager.GetMetrics().Append(service.GetMetrics()); err != nil {
		return nil, errors.Wrap(err, "append service metrics")
	}

	return service, nil
}
