package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/soldatov-s/go-contacts/base"
)

var ErrNotFoundInCache = errors.New("not found in cache")

//go:generate mockgen -destination=mock_connector_test.go -package=rediscache_test . Connector

type Connector interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

// Cache stores JSON encoded values under prefixed keys.
type Cache struct {
	*base.MetricsStorage
	config *Config
	conn   Connector
	name   string
}

func NewCache(ctx context.Context, name string, config *Config, conn Connector) (*Cache, error) {
	if config == nil {
		return nil, base.ErrInvalidEnityOptions
	}

	cache := &Cache{
		MetricsStorage: base.NewMetricsStorage(),
		config:         config.SetDefault(),
		conn:           conn,
		name:           name,
	}

	if err := cache.buildMetrics(ctx); err != nil {
		return nil, errors.Wrap(err, "build metrics")
	}

	return cache, nil
}

func (c *Cache) keyPrefix() string {
	prefix := c.config.KeyPrefix
	if c.config.GlobalKeyPrefix != "" {
		prefix = c.config.GlobalKeyPrefix + ":" + prefix
	}
	return prefix
}

func (c *Cache) buildKey(key string) string {
	return c.keyPrefix() + ":" + key
}

// Get item from cache by key and unmarshal it into value.
func (c *Cache) Get(ctx context.Context, key string, value interface{}) error {
	data, err := c.conn.Get(ctx, c.buildKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFoundInCache
	}
	if err != nil {
		return errors.Wrap(err, "get key")
	}

	if err := json.Unmarshal(data, value); err != nil {
		return errors.Wrap(err, "unmarshal value")
	}

	return nil
}

// Set item in cache by key.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "marshal value")
	}

	if err := c.conn.Set(ctx, c.buildKey(key), data, c.config.ClearTime).Err(); err != nil {
		return errors.Wrap(err, "set key")
	}

	return nil
}

// Delete item from cache by key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.conn.Del(ctx, c.buildKey(key)).Err(); err != nil {
		return errors.Wrap(err, "del key")
	}

	return nil
}

func (c *Cache) scan(ctx context.Context, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, next, err := c.conn.Scan(ctx, cursor, c.keyPrefix()+":*", c.config.ScanSize).Result()
		if err != nil {
			return errors.Wrap(err, "scan")
		}

		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}

		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Clear deletes all items of the cache.
func (c *Cache) Clear(ctx context.Context) error {
	return c.scan(ctx, func(keys []string) error {
		if err := c.conn.Del(ctx, keys...).Err(); err != nil {
			return errors.Wrap(err, "del")
		}
		return nil
	})
}

// Size return count of item in cache
func (c *Cache) Size(ctx context.Context) (int, error) {
	length := 0
	err := c.scan(ctx, func(keys []string) error {
		length += len(keys)
		return nil
	})
	if err != nil {
		return -1, err
	}

	return length, nil
}

func (c *Cache) buildMetrics(_ context.Context) error {
	sizeMetricFunc := func(ctx context.Context) (float64, error) {
		size, err := c.Size(ctx)
		if err != nil {
			zerolog.Ctx(ctx).Err(err).Msg("cache size")
			return 0, nil
		}
		return float64(size), nil
	}

	if _, err := c.GetMetrics().AddGauge(c.name, "cache size", "cache size", sizeMetricFunc); err != nil {
		return errors.Wrap(err, "add gauge metric")
	}

	return nil
}
