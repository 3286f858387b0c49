package redis_test

import (
	"context"
	"testing"

	"github.com/soldatov-s/go-contacts/base"
	contactsredis "github.com/soldatov-s/go-contacts/providers/redis"
	rediscache "github.com/soldatov-s/go-contacts/providers/redis/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnity(t *testing.T) {
	ctx := context.Background()

	_, err := contactsredis.NewEnity(ctx, "cache", nil)
	assert.ErrorIs(t, err, base.ErrInvalidEnityOptions)

	e, err := contactsredis.NewEnity(ctx, "cache", &contactsredis.Config{})
	require.NoError(t, err)
	assert.Equal(t, "redis_cache", e.GetFullName())
	assert.Equal(t, 1, e.GetMetrics().Len())
	assert.Equal(t, 1, e.GetReadyHandlers().Len())
	assert.NotNil(t, e.GetConn())
}

func TestEnity_AddCache(t *testing.T) {
	ctx := context.Background()

	e, err := contactsredis.NewEnity(ctx, "cache", &contactsredis.Config{GlobalCacheKeyPrefix: "app"})
	require.NoError(t, err)

	c, err := e.AddCache(ctx, &rediscache.Config{})
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, 2, e.GetMetrics().Len())

	_, err = e.AddCache(ctx, &rediscache.Config{KeyPrefix: "contacts"})
	assert.ErrorIs(t, err, base.ErrConflictName)

	_, err = e.NewMutex()
	assert.NoError(t, err)
}
