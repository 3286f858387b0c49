package mongo_test

import (
	"context"
	"testing"

	"github.com/soldatov-s/go-contacts/base"
	"github.com/soldatov-s/go-contacts/providers/mongo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_SetDefault(t *testing.T) {
	cfg := &mongo.Config{}
	got := cfg.SetDefault()

	assert.Empty(t, cfg.DSN, "original config must not be changed")
	assert.Equal(t, "mongodb://localhost:27017/contacts", got.DSN)
	assert.Equal(t, "mongodb://localhost:27017/contacts?maxPoolSize=30&minPoolSize=10&maxIdleTimeMS=5000&ssl=false", got.ComposeDSN())
}

func TestNewEnity(t *testing.T) {
	ctx := context.Background()

	_, err := mongo.NewEnity(ctx, "contacts", nil)
	assert.ErrorIs(t, err, base.ErrInvalidEnityOptions)

	enity, err := mongo.NewEnity(ctx, "contacts", &mongo.Config{DSN: "mongodb://user:secret@db:27017/phonebook"})
	require.NoError(t, err)
	assert.Equal(t, "mongo_contacts", enity.GetFullName())
	assert.Equal(t, 1, enity.GetMetrics().Len())
	assert.Equal(t, 1, enity.GetReadyHandlers().Len())

	// not started yet
	assert.ErrorIs(t, enity.Ping(ctx), base.ErrNotConnected)
	_, err = enity.GetReadyHandlers().Check(ctx)
	assert.ErrorIs(t, err, base.ErrNotConnected)
	require.NoError(t, enity.Shutdown(ctx))
}
