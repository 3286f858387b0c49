package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/soldatov-s/go-contacts/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	testCases := []struct {
		testName  string
		level     string
		expectErr bool
	}{
		{testName: "debug", level: "DeBuG"},
		{testName: "info", level: "iNFo"},
		{testName: "warn", level: "WarN"},
		{testName: "error", level: "eRRoR"},
		{testName: "trace", level: "TraCe"},
		{testName: "empty level falls back to info", level: ""},
		{testName: "invalid level", level: "BaD", expectErr: true},
	}

	for _, tt := range testCases {
		tt := tt
		t.Run(tt.testName, func(t *testing.T) {
			cfg := log.DefaultConfig()
			cfg.Level = tt.level
			logger, err := log.NewLogger(context.Background(), cfg)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger.Zerolog())
		})
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := log.NewLogger(context.Background(), &log.Config{Level: "debug"}, log.WithOutput(&buf))
	require.NoError(t, err)

	logger.Zerolog().Info().Msg("hello")

	entry := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "github.com/soldatov-s/go-contacts/log_test", entry["package"])
}

func TestLoggerMetrics(t *testing.T) {
	logger, err := log.NewLogger(context.Background(), log.DefaultConfig(), log.WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)

	assert.Equal(t, 2, logger.GetMetrics().Len())
}
