package rediscache

import (
	"time"
)

const (
	defaulKeyPrefix  = "contacts"
	defaultScanSize  = 10
	defaultClearTime = 5 * time.Minute
)

type Config struct {
	// KeyPrefix is a prefix for eache key in redis
	KeyPrefix string `envconfig:"optional"`
	// ClearTime is a time of live item
	ClearTime time.Duration `envconfig:"optional"`
	// ScanSize is a count of keys requested by one SCAN call
	ScanSize int64 `envconfig:"optional"`
	// GlobalKeyPrefix is set by redis enity
	GlobalKeyPrefix string `envconfig:"optional"`
}

// SetDefault checks cache options. If required field is empty - it will
// be filled with some default value.
// Returns a copy of config.
func (c *Config) SetDefault() *Config {
	cfgCopy := *c

	if cfgCopy.KeyPrefix == "" {
		cfgCopy.KeyPrefix = defaulKeyPrefix
	}

	if cfgCopy.ScanSize == 0 {
		cfgCopy.ScanSize = defaultScanSize
	}

	if cfgCopy.ClearTime == 0 {
		cfgCopy.ClearTime = defaultClearTime
	}

	return &cfgCopy
}
