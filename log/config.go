package log

import "github.com/rs/zerolog"

type Config struct {
	// HumanFriendly enable writes log in human-friendly format to Out
	HumanFriendly bool `envconfig:"optional"`
	// NoColoredOutput forces logger to output things without
	// shell colorcodes.
	NoColoredOutput bool `envconfig:"optional"`
	// Show trace information (file name, line number, function name)?
	WithTrace bool `envconfig:"optional"`
	// Level is a logger's loglevel. Possible values: "DEBUG",
	// "INFO", "WARN", "ERROR", "FATAL", "TRACE". Case-insensitive value.
	Level string `envconfig:"optional"`
}

func DefaultConfig() *Config {
	return &Config{
		NoColoredOutput: true,
		Level:           zerolog.InfoLevel.String(),
	}
}

// SetDefault fills empty fields with default values.
// Returns a copy of config.
func (c *Config) SetDefault() *Config {
	cfgCopy := *c

	if cfgCopy.Level == "" {
		cfgCopy.Level = zerolog.InfoLevel.String()
	}

	return &cfgCopy
}
