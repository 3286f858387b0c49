package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"github.com/soldatov-s/go-contacts/base"
)

type Logger struct {
	zerolog zerolog.Logger
	*base.MetricsStorage
}

type Option func(*options)

type options struct {
	out io.Writer
}

// WithOutput redirects log output, stdout is used by default.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

func NewLogger(ctx context.Context, config *Config, opts ...Option) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}
	config = config.SetDefault()

	o := &options{out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		return nil, errors.Wrap(err, "parse level")
	}

	zerolog.SetGlobalLevel(level)
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	logger := &Logger{
		MetricsStorage: base.NewMetricsStorage(),
	}

	output := buildLoggerOutput(o.out, config.HumanFriendly, config.NoColoredOutput)
	logger.zerolog = zerolog.New(output).With().Timestamp().Logger().
		Hook(NewTracingHook(config.WithTrace))

	if err := logger.buildMetrics(ctx); err != nil {
		return nil, errors.Wrap(err, "build metrics")
	}

	return logger, nil
}

func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zerolog
}

func buildLoggerOutput(out io.Writer, isHumanFriendly, isNoColoredOutput bool) io.Writer {
	if !isHumanFriendly {
		return out
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    isNoColoredOutput,
		TimeFormat: time.RFC3339,
	}

	output.FormatLevel = func(i interface{}) string {
		v, _ := i.(string)
		return fmt.Sprintf("| %-5s |", strings.ToUpper(v))
	}

	return output
}

func (l *Logger) buildMetrics(_ context.Context) error {
	fullName := "logger"

	warnsMetric, err := l.GetMetrics().AddIncCounter(fullName, "warns total", "How many warnings occurred.")
	if err != nil {
		return errors.Wrap(err, "add counter metric")
	}

	errorsMetric, err := l.GetMetrics().AddIncCounter(fullName, "errors total", "How many errors occurred.")
	if err != nil {
		return errors.Wrap(err, "add counter metric")
	}

	l.zerolog = l.zerolog.
		Hook(NewLevelCounterHook(zerolog.WarnLevel, warnsMetric)).
		Hook(NewLevelCounterHook(zerolog.ErrorLevel, errorsMetric))

	return nil
}
