package log

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// LevelCounterHook increments metric for every message written with level.
type LevelCounterHook struct {
	level  zerolog.Level
	metric prometheus.Counter
}

func NewLevelCounterHook(level zerolog.Level, metric prometheus.Counter) *LevelCounterHook {
	return &LevelCounterHook{level: level, metric: metric}
}

func (h *LevelCounterHook) Run(e *zerolog.Event, level zerolog.Level, message string) {
	if level != h.level {
		return
	}

	h.metric.Inc()
}
