package base

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
)

type MetricsStorage struct {
	metrics *MapMetricsOptions
}

func NewMetricsStorage() *MetricsStorage {
	return &MetricsStorage{
		metrics: NewMapMetricsOptions(),
	}
}

func (s *MetricsStorage) GetMetrics() *MapMetricsOptions {
	return s.metrics
}

// PrometheusMiddleware refreshes gauges before handler serves a scrape.
func (s *MetricsStorage) PrometheusMiddleware(ctx context.Context, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.metrics.Update(r.Context()); err != nil {
			zerolog.Ctx(ctx).Err(err).Msg("handle metric")
		}
		handler.ServeHTTP(w, r)
	})
}
