package sqlx

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/base"
)

type EnityGateway interface {
	GetFullName() string
	GetConn() *sqlx.DB
}

type statFunc func(s *sql.DBStats) float64

type stat struct {
	postfix string
	help    string
	f       statFunc
}

var stats = []stat{
	{"open connection", "open connection right now", func(s *sql.DBStats) float64 { return float64(s.OpenConnections) }},
	{"max open connection", "max open connection", func(s *sql.DBStats) float64 { return float64(s.MaxOpenConnections) }},
	{"in use", "connection in use right now", func(s *sql.DBStats) float64 { return float64(s.InUse) }},
	{"idle", "idle connections", func(s *sql.DBStats) float64 { return float64(s.Idle) }},
	{"wait duration", "total time blocked waiting for a new connection", func(s *sql.DBStats) float64 { return s.WaitDuration.Seconds() }},
	{"max idle closed", "connections closed due to max idle", func(s *sql.DBStats) float64 { return float64(s.MaxIdleClosed) }},
	{"max life time closed", "connections closed due to max lifetime", func(s *sql.DBStats) float64 { return float64(s.MaxLifetimeClosed) }},
}

// StatsAsMetrics builds gauges for connection pool statistics. Stats are
// read on every update, gauges are zero while enity has no connection.
func StatsAsMetrics(e EnityGateway) (*base.MapMetricsOptions, error) {
	metrics := base.NewMapMetricsOptions()
	fullName := e.GetFullName()

	for _, s := range stats {
		f := s.f
		if _, err := metrics.AddGauge(fullName, s.postfix, s.help,
			func(ctx context.Context) (float64, error) {
				conn := e.GetConn()
				if conn == nil {
					return 0, nil
				}
				dbStats := conn.Stats()
				return f(&dbStats), nil
			},
		); err != nil {
			return nil, errors.Wrap(err, "add gauge metric")
		}
	}

	return metrics, nil
}
