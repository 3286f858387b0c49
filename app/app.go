package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/soldatov-s/go-contacts/base"
	"github.com/soldatov-s/go-contacts/log"
	"github.com/soldatov-s/go-contacts/x/httpx"
	"golang.org/x/sync/errgroup"
)

const (
	ReadyEndpoint   = "/health/ready"
	AliveEndpoint   = "/health/alive"
	MetricsEndpoint = "/metrics"
)

var (
	ErrAppendMetrics            = errors.New("failed to append metrics")
	ErrAliveHandlers            = errors.New("failed to append alive handlers")
	ErrReadyHandlers            = errors.New("failed to append ready handlers")
	ErrNotFindStatsHTTP         = errors.New("not find http server for stats")
	ErrFailedTypeCastHTTPServer = errors.New("failed typecast to http server")
)

//go:generate mockgen -destination=mock_enity_gateway_test.go -package=app_test . EnityGateway

type HTTPServer interface {
	RegisterEndpoint(method, endpoint string, handler http.Handler, m ...httpx.MiddleWareFunc) error
}

type EnityMetricsGateway interface {
	GetMetrics() *base.MapMetricsOptions
}

type EnityAliveGateway interface {
	GetAliveHandlers() *base.MapCheckOptions
}

type EnityReadyGateway interface {
	GetReadyHandlers() *base.MapCheckOptions
}

// EnityGateway is a provider managed by Manager: database connections,
// brokers and HTTP servers.
type EnityGateway interface {
	Shutdown(ctx context.Context) error
	Start(ctx context.Context, errorGroup *errgroup.Group) error
	GetFullName() string
}

type ManagerDeps struct {
	Meta               *MetaDeps
	StatsHTTPEnityName string
	Logger             *log.Logger
	ErrorGroup         *errgroup.Group
}

type MetaDeps struct {
	Name        string
	Builded     string
	Hash        string
	Version     string
	Description string
}

type Meta struct {
	Name        string
	Builded     string
	Hash        string
	Version     string
	Description string
}

func NewMeta(deps *MetaDeps) *Meta {
	meta := &Meta{}
	if deps != nil {
		meta = &Meta{
			Name:        deps.Name,
			Builded:     deps.Builded,
			Hash:        deps.Hash,
			Version:     deps.Version,
			Description: deps.Description,
		}
	}

	if meta.Description == "" {
		meta.Description = "no description"
	}

	if meta.Name == "" {
		meta.Name = "unknown"
	}

	if meta.Version == "" {
		meta.Version = "0.0.0"
	}

	return meta
}

func (m *Meta) BuildInfo() string {
	return m.Version + ", builded: " + m.Builded + ", hash: " + m.Hash
}

// Manager starts providers in the order they were added and stops them
// in reverse order.
type Manager struct {
	*base.MetricsStorage
	*base.ReadyCheckStorage
	*base.AliveCheckStorage
	meta               *Meta
	mu                 sync.Mutex
	enities            map[string]EnityGateway
	enitiesOrder       []string
	statsHTTPEnityName string
	register           prometheus.Registerer
	logger             *log.Logger
	signals            []os.Signal
	errorGroup         *errgroup.Group
}

type ManagerOption func(*Manager)

func WithCustomRegister(register prometheus.Registerer) ManagerOption {
	return func(c *Manager) {
		c.register = register
	}
}

func WithCustomSignals(signals []os.Signal) ManagerOption {
	return func(c *Manager) {
		c.signals = signals
	}
}

func NewManager(deps *ManagerDeps, opts ...ManagerOption) *Manager {
	app := &Manager{
		MetricsStorage:     base.NewMetricsStorage(),
		AliveCheckStorage:  base.NewAliveCheckStorage(),
		ReadyCheckStorage:  base.NewReadyCheckStorage(),
		meta:               NewMeta(deps.Meta),
		enities:            make(map[string]EnityGateway),
		enitiesOrder:       make([]string, 0, 8),
		statsHTTPEnityName: deps.StatsHTTPEnityName,
		register:           prometheus.DefaultRegisterer,
		logger:             deps.Logger,
		signals:            defaultOSSignals(),
		errorGroup:         deps.ErrorGroup,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func defaultOSSignals() []os.Signal {
	return []os.Signal{syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT}
}

func (a *Manager) Meta() *Meta {
	return a.meta
}

// ErrorGroup returns group running long-lived goroutines of providers.
func (a *Manager) ErrorGroup() *errgroup.Group {
	return a.errorGroup
}

type ErrSignal struct {
	Signal os.Signal
}

func (e ErrSignal) Error() string {
	return fmt.Sprintf("got error signal %s", e.Signal.String())
}

// OSSignalWaiter shuts the manager down on the first configured signal.
func (a *Manager) OSSignalWaiter(ctx context.Context) error {
	logger := a.logger.Zerolog()
	closeSignal := make(chan os.Signal, 1)
	signal.Notify(closeSignal, a.signals...)

	a.errorGroup.Go(func() error {
		defer signal.Stop(closeSignal)

		select {
		case s := <-closeSignal:
			logger.Info().Msgf("got os signal: %s", s.String())
			if err := a.Shutdown(ctx); err != nil {
				return errors.Wrap(err, "shutdown app")
			}
			return ErrSignal{Signal: s}
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	return nil
}

// Loop blocks until every started goroutine returns.
func (a *Manager) Loop(ctx context.Context) error {
	logger := a.logger.Zerolog()
	if err := a.errorGroup.Wait(); err != nil {
		switch {
		case isExitSignal(err):
			logger.Info().Msg("exited by exit signal")
		default:
			return errors.Wrap(err, "exited with error")
		}
	}
	return nil
}

func isExitSignal(err error) bool {
	errSig := ErrSignal{}
	return errors.As(err, &errSig)
}

func (a *Manager) Start(ctx context.Context) error {
	for _, k := range a.enitiesOrder {
		if err := a.enities[k].Start(ctx, a.errorGroup); err != nil {
			return errors.Wrapf(err, "start enity %q", k)
		}
	}

	if a.statsHTTPEnityName == "" {
		return nil
	}

	if err := a.startStatistic(ctx); err != nil {
		return errors.Wrap(err, "start statistics")
	}

	return nil
}

func (a *Manager) Shutdown(ctx context.Context) error {
	for i := len(a.enitiesOrder) - 1; i >= 0; i-- {
		k := a.enitiesOrder[i]
		if err := a.enities[k].Shutdown(ctx); err != nil {
			return errors.Wrapf(err, "shutdown enity %q", k)
		}
	}
	return nil
}

func (a *Manager) Add(ctx context.Context, e EnityGateway) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.enities[e.GetFullName()]; ok {
		return base.ErrConflictName
	}

	a.enities[e.GetFullName()] = e
	a.enitiesOrder = append(a.enitiesOrder, e.GetFullName())

	if v, ok := e.(EnityMetricsGateway); ok {
		if err := a.MetricsStorage.GetMetrics().Append(v.GetMetrics()); err != nil {
			return ErrAppendMetrics
		}
	}

	if v, ok := e.(EnityAliveGateway); ok {
		if err := a.AliveCheckStorage.GetAliveHandlers().Append(v.GetAliveHandlers()); err != nil {
			return ErrAliveHandlers
		}
	}

	if v, ok := e.(EnityReadyGateway); ok {
		if err := a.ReadyCheckStorage.GetReadyHandlers().Append(v.GetReadyHandlers()); err != nil {
			return ErrReadyHandlers
		}
	}

	return nil
}

func (a *Manager) startStatistic(ctx context.Context) error {
	enity, ok := a.enities[a.statsHTTPEnityName]
	if !ok {
		return ErrNotFindStatsHTTP
	}

	httpSrv, ok := enity.(HTTPServer)
	if !ok {
		return ErrFailedTypeCastHTTPServer
	}

	if err := a.MetricsStorage.GetMetrics().Registrate(a.register); err != nil {
		return errors.Wrap(err, "registrate metrics")
	}

	if a.logger != nil {
		if err := a.logger.GetMetrics().Registrate(a.register); err != nil {
			return errors.Wrap(err, "registrate logger metrics")
		}
	}

	if err := httpSrv.RegisterEndpoint(
		http.MethodGet,
		MetricsEndpoint,
		promhttp.Handler(),
		func(h http.Handler) http.Handler {
			return a.PrometheusMiddleware(ctx, h)
		}); err != nil {
		return errors.Wrap(err, "registrate prometheus endpoint")
	}

	if err := httpSrv.RegisterEndpoint(
		http.MethodGet,
		AliveEndpoint,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.AliveCheckHandler(ctx, w)
		}),
	); err != nil {
		return errors.Wrap(err, "registrate alive endpoint")
	}

	if err := httpSrv.RegisterEndpoint(
		http.MethodGet,
		ReadyEndpoint,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.ReadyCheckHandler(ctx, w)
		}),
	); err != nil {
		return errors.Wrap(err, "registrate ready endpoint")
	}

	return nil
}
