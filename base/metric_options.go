package base

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/soldatov-s/go-contacts/x/stringsx"
)

type MetricGateway interface {
	prometheus.Collector
}

type MetricFunc func(ctx context.Context, metric MetricGateway) error

// MetricOptions descrbes struct with options for metrics
type MetricOptions struct {
	// Metric name
	Name string
	// Metric is a metric
	Metric MetricGateway
	// Func is called before every scrape, may be nil for metrics updated
	// in place (counters, histograms)
	Func MetricFunc
}

func NewMetricOptions(name string, metric MetricGateway, f MetricFunc) *MetricOptions {
	return &MetricOptions{
		Name:   name,
		Metric: metric,
		Func:   f,
	}
}

type GaugeFunc func(ctx context.Context) (float64, error)

func NewGauge(fullName, postfix, help string, f GaugeFunc) *MetricOptions {
	name := fullName + preparePostfix(postfix)
	gauge := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: name,
			Help: stringsx.JoinStrings(" ", fullName, help),
		})

	metricFunc := func(ctx context.Context, m MetricGateway) error {
		g, ok := m.(prometheus.Gauge)
		if !ok {
			return ErrFailedTypecastMetric
		}
		v, err := f(ctx)
		if err != nil {
			return errors.Wrap(err, "metric handler")
		}
		g.Set(v)

		return nil
	}
	return NewMetricOptions(name, gauge, metricFunc)
}

func NewIncCounter(fullName, postfix, help string) *MetricOptions {
	name := fullName + preparePostfix(postfix)
	counter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: name,
			Help: stringsx.JoinStrings(" ", fullName, help),
		})

	return NewMetricOptions(name, counter, nil)
}

func NewHistogramVec(fullName, postfix, help string, args []string) *MetricOptions {
	name := fullName + preparePostfix(postfix)
	histogram := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: name,
			Help: help,
		},
		args,
	)

	return NewMetricOptions(name, histogram, nil)
}

func NewCounterVec(fullName, postfix, help string, args []string) *MetricOptions {
	name := fullName + preparePostfix(postfix)
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		args,
	)

	return NewMetricOptions(name, counter, nil)
}

func preparePostfix(postfix string) string {
	return "_" + strings.ReplaceAll(postfix, " ", "_")
}

type MapMetricsOptions struct {
	mu      sync.Mutex
	options map[string]*MetricOptions
}

func NewMapMetricsOptions() *MapMetricsOptions {
	return &MapMetricsOptions{
		options: make(map[string]*MetricOptions),
	}
}

func (mmo *MapMetricsOptions) Append(src *MapMetricsOptions) error {
	src.mu.Lock()
	defer src.mu.Unlock()
	mmo.mu.Lock()
	defer mmo.mu.Unlock()

	for k, m := range src.options {
		if _, ok := mmo.options[k]; ok {
			return errors.Wrapf(ErrConflictName, "name: %s", k)
		}

		mmo.options[k] = m
	}

	return nil
}

func (mmo *MapMetricsOptions) Add(options *MetricOptions) error {
	mmo.mu.Lock()
	defer mmo.mu.Unlock()

	if options == nil {
		return ErrOptionsIsNil
	}

	if options.Name == "" {
		return ErrEmptyMetricName
	}

	if _, ok := mmo.options[options.Name]; ok {
		return errors.Wrapf(ErrConflictName, "name: %s", options.Name)
	}

	mmo.options[options.Name] = options

	return nil
}

func (mmo *MapMetricsOptions) AddGauge(fullName, postfix, help string, f GaugeFunc) (prometheus.Gauge, error) {
	metricOpts := NewGauge(fullName, postfix, help, f)
	if err := mmo.Add(metricOpts); err != nil {
		return nil, errors.Wrap(err, "add to metrics map")
	}

	gauge, ok := metricOpts.Metric.(prometheus.Gauge)
	if !ok {
		return nil, ErrFailedTypecastMetric
	}

	return gauge, nil
}

func (mmo *MapMetricsOptions) AddHistogramVec(fullName, postfix, help string, args []string) (*prometheus.HistogramVec, error) {
	metricOpts := NewHistogramVec(fullName, postfix, help, args)
	if err := mmo.Add(metricOpts); err != nil {
		return nil, errors.Wrap(err, "add to metrics map")
	}

	histogram, ok := metricOpts.Metric.(*prometheus.HistogramVec)
	if !ok {
		return nil, ErrFailedTypecastMetric
	}

	return histogram, nil
}

func (mmo *MapMetricsOptions) AddCounterVec(fullName, postfix, help string, args []string) (*prometheus.CounterVec, error) {
	metricOpts := NewCounterVec(fullName, postfix, help, args)
	if err := mmo.Add(metricOpts); err != nil {
		return nil, errors.Wrap(err, "add to metrics map")
	}

	counter, ok := metricOpts.Metric.(*prometheus.CounterVec)
	if !ok {
		return nil, ErrFailedTypecastMetric
	}

	return counter, nil
}

func (mmo *MapMetricsOptions) AddIncCounter(fullName, postfix, help string) (prometheus.Counter, error) {
	metricOpts := NewIncCounter(fullName, postfix, help)
	if err := mmo.Add(metricOpts); err != nil {
		return nil, errors.Wrap(err, "add to metrics map")
	}

	counter, ok := metricOpts.Metric.(prometheus.Counter)
	if !ok {
		return nil, ErrFailedTypecastMetric
	}

	return counter, nil
}

// Registrate registers every collected metric in passed register.
func (mmo *MapMetricsOptions) Registrate(register prometheus.Registerer) error {
	mmo.mu.Lock()
	defer mmo.mu.Unlock()

	for _, v := range mmo.options {
		if v.Metric == nil {
			return ErrInvalidCollector
		}
		if err := register.Register(v.Metric); err != nil {
			return errors.Wrapf(err, "registrate metric %q", v.Name)
		}
	}

	return nil
}

// Update calls update functions of gauges.
func (mmo *MapMetricsOptions) Update(ctx context.Context) error {
	mmo.mu.Lock()
	defer mmo.mu.Unlock()

	for _, v := range mmo.options {
		if v.Func == nil {
			continue
		}
		if err := v.Func(ctx, v.Metric); err != nil {
			return errors.Wrapf(err, "update metric %q", v.Name)
		}
	}

	return nil
}

func (mmo *MapMetricsOptions) Len() int {
	mmo.mu.Lock()
	defer mmo.mu.Unlock()
	return len(mmo.options)
}
