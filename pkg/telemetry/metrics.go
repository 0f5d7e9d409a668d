// Package telemetry provides Prometheus metrics and OpenTelemetry tracing for
// bento engines.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/bento/pkg/sizecache"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "bento").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: exponential from 50µs.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "bento",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors of an engine. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration prometheus.Histogram
	opsTotal       *prometheus.CounterVec
	batchesTotal   *prometheus.CounterVec
	coalesced      prometheus.Counter
	cacheLookups   *prometheus.CounterVec
	rows           prometheus.Gauge
	sections       prometheus.Gauge
}

// NewMetrics creates and registers the collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of render requests by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Time spent diffing and patching one box",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		opsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "edit_ops_total",
			Help:        "Total number of edit operations applied",
			ConstLabels: config.ConstLabels,
		}, []string{"level", "kind"}),

		batchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "batches_total",
			Help:        "Total number of atomic surface batches",
			ConstLabels: config.ConstLabels,
		}, []string{"level"}),

		coalesced: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "coalesced_renders_total",
			Help:        "Total number of render requests superseded before being applied",
			ConstLabels: config.ConstLabels,
		}),

		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "size_cache_lookups_total",
			Help:        "Total number of size cache lookups by measure and result",
			ConstLabels: config.ConstLabels,
		}, []string{"measure", "result"}),

		rows: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rows",
			Help:        "Number of rows in the current box",
			ConstLabels: config.ConstLabels,
		}),

		sections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "sections",
			Help:        "Number of sections in the current box",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// RecordRender records a finished render.
func (m *Metrics) RecordRender(duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.rendersTotal.WithLabelValues(status).Inc()
	m.renderDuration.Observe(duration.Seconds())
}

// RecordOps adds n operations of kind at level.
func (m *Metrics) RecordOps(level, kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.opsTotal.WithLabelValues(level, kind).Add(float64(n))
}

// RecordBatches adds n committed batches at level.
func (m *Metrics) RecordBatches(level string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.batchesTotal.WithLabelValues(level).Add(float64(n))
}

// RecordCoalesced counts a superseded render request.
func (m *Metrics) RecordCoalesced() {
	if m == nil {
		return
	}
	m.coalesced.Inc()
}

// SetShape records the size of the current box.
func (m *Metrics) SetShape(sections, rows int) {
	if m == nil {
		return
	}
	m.sections.Set(float64(sections))
	m.rows.Set(float64(rows))
}

// CacheHit implements sizecache.Observer.
func (m *Metrics) CacheHit(measure sizecache.Measure) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(measure.String(), "hit").Inc()
}

// CacheMiss implements sizecache.Observer.
func (m *Metrics) CacheMiss(measure sizecache.Measure) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(measure.String(), "miss").Inc()
}

var _ sizecache.Observer = (*Metrics)(nil)
