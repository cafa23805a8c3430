// Package metrics exposes Prometheus collectors for the API and the costing service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"furnicost/internal/domain/costing"
)

const namespace = "furnicost"

// Metrics holds the collectors registered on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	calculations *prometheus.CounterVec
	calcDuration *prometheus.HistogramVec
	incomplete   *prometheus.CounterVec
	skippedJobs  prometheus.Counter
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	importedRows *prometheus.CounterVec
}

// New creates the collectors. Go runtime and process collectors are included.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "costing",
			Name:      "calculations_total",
			Help:      "Product cost calculations by source.",
		}, []string{"source"}),
		calcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "costing",
			Name:      "calculation_duration_seconds",
			Help:      "Engine time per calculation.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"source"}),
		incomplete: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "costing",
			Name:      "incomplete_results_total",
			Help:      "Calculations whose result carries the error flag.",
		}, []string{"source"}),
		skippedJobs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "costing",
			Name:      "skipped_paint_jobs_total",
			Help:      "Paint jobs dropped because their recipe was not found.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		importedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "rows_total",
			Help:      "Spreadsheet rows processed by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.calculations,
		m.calcDuration,
		m.incomplete,
		m.skippedJobs,
		m.httpRequests,
		m.httpDuration,
		m.importedRows,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveCalculation records one engine run.
func (m *Metrics) ObserveCalculation(source string, r costing.Result, elapsed time.Duration) {
	m.calculations.WithLabelValues(source).Inc()
	m.calcDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	if r.HasErrors {
		m.incomplete.WithLabelValues(source).Inc()
	}
	if n := len(r.SkippedPaintJobs); n > 0 {
		m.skippedJobs.Add(float64(n))
	}
}

// ObserveHTTP records one HTTP request. route is the matched pattern, not the raw path.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveImport records import row outcomes (created, updated, failed).
func (m *Metrics) ObserveImport(outcome string, n int) {
	if n > 0 {
		m.importedRows.WithLabelValues(outcome).Add(float64(n))
	}
}

// PoolStatsFunc reports connection pool usage.
type PoolStatsFunc func() (total, acquired, idle int32)

// RegisterPool exports pool gauges read on every scrape.
func (m *Metrics) RegisterPool(stats PoolStatsFunc) {
	gauge := func(name, help string, pick func(total, acquired, idle int32) int32) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db_pool",
			Name:      name,
			Help:      help,
		}, func() float64 {
			return float64(pick(stats()))
		})
	}

	m.registry.MustRegister(
		gauge("total_conns", "Open connections.", func(t, _, _ int32) int32 { return t }),
		gauge("acquired_conns", "Connections in use.", func(_, a, _ int32) int32 { return a }),
		gauge("idle_conns", "Idle connections.", func(_, _, i int32) int32 { return i }),
	)
}
