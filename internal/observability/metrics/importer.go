// Package metrics provides submission importer metrics for observability
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ImporterMetrics contains Prometheus metrics for submission imports
type ImporterMetrics struct {
	registry *prometheus.Registry

	runsTotal        *prometheus.CounterVec
	runDuration      *prometheus.HistogramVec
	rowsTotal        *prometheus.CounterVec
	entitiesTotal    *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	lastRunTimestamp prometheus.Gauge

	collectors []prometheus.Collector
}

// NewImporterMetrics creates and registers importer metrics
func NewImporterMetrics(registry *prometheus.Registry) (*ImporterMetrics, error) {
	m := &ImporterMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ImporterMetrics) initMetrics() {
	m.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reefkb_import_runs_total",
			Help: "Total number of submission imports by outcome",
		},
		[]string{"outcome"},
	)

	m.runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reefkb_import_run_duration_seconds",
			Help:    "Wall time of submission imports",
			Buckets: durationBuckets,
		},
		[]string{"outcome"},
	)

	m.rowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reefkb_import_rows_total",
			Help: "Total number of sheet rows processed",
		},
		[]string{"sheet"},
	)

	m.entitiesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reefkb_import_entities_total",
			Help: "Total number of entities created by committed imports",
		},
		[]string{"kind"},
	)

	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reefkb_import_errors_total",
			Help: "Total number of failed imports by error class",
		},
		[]string{"error_type"},
	)

	m.cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reefkb_sheet_cache_lookups_total",
			Help: "Parsed sheet cache lookups by result",
		},
		[]string{"sheet", "result"},
	)

	m.lastRunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reefkb_import_last_run_timestamp_seconds",
			Help: "Unix time the last import finished",
		},
	)

	m.collectors = []prometheus.Collector{
		m.runsTotal,
		m.runDuration,
		m.rowsTotal,
		m.entitiesTotal,
		m.errorsTotal,
		m.cacheLookups,
		m.lastRunTimestamp,
	}
}

// Describe implements the Collector interface
func (m *ImporterMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *ImporterMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// RecordRun records the outcome and duration of one import
func (m *ImporterMetrics) RecordRun(outcome string, duration time.Duration) {
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.runDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	m.lastRunTimestamp.SetToCurrentTime()
}

// RecordRows adds processed rows of one sheet
func (m *ImporterMetrics) RecordRows(sheet string, rows int) {
	m.rowsTotal.WithLabelValues(sheet).Add(float64(rows))
}

// RecordEntities adds created entities of one kind
func (m *ImporterMetrics) RecordEntities(kind string, count int) {
	if count <= 0 {
		return
	}
	m.entitiesTotal.WithLabelValues(kind).Add(float64(count))
}

// RecordError counts a failed import by error class
func (m *ImporterMetrics) RecordError(errorType string) {
	m.errorsTotal.WithLabelValues(errorType).Inc()
}

// CacheLookup records a parsed sheet cache hit or miss.
func (m *ImporterMetrics) CacheLookup(sheet string, hit bool) {
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	m.cacheLookups.WithLabelValues(sheet, result).Inc()
}
