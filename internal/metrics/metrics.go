// Package metrics provides the Prometheus metrics of the SWIFT code service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "swift_codes"

// Outcome labels
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Metrics holds all Prometheus metrics. A nil *Metrics records nothing.
type Metrics struct {
	importRuns      *prometheus.CounterVec
	importRows      *prometheus.CounterVec
	importInserted  *prometheus.CounterVec
	importDuration  prometheus.Histogram
	operations      *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		importRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "import_runs_total",
				Help:      "Total number of import runs by outcome",
			},
			[]string{"outcome"},
		),
		importRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "import_rows_total",
				Help:      "Total number of spreadsheet rows seen by the importer",
			},
			[]string{"status"},
		),
		importInserted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "import_inserted_records_total",
				Help:      "Total number of records inserted by the importer",
			},
			[]string{"table"},
		),
		importDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "import_duration_seconds",
				Help:      "Import run duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "directory_operations_total",
				Help:      "Total number of directory operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
	}
}

// RecordImport records a finished import run.
func (m *Metrics) RecordImport(outcome string, rowsRead, rowsSkipped int, countriesInserted, banksInserted int64, duration time.Duration) {
	if m == nil {
		return
	}
	m.importRuns.WithLabelValues(outcome).Inc()
	m.importRows.WithLabelValues("read").Add(float64(rowsRead))
	m.importRows.WithLabelValues("skipped").Add(float64(rowsSkipped))
	m.importInserted.WithLabelValues("countries").Add(float64(countriesInserted))
	m.importInserted.WithLabelValues("swift_banks").Add(float64(banksInserted))
	m.importDuration.Observe(duration.Seconds())
}

// RecordOperation counts one directory operation.
func (m *Metrics) RecordOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// RecordRequest records one served HTTP request.
func (m *Metrics) RecordRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
