package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Reconciler metrics
	LoadsTotal          *prometheus.CounterVec
	LoadDuration        *prometheus.HistogramVec
	LoadsInProgress     prometheus.Gauge
	RecordsLoaded       *prometheus.CounterVec
	RecordsRejected     *prometheus.CounterVec
	StaleLoadsDiscarded prometheus.Counter

	// External API metrics
	ExternalAPICalls    *prometheus.CounterVec
	ExternalAPIDuration *prometheus.HistogramVec
	ExternalAPIFailures *prometheus.CounterVec

	// Dashboard operations
	DashboardOperations *prometheus.CounterVec
	ExportedRows        prometheus.Counter
}

// New registers the collectors on the default registry
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer lets tests use a private registry so collectors don't clash
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		LoadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dataset_loads_total",
				Help: "Total number of product selections by outcome",
			},
			[]string{"product", "state", "source"},
		),

		LoadDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dataset_load_duration_seconds",
				Help:    "Product selection duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"product"},
		),

		LoadsInProgress: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "dataset_loads_in_progress",
				Help: "Number of product selections currently resolving",
			},
		),

		RecordsLoaded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dataset_records_loaded_total",
				Help: "Total number of records made active",
			},
			[]string{"product", "source"},
		),

		RecordsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dataset_records_rejected_total",
				Help: "Total number of remote rows dropped during normalization",
			},
			[]string{"product", "reason"},
		),

		StaleLoadsDiscarded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dataset_stale_loads_discarded_total",
				Help: "Selections whose result arrived after a newer selection",
			},
		),

		ExternalAPICalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "external_api_calls_total",
				Help: "Total number of external API calls",
			},
			[]string{"api", "status"},
		),

		ExternalAPIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "external_api_duration_seconds",
				Help:    "External API call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"api"},
		),

		ExternalAPIFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "external_api_failures_total",
				Help: "Total number of external API failures",
			},
			[]string{"api", "error_type"},
		),

		DashboardOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_operations_total",
				Help: "Total number of dashboard operations",
			},
			[]string{"operation"},
		),

		ExportedRows: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dashboard_exported_rows_total",
				Help: "Total number of rows written to spreadsheets",
			},
		),
	}
}

// HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// Selection outcome metrics
func (m *Metrics) RecordLoad(product, state, source string, duration time.Duration) {
	m.LoadsTotal.WithLabelValues(product, state, source).Inc()
	m.LoadDuration.WithLabelValues(product).Observe(duration.Seconds())
}

func (m *Metrics) RecordRecordsLoaded(product, source string, count int) {
	m.RecordsLoaded.WithLabelValues(product, source).Add(float64(count))
}

func (m *Metrics) RecordRecordsRejected(product, reason string, count int) {
	m.RecordsRejected.WithLabelValues(product, reason).Add(float64(count))
}

func (m *Metrics) RecordStaleLoad() {
	m.StaleLoadsDiscarded.Inc()
}

// External API call metrics
func (m *Metrics) RecordExternalAPICall(api, status string, duration time.Duration) {
	m.ExternalAPICalls.WithLabelValues(api, status).Inc()
	m.ExternalAPIDuration.WithLabelValues(api).Observe(duration.Seconds())
}

// External API failure metrics
func (m *Metrics) RecordExternalAPIFailure(api, errorType string) {
	m.ExternalAPIFailures.WithLabelValues(api, errorType).Inc()
}

func (m *Metrics) RecordOperation(operation string) {
	m.DashboardOperations.WithLabelValues(operation).Inc()
}

func (m *Metrics) RecordExport(rows int) {
	m.DashboardOperations.WithLabelValues("export").Inc()
	m.ExportedRows.Add(float64(rows))
}

func (m *Metrics) IncLoadsInProgress() {
	m.LoadsInProgress.Inc()
}

func (m *Metrics) DecLoadsInProgress() {
	m.LoadsInProgress.Dec()
}

// HTTP requests in flight counter
func (m *Metrics) IncHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// HTTP requests in flight counter
func (m *Metrics) DecHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
