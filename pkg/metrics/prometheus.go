// Package metrics provides Prometheus metrics for the fitscore service.
package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the fitscore service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Diagnosis pipeline
	diagnosesTotal   prometheus.Counter
	diagnosisErrors  *prometheus.CounterVec
	diagnosisLatency prometheus.Histogram

	// Population analytics
	analyticsRequests *prometheus.CounterVec
	analyticsDuration *prometheus.HistogramVec
	analyticsErrors   *prometheus.CounterVec
	recordsFetched    prometheus.Histogram

	// Repository
	storedRecords          prometheus.Gauge
	trainingCatalogSize    prometheus.Gauge
	repositoryQueryLatency *prometheus.HistogramVec
	repositoryErrors       *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	rateLimited         *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fitscore",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.diagnosesTotal = m.counter("diagnoses_total", "Total number of completed diagnoses")
	m.diagnosisErrors = m.counterVec("diagnosis_errors_total", "Total number of failed diagnoses by reason", "reason")
	m.diagnosisLatency = m.histogram("diagnosis_latency_milliseconds", "Diagnosis latency in milliseconds", m.histogramBuckets)

	m.analyticsRequests = m.counterVec("analytics_requests_total", "Total number of analytics requests by type", "type")
	m.analyticsDuration = m.histogramVec("analytics_duration_milliseconds", "Analytics computation duration in milliseconds", "type")
	m.analyticsErrors = m.counterVec("analytics_errors_total", "Total number of failed analytics requests by type", "type")
	m.recordsFetched = m.histogram("analytics_records_fetched", "Number of records fetched per analytics request",
		[]float64{0, 10, 50, 100, 500, 1000, 5000, 10000, 50000})

	m.storedRecords = m.gauge("repository_records_total", "Total number of stored measurement records")
	m.trainingCatalogSize = m.gauge("repository_trainings_total", "Number of entries in the training catalog")
	m.repositoryQueryLatency = m.histogramVec("repository_query_latency_milliseconds", "Repository operation latency in milliseconds", "operation")
	m.repositoryErrors = m.counterVec("repository_errors_total", "Total number of repository errors by operation", "operation")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		"endpoint", "method", "status_code")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint",
		"endpoint", "method", "error_type")
	m.rateLimited = m.counterVec("rate_limited_total", "Total number of requests rejected by the rate limiter", "endpoint")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordDiagnosis counts a completed diagnosis and its latency.
func RecordDiagnosis(latencyMs float64) {
	globalManager.diagnosesTotal.Inc()
	globalManager.diagnosisLatency.Observe(latencyMs)
}

// RecordDiagnosisError counts a failed diagnosis.
func RecordDiagnosisError(reason string) {
	globalManager.diagnosisErrors.WithLabelValues(reason).Inc()
}

// RecordAnalytics counts an analytics request and its duration.
func RecordAnalytics(kind string, durationMs float64) {
	globalManager.analyticsRequests.WithLabelValues(kind).Inc()
	globalManager.analyticsDuration.WithLabelValues(kind).Observe(durationMs)
}

// RecordAnalyticsError counts a failed analytics request.
func RecordAnalyticsError(kind string) {
	globalManager.analyticsErrors.WithLabelValues(kind).Inc()
}

// RecordRecordsFetched observes the size of a fetched record set.
func RecordRecordsFetched(n int) {
	globalManager.recordsFetched.Observe(float64(n))
}

// UpdateStoredRecords sets the stored record count.
func UpdateStoredRecords(count int) {
	globalManager.storedRecords.Set(float64(count))
}

// UpdateTrainingCatalogSize sets the training catalog size.
func UpdateTrainingCatalogSize(count int) {
	globalManager.trainingCatalogSize.Set(float64(count))
}

// RecordRepositoryQueryLatency records repository operation latency.
func RecordRepositoryQueryLatency(operation string, latencyMs float64) {
	globalManager.repositoryQueryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordRepositoryError counts a repository error.
func RecordRepositoryError(operation string) {
	globalManager.repositoryErrors.WithLabelValues(operation).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordRateLimited counts a request rejected by the rate limiter.
func RecordRateLimited(endpoint string) {
	globalManager.rateLimited.WithLabelValues(endpoint).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// CollectSystem samples memory and goroutine gauges from the runtime.
func CollectSystem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	UpdateSystemMemoryUsage(ms.Alloc)
	UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
