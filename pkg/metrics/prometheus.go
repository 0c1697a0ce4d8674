// Package metrics provides Prometheus metrics for the leaderboard service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// defaultLatencyBuckets are tuned for millisecond request and store latencies.
var defaultLatencyBuckets = []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000} //nolint:gochecknoglobals // constant bucket layout

// Manager owns every Prometheus collector used by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// Leaderboard business metrics
	scoresSubmitted    prometheus.Counter
	validationFailures prometheus.Counter
	leaderboardSize    prometheus.Gauge

	// Backing store
	storeOperationDuration *prometheus.HistogramVec
	storeErrors            *prometheus.CounterVec
	connectionAttempts     *prometheus.CounterVec

	// Process
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
	gcPauseTime    prometheus.Gauge
}

var (
	globalMu      sync.RWMutex               //nolint:gochecknoglobals // guards globalManager
	globalManager *Manager                   //nolint:gochecknoglobals // singleton used by package-level recorders
	registry      = prometheus.NewRegistry() //nolint:gochecknoglobals // custom registry without default Go collectors
)

func init() { //nolint:gochecknoinits // register package-level collectors once
	globalManager = NewManager(WithPrometheusRegistry(registry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scoreboard",
		subsystem:        "leaderboard",
		histogramBuckets: defaultLatencyBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "Error responses by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})

	m.scoresSubmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_submitted_total",
		Help:      "Total number of score records persisted",
	})

	m.validationFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validation_failures_total",
		Help:      "Total number of score submissions rejected by validation",
	})

	m.leaderboardSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_entries",
		Help:      "Number of entries returned by the most recent leaderboard read",
	})

	m.storeOperationDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_operation_duration_milliseconds",
		Help:      "Backing store operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"backend", "operation"})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Backing store operations that returned an error",
	}, []string{"backend", "operation"})

	m.connectionAttempts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "connection_attempts_total",
		Help:      "Backing store connection establishment attempts by result",
	}, []string{"backend", "result"})

	m.memoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Heap bytes allocated and still in use",
	})

	m.goroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Number of goroutines",
	})

	m.gcPauseTime = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_milliseconds",
		Help:      "Average GC pause time in milliseconds",
	})
}

func manager() *Manager {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalManager
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	manager().httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	manager().httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	manager().errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordScoreSubmitted increments the persisted scores counter.
func RecordScoreSubmitted() {
	manager().scoresSubmitted.Inc()
}

// RecordValidationFailure increments the rejected submissions counter.
func RecordValidationFailure() {
	manager().validationFailures.Inc()
}

// UpdateLeaderboardSize sets the size of the last leaderboard read.
func UpdateLeaderboardSize(n int) {
	manager().leaderboardSize.Set(float64(n))
}

// RecordStoreOperation records the latency of a store operation and counts
// it as an error when failed is true.
func RecordStoreOperation(backend, operation string, latencyMs float64, failed bool) {
	m := manager()
	m.storeOperationDuration.WithLabelValues(backend, operation).Observe(latencyMs)
	if failed {
		m.storeErrors.WithLabelValues(backend, operation).Inc()
	}
}

// RecordConnectionAttempt counts a connection establishment attempt.
// result is "success" or "failure".
func RecordConnectionAttempt(backend, result string) {
	manager().connectionAttempts.WithLabelValues(backend, result).Inc()
}

// UpdateSystemMemoryUsage sets the heap bytes in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	manager().memoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(n int) {
	manager().goroutineCount.Set(float64(n))
}

// RecordSystemGCPauseTime sets the average GC pause time.
func RecordSystemGCPauseTime(ms float64) {
	manager().gcPauseTime.Set(ms)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return registry
}
