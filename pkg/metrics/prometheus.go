// Package metrics provides Prometheus metrics for the age-grade service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Query Metrics
	queries        *prometheus.CounterVec
	computeLatency prometheus.Histogram

	// Standards Data Metrics
	standardsLoads       *prometheus.CounterVec
	standardsLoadLatency *prometheus.HistogramVec
	cacheLookups         *prometheus.CounterVec
	coalescedLoads       prometheus.Counter
	cachedTables         prometheus.Gauge
	cachedEditions       prometheus.Gauge

	// Debounce Metrics
	debounceSubmitted  prometheus.Counter
	debounceSuperseded prometheus.Counter
	debounceDelivered  prometheus.Counter

	// HTTP Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "agegrade",
		subsystem:        "service",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.queries = auto.NewCounterVec(
		m.counterOpts("queries_total", "Total number of age-grade queries by resulting state"),
		[]string{"state"},
	)
	m.computeLatency = auto.NewHistogram(
		m.histogramOpts("compute_latency_milliseconds", "Age-grade query latency in milliseconds, data loading included", m.histogramBuckets),
	)

	m.standardsLoads = auto.NewCounterVec(
		m.counterOpts("standards_loads_total", "Total number of manifest and table fetches by outcome"),
		[]string{"kind", "outcome"},
	)
	m.standardsLoadLatency = auto.NewHistogramVec(
		m.histogramOpts("standards_load_latency_milliseconds", "Manifest and table fetch latency in milliseconds", m.histogramBuckets),
		[]string{"kind"},
	)
	m.cacheLookups = auto.NewCounterVec(
		m.counterOpts("cache_lookups_total", "Standards cache lookups by kind and result"),
		[]string{"kind", "result"},
	)
	m.coalescedLoads = auto.NewCounter(
		m.counterOpts("coalesced_loads_total", "Loads that reused an in-flight fetch for the same key"),
	)
	m.cachedTables = auto.NewGauge(
		m.gaugeOpts("cached_tables", "Number of standards tables held in the cache"),
	)
	m.cachedEditions = auto.NewGauge(
		m.gaugeOpts("cached_editions", "Number of editions listed by the cached manifest"),
	)

	m.debounceSubmitted = auto.NewCounter(
		m.counterOpts("debounce_submitted_total", "Recomputation requests submitted to a debouncer"),
	)
	m.debounceSuperseded = auto.NewCounter(
		m.counterOpts("debounce_superseded_total", "Recomputation requests dropped because a newer one arrived"),
	)
	m.debounceDelivered = auto.NewCounter(
		m.counterOpts("debounce_delivered_total", "Recomputation results delivered to the caller"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordQuery counts a query by its resulting state.
func RecordQuery(state string) {
	globalManager.queries.WithLabelValues(state).Inc()
}

// RecordComputeLatency records query latency in milliseconds.
func RecordComputeLatency(latencyMs float64) {
	globalManager.computeLatency.Observe(latencyMs)
}

// Standards Data Metrics Functions.

// RecordStandardsLoad counts a fetch of kind ("manifest" or "table") with outcome ("ok" or "error").
func RecordStandardsLoad(kind, outcome string) {
	globalManager.standardsLoads.WithLabelValues(kind, outcome).Inc()
}

// RecordStandardsLoadLatency records fetch latency in milliseconds.
func RecordStandardsLoadLatency(kind string, latencyMs float64) {
	globalManager.standardsLoadLatency.WithLabelValues(kind).Observe(latencyMs)
}

// RecordCacheHit counts a cache hit for kind.
func RecordCacheHit(kind string) {
	globalManager.cacheLookups.WithLabelValues(kind, "hit").Inc()
}

// RecordCacheMiss counts a cache miss for kind.
func RecordCacheMiss(kind string) {
	globalManager.cacheLookups.WithLabelValues(kind, "miss").Inc()
}

// RecordCoalescedLoad counts a load that shared another caller's fetch.
func RecordCoalescedLoad() {
	globalManager.coalescedLoads.Inc()
}

// UpdateCachedTables sets the number of cached tables.
func UpdateCachedTables(count int) {
	globalManager.cachedTables.Set(float64(count))
}

// UpdateCachedEditions sets the number of editions in the cached manifest.
func UpdateCachedEditions(count int) {
	globalManager.cachedEditions.Set(float64(count))
}

// Debounce Metrics Functions.

// RecordDebounceSubmitted counts a submitted request.
func RecordDebounceSubmitted() {
	globalManager.debounceSubmitted.Inc()
}

// RecordDebounceSuperseded counts a dropped request.
func RecordDebounceSuperseded() {
	globalManager.debounceSuperseded.Inc()
}

// RecordDebounceDelivered counts a delivered result.
func RecordDebounceDelivered() {
	globalManager.debounceDelivered.Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
