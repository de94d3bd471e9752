// Package metrics provides Prometheus metrics for the kundali chart service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the kundali service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Chart pipeline metrics
	chartsComputed      prometheus.Counter
	chartComputeErrors  prometheus.Counter
	chartComputeLatency prometheus.Histogram
	houseFallbacks      prometheus.Counter
	vargasComputed      *prometheus.CounterVec
	dashaTimelines      prometheus.Counter
	panchangaSnapshots  prometheus.Counter

	// Ephemeris fan-out metrics
	ephemerisFetches      prometheus.Counter
	ephemerisFetchErrors  prometheus.Counter
	ephemerisFetchLatency prometheus.Histogram
	ephemerisWorkers      prometheus.Gauge
	ephemerisInFlight     prometheus.Gauge

	// Result cache metrics
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	cacheLatency prometheus.Histogram

	// Chart archive metrics
	storeCharts       prometheus.Gauge
	storeSaveLatency  prometheus.Histogram
	storeQueryLatency prometheus.Histogram
	storeErrors       prometheus.Counter

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorsByComponent *prometheus.CounterVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "kundali",
		subsystem:        "chart",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Chart pipeline metrics
	m.chartsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "charts_computed_total",
		Help:      "Total number of birth charts computed successfully",
	})

	m.chartComputeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "chart_compute_errors_total",
		Help:      "Total number of failed chart computations",
	})

	m.chartComputeLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "chart_compute_latency_milliseconds",
		Help:      "Histogram of end-to-end chart computation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.houseFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "house_fallbacks_total",
		Help:      "Total number of charts built via the degraded equal-house fallback",
	})

	m.vargasComputed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "vargas_computed_total",
			Help:      "Total number of divisional charts computed by division",
		},
		[]string{"division"},
	)

	m.dashaTimelines = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dasha_timelines_total",
		Help:      "Total number of dasha timelines generated",
	})

	m.panchangaSnapshots = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "panchanga_snapshots_total",
		Help:      "Total number of lunar-calendar snapshots computed",
	})

	// Ephemeris fan-out metrics
	m.ephemerisFetches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ephemeris_fetches_total",
		Help:      "Total number of per-planet ephemeris fetches",
	})

	m.ephemerisFetchErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ephemeris_fetch_errors_total",
		Help:      "Total number of failed ephemeris fetches",
	})

	m.ephemerisFetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ephemeris_fetch_latency_milliseconds",
		Help:      "Per-planet ephemeris fetch latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.ephemerisWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ephemeris_workers",
		Help:      "Number of workers in the ephemeris fan-out pool",
	})

	m.ephemerisInFlight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ephemeris_inflight",
		Help:      "Number of ephemeris fetches currently in flight",
	})

	// Result cache metrics
	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Total number of chart cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_misses_total",
		Help:      "Total number of chart cache misses",
	})

	m.cacheLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_latency_milliseconds",
		Help:      "Cache lookup latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Chart archive metrics
	m.storeCharts = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_charts",
		Help:      "Number of charts held in the archive",
	})

	m.storeSaveLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_save_latency_milliseconds",
		Help:      "Chart archive save latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_milliseconds",
		Help:      "Chart archive query latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Total number of chart archive errors",
	})

	// HTTP performance metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Error tracking
	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	// System performance metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Chart Pipeline Metrics Functions.

// RecordChartComputed increments the computed charts counter.
func RecordChartComputed() {
	globalManager.chartsComputed.Inc()
}

// RecordChartError increments the failed computation counter.
func RecordChartError() {
	globalManager.chartComputeErrors.Inc()
}

// RecordChartComputeLatency records end-to-end chart latency in milliseconds.
func RecordChartComputeLatency(latencyMs float64) {
	globalManager.chartComputeLatency.Observe(latencyMs)
}

// RecordHouseFallback increments the degraded house-fallback counter.
func RecordHouseFallback() {
	globalManager.houseFallbacks.Inc()
}

// RecordVargaComputed increments the divisional chart counter for one division.
func RecordVargaComputed(division string) {
	globalManager.vargasComputed.WithLabelValues(division).Inc()
}

// RecordDashaTimeline increments the dasha timeline counter.
func RecordDashaTimeline() {
	globalManager.dashaTimelines.Inc()
}

// RecordPanchangaSnapshot increments the lunar-calendar snapshot counter.
func RecordPanchangaSnapshot() {
	globalManager.panchangaSnapshots.Inc()
}

// Ephemeris Metrics Functions.

// RecordEphemerisFetch increments the per-planet fetch counter.
func RecordEphemerisFetch() {
	globalManager.ephemerisFetches.Inc()
}

// RecordEphemerisFetchError increments the fetch error counter.
func RecordEphemerisFetchError() {
	globalManager.ephemerisFetchErrors.Inc()
}

// RecordEphemerisFetchLatency records one fetch latency in milliseconds.
func RecordEphemerisFetchLatency(latencyMs float64) {
	globalManager.ephemerisFetchLatency.Observe(latencyMs)
}

// UpdateEphemerisWorkers sets the fan-out pool size.
func UpdateEphemerisWorkers(count int) {
	globalManager.ephemerisWorkers.Set(float64(count))
}

// UpdateEphemerisInFlight sets the number of fetches currently in flight.
func UpdateEphemerisInFlight(count int) {
	globalManager.ephemerisInFlight.Set(float64(count))
}

// Cache Metrics Functions.

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordCacheLatency records cache lookup latency in milliseconds.
func RecordCacheLatency(latencyMs float64) {
	globalManager.cacheLatency.Observe(latencyMs)
}

// Store Metrics Functions.

// UpdateStoredCharts sets the number of charts held in the archive.
func UpdateStoredCharts(count int) {
	globalManager.storeCharts.Set(float64(count))
}

// RecordStoreSaveLatency records archive save latency in milliseconds.
func RecordStoreSaveLatency(latencyMs float64) {
	globalManager.storeSaveLatency.Observe(latencyMs)
}

// RecordStoreQueryLatency records archive query latency in milliseconds.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// RecordStoreError increments the archive error counter.
func RecordStoreError() {
	globalManager.storeErrors.Inc()
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
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// System Performance Metrics Functions.

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
