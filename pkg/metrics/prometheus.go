// Package metrics provides Prometheus metrics for the careertrack service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the careertrack service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Plan lifecycle
	plansCreated   prometheus.Counter
	plansDeleted   prometheus.Counter
	plansGenerated prometheus.Counter

	// Completion engine
	tasksCompleted       prometheus.Counter
	duplicateCompletions prometheus.Counter
	xpAwarded            prometheus.Counter
	rewardsUnlocked      *prometheus.CounterVec
	completionLatency    prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// Store
	storeQueryLatency *prometheus.HistogramVec
	storeErrors       *prometheus.CounterVec

	// LLM
	llmRequestLatency prometheus.Histogram
	llmErrors         *prometheus.CounterVec
	llmTokens         *prometheus.CounterVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// customRegistry keeps default Go collectors out of the exposition.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "careertrack",
		subsystem:        "plans",
		histogramBuckets: []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of metric definitions
	auto := promauto.With(m.registry)
	counter := func(name, help string) prometheus.Counter {
		return auto.NewCounter(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
			ConstLabels: m.customLabels,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
			ConstLabels: m.customLabels,
		}, labels)
	}
	gauge := func(name, help string) prometheus.Gauge {
		return auto.NewGauge(prometheus.GaugeOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
			ConstLabels: m.customLabels,
		})
	}

	m.plansCreated = counter("created_total", "Total number of plans added")
	m.plansDeleted = counter("deleted_total", "Total number of plans deleted")
	m.plansGenerated = counter("generated_total", "Total number of milestone lists generated by the LLM")

	m.tasksCompleted = counter("tasks_completed_total", "Total number of tasks flipped to completed")
	m.duplicateCompletions = counter("tasks_completed_duplicate_total", "Completion requests for tasks that were already completed")
	m.xpAwarded = counter("xp_awarded_total", "Total XP awarded across all plans")
	m.rewardsUnlocked = counterVec("rewards_unlocked_total", "Rewards unlocked by badge", "badge")
	m.completionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:        "completion_latency_milliseconds",
		Help:        "Latency of the task completion transaction in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	})

	m.httpRequests = counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = counterVec("http_errors_total", "HTTP errors by endpoint, method and error type",
		"endpoint", "method", "error_type")

	m.storeQueryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "store",
		Name:        "query_latency_milliseconds",
		Help:        "SQL statement latency in milliseconds by statement kind",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, []string{"kind"})
	m.storeErrors = counterVec("store_errors_total", "Store errors by operation", "operation")

	m.llmRequestLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "llm",
		Name:        "request_latency_milliseconds",
		Help:        "LLM request latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	})
	m.llmErrors = counterVec("llm_errors_total", "LLM errors by kind", "kind")
	m.llmTokens = counterVec("llm_tokens_total", "LLM tokens consumed by direction", "direction")

	m.systemMemoryUsage = gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = gauge("system_goroutines", "Number of goroutines")
}

// GetRegistry returns the registry the global manager publishes to.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RefreshInterval returns how often process gauges should be refreshed.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

func enabled() bool {
	return globalManager != nil && globalManager.enabled
}

// RecordPlanCreated counts a plan added by a student.
func RecordPlanCreated() {
	if enabled() {
		globalManager.plansCreated.Inc()
	}
}

// RecordPlanDeleted counts a plan deletion.
func RecordPlanDeleted() {
	if enabled() {
		globalManager.plansDeleted.Inc()
	}
}

// RecordPlanGenerated counts a milestone list produced by the LLM.
func RecordPlanGenerated() {
	if enabled() {
		globalManager.plansGenerated.Inc()
	}
}

// RecordTaskCompleted counts a completed task and the XP it awarded.
func RecordTaskCompleted(xp int) {
	if !enabled() {
		return
	}
	globalManager.tasksCompleted.Inc()
	if xp > 0 {
		globalManager.xpAwarded.Add(float64(xp))
	}
}

// RecordDuplicateCompletion counts a completion request that changed nothing.
func RecordDuplicateCompletion() {
	if enabled() {
		globalManager.duplicateCompletions.Inc()
	}
}

// RecordRewardUnlocked counts a newly inserted reward row.
func RecordRewardUnlocked(badge string) {
	if enabled() {
		globalManager.rewardsUnlocked.WithLabelValues(badge).Inc()
	}
}

// RecordCompletionLatency observes the completion transaction duration.
func RecordCompletionLatency(ms float64) {
	if enabled() {
		globalManager.completionLatency.Observe(ms)
	}
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if enabled() {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration observes an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	if enabled() {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
	}
}

// RecordErrorByEndpoint counts an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if enabled() {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// RecordStoreQueryLatency observes one SQL statement.
func RecordStoreQueryLatency(kind string, ms float64) {
	if enabled() {
		globalManager.storeQueryLatency.WithLabelValues(kind).Observe(ms)
	}
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(operation string) {
	if enabled() {
		globalManager.storeErrors.WithLabelValues(operation).Inc()
	}
}

// RecordLLMRequest observes an LLM call and its token usage.
func RecordLLMRequest(ms float64, inputTokens, outputTokens int) {
	if !enabled() {
		return
	}
	globalManager.llmRequestLatency.Observe(ms)
	globalManager.llmTokens.WithLabelValues("input").Add(float64(inputTokens))
	globalManager.llmTokens.WithLabelValues("output").Add(float64(outputTokens))
}

// RecordLLMError counts a failed LLM call.
func RecordLLMError(kind string) {
	if enabled() {
		globalManager.llmErrors.WithLabelValues(kind).Inc()
	}
}

// UpdateSystemMemoryUsage sets the heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if enabled() {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if enabled() {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}
