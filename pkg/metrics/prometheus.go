package metrics

import (
	"fmt"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Builder result flags tracked by RecordBuilderFlag.
const (
	FlagUnderfilled    = "underfilled"
	FlagForcedConflict = "forced_conflict"
	FlagInterrupted    = "interrupted"
	FlagUnsatisfied    = "unsatisfied"
)

var builderFlags = []string{FlagUnderfilled, FlagForcedConflict, FlagInterrupted, FlagUnsatisfied} //nolint:gochecknoglobals // fixed label set

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	sizeBuckets      []float64
	scoreBuckets     []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Engine operations
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	teamSize          prometheus.Histogram
	teamScore         prometheus.Histogram
	conflictsDetected prometheus.Counter
	builderFlags      *prometheus.CounterVec
	repairSwaps       prometheus.Counter
	suggestions       prometheus.Histogram
	buildCache        *prometheus.CounterVec

	// Reference data and profiles
	engineReady          prometheus.Gauge
	matrixRecords        prometheus.Gauge
	matrixLoadDurationMs prometheus.Gauge
	profilesTotal        prometheus.Gauge
	profileReplacements  prometheus.Counter
	profileLookupMisses  prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorRateByComponent *prometheus.CounterVec

	// System Performance Metrics
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
		namespace:        "teamfit",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		sizeBuckets:      []float64{2, 3, 4, 5, 6, 8, 10, 15, 20},
		scoreBuckets:     []float64{35, 50, 65, 80, 100},
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.operations = auto.NewCounterVec(
		m.counterOpts("operations_total", "Engine operations by name and outcome"),
		[]string{"operation", "outcome"},
	)
	m.operationDuration = auto.NewHistogramVec(
		m.histogramOpts("operation_duration_milliseconds", "Engine operation latency in milliseconds", m.histogramBuckets),
		[]string{"operation"},
	)
	m.teamSize = auto.NewHistogram(m.histogramOpts("team_size", "Size of scored and built teams", m.sizeBuckets))
	m.teamScore = auto.NewHistogram(m.histogramOpts("team_score", "Overall score of scored and built teams", m.scoreBuckets))
	m.conflictsDetected = auto.NewCounter(m.counterOpts("conflicts_detected_total", "Conflict pairs reported"))
	m.builderFlags = auto.NewCounterVec(
		m.counterOpts("builder_flags_total", "Team builder results by flag"),
		[]string{"flag"},
	)
	m.repairSwaps = auto.NewCounter(m.counterOpts("repair_swaps_total", "Element balance repair swaps applied"))
	m.suggestions = auto.NewHistogram(m.histogramOpts("suggestions_returned", "Suggestions returned per optimize call",
		[]float64{0, 1, 2, 3, 5, 10, 20}))
	m.buildCache = auto.NewCounterVec(
		m.counterOpts("build_cache_lookups_total", "Build result cache lookups by result"),
		[]string{"result"},
	)

	m.engineReady = auto.NewGauge(m.gaugeOpts("ready", "1 once the compatibility matrix is loaded"))
	m.matrixRecords = auto.NewGauge(m.gaugeOpts("matrix_records", "Records in the loaded compatibility matrix"))
	m.matrixLoadDurationMs = auto.NewGauge(m.gaugeOpts("matrix_load_duration_milliseconds", "Time taken to load and validate the matrix"))
	m.profilesTotal = auto.NewGauge(m.gaugeOpts("profiles_total", "Profiles held in the snapshot store"))
	m.profileReplacements = auto.NewCounter(m.counterOpts("profile_replacements_total", "Profile snapshot replacements"))
	m.profileLookupMisses = auto.NewCounter(m.counterOpts("profile_lookup_misses_total", "Profile lookups for unknown identifiers"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Error rate by component"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
}

// RecordOperation counts an engine operation and observes its latency.
func RecordOperation(operation, outcome string, latencyMs float64) {
	globalManager.operations.WithLabelValues(operation, outcome).Inc()
	globalManager.operationDuration.WithLabelValues(operation).Observe(latencyMs)
}

// RecordTeam observes the size and overall score of a team.
func RecordTeam(size int, score float64) {
	globalManager.teamSize.Observe(float64(size))
	globalManager.teamScore.Observe(score)
}

// RecordConflicts adds reported conflict pairs.
func RecordConflicts(n int) {
	if n > 0 {
		globalManager.conflictsDetected.Add(float64(n))
	}
}

// RecordBuilderFlag counts a builder result flag. Unknown flags are rejected.
func RecordBuilderFlag(flag string) error {
	if !slices.Contains(builderFlags, flag) {
		return fmt.Errorf("%w: %q", ErrUnknownFlag, flag)
	}
	globalManager.builderFlags.WithLabelValues(flag).Inc()
	return nil
}

// RecordRepairSwaps adds applied repair swaps.
func RecordRepairSwaps(n int) {
	if n > 0 {
		globalManager.repairSwaps.Add(float64(n))
	}
}

// RecordBuildCache counts a build result cache hit or miss.
func RecordBuildCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	globalManager.buildCache.WithLabelValues(result).Inc()
}

// RecordSuggestions observes how many suggestions a call returned.
func RecordSuggestions(n int) {
	globalManager.suggestions.Observe(float64(n))
}

// UpdateEngineReady sets the readiness gauge.
func UpdateEngineReady(ready bool) {
	v := 0.0
	if ready {
		v = 1
	}
	globalManager.engineReady.Set(v)
}

// UpdateMatrix records the loaded matrix size and load time.
func UpdateMatrix(records int, loadMs float64) {
	globalManager.matrixRecords.Set(float64(records))
	globalManager.matrixLoadDurationMs.Set(loadMs)
}

// UpdateProfilesTotal sets the number of stored profiles.
func UpdateProfilesTotal(count int) {
	globalManager.profilesTotal.Set(float64(count))
}

// RecordProfileReplace increments the snapshot replacement counter.
func RecordProfileReplace() {
	globalManager.profileReplacements.Inc()
}

// RecordProfileLookupMiss increments the lookup miss counter.
func RecordProfileLookupMiss() {
	globalManager.profileLookupMisses.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
