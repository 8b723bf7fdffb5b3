// Package metrics provides Prometheus metrics for the competency service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	SubmissionStored    = "stored"
	SubmissionDuplicate = "duplicate"
	SubmissionFailed    = "failed"
)

// Manager owns the service metrics.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// assessment
	submissions     *prometheus.CounterVec
	scoringLatency  prometheus.Histogram
	skippedAnswers  *prometheus.CounterVec
	droppedKeys     prometheus.Counter
	corruptRecords  prometheus.Counter
	resultsRead     prometheus.Counter
	statsDuration   prometheus.Histogram
	storedResults   prometheus.Gauge
	activeQuestions prometheus.Gauge

	// storage
	storeLatency *prometheus.HistogramVec

	// http
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// errors
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "competency",
		subsystem:        "assessment",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.submissions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "submissions_total",
		Help:        "Questionnaire submissions by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "scoring_duration_seconds",
		Help:        "Time to score a submission and build its recommendations",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.skippedAnswers = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "skipped_answers_total",
		Help:        "Answers ignored during scoring by reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})

	m.droppedKeys = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dropped_score_keys_total",
		Help:        "Stored score keys that resolved to no current competency",
		ConstLabels: m.constLabels,
	})

	m.corruptRecords = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "corrupt_records_total",
		Help:        "Stored results skipped because they could not be decoded",
		ConstLabels: m.constLabels,
	})

	m.resultsRead = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "results_read_total",
		Help:        "Stored results normalized on read",
		ConstLabels: m.constLabels,
	})

	m.statsDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stats_duration_seconds",
		Help:        "Time to aggregate statistics over stored results",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.storedResults = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stored_results",
		Help:        "Number of stored results",
		ConstLabels: m.constLabels,
	})

	m.activeQuestions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "active_questions",
		Help:        "Number of active questions last served",
		ConstLabels: m.constLabels,
	})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "store",
		Name:        "operation_duration_seconds",
		Help:        "Store operation latency",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"store", "operation"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "requests_total",
		Help:        "HTTP requests by endpoint, method and status",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "request_duration_seconds",
		Help:        "HTTP request latency",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Errors by component and type",
		ConstLabels: m.constLabels,
	}, []string{"component", "type"})
}

// RecordSubmission counts a submission with the given outcome.
func RecordSubmission(outcome string) {
	globalManager.submissions.WithLabelValues(outcome).Inc()
}

// RecordScoringLatency records how long scoring took.
func RecordScoringLatency(d time.Duration) {
	globalManager.scoringLatency.Observe(d.Seconds())
}

// RecordSkippedAnswer counts an answer skipped for reason.
func RecordSkippedAnswer(reason string) {
	globalManager.skippedAnswers.WithLabelValues(reason).Inc()
}

// RecordDroppedKeys counts stored score keys ignored by normalization.
func RecordDroppedKeys(n int) {
	if n > 0 {
		globalManager.droppedKeys.Add(float64(n))
	}
}

// RecordCorruptRecords counts stored results that failed to decode.
func RecordCorruptRecords(n int) {
	if n > 0 {
		globalManager.corruptRecords.Add(float64(n))
	}
}

// RecordResultRead counts a stored result normalized on read.
func RecordResultRead() {
	globalManager.resultsRead.Inc()
}

// RecordStatsDuration records how long an aggregation took.
func RecordStatsDuration(d time.Duration) {
	globalManager.statsDuration.Observe(d.Seconds())
}

// UpdateStoredResults sets the stored results gauge.
func UpdateStoredResults(n int) {
	globalManager.storedResults.Set(float64(n))
}

// UpdateActiveQuestions sets the active questions gauge.
func UpdateActiveQuestions(n int) {
	globalManager.activeQuestions.Set(float64(n))
}

// RecordStoreOperation records the latency of a store call.
func RecordStoreOperation(store, operation string, d time.Duration) {
	globalManager.storeLatency.WithLabelValues(store, operation).Observe(d.Seconds())
}

// RecordHTTPRequest counts an HTTP request and records its latency.
func RecordHTTPRequest(endpoint, method string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	globalManager.httpRequests.WithLabelValues(endpoint, method, code).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, code).Observe(d.Seconds())
}

// RecordError counts an error raised by component.
func RecordError(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the registry the global metrics live on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Handler serves the global registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}
