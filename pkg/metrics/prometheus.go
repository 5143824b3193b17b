// Package metrics provides Prometheus metrics for the match conversion
// service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	// Pipeline metrics
	stageDuration      *prometheus.HistogramVec
	rawEvents          prometheus.Counter
	canonicalEvents    prometheus.Counter
	conversions        *prometheus.CounterVec
	conversionDuration prometheus.Histogram

	// Queue and worker metrics
	queueSize     prometheus.Gauge
	queueCapacity prometheus.Gauge
	enqueues      prometheus.Counter
	enqueueErrors prometheus.Counter
	dequeues      prometheus.Counter
	workerCount   prometheus.Gauge

	// Store metrics
	storedConversions prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom histogram buckets for latency metrics.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithRegistry sets a custom Prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// NewManager creates a Manager and registers all collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "gandula",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.stageDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "pipeline_stage_duration_seconds",
		Help:      "Duration of each deserialization pipeline stage.",
		Buckets:   m.buckets,
	}, []string{"stage"})

	m.rawEvents = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "raw_events_total",
		Help:      "Raw provider events decoded.",
	})

	m.canonicalEvents = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "canonical_events_total",
		Help:      "Canonical events produced.",
	})

	m.conversions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "conversions_total",
		Help:      "Completed match conversions by status.",
	}, []string{"status"})

	m.conversionDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "conversion_duration_seconds",
		Help:      "End-to-end duration of one match conversion.",
		Buckets:   m.buckets,
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "queue_size",
		Help:      "Jobs currently queued.",
	})

	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "queue_capacity",
		Help:      "Configured queue capacity.",
	})

	m.enqueues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "queue_enqueues_total",
		Help:      "Jobs accepted onto the queue.",
	})

	m.enqueueErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "queue_enqueue_errors_total",
		Help:      "Jobs rejected by the queue.",
	})

	m.dequeues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "queue_dequeues_total",
		Help:      "Jobs handed to workers.",
	})

	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "worker_count",
		Help:      "Configured conversion workers.",
	})

	m.storedConversions = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "stored_conversions",
		Help:      "Conversion results currently held in the store.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration by endpoint, method and status.",
		Buckets:   m.buckets,
	}, []string{"endpoint", "method", "status"})

	return m
}

// Registry returns the manager's Prometheus registry.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

var (
	defaultManager *Manager
	defaultOnce    sync.Once
)

// Default returns the process-wide Manager, creating it on first use.
func Default() *Manager {
	defaultOnce.Do(func() {
		defaultManager = NewManager()
	})
	return defaultManager
}

// GetRegistry returns the default manager's registry, for serving /healthz.
func GetRegistry() *prometheus.Registry {
	return Default().Registry()
}

// Package-level helpers delegating to the default manager.

// RecordStageDuration records one pipeline stage timing.
func RecordStageDuration(stage string, seconds float64) {
	Default().stageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordRawEvents adds decoded raw events to the counter.
func RecordRawEvents(n int) {
	Default().rawEvents.Add(float64(n))
}

// RecordCanonicalEvents adds produced canonical events to the counter.
func RecordCanonicalEvents(n int) {
	Default().canonicalEvents.Add(float64(n))
}

// RecordConversion counts a finished conversion by status.
func RecordConversion(status string) {
	Default().conversions.WithLabelValues(status).Inc()
}

// RecordConversionDuration records one end-to-end conversion timing.
func RecordConversionDuration(seconds float64) {
	Default().conversionDuration.Observe(seconds)
}

// UpdateQueueSize sets the current queue depth.
func UpdateQueueSize(n int) {
	Default().queueSize.Set(float64(n))
}

// UpdateQueueCapacity sets the configured queue capacity.
func UpdateQueueCapacity(n int) {
	Default().queueCapacity.Set(float64(n))
}

// RecordQueueEnqueue counts an accepted job.
func RecordQueueEnqueue() {
	Default().enqueues.Inc()
}

// RecordQueueEnqueueError counts a rejected job.
func RecordQueueEnqueueError() {
	Default().enqueueErrors.Inc()
}

// RecordQueueDequeue counts a job handed to a worker.
func RecordQueueDequeue() {
	Default().dequeues.Inc()
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(n int) {
	Default().workerCount.Set(float64(n))
}

// UpdateStoredConversions sets the number of stored conversion results.
func UpdateStoredConversions(n int) {
	Default().storedConversions.Set(float64(n))
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	Default().httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records one HTTP request timing.
func RecordHTTPRequestDuration(endpoint, method, status string, seconds float64) {
	Default().httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(seconds)
}
