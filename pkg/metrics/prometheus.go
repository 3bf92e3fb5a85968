// Package metrics provides Prometheus metrics for the Estimathon service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Gateway metrics
	teamsCreated        prometheus.Counter
	submissionsAccepted prometheus.Counter
	submissionsRejected *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Store metrics
	teamsTotal           prometheus.Gauge
	submissionsTotal     prometheus.Gauge
	snapshotBuildLatency prometheus.Histogram

	// Broadcast metrics
	snapshotsBroadcast prometheus.Counter
	catchupSnapshots   prometheus.Counter
	subscribersGauge   prometheus.Gauge
	subscriberDrops    prometheus.Counter
	snapshotQueueSize  prometheus.Gauge
	snapshotQueueDrops prometheus.Counter

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "estimathon",
		subsystem:        "scoreboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.teamsCreated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "teams_created_total",
		Help:      "Total number of teams created.",
	})
	m.submissionsAccepted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_accepted_total",
		Help:      "Total number of interval submissions accepted.",
	})
	m.submissionsRejected = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_rejected_total",
		Help:      "Total number of interval submissions rejected, by reason.",
	}, []string{"reason"})
	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.teamsTotal = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "teams_total",
		Help:      "Current number of registered teams.",
	})
	m.submissionsTotal = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_total",
		Help:      "Current number of recorded submissions across all teams.",
	})
	m.snapshotBuildLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_build_duration_ms",
		Help:      "Time spent rebuilding the ranked snapshot in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.snapshotsBroadcast = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshots_broadcast_total",
		Help:      "Total number of snapshots fanned out to subscribers.",
	})
	m.catchupSnapshots = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catchup_snapshots_total",
		Help:      "Total number of snapshots sent to newly connected subscribers.",
	})
	m.subscribersGauge = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "subscribers_connected",
		Help:      "Current number of connected scoreboard subscribers.",
	})
	m.subscriberDrops = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "subscriber_drops_total",
		Help:      "Total number of subscribers dropped for falling behind.",
	})
	m.snapshotQueueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_queue_size",
		Help:      "Current number of snapshots waiting for fan-out.",
	})
	m.snapshotQueueDrops = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_queue_drops_total",
		Help:      "Total number of snapshots dropped because the queue was full.",
	})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated memory in bytes.",
	})
	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines.",
	})
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RecordTeamCreated increments the teams created counter.
func RecordTeamCreated() {
	globalManager.teamsCreated.Inc()
}

// RecordSubmissionAccepted increments the accepted submissions counter.
func RecordSubmissionAccepted() {
	globalManager.submissionsAccepted.Inc()
}

// RecordSubmissionRejected increments the rejected submissions counter for a reason.
func RecordSubmissionRejected(reason string) {
	globalManager.submissionsRejected.WithLabelValues(reason).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// UpdateTotalTeams sets the current team count.
func UpdateTotalTeams(n int) {
	globalManager.teamsTotal.Set(float64(n))
}

// UpdateTotalSubmissions sets the current submission count.
func UpdateTotalSubmissions(n int) {
	globalManager.submissionsTotal.Set(float64(n))
}

// RecordSnapshotBuildLatency records snapshot rebuild latency in milliseconds.
func RecordSnapshotBuildLatency(ms float64) {
	globalManager.snapshotBuildLatency.Observe(ms)
}

// RecordSnapshotBroadcast increments the broadcast counter.
func RecordSnapshotBroadcast() {
	globalManager.snapshotsBroadcast.Inc()
}

// RecordCatchupSnapshot increments the catch-up snapshots counter.
func RecordCatchupSnapshot() {
	globalManager.catchupSnapshots.Inc()
}

// UpdateSubscriberCount sets the current subscriber count.
func UpdateSubscriberCount(n int) {
	globalManager.subscribersGauge.Set(float64(n))
}

// RecordSubscriberDrop increments the dropped subscribers counter.
func RecordSubscriberDrop() {
	globalManager.subscriberDrops.Inc()
}

// UpdateSnapshotQueueSize sets the current snapshot queue size.
func UpdateSnapshotQueueSize(n int) {
	globalManager.snapshotQueueSize.Set(float64(n))
}

// RecordSnapshotQueueDrop increments the dropped snapshots counter.
func RecordSnapshotQueueDrop() {
	globalManager.snapshotQueueDrops.Inc()
}

// UpdateSystemMemoryUsage sets the current allocated memory.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutineCount.Set(float64(n))
}
