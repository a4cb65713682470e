package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry is served on /api/metrics. A dedicated registry keeps tests
	// free of duplicate-registration panics on the default one.
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	// Buckets tuned for sub-second form operations and the fixed email check delay
	CustomAPIBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 0.75, 1, 2, 5}

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Key-value storage metrics
	StorageRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_client_operation_duration_seconds",
			Help:    "Key-value storage operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"backend", "operation", "status"},
	)

	StorageRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_client_operation_total",
			Help: "Total number of key-value storage operations",
		},
		[]string{"backend", "operation", "status"},
	)

	// Cache Metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	CacheSize = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Number of entries in cache",
		},
		[]string{"cache_name"},
	)

	// Business Metrics
	FormSubmissions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engineer_form_submissions_total",
			Help: "Total number of form submission attempts",
		},
		[]string{"status"}, // accepted, rejected, failed
	)

	FieldUpdates = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engineer_form_field_updates_total",
			Help: "Total number of form field updates",
		},
		[]string{"field"},
	)

	HobbyOperations = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engineer_form_hobby_operations_total",
			Help: "Total number of hobby list edits",
		},
		[]string{"operation", "status"},
	)

	EmailChecks = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engineer_form_email_checks_total",
			Help: "Total number of asynchronous email checks by outcome",
		},
		[]string{"outcome"}, // available, taken, error, superseded
	)

	PersistenceFailures = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engineer_form_persistence_failures_total",
			Help: "Snapshot writes or loads that failed and were ignored",
		},
		[]string{"operation"},
	)

	ActiveSessions = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "engineer_form_active_sessions",
			Help: "Number of live form sessions",
		},
	)

	ServiceInfo = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "engineer_form_service_info",
			Help: "Static service information",
		},
		[]string{"service_name"},
	)
)

var initOnce sync.Once

// Init registers runtime collectors and the service info series
func Init(serviceName string) {
	initOnce.Do(func() {
		Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
	ServiceInfo.WithLabelValues(serviceName).Set(1)
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
