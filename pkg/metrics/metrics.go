package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Custom histogram buckets optimized for API response times ranging from
	// milliseconds to 30+ seconds. External calls (SMTP, Google Calendar) can
	// sit at the slow end, so keep the tail buckets.
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(128, 4, 8),
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Database Client Metrics
	DBRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Database client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	DBRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of database client operations",
		},
		[]string{"operation", "status"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	// External Integration Metrics (SMTP, Google Calendar)
	IntegrationRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "integration_operation_duration_seconds",
			Help:    "External integration operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"integration", "operation", "status"},
	)

	IntegrationRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_operation_total",
			Help: "Total number of external integration operations",
		},
		[]string{"integration", "operation", "status"},
	)

	// Business Metrics
	DemoBookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduforge_demo_bookings_total",
			Help: "Total number of demo booking submissions",
		},
		[]string{"status"},
	)

	DemoBookingsByCourse = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduforge_demo_bookings_by_course_total",
			Help: "Demo bookings broken down by training interest",
		},
		[]string{"course"},
	)

	ConfirmationEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduforge_confirmation_emails_total",
			Help: "Total number of confirmation email attempts",
		},
		[]string{"status"},
	)

	CalendarEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduforge_calendar_events_total",
			Help: "Total number of calendar event creation attempts",
		},
		[]string{"status"},
	)

	BookingStatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduforge_booking_status_transitions_total",
			Help: "Booking lifecycle transitions applied by admins",
		},
		[]string{"from", "to"},
	)

	AlertsFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduforge_monitoring_alerts_total",
			Help: "Threshold alerts fired by the monitoring collector",
		},
		[]string{"type", "severity"},
	)

	// Infrastructure Metrics
	GoRoutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)

	HeapUsagePercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_usage_ratio",
			Help: "Heap in use as a fraction of heap obtained from the OS",
		},
	)
)

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
			if m.HeapSys > 0 {
				HeapUsagePercent.Set(float64(m.HeapInuse) / float64(m.HeapSys))
			}
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
