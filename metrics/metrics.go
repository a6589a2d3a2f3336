package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DaysCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "schedule_days_created_total",
			Help: "Working days created by schedule generation",
		},
	)

	DaysUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "schedule_days_updated_total",
			Help: "Existing working days overwritten by schedule generation",
		},
	)

	ReconcileDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "schedule_reconcile_duration_seconds",
			Help:    "Time spent reconciling a pattern with stored working days",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"pattern", "status"},
	)

	SlotsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_slots_generated_total",
			Help: "Time slots materialised for day timelines",
		},
		[]string{"state"},
	)

	LockContention = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "schedule_lock_contention_total",
			Help: "Schedule changes rejected because the specialist lock was held",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordReconcile adds a generation run's counts.
func RecordReconcile(created, updated int) {
	DaysCreated.Add(float64(created))
	DaysUpdated.Add(float64(updated))
}

// RecordSlot counts one materialised slot by state ("available", "break", "booked").
func RecordSlot(state string) {
	SlotsGenerated.WithLabelValues(state).Inc()
}

// RecordHTTPRequest counts one handled request and its latency.
func RecordHTTPRequest(method, route, status string, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
