// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Checkins counts check-in attempts.
	// Labels: result (created, duplicate)
	Checkins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lifeflow",
		Subsystem: "habit",
		Name:      "checkins_total",
		Help:      "Habit check-in attempts by outcome",
	}, []string{"result"})

	// NotificationsCreated counts stored notifications.
	// Labels: category
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lifeflow",
		Subsystem: "notify",
		Name:      "created_total",
		Help:      "Notifications created by category",
	}, []string{"category"})

	// FollowUpFailures counts post-check-in notification checks that failed.
	// Labels: step (achievement, daily_complete)
	FollowUpFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lifeflow",
		Subsystem: "habit",
		Name:      "followup_failures_total",
		Help:      "Post-check-in notification checks that failed",
	}, []string{"step"})

	// SchedulerRuns counts scheduler passes.
	// Labels: job, status (ok, error)
	SchedulerRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lifeflow",
		Subsystem: "scheduler",
		Name:      "runs_total",
		Help:      "Scheduled generator runs",
	}, []string{"job", "status"})

	// SSEClients is the number of connected event stream clients.
	SSEClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lifeflow",
		Subsystem: "sse",
		Name:      "clients",
		Help:      "Connected Server-Sent Events clients",
	})

	// SSEDropped counts frames discarded because a client fell behind.
	SSEDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lifeflow",
		Subsystem: "sse",
		Name:      "dropped_frames_total",
		Help:      "Event frames dropped for slow clients",
	})

	// RequestDuration measures HTTP handler latency.
	// Labels: method, route, status
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lifeflow",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
