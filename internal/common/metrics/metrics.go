// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	RosterOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_operations_total",
			Help: "Roster operations by activity, action and outcome",
		},
		[]string{"activity", "action", "outcome"},
	)

	RosterParticipants = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "roster_participants",
			Help: "Current number of participants per activity",
		},
		[]string{"activity"},
	)

	EventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roster_events_dropped_total",
			Help: "Roster events dropped because the dispatch queue was full",
		},
	)

	EventsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_events_delivered_total",
			Help: "Roster events delivered per sink",
		},
		[]string{"sink"},
	)

	EventsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_events_failed_total",
			Help: "Roster event deliveries that failed per sink",
		},
		[]string{"sink"},
	)
)

// Outcome labels for RosterOperations.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)
