// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// TurnsTotal tracks processed conversation turns by outcome.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_turns_total",
			Help: "Total conversation turns processed",
		},
		[]string{"outcome"},
	)

	// TurnDuration tracks end-to-end turn processing duration.
	TurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "conversation_turn_duration_seconds",
			Help:    "Turn processing duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30},
		},
	)

	// TurnsQueued tracks turns waiting in the dispatcher.
	TurnsQueued = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "conversation_turns_queued",
			Help: "Turns currently queued for processing",
		},
	)

	// InterpretationsTotal tracks interpreter invocations by backend and status.
	InterpretationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interpretations_total",
			Help: "Total text interpretation calls",
		},
		[]string{"backend", "status"},
	)

	// OrdersTotal tracks orders created by status.
	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Total orders created",
		},
		[]string{"status"},
	)

	// MessagesSentTotal tracks outbound messages by delivery status.
	MessagesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_sent_total",
			Help: "Total outbound messages",
		},
		[]string{"status"},
	)

	// ChatLogPublishTotal tracks chat log publishes to the stream.
	ChatLogPublishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatlog_publish_total",
			Help: "Total chat log entries published",
		},
		[]string{"status"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordTurn records metrics for a processed conversation turn.
func RecordTurn(outcome string, duration float64) {
	TurnsTotal.WithLabelValues(outcome).Inc()
	TurnDuration.Observe(duration)
}
