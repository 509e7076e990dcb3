package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "renalert_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "renalert_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Alert engine metrics
	ConsultationsEvaluated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "renalert_consultations_evaluated_total",
			Help: "Total number of consultation evaluation passes",
		},
	)

	AlertsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "renalert_alerts_generated_total",
			Help: "Total number of clinical alerts generated",
		},
		[]string{"type", "severity"},
	)

	EvaluationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "renalert_evaluation_failures_total",
			Help: "Total number of evaluator failures, by metric type",
		},
		[]string{"type"},
	)

	AlertPersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "renalert_alert_persist_failures_total",
			Help: "Total number of alerts that could not be persisted",
		},
	)

	ThresholdSeeds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "renalert_threshold_seeds_total",
			Help: "Total number of default threshold rows seeded",
		},
		[]string{"type"},
	)

	// Notification metrics
	NotifyPublishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "renalert_notify_publish_total",
			Help: "Total number of alert events published to Kafka",
		},
		[]string{"status"}, // status: success, failed, dropped
	)

	// Panic recovery
	PanicsRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "renalert_panics_recovered_total",
			Help: "Total number of panics recovered",
		},
		[]string{"component"},
	)
)
