// Package metrics provides Prometheus instrumentation for the toxicity
// monitor: counters for event intake and moderation outcomes, and a histogram
// for classifier round-trip latency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// EventsTotal counts inbound webhook deliveries, labeled by type:
	// "message", "url_verification", "retry", or "other".
	EventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "toxmon_events_total",
		Help: "Total number of inbound Slack event deliveries",
	}, []string{"type"})

	// AuthFailuresTotal counts requests rejected by the signature check.
	AuthFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "toxmon_auth_failures_total",
		Help: "Total number of requests rejected for an invalid signature",
	})

	// ScreenedTotal counts messages resolved by a phrase screen before any
	// classifier call, labeled by rule: "legal_justification" or
	// "explicit_threat".
	ScreenedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "toxmon_screened_total",
		Help: "Total number of messages resolved by a phrase screen",
	}, []string{"rule"})

	// ClassificationsTotal counts classifier calls, labeled by outcome:
	// "toxic", "clean", or "error".
	ClassificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "toxmon_classifications_total",
		Help: "Total number of classification attempts",
	}, []string{"outcome"})

	// WarningsTotal counts warnings posted back to Slack, labeled by category.
	WarningsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "toxmon_warnings_total",
		Help: "Total number of warnings posted to Slack",
	}, []string{"category"})

	// ClassificationLatency records classifier round-trip latency in seconds.
	ClassificationLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "toxmon_classification_latency_seconds",
		Help:    "Classifier round-trip latency in seconds",
		Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 30},
	})
)

func init() {
	prometheus.MustRegister(
		EventsTotal,
		AuthFailuresTotal,
		ScreenedTotal,
		ClassificationsTotal,
		WarningsTotal,
		ClassificationLatency,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
