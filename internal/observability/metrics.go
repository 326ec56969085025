package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	hintRequestsTotal    *prometheus.CounterVec
	hintLatencySeconds   *prometheus.HistogramVec
	hintsServedTotal     *prometheus.CounterVec
	learningUpdatesTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the hint engine.
func RegisterMetrics() {
	registerOnce.Do(func() {
		hintRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hint_requests_total",
			Help: "Total number of hint API requests served.",
		}, []string{"method", "route", "status"})

		hintLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hint_request_duration_seconds",
			Help:    "Latency distribution for hint API requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"method", "route"})

		hintsServedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hints_served_total",
			Help: "Hints emitted, labelled by didactic category and disclosure level.",
		}, []string{"category", "level"})

		learningUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "learning_updates_total",
			Help: "Feedback recorder updates applied to learning records.",
		}, []string{"improved"})

		prometheus.MustRegister(hintRequestsTotal, hintLatencySeconds, hintsServedTotal, learningUpdatesTotal)
	})
}

// HintRequests exposes the counter for hint API requests.
func HintRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return hintRequestsTotal
}

// HintLatency exposes the latency histogram for hint API requests.
func HintLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return hintLatencySeconds
}

// HintsServed exposes the counter for emitted hints.
func HintsServed() *prometheus.CounterVec {
	RegisterMetrics()
	return hintsServedTotal
}

// LearningUpdates exposes the counter for learning record updates.
func LearningUpdates() *prometheus.CounterVec {
	RegisterMetrics()
	return learningUpdatesTotal
}
