package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"lg/athlete-macro-api/formula"
)

// Collectors are registered once on the default registry at package init so
// handlers (and tests) can build any number of Handler values.
var (
	macroEstimatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "macro_estimates_total",
		Help: "Total number of calorie/macro estimates computed, by sports category and goal",
	}, []string{"sports_category", "goal"})

	recommendationRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_requests_total",
		Help: "Total number of diet recommendation requests, by outcome",
	}, []string{"outcome"})

	llmRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "llm_request_duration_seconds",
		Help:    "Duration of chat-completion gateway calls",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})
)

// observeEstimate counts one pipeline run.
func observeEstimate(p formula.Profile) {
	macroEstimatesTotal.WithLabelValues(string(p.SportsCategory), string(p.Goal)).Inc()
}
