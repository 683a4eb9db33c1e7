// Package metrics registers the Prometheus collectors exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Requests counts research requests by status: success, or the failing stage kind.
	Requests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web_scout_requests_total",
			Help: "Total number of research requests by status",
		},
		[]string{"status"},
	)

	// StageDuration observes each pipeline stage's wall time.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "web_scout_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"stage"},
	)

	// StageFailures counts stage errors.
	StageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web_scout_stage_failures_total",
			Help: "Total number of pipeline stage failures",
		},
		[]string{"stage"},
	)

	// SubQueryFailures counts individual sub-query searches that failed and were skipped.
	SubQueryFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "web_scout_sub_query_failures_total",
			Help: "Total number of sub-query searches skipped after an error",
		},
	)

	// Candidates observes the number of search candidates per request.
	Candidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "web_scout_candidates",
			Help:    "Number of search candidates entering the batch filter",
			Buckets: []float64{0, 5, 10, 15, 20, 30, 50},
		},
	)

	// Selected observes the number of candidates kept by the batch filter.
	Selected = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "web_scout_selected",
			Help:    "Number of candidates selected by the batch filter",
			Buckets: []float64{0, 1, 2, 5, 10, 15, 20, 30},
		},
	)

	// LLMTokens counts tokens reported by the model provider.
	LLMTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web_scout_llm_tokens_total",
			Help: "Total number of model tokens by call and kind (prompt, completion)",
		},
		[]string{"call", "kind"},
	)
)

// ObserveStage records the duration of one stage and, when failed is true, a failure.
func ObserveStage(stage string, d time.Duration, failed bool) {
	StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if failed {
		StageFailures.WithLabelValues(stage).Inc()
	}
}
