// Package metrics provides Prometheus instrumentation for prompt compilation,
// evaluation, and refinement.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// compilationsTotal counts prompt compilations.
	// Labels:
	//   - source: where the snapshot came from ("stored", "stateless")
	compilationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quill_compilations_total",
			Help: "Total number of prompt compilations",
		},
		[]string{"source"},
	)

	// evaluationsTotal counts rubric evaluations.
	// Labels:
	//   - source: where the snapshot came from ("stored", "stateless")
	evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quill_evaluations_total",
			Help: "Total number of rubric evaluations",
		},
		[]string{"source"},
	)

	// evaluationScore observes total rubric scores.
	// Buckets span the 0-100 score range in steps of 10.
	evaluationScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quill_evaluation_score",
			Help:    "Distribution of rubric evaluation total scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	// refinementsTotal counts refinement proxy calls.
	// Labels:
	//   - provider: LLM provider name (e.g., "openai", "ollama")
	//   - status: outcome ("success", "error")
	refinementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quill_refinements_total",
			Help: "Total number of refinement proxy calls",
		},
		[]string{"provider", "status"},
	)

	// refinementDuration observes refinement round-trip durations.
	// Buckets: 0.5s through 120s.
	refinementDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quill_refinement_duration_seconds",
			Help:    "Duration of refinement provider round trips in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider"},
	)

	// exportsTotal counts export operations.
	// Labels:
	//   - status: outcome ("success", "error")
	exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quill_exports_total",
			Help: "Total number of spec export operations",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(compilationsTotal)
	prometheus.MustRegister(evaluationsTotal)
	prometheus.MustRegister(evaluationScore)
	prometheus.MustRegister(refinementsTotal)
	prometheus.MustRegister(refinementDuration)
	prometheus.MustRegister(exportsTotal)
}

// RecordCompilation records a prompt compilation for the given source.
func RecordCompilation(source string) {
	compilationsTotal.WithLabelValues(source).Inc()
}

// RecordEvaluation records a rubric evaluation and its total score.
func RecordEvaluation(source string, score int) {
	evaluationsTotal.WithLabelValues(source).Inc()
	evaluationScore.Observe(float64(score))
}

// RecordRefinement records a refinement call outcome and duration.
func RecordRefinement(provider, status string, durationSeconds float64) {
	refinementsTotal.WithLabelValues(provider, status).Inc()
	refinementDuration.WithLabelValues(provider).Observe(durationSeconds)
}

// RecordExport records an export outcome.
func RecordExport(status string) {
	exportsTotal.WithLabelValues(status).Inc()
}
