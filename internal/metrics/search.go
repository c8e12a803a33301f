package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "illustra",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"scope"},
	)

	SearchCandidatesTotal = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "illustra",
			Name:      "search_candidates",
			Help:      "Number of candidates scored per search",
			Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"scope"},
	)

	// DimensionMismatchTotal counts per-record dimension anomalies: embeddings
	// with an unexpected length or zero norm. Non-fatal by contract; the
	// affected dimension is scored as absent.
	DimensionMismatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "illustra",
			Name:      "dimension_mismatch_total",
			Help:      "Candidate embeddings skipped due to length mismatch or zero norm",
		},
		[]string{"dimension", "reason"}, // reason: "length" / "zero_norm"
	)

	SearchExcludedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "illustra",
			Name:      "search_excluded_candidates_total",
			Help:      "Candidates excluded because no dimension was scorable",
		},
		[]string{"scope"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestDuration)
	prometheus.MustRegister(SearchCandidatesTotal)
	prometheus.MustRegister(DimensionMismatchTotal)
	prometheus.MustRegister(SearchExcludedTotal)
	searchMetricsRegistered = true
}
