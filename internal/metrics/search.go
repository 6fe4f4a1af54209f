package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"mode"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchd",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"mode"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchd",
			Name:      "search_results",
			Help:      "Ranked result count per search",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"mode"},
	)

	SearchSourceErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "search_source_errors_total",
			Help:      "Per-source search failures isolated from the response",
		},
		[]string{"source"},
	)
)

// ObserveSearch records one completed search.
func ObserveSearch(mode string, results int, elapsed time.Duration) {
	SearchRequestsTotal.WithLabelValues(mode).Inc()
	SearchDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	SearchResults.WithLabelValues(mode).Observe(float64(results))
}

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(SearchSourceErrorsTotal)
	searchMetricsRegistered = true
}
