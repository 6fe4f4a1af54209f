package metrics

import "github.com/prometheus/client_golang/prometheus"

// Indexer Prometheus metrics.
var (
	IndexerProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "indexer_processed_total",
			Help:      "Items run through the embedding indexer",
		},
		[]string{"kind", "status"},
	)

	IndexerUnindexed = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "searchd",
			Name:      "indexer_unindexed",
			Help:      "Items still missing an embedding, per kind",
		},
		[]string{"kind"},
	)
)

var indexerMetricsRegistered bool

// RegisterIndexerMetrics registers Prometheus indexer metrics. Must be called once from main.
func RegisterIndexerMetrics() {
	if indexerMetricsRegistered {
		return
	}
	prometheus.MustRegister(IndexerProcessedTotal)
	prometheus.MustRegister(IndexerUnindexed)
	indexerMetricsRegistered = true
}
