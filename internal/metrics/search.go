package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "encyclopedia",
			Name:      "searches_total",
			Help:      "Total number of searches by answering path",
		},
		[]string{"path"}, // "remote" / "fallback" / "local"
	)

	IndexState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "encyclopedia",
			Name:      "index_state",
			Help:      "Remote index lifecycle state (1 for the current state, 0 otherwise)",
		},
		[]string{"state"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(IndexState)
	searchMetricsRegistered = true
}
