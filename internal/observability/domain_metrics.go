package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	askOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdata_ask_outcomes_total",
			Help: "Total number of ask requests by terminal state.",
		},
		[]string{"outcome"},
	)
	oracleLatencySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "askdata_oracle_latency_seconds",
			Help:    "Latency of completion oracle calls in seconds.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)
	queryLatencySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "askdata_query_latency_seconds",
			Help:    "Latency of generated query execution in seconds.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
	resultRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "askdata_result_rows",
			Help:    "Number of rows returned per successful ask request.",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		},
	)
)

func init() {
	prometheus.MustRegister(
		askOutcomesTotal,
		oracleLatencySeconds,
		queryLatencySeconds,
		resultRows,
	)
}

func IncrementAskOutcome(outcome string) {
	askOutcomesTotal.WithLabelValues(outcome).Inc()
}

func ObserveOracleLatency(elapsed time.Duration) {
	oracleLatencySeconds.Observe(elapsed.Seconds())
}

func ObserveQuery(elapsed time.Duration, rows int) {
	queryLatencySeconds.Observe(elapsed.Seconds())
	if rows >= 0 {
		resultRows.Observe(float64(rows))
	}
}
