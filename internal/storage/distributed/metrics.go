package distributed

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	transactionsTotal  *prometheus.CounterVec
	retriesTotal       prometheus.Counter
	transactionSeconds prometheus.Histogram
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	m := &metrics{
		transactionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kvdb_distributed_transactions_total",
				Help: "Total number of distributed engine transactions by outcome.",
			},
			[]string{"outcome"},
		),
		retriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "kvdb_distributed_retries_total",
				Help: "Total number of transaction retries issued after a retryable commit or storage failure.",
			},
		),
		transactionSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kvdb_distributed_transaction_seconds",
				Help:    "Distributed engine transaction duration in seconds, including retries.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	if registerer != nil {
		registerer.MustRegister(m.transactionsTotal, m.retriesTotal, m.transactionSeconds)
	}
	return m
}
