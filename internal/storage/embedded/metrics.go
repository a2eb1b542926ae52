package embedded

import "github.com/prometheus/client_golang/prometheus"

// metrics holds the Prometheus collectors for one Engine instance.
type metrics struct {
	transactionsTotal  *prometheus.CounterVec
	transactionSeconds prometheus.Histogram
	flushErrorsTotal   prometheus.Counter
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	m := &metrics{
		transactionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kvdb_embedded_transactions_total",
				Help: "Total number of embedded engine transactions by outcome.",
			},
			[]string{"outcome"},
		),
		transactionSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kvdb_embedded_transaction_seconds",
				Help:    "Embedded engine transaction duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
		),
		flushErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "kvdb_embedded_flush_errors_total",
				Help: "Total number of staged-batch flush failures.",
			},
		),
	}
	if registerer != nil {
		registerer.MustRegister(m.transactionsTotal, m.transactionSeconds, m.flushErrorsTotal)
	}
	return m
}
