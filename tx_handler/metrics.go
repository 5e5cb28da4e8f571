package tx_handler

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusTxValidations *prometheus.CounterVec
	prometheusTxRejections  *prometheus.CounterVec
	prometheusTxAccepted    prometheus.Counter
	prometheusBatchPasses   prometheus.Histogram
	prometheusLedgerSize    *prometheus.GaugeVec
)

var prometheusMetricsInitOnce sync.Once

// initPrometheusMetrics registers the metrics once; registering twice panics.
func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusTxValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scrooge",
			Subsystem: "tx_handler",
			Name:      "validations_total",
			Help:      "Number of single transaction validations by result",
		},
		[]string{"result"},
	)

	prometheusTxRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scrooge",
			Subsystem: "tx_handler",
			Name:      "rejections_total",
			Help:      "Number of failed validations by reason",
		},
		[]string{"reason"},
	)

	prometheusTxAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "scrooge",
			Subsystem: "tx_handler",
			Name:      "accepted_total",
			Help:      "Number of transactions accepted into the ledger",
		},
	)

	prometheusBatchPasses = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "scrooge",
			Subsystem: "tx_handler",
			Name:      "batch_passes",
			Help:      "Passes over the candidate set needed to reach a fixed point",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		},
	)

	prometheusLedgerSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "scrooge",
			Subsystem: "tx_handler",
			Name:      "ledger_size",
			Help:      "Number of unspent outputs after the last epoch, per handler",
		},
		[]string{"handler"},
	)
}
