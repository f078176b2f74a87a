package statedb

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusStateDBBatchWrite prometheus.Counter
	prometheusStateDBBatchOps   prometheus.Counter
	prometheusStateDBValidate   prometheus.Counter

	// only init the metrics once
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusStateDBBatchWrite = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "statedb_batch_write",
			Help: "Number of batches committed to the state database",
		},
	)
	prometheusStateDBBatchOps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "statedb_batch_ops",
			Help: "Number of keys written or deleted in state database batches",
		},
	)
	prometheusStateDBValidate = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "statedb_validate",
			Help: "Number of full name database validations run",
		},
	)
}
