package state

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusStateCoinAdd       prometheus.Counter
	prometheusStateCoinSpend     prometheus.Counter
	prometheusStateNameSet       prometheus.Counter
	prometheusStateNameDelete    prometheus.Counter
	prometheusStateFlush         prometheus.Counter
	prometheusStateMergedEntries prometheus.Counter

	// only init the metrics once
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusStateCoinAdd = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "state_coin_add",
			Help: "Number of coins added to the cache view",
		},
	)
	prometheusStateCoinSpend = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "state_coin_spend",
			Help: "Number of coins spent through the cache view",
		},
	)
	prometheusStateNameSet = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "state_name_set",
			Help: "Number of name records written through the cache view",
		},
	)
	prometheusStateNameDelete = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "state_name_delete",
			Help: "Number of name records deleted through the cache view",
		},
	)
	prometheusStateFlush = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "state_flush",
			Help: "Number of cache view flushes",
		},
	)
	prometheusStateMergedEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "state_merged_entries",
			Help: "Number of coin entries merged during batch writes",
		},
	)
}
