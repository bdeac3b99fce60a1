package hypergraph

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "hyperlath"
	subsystem        = "hypergraph"

	opAddHyperedge    = "add_hyperedge"
	opRemoveHyperedge = "remove_hyperedge"

	statusSuccess = "success"
	statusError   = "error"
)

var (
	// Structure mutation metrics
	AddHyperedgeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "add_hyperedge_total",
			Help:      "Total number of add hyperedge batches",
		},
		[]string{"status"},
	)

	RemoveHyperedgeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "remove_hyperedge_total",
			Help:      "Total number of remove hyperedge batches",
		},
		[]string{"status"},
	)

	MutationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "mutation_duration_seconds",
			Help:      "Time taken to apply a structure mutation batch",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	// Aggregation metrics
	AggregationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "aggregation_total",
			Help:      "Total number of message-passing aggregation calls",
		},
		[]string{"direction", "aggr", "status"},
	)

	AggregationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "aggregation_duration_seconds",
			Help:      "Time taken by a message-passing aggregation call",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"direction"},
	)

	// Derived matrix cache metrics
	CacheHitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "cache_hit_total",
			Help:      "Derived matrix cache hits",
		},
		[]string{"scope"},
	)

	CacheMissTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "cache_miss_total",
			Help:      "Derived matrix cache misses (lazy materializations)",
		},
		[]string{"scope"},
	)
)

func statusOf(err error) string {
	if err != nil {
		return statusError
	}

	return statusSuccess
}

func observeMutation(op string, err error, start time.Time) {
	switch op {
	case opAddHyperedge:
		AddHyperedgeTotal.WithLabelValues(statusOf(err)).Inc()
	case opRemoveHyperedge:
		RemoveHyperedgeTotal.WithLabelValues(statusOf(err)).Inc()
	}
	MutationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func observeAggregation(direction string, aggr AggrMethod, err error, start time.Time) {
	AggregationTotal.WithLabelValues(direction, string(aggr), statusOf(err)).Inc()
	AggregationDuration.WithLabelValues(direction).Observe(time.Since(start).Seconds())
}

func observeCacheHit(scope string) {
	CacheHitTotal.WithLabelValues(scopeLabel(scope)).Inc()
}

func observeCacheMiss(scope string) {
	CacheMissTotal.WithLabelValues(scopeLabel(scope)).Inc()
}

func scopeLabel(scope string) string {
	if scope == "" {
		return "global"
	}

	return "group"
}
