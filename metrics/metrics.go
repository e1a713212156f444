// Package metrics provides Prometheus metrics for the query pipeline
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments fed by the query executor.
type Metrics struct {
	RangesScanned   prometheus.Counter
	EntriesScanned  prometheus.Counter
	EntriesNarrowed prometheus.Counter
	FullScansTotal  prometheus.Counter
	CountQueries    prometheus.Counter
	PlanCacheHits   prometheus.Counter
	PlanCacheMisses prometheus.Counter
}

// New creates metrics registered on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RangesScanned: factory.NewCounter(prometheus.CounterOpts{
			Name: "doclitedb_index_ranges_scanned_total",
			Help: "Number of composed index ranges executed",
		}),
		EntriesScanned: factory.NewCounter(prometheus.CounterOpts{
			Name: "doclitedb_index_entries_scanned_total",
			Help: "Raw index entries pulled from the engine",
		}),
		EntriesNarrowed: factory.NewCounter(prometheus.CounterOpts{
			Name: "doclitedb_index_entries_narrowed_total",
			Help: "Entries rejected by residual key-level predicates",
		}),
		FullScansTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "doclitedb_index_full_scans_total",
			Help: "Queries that fell back to a full partition scan",
		}),
		CountQueries: factory.NewCounter(prometheus.CounterOpts{
			Name: "doclitedb_index_count_queries_total",
			Help: "Count-only queries answered from raw key counts",
		}),
		PlanCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "doclitedb_plan_cache_hits_total",
			Help: "Filter plans served from the plan cache",
		}),
		PlanCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "doclitedb_plan_cache_misses_total",
			Help: "Filter plans computed because the cache missed",
		}),
	}
}

// NewNop creates metrics on a throwaway registry, for callers that do not
// export metrics.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
