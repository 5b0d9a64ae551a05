// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FacetFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facet_fetch_total",
			Help: "Total number of facet loads by outcome",
		},
		[]string{"category", "outcome"},
	)

	FacetFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "facet_fetch_duration_seconds",
			Help: "Duration of facet loads in seconds",
		},
		[]string{"category"},
	)

	FacetCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facet_cache_hits_total",
			Help: "Snapshot cache hits by level (memory, shared)",
		},
		[]string{"level"},
	)

	FacetRecomputes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facet_recompute_total",
			Help: "Total number of cascading recomputes by outcome",
		},
		[]string{"category", "outcome"},
	)

	FacetRecomputesDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "facet_recompute_discarded_total",
			Help: "Recompute responses discarded because a newer request superseded them",
		},
	)
)
