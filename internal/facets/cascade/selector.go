// internal/facets/cascade/selector.go

// Package cascade recomputes facet availability and counts when the applied
// filter set changes. Chain-top and plain facets keep their option identities
// across recomputes (a zero-count sibling stays visible and switchable);
// dependent facets are replaced wholesale because their options are only
// meaningful under the current parent selection.
package cascade

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	apperrors "marketplace-facets/internal/common/errors"
	"marketplace-facets/internal/common/logger"
	"marketplace-facets/internal/common/metrics"
	"marketplace-facets/internal/facets/catalog"
	"marketplace-facets/internal/models"
)

// ErrSuperseded marks a recompute whose response landed after a newer
// recompute had already been issued. Callers discard the result and keep
// their current state; this replaces the last-write-wins race of letting
// overlapping responses publish in arrival order.
var ErrSuperseded = errors.New("recompute superseded by a newer request")

// AggregationClient is the backend dependency, satisfied by catalog.Client.
type AggregationClient interface {
	ListingsAggregations(ctx context.Context, filter models.AggregationFilter, opts catalog.AggregationOptions) (*models.AggregationResult, error)
}

// Selector derives updated snapshots from the current one plus a fresh,
// filter-scoped aggregation.
type Selector struct {
	catalog AggregationClient
	timeout time.Duration
	logger  logger.Logger
	gen     atomic.Uint64
}

func NewSelector(catalogClient AggregationClient, timeout time.Duration, log logger.Logger) *Selector {
	return &Selector{
		catalog: catalogClient,
		timeout: timeout,
		logger:  log.WithFields(map[string]interface{}{"component": "cascade"}),
	}
}

// Recompute issues one aggregation query scoped by the applied filters and
// rebuilds the snapshot's counts. The previous snapshot is never mutated; on
// any error the caller's state stays as it was.
func (s *Selector) Recompute(ctx context.Context, prev *models.Snapshot, applied map[string]string) (*models.Snapshot, error) {
	gen := s.gen.Add(1)

	filter := models.BuildAggregationFilter(prev.CategoryID, prev.ListingType, applied)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	agg, err := s.catalog.ListingsAggregations(ctx, filter, catalog.AggregationOptions{BypassCache: true})
	if err != nil {
		metrics.FacetRecomputes.WithLabelValues(prev.CategorySlug, "error").Inc()
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewAggregationTimeoutError(s.timeout)
		}
		if _, ok := err.(*apperrors.StandardError); ok {
			return nil, err
		}
		return nil, apperrors.NewAggregationFetchFailedError(err)
	}

	// Only the latest request is authoritative.
	if gen != s.gen.Load() {
		metrics.FacetRecomputesDiscarded.Inc()
		s.logger.Debug("discarding superseded recompute", map[string]interface{}{
			"category":   prev.CategorySlug,
			"generation": gen,
		})
		return nil, ErrSuperseded
	}

	next := s.apply(prev, agg)
	metrics.FacetRecomputes.WithLabelValues(prev.CategorySlug, "success").Inc()
	return next, nil
}

func (s *Selector) apply(prev *models.Snapshot, agg *models.AggregationResult) *models.Snapshot {
	next := prev.Clone()
	next.FetchedAt = time.Now()
	next.TotalResults = agg.TotalResults

	for i := range next.Attributes {
		attr := &next.Attributes[i]
		switch {
		case models.IsChainDependent(attr.Key):
			// Dependent facet: whatever the aggregation reports is the
			// complete option list; no stale options are retained.
			attr.Options = replaceOptions(agg, attr.Key)
		case attr.Key == models.KeyProvince || attr.Key == models.KeyLocation:
			refreshCounts(attr, provinceCounts(agg))
		default:
			// Chain top and plain attributes keep their options so the user
			// can still switch to a zero-count sibling.
			refreshCounts(attr, agg.CountsByKey(attr.Key))
		}
	}

	return next
}

func replaceOptions(agg *models.AggregationResult, key string) []models.AttributeOption {
	src := agg.FieldOptions(key)
	if src == nil {
		return nil
	}
	out := make([]models.AttributeOption, len(src))
	copy(out, src)
	return out
}

func refreshCounts(attr *models.Attribute, counts map[string]int) {
	for i := range attr.Options {
		attr.Options[i].Count = counts[attr.Options[i].Key]
	}
}

func provinceCounts(agg *models.AggregationResult) map[string]int {
	if len(agg.Provinces) == 0 {
		return nil
	}
	counts := make(map[string]int, len(agg.Provinces))
	for _, p := range agg.Provinces {
		counts[p.Value] = p.Count
	}
	return counts
}
