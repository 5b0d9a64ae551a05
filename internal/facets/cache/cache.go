// internal/facets/cache/cache.go

// Package cache implements the facet snapshot cache: an in-memory TTL map
// keyed by category slug, optionally backed by a shared Redis level so
// sibling instances can reuse each other's snapshots.
package cache

import (
	"context"
	"sync"
	"time"

	apperrors "marketplace-facets/internal/common/errors"
	"marketplace-facets/internal/common/logger"
	"marketplace-facets/internal/common/metrics"
	"marketplace-facets/internal/facets/catalog"
	"marketplace-facets/internal/facets/merge"
	"marketplace-facets/internal/models"
)

// CatalogClient is the backend dependency, satisfied by catalog.Client.
type CatalogClient interface {
	AttributesByCategorySlug(ctx context.Context, slug string) (*models.CategoryAttributes, error)
	ListingsAggregations(ctx context.Context, filter models.AggregationFilter, opts catalog.AggregationOptions) (*models.AggregationResult, error)
}

// SharedStore is the optional second cache level. A nil snapshot with a nil
// error means miss.
type SharedStore interface {
	GetSnapshot(ctx context.Context, key string) (*models.Snapshot, error)
	PutSnapshot(ctx context.Context, key string, snap *models.Snapshot, ttl time.Duration) error
}

type entry struct {
	snap      *models.Snapshot
	fetchedAt time.Time
}

// Cache loads facet snapshots, serving cached ones while fresh. Snapshots
// are published all-or-nothing: a failed load leaves the previously cached
// snapshot untouched.
type Cache struct {
	catalog CatalogClient
	shared  SharedStore // may be nil
	ttl     time.Duration
	logger  logger.Logger

	mu      sync.RWMutex
	entries map[string]entry
}

func New(catalogClient CatalogClient, shared SharedStore, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{
		catalog: catalogClient,
		shared:  shared,
		ttl:     ttl,
		logger:  log.WithFields(map[string]interface{}{"component": "facetcache"}),
		entries: make(map[string]entry),
	}
}

// LoadFacets returns the facet snapshot for a category, fetching schema and
// aggregation counts only when no fresh snapshot is cached. The TTL check is
// synchronous, so a fresh hit never races with a fetch. Returned snapshots
// are shared; callers must treat them as immutable.
func (c *Cache) LoadFacets(ctx context.Context, categorySlug, listingType string) (*models.Snapshot, error) {
	if categorySlug == "" {
		return nil, apperrors.NewInvalidCategoryError(categorySlug)
	}

	key := cacheKey(categorySlug, listingType)

	if snap := c.fresh(key); snap != nil {
		metrics.FacetCacheHits.WithLabelValues("memory").Inc()
		return snap, nil
	}

	if snap := c.fromShared(ctx, key); snap != nil {
		metrics.FacetCacheHits.WithLabelValues("shared").Inc()
		c.put(key, snap)
		return snap, nil
	}

	start := time.Now()
	snap, err := c.fetch(ctx, categorySlug, listingType)
	if err != nil {
		metrics.FacetFetches.WithLabelValues(categorySlug, "error").Inc()
		return nil, err
	}
	metrics.FacetFetches.WithLabelValues(categorySlug, "success").Inc()
	metrics.FacetFetchDuration.WithLabelValues(categorySlug).Observe(time.Since(start).Seconds())

	c.put(key, snap)
	c.toShared(ctx, key, snap)

	return snap, nil
}

// Invalidate drops the cached snapshot for a category, forcing the next load
// to fetch.
func (c *Cache) Invalidate(categorySlug, listingType string) {
	c.mu.Lock()
	delete(c.entries, cacheKey(categorySlug, listingType))
	c.mu.Unlock()
}

func (c *Cache) fetch(ctx context.Context, categorySlug, listingType string) (*models.Snapshot, error) {
	schema, err := c.catalog.AttributesByCategorySlug(ctx, categorySlug)
	if err != nil {
		if stdErr, ok := err.(*apperrors.StandardError); ok && stdErr.Code == apperrors.ErrCodeInvalidCategory {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, apperrors.NewSchemaFetchFailedError(categorySlug, err)
	}

	filter := models.AggregationFilter{
		CategoryID:  schema.CategoryID,
		ListingType: listingType,
	}
	agg, err := c.catalog.ListingsAggregations(ctx, filter, catalog.AggregationOptions{})
	if err != nil {
		if _, ok := err.(*apperrors.StandardError); ok {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, apperrors.NewAggregationFetchFailedError(err)
	}

	return merge.Merge(schema, agg, listingType), nil
}

func (c *Cache) fresh(key string) *models.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[key]; ok && time.Since(e.fetchedAt) < c.ttl {
		return e.snap
	}
	return nil
}

func (c *Cache) put(key string, snap *models.Snapshot) {
	c.mu.Lock()
	c.entries[key] = entry{snap: snap, fetchedAt: time.Now()}
	c.mu.Unlock()
}

// Shared-level failures degrade to a normal fetch; they never fail the load.
func (c *Cache) fromShared(ctx context.Context, key string) *models.Snapshot {
	if c.shared == nil {
		return nil
	}
	snap, err := c.shared.GetSnapshot(ctx, key)
	if err != nil {
		c.logger.Warn("shared cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil
	}
	if snap == nil || time.Since(snap.FetchedAt) >= c.ttl {
		return nil
	}
	return snap
}

func (c *Cache) toShared(ctx context.Context, key string, snap *models.Snapshot) {
	if c.shared == nil {
		return
	}
	if err := c.shared.PutSnapshot(ctx, key, snap, c.ttl); err != nil {
		c.logger.Warn("shared cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func cacheKey(categorySlug, listingType string) string {
	if listingType == "" {
		return categorySlug
	}
	return categorySlug + "|" + listingType
}
