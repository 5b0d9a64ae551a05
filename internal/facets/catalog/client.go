// internal/facets/catalog/client.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	apperrors "marketplace-facets/internal/common/errors"
	"marketplace-facets/internal/common/graphql"
	"marketplace-facets/internal/common/logger"
	"marketplace-facets/internal/models"
)

const (
	opAttributes   = "getAttributesByCategorySlug"
	opAggregations = "listingsAggregations"
)

const queryAttributes = `
query AttributesByCategorySlug($slug: String!) {
  getAttributesByCategorySlug(categorySlug: $slug) {
    categoryId
    categorySlug
    attributes {
      key
      name
      type
      sortOrder
      groupName
      groupOrder
      showInFilter
      options { key value sortOrder modelId modelName }
    }
  }
}`

const queryAggregations = `
query ListingsAggregations($filter: ListingFilterInput) {
  listingsAggregations(filter: $filter) {
    attributes {
      field
      options { key value count modelId modelName }
    }
    provinces { value count }
    totalResults
  }
}`

// Transport is the GraphQL execution dependency, satisfied by
// graphql.Client.
type Transport interface {
	Do(ctx context.Context, operation, query string, variables map[string]interface{}, out interface{}) error
}

// Client fetches the attribute schema and listing aggregations for a
// category. Aggregation responses are cached briefly (2 minutes by default)
// keyed by their scoping filter; cascading recomputes bypass that cache.
type Client struct {
	gql    Transport
	logger logger.Logger
	aggTTL time.Duration

	mu       sync.Mutex
	aggCache map[string]aggEntry
}

type aggEntry struct {
	result    *models.AggregationResult
	fetchedAt time.Time
}

func NewClient(gql Transport, aggTTL time.Duration, log logger.Logger) *Client {
	return &Client{
		gql:      gql,
		logger:   log.WithFields(map[string]interface{}{"component": "catalog"}),
		aggTTL:   aggTTL,
		aggCache: make(map[string]aggEntry),
	}
}

// AttributesByCategorySlug fetches the raw attribute schema for a category.
func (c *Client) AttributesByCategorySlug(ctx context.Context, slug string) (*models.CategoryAttributes, error) {
	var payload attributesPayload
	err := c.gql.Do(ctx, opAttributes, queryAttributes, map[string]interface{}{"slug": slug}, &payload)
	if err != nil {
		return nil, c.mapError(opAttributes, err)
	}
	if payload.AttributesByCategorySlug == nil {
		return nil, apperrors.NewInvalidCategoryError(slug)
	}
	return payload.AttributesByCategorySlug, nil
}

// ListingsAggregations fetches counts-per-option scoped by filter.
func (c *Client) ListingsAggregations(ctx context.Context, filter models.AggregationFilter, opts AggregationOptions) (*models.AggregationResult, error) {
	key, err := cacheKey(filter)
	if err != nil {
		return nil, apperrors.NewAggregationFetchFailedError(err)
	}

	if !opts.BypassCache {
		if cached := c.cachedAggregation(key); cached != nil {
			return cached, nil
		}
	}

	var payload aggregationsPayload
	err = c.gql.Do(ctx, opAggregations, queryAggregations, map[string]interface{}{"filter": filter}, &payload)
	if err != nil {
		return nil, c.mapError(opAggregations, err)
	}

	if err := validateAggregation(payload.ListingsAggregations); err != nil {
		return nil, err
	}

	var result models.AggregationResult
	if err := json.Unmarshal(payload.ListingsAggregations, &result); err != nil {
		return nil, apperrors.NewMalformedResponseError(err.Error())
	}

	c.mu.Lock()
	c.aggCache[key] = aggEntry{result: &result, fetchedAt: time.Now()}
	c.mu.Unlock()

	return &result, nil
}

func (c *Client) cachedAggregation(key string) *models.AggregationResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.aggCache[key]; ok && time.Since(e.fetchedAt) < c.aggTTL {
		return e.result
	}
	return nil
}

// cacheKey is the filter's canonical JSON; encoding/json sorts spec keys so
// equal filters always collide.
func cacheKey(filter models.AggregationFilter) (string, error) {
	b, err := json.Marshal(filter)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *Client) mapError(operation string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, graphql.ErrAPI):
		return apperrors.NewGraphQLAPIError(operation, err.Error())
	case errors.Is(err, graphql.ErrDecode):
		return apperrors.NewMalformedResponseError(err.Error())
	default:
		return apperrors.NewGraphQLTransportError(err)
	}
}
