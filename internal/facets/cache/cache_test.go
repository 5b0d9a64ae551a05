// internal/facets/cache/cache_test.go
package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "marketplace-facets/internal/common/errors"
	"marketplace-facets/internal/common/logger"
	"marketplace-facets/internal/facets/catalog"
	"marketplace-facets/internal/models"
)

type fakeCatalog struct {
	schema      *models.CategoryAttributes
	schemaErr   error
	agg         *models.AggregationResult
	aggErr      error
	schemaCalls int
	aggCalls    int
}

func (f *fakeCatalog) AttributesByCategorySlug(ctx context.Context, slug string) (*models.CategoryAttributes, error) {
	f.schemaCalls++
	return f.schema, f.schemaErr
}

func (f *fakeCatalog) ListingsAggregations(ctx context.Context, filter models.AggregationFilter, opts catalog.AggregationOptions) (*models.AggregationResult, error) {
	f.aggCalls++
	return f.agg, f.aggErr
}

type failingStore struct{}

func (failingStore) GetSnapshot(context.Context, string) (*models.Snapshot, error) {
	return nil, errors.New("redis: connection pool timeout")
}

func (failingStore) PutSnapshot(context.Context, string, *models.Snapshot, time.Duration) error {
	return errors.New("redis: connection pool timeout")
}

type memoryStore struct {
	snaps map[string]*models.Snapshot
}

func newMemoryStore() *memoryStore {
	return &memoryStore{snaps: make(map[string]*models.Snapshot)}
}

func (m *memoryStore) GetSnapshot(_ context.Context, key string) (*models.Snapshot, error) {
	return m.snaps[key], nil
}

func (m *memoryStore) PutSnapshot(_ context.Context, key string, snap *models.Snapshot, _ time.Duration) error {
	m.snaps[key] = snap
	return nil
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{
		schema: &models.CategoryAttributes{
			CategoryID:   "cat-cars",
			CategorySlug: "cars",
			Attributes: []models.Attribute{
				{Key: models.KeyBrand, Name: "Brand", Type: models.AttributeTypeSelect, ShowInFilter: true},
			},
		},
		agg: &models.AggregationResult{
			Attributes: []models.AggregationField{
				{Field: models.KeyBrand, Options: []models.AttributeOption{
					{Key: "toyota", Value: "Toyota", Count: 10},
				}},
			},
			TotalResults: 10,
		},
	}
}

func TestLoadFacets_FreshHitSkipsFetch(t *testing.T) {
	cat := testCatalog()
	c := New(cat, nil, 5*time.Minute, logger.NewTestLogger(t))

	first, err := c.LoadFacets(context.Background(), "cars", "sale")
	require.NoError(t, err)

	second, err := c.LoadFacets(context.Background(), "cars", "sale")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cat.schemaCalls)
	assert.Equal(t, 1, cat.aggCalls)
}

func TestLoadFacets_ExpiredEntryRefetches(t *testing.T) {
	cat := testCatalog()
	c := New(cat, nil, time.Nanosecond, logger.NewTestLogger(t))

	_, err := c.LoadFacets(context.Background(), "cars", "")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	_, err = c.LoadFacets(context.Background(), "cars", "")
	require.NoError(t, err)
	assert.Equal(t, 2, cat.schemaCalls)
}

func TestLoadFacets_ListingTypesCachedSeparately(t *testing.T) {
	cat := testCatalog()
	c := New(cat, nil, 5*time.Minute, logger.NewTestLogger(t))

	_, err := c.LoadFacets(context.Background(), "cars", "sale")
	require.NoError(t, err)
	_, err = c.LoadFacets(context.Background(), "cars", "rent")
	require.NoError(t, err)

	assert.Equal(t, 2, cat.schemaCalls)
}

func TestLoadFacets_EmptySlugRejected(t *testing.T) {
	c := New(testCatalog(), nil, 5*time.Minute, logger.NewTestLogger(t))

	_, err := c.LoadFacets(context.Background(), "", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidCategory, apperrors.CodeOf(err))
}

func TestLoadFacets_SchemaErrorWrapped(t *testing.T) {
	cat := testCatalog()
	cat.schemaErr = errors.New("dial tcp: connection refused")
	cat.schema = nil
	c := New(cat, nil, 5*time.Minute, logger.NewTestLogger(t))

	_, err := c.LoadFacets(context.Background(), "cars", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSchemaFetchFailed, apperrors.CodeOf(err))
}

func TestLoadFacets_InvalidCategoryPassesThrough(t *testing.T) {
	cat := testCatalog()
	cat.schema = nil
	cat.schemaErr = apperrors.NewInvalidCategoryError("bikes")
	c := New(cat, nil, 5*time.Minute, logger.NewTestLogger(t))

	_, err := c.LoadFacets(context.Background(), "bikes", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidCategory, apperrors.CodeOf(err))
}

func TestLoadFacets_FailedLoadKeepsPriorEntryServable(t *testing.T) {
	cat := testCatalog()
	c := New(cat, nil, time.Nanosecond, logger.NewTestLogger(t))

	first, err := c.LoadFacets(context.Background(), "cars", "")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	cat.aggErr = errors.New("backend down")
	_, err = c.LoadFacets(context.Background(), "cars", "")
	require.Error(t, err)

	// the failed load did not evict the prior entry
	c.ttl = time.Hour
	again, err := c.LoadFacets(context.Background(), "cars", "")
	require.NoError(t, err)
	assert.Same(t, first, again)
}

func TestLoadFacets_SharedLevelServesSiblingInstance(t *testing.T) {
	shared := newMemoryStore()

	catA := testCatalog()
	a := New(catA, shared, 5*time.Minute, logger.NewTestLogger(t))
	_, err := a.LoadFacets(context.Background(), "cars", "sale")
	require.NoError(t, err)

	catB := testCatalog()
	b := New(catB, shared, 5*time.Minute, logger.NewTestLogger(t))
	snap, err := b.LoadFacets(context.Background(), "cars", "sale")
	require.NoError(t, err)

	assert.Equal(t, 0, catB.schemaCalls)
	assert.Equal(t, 0, catB.aggCalls)
	assert.Equal(t, 10, snap.TotalResults)
}

func TestLoadFacets_SharedFailureDegradesToFetch(t *testing.T) {
	cat := testCatalog()
	c := New(cat, failingStore{}, 5*time.Minute, logger.NewTestLogger(t))

	snap, err := c.LoadFacets(context.Background(), "cars", "")
	require.NoError(t, err)
	assert.Equal(t, 10, snap.TotalResults)
	assert.Equal(t, 1, cat.schemaCalls)
}

func TestInvalidate_ForcesRefetch(t *testing.T) {
	cat := testCatalog()
	c := New(cat, nil, 5*time.Minute, logger.NewTestLogger(t))

	_, err := c.LoadFacets(context.Background(), "cars", "sale")
	require.NoError(t, err)

	c.Invalidate("cars", "sale")

	_, err = c.LoadFacets(context.Background(), "cars", "sale")
	require.NoError(t, err)
	assert.Equal(t, 2, cat.schemaCalls)
}
