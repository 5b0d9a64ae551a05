// internal/facets/store/store_test.go
package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "marketplace-facets/internal/common/errors"
	"marketplace-facets/internal/common/logger"
	"marketplace-facets/internal/facets/cascade"
	"marketplace-facets/internal/models"
)

type fakeLoader struct {
	snap  *models.Snapshot
	err   error
	calls int
}

func (f *fakeLoader) LoadFacets(ctx context.Context, categorySlug, listingType string) (*models.Snapshot, error) {
	f.calls++
	return f.snap, f.err
}

type fakeSelector struct {
	next    *models.Snapshot
	err     error
	applied map[string]string
	calls   int
}

func (f *fakeSelector) Recompute(ctx context.Context, prev *models.Snapshot, applied map[string]string) (*models.Snapshot, error) {
	f.calls++
	f.applied = applied
	return f.next, f.err
}

func loadedSnapshot() *models.Snapshot {
	return &models.Snapshot{
		CategorySlug: "cars",
		CategoryID:   "cat-cars",
		TotalResults: 20,
		Attributes: []models.Attribute{
			{Key: models.KeyBrand, Name: "Brand", Options: []models.AttributeOption{
				{Key: "toyota", Value: "Toyota", Count: 20},
			}},
		},
	}
}

func filter(key, raw string) models.AppliedFilter {
	return models.AppliedFilter{Key: key, Raw: raw}
}

func appliedKeys(s *Store) []string {
	state := s.State()
	keys := make([]string, len(state.AppliedFilters))
	for i, f := range state.AppliedFilters {
		keys[i] = f.Key
	}
	return keys
}

func TestFetchFilterData_PublishesSnapshot(t *testing.T) {
	loader := &fakeLoader{snap: loadedSnapshot()}
	s := New("cars", "sale", loader, &fakeSelector{}, logger.NewTestLogger(t))

	s.FetchFilterData(context.Background())

	state := s.State()
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Err)
	assert.Equal(t, 20, state.TotalResults)
	require.Len(t, state.Attributes, 1)
	assert.Equal(t, models.KeyBrand, state.Attributes[0].Key)
}

func TestFetchFilterData_ErrorKeepsPriorState(t *testing.T) {
	loader := &fakeLoader{snap: loadedSnapshot()}
	s := New("cars", "sale", loader, &fakeSelector{}, logger.NewTestLogger(t))
	s.FetchFilterData(context.Background())

	loader.snap = nil
	loader.err = apperrors.NewSchemaFetchFailedError("cars", assert.AnError)
	s.FetchFilterData(context.Background())

	state := s.State()
	assert.NotEmpty(t, state.Err)
	assert.Equal(t, 20, state.TotalResults)
	assert.Len(t, state.Attributes, 1)
}

func TestAddFilter_SelectingParentClearsDescendants(t *testing.T) {
	s := New("cars", "", &fakeLoader{}, &fakeSelector{}, logger.NewTestLogger(t))

	s.AddFilter(filter(models.KeyBrand, "toyota"))
	s.AddFilter(filter(models.KeyModel, "camry"))
	s.AddFilter(filter(models.KeyVariant, "camry-se"))
	s.AddFilter(filter("fuelType", "petrol"))

	s.AddFilter(filter(models.KeyBrand, "nissan"))

	assert.Equal(t, []string{"fuelType", models.KeyBrand}, appliedKeys(s))
}

func TestAddFilter_SelectingModelClearsVariantOnly(t *testing.T) {
	s := New("cars", "", &fakeLoader{}, &fakeSelector{}, logger.NewTestLogger(t))

	s.AddFilter(filter(models.KeyBrand, "toyota"))
	s.AddFilter(filter(models.KeyModel, "camry"))
	s.AddFilter(filter(models.KeyVariant, "camry-se"))

	s.AddFilter(filter(models.KeyModel, "corolla"))

	assert.Equal(t, []string{models.KeyBrand, models.KeyModel}, appliedKeys(s))
}

func TestAddFilter_ReplacesExistingKey(t *testing.T) {
	s := New("cars", "", &fakeLoader{}, &fakeSelector{}, logger.NewTestLogger(t))

	s.AddFilter(filter("fuelType", "petrol"))
	s.AddFilter(filter("fuelType", "diesel"))

	state := s.State()
	require.Len(t, state.AppliedFilters, 1)
	assert.Equal(t, "diesel", state.AppliedFilters[0].Raw)
}

func TestRemoveFilter_DropsDescendants(t *testing.T) {
	s := New("cars", "", &fakeLoader{}, &fakeSelector{}, logger.NewTestLogger(t))

	s.AddFilter(filter(models.KeyBrand, "toyota"))
	s.AddFilter(filter(models.KeyModel, "camry"))
	s.AddFilter(filter(models.KeyVariant, "camry-se"))

	s.RemoveFilter(models.KeyBrand)

	assert.Empty(t, appliedKeys(s))
}

func TestUpdateFiltersWithCascading_PublishesRecomputedSnapshot(t *testing.T) {
	loader := &fakeLoader{snap: loadedSnapshot()}
	next := loadedSnapshot()
	next.TotalResults = 5
	selector := &fakeSelector{next: next}
	s := New("cars", "sale", loader, selector, logger.NewTestLogger(t))
	s.FetchFilterData(context.Background())

	s.AddFilter(filter(models.KeyBrand, "toyota"))
	s.UpdateFiltersWithCascading(context.Background())

	state := s.State()
	assert.False(t, state.IsLoadingCounts)
	assert.Empty(t, state.Err)
	assert.Equal(t, 5, state.TotalResults)
	assert.Equal(t, map[string]string{models.KeyBrand: "toyota"}, selector.applied)
}

func TestUpdateFiltersWithCascading_LoadsFirstWhenEmpty(t *testing.T) {
	loader := &fakeLoader{snap: loadedSnapshot()}
	selector := &fakeSelector{next: loadedSnapshot()}
	s := New("cars", "sale", loader, selector, logger.NewTestLogger(t))

	s.UpdateFiltersWithCascading(context.Background())

	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, 1, selector.calls)
}

func TestUpdateFiltersWithCascading_ErrorKeepsPriorCounts(t *testing.T) {
	loader := &fakeLoader{snap: loadedSnapshot()}
	selector := &fakeSelector{err: apperrors.NewAggregationTimeoutError(0)}
	s := New("cars", "sale", loader, selector, logger.NewTestLogger(t))
	s.FetchFilterData(context.Background())

	s.UpdateFiltersWithCascading(context.Background())

	state := s.State()
	assert.NotEmpty(t, state.Err)
	assert.Equal(t, 20, state.TotalResults)
	assert.Len(t, state.Attributes, 1)
}

func TestUpdateFiltersWithCascading_SupersededResultIgnoredSilently(t *testing.T) {
	loader := &fakeLoader{snap: loadedSnapshot()}
	selector := &fakeSelector{err: cascade.ErrSuperseded}
	s := New("cars", "sale", loader, selector, logger.NewTestLogger(t))
	s.FetchFilterData(context.Background())

	s.UpdateFiltersWithCascading(context.Background())

	state := s.State()
	assert.Empty(t, state.Err)
	assert.Equal(t, 20, state.TotalResults)
}

func TestClearFilters(t *testing.T) {
	s := New("cars", "", &fakeLoader{}, &fakeSelector{}, logger.NewTestLogger(t))

	s.AddFilter(filter(models.KeyBrand, "toyota"))
	s.AddFilter(filter("fuelType", "petrol"))
	s.ClearFilters()

	assert.Empty(t, appliedKeys(s))
}

func TestRegistry_ReusesStorePerSession(t *testing.T) {
	r := NewRegistry(&fakeLoader{}, &fakeSelector{}, logger.NewTestLogger(t))

	a := r.Get("cars", "sale")
	b := r.Get("cars", "sale")
	c := r.Get("cars", "rent")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)

	r.Drop("cars", "sale")
	assert.NotSame(t, a, r.Get("cars", "sale"))
}
