// internal/facets/store/store.go

// Package store holds the observable filter state for one category screen:
// the processed facet list, the applied filter set and the loading/error
// flags. All mutation goes through methods under a single mutex; the lock is
// never held across a network call.
package store

import (
	"context"
	"errors"
	"sync"

	"marketplace-facets/internal/common/logger"
	"marketplace-facets/internal/facets/cascade"
	"marketplace-facets/internal/models"
)

// FacetLoader is the snapshot source, satisfied by cache.Cache.
type FacetLoader interface {
	LoadFacets(ctx context.Context, categorySlug, listingType string) (*models.Snapshot, error)
}

// Recomputer is the cascading dependency, satisfied by cascade.Selector.
type Recomputer interface {
	Recompute(ctx context.Context, prev *models.Snapshot, applied map[string]string) (*models.Snapshot, error)
}

// State is the observable store state. Failed loads and recomputes surface
// on Err and never roll back previously published attributes or counts.
type State struct {
	Attributes      []models.Attribute     `json:"attributes"`
	TotalResults    int                    `json:"totalResults"`
	AppliedFilters  []models.AppliedFilter `json:"appliedFilters"`
	IsLoading       bool                   `json:"isLoading"`
	IsLoadingCounts bool                   `json:"isLoadingCounts"`
	Err             string                 `json:"error,omitempty"`
}

// Store is the state container for one category/listing-type session.
type Store struct {
	categorySlug string
	listingType  string
	loader       FacetLoader
	selector     Recomputer
	logger       logger.Logger

	mu       sync.Mutex
	state    State
	snapshot *models.Snapshot
}

func New(categorySlug, listingType string, loader FacetLoader, selector Recomputer, log logger.Logger) *Store {
	return &Store{
		categorySlug: categorySlug,
		listingType:  listingType,
		loader:       loader,
		selector:     selector,
		logger: log.WithFields(map[string]interface{}{
			"component": "filterstore",
			"category":  categorySlug,
		}),
	}
}

// FetchFilterData populates the store from the facet cache. The loading flag
// is cleared on every outcome.
func (s *Store) FetchFilterData(ctx context.Context) {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Err = ""
	s.mu.Unlock()

	snap, err := s.loader.LoadFacets(ctx, s.categorySlug, s.listingType)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = false

	if err != nil {
		s.state.Err = err.Error()
		s.logger.Error("facet load failed", map[string]interface{}{"error": err.Error()})
		return
	}

	s.publishLocked(snap)
}

// UpdateFiltersWithCascading re-derives counts and dependent option lists for
// the current applied filter set. A response superseded by a newer recompute
// is dropped without touching state.
func (s *Store) UpdateFiltersWithCascading(ctx context.Context) {
	s.mu.Lock()
	if s.snapshot == nil {
		s.mu.Unlock()
		s.FetchFilterData(ctx)
		s.mu.Lock()
		if s.snapshot == nil {
			s.mu.Unlock()
			return
		}
	}
	s.state.IsLoadingCounts = true
	s.state.Err = ""
	prev := s.snapshot
	applied := s.appliedMapLocked()
	s.mu.Unlock()

	next, err := s.selector.Recompute(ctx, prev, applied)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoadingCounts = false

	if err != nil {
		if errors.Is(err, cascade.ErrSuperseded) {
			return
		}
		s.state.Err = err.Error()
		s.logger.Error("cascading recompute failed", map[string]interface{}{"error": err.Error()})
		return
	}

	s.publishLocked(next)
}

// SetAppliedFilters replaces the applied set. Filters are applied in order,
// so the per-key and cascade invariants hold for the result.
func (s *Store) SetAppliedFilters(filters []models.AppliedFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AppliedFilters = nil
	for _, f := range filters {
		s.addLocked(f)
	}
}

// AddFilter applies one selection. Selecting a chain parent clears its
// descendants: brandId drops modelId and variantId, modelId drops variantId.
func (s *Store) AddFilter(f models.AppliedFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(f)
}

// RemoveFilter drops a selection along with its chain descendants.
func (s *Store) RemoveFilter(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(key)
	for _, dep := range models.DependentKeys(key) {
		s.removeLocked(dep)
	}
}

// ClearFilters drops every selection.
func (s *Store) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AppliedFilters = nil
}

// State returns a copy of the observable state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.state
	out.Attributes = make([]models.Attribute, len(s.state.Attributes))
	copy(out.Attributes, s.state.Attributes)
	out.AppliedFilters = make([]models.AppliedFilter, len(s.state.AppliedFilters))
	copy(out.AppliedFilters, s.state.AppliedFilters)
	return out
}

// Snapshot returns the last published snapshot, or nil before the first
// successful load.
func (s *Store) Snapshot() *models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

func (s *Store) addLocked(f models.AppliedFilter) {
	s.removeLocked(f.Key)
	for _, dep := range models.DependentKeys(f.Key) {
		s.removeLocked(dep)
	}
	s.state.AppliedFilters = append(s.state.AppliedFilters, f)
}

func (s *Store) removeLocked(key string) {
	filters := s.state.AppliedFilters
	for i := range filters {
		if filters[i].Key == key {
			s.state.AppliedFilters = append(filters[:i:i], filters[i+1:]...)
			return
		}
	}
}

func (s *Store) appliedMapLocked() map[string]string {
	applied := make(map[string]string, len(s.state.AppliedFilters))
	for _, f := range s.state.AppliedFilters {
		applied[f.Key] = f.Raw
	}
	return applied
}

func (s *Store) publishLocked(snap *models.Snapshot) {
	s.snapshot = snap
	s.state.Attributes = snap.Attributes
	s.state.TotalResults = snap.TotalResults
}
