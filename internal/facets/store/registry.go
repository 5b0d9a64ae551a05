// internal/facets/store/registry.go
package store

import (
	"sync"

	"marketplace-facets/internal/common/logger"
)

// Registry hands out one Store per category/listing-type session, creating
// it on first use. Stores are in-memory only and discarded with the process.
type Registry struct {
	loader   FacetLoader
	selector Recomputer
	logger   logger.Logger

	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry(loader FacetLoader, selector Recomputer, log logger.Logger) *Registry {
	return &Registry{
		loader:   loader,
		selector: selector,
		logger:   log,
		stores:   make(map[string]*Store),
	}
}

func (r *Registry) Get(categorySlug, listingType string) *Store {
	key := categorySlug
	if listingType != "" {
		key += "|" + listingType
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[key]; ok {
		return s
	}
	s := New(categorySlug, listingType, r.loader, r.selector, r.logger)
	r.stores[key] = s
	return s
}

// Drop discards a session, matching the screen-navigation lifecycle where
// leaving a category throws its filter state away.
func (r *Registry) Drop(categorySlug, listingType string) {
	key := categorySlug
	if listingType != "" {
		key += "|" + listingType
	}
	r.mu.Lock()
	delete(r.stores, key)
	r.mu.Unlock()
}
