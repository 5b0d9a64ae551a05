// internal/facets/merge/merge.go

// Package merge builds a display-ready facet snapshot out of a raw attribute
// schema and an aggregation result. The same algorithm backs the initial
// facet load and cascading recomputes.
package merge

import (
	"sort"
	"time"

	"marketplace-facets/internal/models"
)

// Merge combines schema and aggregation into a new snapshot.
//
// Catalog-driven attributes (brand/model/variant) take their options straight
// from the aggregation response, since those are populated from the live
// catalog rather than a fixed enum. Every other attribute keeps its static
// option list with counts looked up per key, defaulting to 0. When the schema
// has no province/location attribute and the aggregation reports province
// buckets, a province facet is synthesized so location filtering is always
// available.
func Merge(schema *models.CategoryAttributes, agg *models.AggregationResult, listingType string) *models.Snapshot {
	snap := &models.Snapshot{
		CategorySlug: schema.CategorySlug,
		CategoryID:   schema.CategoryID,
		ListingType:  listingType,
		TotalResults: agg.TotalResults,
		FetchedAt:    time.Now(),
	}

	hasProvince := false
	for _, attr := range schema.Attributes {
		if !attr.ShowInFilter || attr.Key == models.KeyListingType {
			continue
		}
		if attr.Key == models.KeyProvince || attr.Key == models.KeyLocation {
			hasProvince = true
		}

		processed := attr
		if models.IsCatalogDriven(attr.Key) {
			processed.Options = catalogOptions(agg, attr.Key)
		} else {
			processed.Options = staticOptions(attr, agg)
		}
		snap.Attributes = append(snap.Attributes, processed)
	}

	if !hasProvince && len(agg.Provinces) > 0 {
		snap.Attributes = append(snap.Attributes, provinceAttribute(agg.Provinces))
	}

	sort.SliceStable(snap.Attributes, func(i, j int) bool {
		return snap.Attributes[i].SortOrder < snap.Attributes[j].SortOrder
	})

	return snap
}

func catalogOptions(agg *models.AggregationResult, key string) []models.AttributeOption {
	src := agg.FieldOptions(key)
	if src == nil {
		return nil
	}
	out := make([]models.AttributeOption, len(src))
	copy(out, src)
	return out
}

func staticOptions(attr models.Attribute, agg *models.AggregationResult) []models.AttributeOption {
	if len(attr.Options) == 0 {
		return nil
	}
	counts := agg.CountsByKey(attr.Key)
	out := make([]models.AttributeOption, len(attr.Options))
	for i, opt := range attr.Options {
		opt.Count = counts[opt.Key]
		out[i] = opt
	}
	return out
}

func provinceAttribute(provinces []models.ProvinceCount) models.Attribute {
	opts := make([]models.AttributeOption, len(provinces))
	for i, p := range provinces {
		opts[i] = models.AttributeOption{Key: p.Value, Value: p.Value, Count: p.Count}
	}
	sort.SliceStable(opts, func(i, j int) bool { return opts[i].Count > opts[j].Count })

	return models.Attribute{
		Key:          models.KeyProvince,
		Name:         "Province",
		Type:         models.AttributeTypeSelect,
		SortOrder:    1000, // after schema-owned attributes
		ShowInFilter: true,
		Options:      opts,
	}
}
