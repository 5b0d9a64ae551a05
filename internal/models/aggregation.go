// internal/models/aggregation.go
package models

// AggregationFilter scopes a listingsAggregations query. Specs carries the
// free-form key/value pairs derived from applied filters, excluding reserved
// keys.
type AggregationFilter struct {
	CategoryID  string            `json:"categoryId,omitempty"`
	ListingType string            `json:"listingType,omitempty"`
	Province    string            `json:"province,omitempty"`
	Specs       map[string]string `json:"specs,omitempty"`
}

// AggregationField holds per-option counts for one attribute field.
type AggregationField struct {
	Field   string            `json:"field"`
	Options []AttributeOption `json:"options"`
}

// ProvinceCount is one province bucket of the aggregation response.
type ProvinceCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// AggregationResult is the counts-per-option view returned by the backend
// instead of individual listing records.
type AggregationResult struct {
	Attributes   []AggregationField `json:"attributes"`
	Provinces    []ProvinceCount    `json:"provinces"`
	TotalResults int                `json:"totalResults"`
}

// FieldOptions returns the options reported for field, or nil when the
// aggregation has no bucket for it.
func (r *AggregationResult) FieldOptions(field string) []AttributeOption {
	for i := range r.Attributes {
		if r.Attributes[i].Field == field {
			return r.Attributes[i].Options
		}
	}
	return nil
}

// CountsByKey returns field's option counts keyed by option key.
func (r *AggregationResult) CountsByKey(field string) map[string]int {
	opts := r.FieldOptions(field)
	if opts == nil {
		return nil
	}
	counts := make(map[string]int, len(opts))
	for _, o := range opts {
		counts[o.Key] = o.Count
	}
	return counts
}

// BuildAggregationFilter derives the scoping filter for a cascading recompute
// from the applied filter set: province maps to its dedicated field, every
// other non-reserved key becomes a spec.
func BuildAggregationFilter(categoryID, listingType string, applied map[string]string) AggregationFilter {
	f := AggregationFilter{
		CategoryID:  categoryID,
		ListingType: listingType,
	}
	for key, value := range applied {
		if key == KeyProvince {
			f.Province = value
			continue
		}
		if IsReservedKey(key) || key == KeyListingType {
			continue
		}
		if f.Specs == nil {
			f.Specs = make(map[string]string)
		}
		f.Specs[key] = value
	}
	return f
}
