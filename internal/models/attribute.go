// internal/models/attribute.go
package models

// AttributeType tags how an attribute's values are selected and encoded.
type AttributeType string

const (
	AttributeTypeSelect        AttributeType = "select"
	AttributeTypeMultiSelect   AttributeType = "multiselect"
	AttributeTypeRange         AttributeType = "range"
	AttributeTypeCurrencyRange AttributeType = "currency_range"
	AttributeTypeText          AttributeType = "text"
)

// Attribute is one filterable dimension of a category (brand, year, fuel type).
// The schema is backend-owned and read-only on this side; instances are
// refreshed on a TTL and otherwise treated as immutable.
type Attribute struct {
	Key          string            `json:"key"`
	Name         string            `json:"name"`
	Type         AttributeType     `json:"type"`
	SortOrder    int               `json:"sortOrder"`
	GroupName    string            `json:"groupName,omitempty"`
	GroupOrder   int               `json:"groupOrder,omitempty"`
	ShowInFilter bool              `json:"showInFilter"`
	Options      []AttributeOption `json:"options,omitempty"`
}

// AttributeOption is one discrete value of a select/multiselect attribute.
// ModelID/ModelName reference the parent model for variant options; they are
// display-grouping metadata only, not an ownership relationship.
type AttributeOption struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	SortOrder int    `json:"sortOrder,omitempty"`
	Count     int    `json:"count"`
	ModelID   string `json:"modelId,omitempty"`
	ModelName string `json:"modelName,omitempty"`
}

// Keys of the brand/model/variant dependency chain. Options for these come
// from the live catalog aggregation, not from the attribute's static option
// list.
const (
	KeyBrand   = "brandId"
	KeyModel   = "modelId"
	KeyVariant = "variantId"

	KeyProvince    = "province"
	KeyLocation    = "location"
	KeyListingType = "listingType"
)

// DependentKeys returns the chain descendants invalidated by selecting key.
func DependentKeys(key string) []string {
	switch key {
	case KeyBrand:
		return []string{KeyModel, KeyVariant}
	case KeyModel:
		return []string{KeyVariant}
	default:
		return nil
	}
}

// IsCatalogDriven reports whether the attribute's options are populated from
// the aggregation response rather than a fixed enum.
func IsCatalogDriven(key string) bool {
	return key == KeyBrand || key == KeyModel || key == KeyVariant
}

// IsChainDependent reports whether the attribute is only meaningful in the
// context of a parent selection. Dependent facets have their option lists
// replaced wholesale on every recompute; all others retain their options and
// only refresh counts.
func IsChainDependent(key string) bool {
	return key == KeyModel || key == KeyVariant
}
