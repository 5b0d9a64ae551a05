// internal/facets/catalog/models.go
package catalog

import (
	"encoding/json"

	"marketplace-facets/internal/models"
)

// Wire payloads. Field names follow the backend contract; the GraphQL
// documents themselves live in client.go.

type attributesPayload struct {
	AttributesByCategorySlug *models.CategoryAttributes `json:"getAttributesByCategorySlug"`
}

type aggregationsPayload struct {
	ListingsAggregations json.RawMessage `json:"listingsAggregations"`
}

// AggregationOptions tunes one aggregation fetch. Cascading recomputes bypass
// the response cache because their counts must reflect the filter set exactly.
type AggregationOptions struct {
	BypassCache bool
}
