// internal/facets/catalog/validate.go
package catalog

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "marketplace-facets/internal/common/errors"
)

// aggregationSchema pins the minimum shape the merge algorithm relies on.
// Anything failing it is surfaced as MALFORMED_RESPONSE rather than a panic
// deeper in the engine.
const aggregationSchema = `{
  "type": "object",
  "required": ["attributes", "totalResults"],
  "properties": {
    "attributes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["field", "options"],
        "properties": {
          "field": {"type": "string"},
          "options": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["key", "count"],
              "properties": {
                "key": {"type": "string"},
                "value": {"type": "string"},
                "count": {"type": "integer", "minimum": 0},
                "modelId": {"type": "string"},
                "modelName": {"type": "string"}
              }
            }
          }
        }
      }
    },
    "provinces": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["value", "count"],
        "properties": {
          "value": {"type": "string"},
          "count": {"type": "integer", "minimum": 0}
        }
      }
    },
    "totalResults": {"type": "integer", "minimum": 0}
  }
}`

func validateAggregation(raw []byte) error {
	if len(raw) == 0 || string(raw) == "null" {
		return apperrors.NewMalformedResponseError("aggregation payload is empty")
	}

	schemaLoader := gojsonschema.NewStringLoader(aggregationSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return apperrors.NewMalformedResponseError(err.Error())
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
		}
		return apperrors.NewMalformedResponseError(strings.Join(msgs, "; "))
	}

	return nil
}
