// internal/models/filter.go
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Reserved filter keys. These are handled by dedicated fields of the
// aggregation filter (or by the listing screen itself) and must never leak
// into the free-form specs map.
const (
	KeySearch        = "search"
	KeyPrice         = "price"
	KeyPriceMinMinor = "priceMinMinor"
	KeyPriceMaxMinor = "priceMaxMinor"
	KeyPriceCurrency = "priceCurrency"
	KeySpecs         = "specs"
)

var reservedKeys = map[string]bool{
	KeySearch:        true,
	KeyProvince:      true,
	KeyPrice:         true,
	KeyPriceMinMinor: true,
	KeyPriceMaxMinor: true,
	KeyPriceCurrency: true,
	KeySpecs:         true,
}

// IsReservedKey reports whether key is excluded from aggregation specs.
func IsReservedKey(key string) bool {
	return reservedKeys[key]
}

// FilterValueKind discriminates the FilterValue union.
type FilterValueKind int

const (
	FilterValueSingle FilterValueKind = iota
	FilterValueRange
	FilterValueMulti
)

// FilterValue is a typed filter value, resolved once at the boundary from the
// raw string and the attribute's type instead of being re-parsed by every
// consumer.
type FilterValue struct {
	Kind   FilterValueKind
	Single string
	Min    *int64
	Max    *int64
	Multi  []string
}

// ParseFilterValue resolves a raw wire value into a FilterValue according to
// the attribute type. Range values use the "min-max" encoding with either
// side optionally empty.
func ParseFilterValue(t AttributeType, raw string) (FilterValue, error) {
	switch t {
	case AttributeTypeRange, AttributeTypeCurrencyRange:
		min, max, err := DecodeRange(raw)
		if err != nil {
			return FilterValue{}, err
		}
		return FilterValue{Kind: FilterValueRange, Min: min, Max: max}, nil
	case AttributeTypeMultiSelect:
		var vals []string
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				vals = append(vals, p)
			}
		}
		return FilterValue{Kind: FilterValueMulti, Multi: vals}, nil
	default:
		return FilterValue{Kind: FilterValueSingle, Single: raw}, nil
	}
}

// EncodeRange encodes an optional min/max pair as "min-max". A nil side
// encodes as the empty string, so (nil, 100) becomes "-100".
func EncodeRange(min, max *int64) string {
	var lo, hi string
	if min != nil {
		lo = strconv.FormatInt(*min, 10)
	}
	if max != nil {
		hi = strconv.FormatInt(*max, 10)
	}
	return lo + "-" + hi
}

// DecodeRange parses the "min-max" encoding back into its optional sides.
// An empty segment decodes to nil.
func DecodeRange(raw string) (min, max *int64, err error) {
	lo, hi, found := strings.Cut(raw, "-")
	if !found {
		return nil, nil, fmt.Errorf("range value %q: missing separator", raw)
	}
	if lo != "" {
		v, perr := strconv.ParseInt(lo, 10, 64)
		if perr != nil {
			return nil, nil, fmt.Errorf("range min %q: %w", lo, perr)
		}
		min = &v
	}
	if hi != "" {
		v, perr := strconv.ParseInt(hi, 10, 64)
		if perr != nil {
			return nil, nil, fmt.Errorf("range max %q: %w", hi, perr)
		}
		max = &v
	}
	return min, max, nil
}

// AppliedFilter is one active user selection for a facet key. At most one
// AppliedFilter exists per key; the set of applied filters is the sole
// mutable input driving facet recomputation.
type AppliedFilter struct {
	Key        string      `json:"key"`
	Label      string      `json:"label"`
	Raw        string      `json:"value"`
	ValueLabel string      `json:"valueLabel"`
	Value      FilterValue `json:"-"`
}
