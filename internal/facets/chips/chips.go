// internal/facets/chips/chips.go

// Package chips turns the applied filter set into display-ready chip labels.
package chips

import (
	"strconv"

	"marketplace-facets/internal/models"
)

// Chip is one removable filter marker shown above the listing results.
type Chip struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Derive builds chips for the applied set. The price bound pair collapses
// into a single chip carrying its recorded currency; the priceCurrency entry
// itself is metadata and never shown.
func Derive(applied []models.AppliedFilter, attrs []models.Attribute) []Chip {
	var out []Chip

	if sel, ok := PriceSelectionFrom(applied); ok {
		value := FormatRange(sel.MinMinor, sel.MaxMinor)
		if sel.Currency != "" {
			value += " " + sel.Currency
		}
		out = append(out, Chip{Key: models.KeyPrice, Label: "Price", Value: value})
	}

	for _, f := range applied {
		switch f.Key {
		case models.KeyPriceMinMinor, models.KeyPriceMaxMinor, models.KeyPriceCurrency:
			continue
		}
		out = append(out, Chip{
			Key:   f.Key,
			Label: chipLabel(f, attrs),
			Value: chipValue(f, attrs),
		})
	}

	return out
}

func chipLabel(f models.AppliedFilter, attrs []models.Attribute) string {
	if f.Label != "" {
		return f.Label
	}
	if attr := findAttribute(attrs, f.Key); attr != nil {
		return attr.Name
	}
	return f.Key
}

func chipValue(f models.AppliedFilter, attrs []models.Attribute) string {
	if f.ValueLabel != "" {
		return f.ValueLabel
	}

	if f.Value.Kind == models.FilterValueRange {
		return FormatRange(f.Value.Min, f.Value.Max)
	}

	if attr := findAttribute(attrs, f.Key); attr != nil {
		for _, opt := range attr.Options {
			if opt.Key == f.Raw {
				return opt.Value
			}
		}
	}
	return f.Raw
}

// FormatRange renders an optional bound pair for display.
func FormatRange(min, max *int64) string {
	switch {
	case min != nil && max != nil:
		return strconv.FormatInt(*min, 10) + " - " + strconv.FormatInt(*max, 10)
	case min != nil:
		return strconv.FormatInt(*min, 10) + "+"
	case max != nil:
		return "up to " + strconv.FormatInt(*max, 10)
	default:
		return ""
	}
}

func findAttribute(attrs []models.Attribute, key string) *models.Attribute {
	for i := range attrs {
		if attrs[i].Key == key {
			return &attrs[i]
		}
	}
	return nil
}
