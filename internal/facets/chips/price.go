// internal/facets/chips/price.go
package chips

import (
	"strconv"

	apperrors "marketplace-facets/internal/common/errors"
	"marketplace-facets/internal/models"
)

// RateProvider converts minor-unit amounts between currencies.
type RateProvider interface {
	Convert(amountMinor int64, from, to string) (int64, error)
}

// PriceSelection is an applied price bound pair. Currency is the currency in
// effect when the bound was chosen; it travels with the filter so a user
// changing their preferred currency mid-session cannot silently alter an
// already-applied bound.
type PriceSelection struct {
	MinMinor *int64
	MaxMinor *int64
	Currency string
}

// Filters expands the selection into its applied-filter entries: the price
// bounds as two separate keys plus the recorded currency.
func (p PriceSelection) Filters() []models.AppliedFilter {
	var out []models.AppliedFilter
	if p.MinMinor != nil {
		out = append(out, models.AppliedFilter{
			Key: models.KeyPriceMinMinor,
			Raw: strconv.FormatInt(*p.MinMinor, 10),
			Value: models.FilterValue{
				Kind:   models.FilterValueSingle,
				Single: strconv.FormatInt(*p.MinMinor, 10),
			},
		})
	}
	if p.MaxMinor != nil {
		out = append(out, models.AppliedFilter{
			Key: models.KeyPriceMaxMinor,
			Raw: strconv.FormatInt(*p.MaxMinor, 10),
			Value: models.FilterValue{
				Kind:   models.FilterValueSingle,
				Single: strconv.FormatInt(*p.MaxMinor, 10),
			},
		})
	}
	if len(out) > 0 && p.Currency != "" {
		out = append(out, models.AppliedFilter{
			Key: models.KeyPriceCurrency,
			Raw: p.Currency,
			Value: models.FilterValue{
				Kind:   models.FilterValueSingle,
				Single: p.Currency,
			},
		})
	}
	return out
}

// PriceSelectionFrom reassembles the selection out of an applied filter set.
// The second return is false when no price bound is applied.
func PriceSelectionFrom(applied []models.AppliedFilter) (PriceSelection, bool) {
	var sel PriceSelection
	found := false
	for _, f := range applied {
		switch f.Key {
		case models.KeyPriceMinMinor:
			if v, err := strconv.ParseInt(f.Raw, 10, 64); err == nil {
				sel.MinMinor = &v
				found = true
			}
		case models.KeyPriceMaxMinor:
			if v, err := strconv.ParseInt(f.Raw, 10, 64); err == nil {
				sel.MaxMinor = &v
				found = true
			}
		case models.KeyPriceCurrency:
			sel.Currency = f.Raw
		}
	}
	return sel, found
}

// QueryBounds converts the selection's bounds into the backend's canonical
// currency for query time, using the currency recorded at selection time.
func QueryBounds(sel PriceSelection, rates RateProvider, canonicalCurrency string) (min, max *int64, err error) {
	from := sel.Currency
	if from == "" || from == canonicalCurrency {
		return sel.MinMinor, sel.MaxMinor, nil
	}

	if sel.MinMinor != nil {
		v, cerr := rates.Convert(*sel.MinMinor, from, canonicalCurrency)
		if cerr != nil {
			return nil, nil, apperrors.NewCurrencyConversionError(from, canonicalCurrency, cerr)
		}
		min = &v
	}
	if sel.MaxMinor != nil {
		v, cerr := rates.Convert(*sel.MaxMinor, from, canonicalCurrency)
		if cerr != nil {
			return nil, nil, apperrors.NewCurrencyConversionError(from, canonicalCurrency, cerr)
		}
		max = &v
	}
	return min, max, nil
}
