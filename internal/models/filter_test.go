// internal/models/filter_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64p(v int64) *int64 { return &v }

func TestEncodeDecodeRange_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		min  *int64
		max  *int64
		want string
	}{
		{name: "both bounds", min: int64p(2015), max: int64p(2020), want: "2015-2020"},
		{name: "min only", min: int64p(50000), max: nil, want: "50000-"},
		{name: "max only", min: nil, max: int64p(100), want: "-100"},
		{name: "neither bound", min: nil, max: nil, want: "-"},
		{name: "negative min", min: int64p(-10), max: int64p(10), want: "-10-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeRange(tt.min, tt.max)
			assert.Equal(t, tt.want, encoded)

			min, max, err := DecodeRange(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.min, min)
			assert.Equal(t, tt.max, max)
		})
	}
}

func TestDecodeRange_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no separator", raw: "2015"},
		{name: "non numeric min", raw: "abc-2020"},
		{name: "non numeric max", raw: "2015-xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeRange(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestParseFilterValue(t *testing.T) {
	tests := []struct {
		name     string
		attrType AttributeType
		raw      string
		want     FilterValue
		wantErr  bool
	}{
		{
			name:     "select stays single",
			attrType: AttributeTypeSelect,
			raw:      "toyota",
			want:     FilterValue{Kind: FilterValueSingle, Single: "toyota"},
		},
		{
			name:     "range parses bounds",
			attrType: AttributeTypeRange,
			raw:      "2015-2020",
			want:     FilterValue{Kind: FilterValueRange, Min: int64p(2015), Max: int64p(2020)},
		},
		{
			name:     "currency range open max",
			attrType: AttributeTypeCurrencyRange,
			raw:      "500000-",
			want:     FilterValue{Kind: FilterValueRange, Min: int64p(500000)},
		},
		{
			name:     "multiselect splits and trims",
			attrType: AttributeTypeMultiSelect,
			raw:      "black, white,,silver",
			want:     FilterValue{Kind: FilterValueMulti, Multi: []string{"black", "white", "silver"}},
		},
		{
			name:     "bad range errors",
			attrType: AttributeTypeRange,
			raw:      "notarange",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilterValue(tt.attrType, tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsReservedKey(t *testing.T) {
	for _, key := range []string{KeySearch, KeyProvince, KeyPrice, KeyPriceMinMinor, KeyPriceMaxMinor, KeyPriceCurrency, KeySpecs} {
		assert.True(t, IsReservedKey(key), key)
	}
	assert.False(t, IsReservedKey(KeyBrand))
	assert.False(t, IsReservedKey("fuelType"))
}
