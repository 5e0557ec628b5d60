// Package pricing turns the store API's loosely typed price values into plain
// numbers and applies percentage discounts.
package pricing

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// decimalWrapperKey is how the store API serializes its decimal columns.
const decimalWrapperKey = "$numberDecimal"

// NormalizePrice accepts a number, a numeric string or a decimal wrapper object
// and returns its value. Anything it cannot read is 0.
func NormalizePrice(raw interface{}) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case Price:
		return finite(float64(v))
	case string:
		return parseDecimal(v)
	case json.Number:
		return parseDecimal(v.String())
	case decimal.Decimal:
		return v.InexactFloat64()
	case *decimal.Decimal:
		if v == nil {
			return 0
		}
		return v.InexactFloat64()
	case map[string]interface{}:
		return normalizeWrapper(v)
	case map[string]string:
		m := make(map[string]interface{}, len(v))
		for k, s := range v {
			m[k] = s
		}
		return normalizeWrapper(m)
	default:
		return 0
	}
}

func normalizeWrapper(m map[string]interface{}) float64 {
	if inner, ok := m[decimalWrapperKey]; ok {
		return NormalizePrice(inner)
	}
	if inner, ok := m["value"]; ok {
		return NormalizePrice(inner)
	}
	// single-field wrapper with some other name
	if len(m) == 1 {
		for _, inner := range m {
			if s, ok := inner.(string); ok {
				return parseDecimal(s)
			}
		}
	}
	return 0
}

func parseDecimal(s string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// DiscountedPrice applies a 0-100 percentage discount. Out of range
// percentages are clamped. No rounding.
func DiscountedPrice(base, discountPercentage float64) float64 {
	if discountPercentage <= 0 || math.IsNaN(discountPercentage) {
		return base
	}
	if discountPercentage > 100 {
		discountPercentage = 100
	}
	return base * (1 - discountPercentage/100)
}

// Price decodes any of the store API price shapes through NormalizePrice.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		*p = 0
		return nil
	}
	*p = Price(NormalizePrice(raw))
	return nil
}

func (p Price) Float64() float64 {
	return float64(p)
}
