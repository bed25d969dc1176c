// Package tax computes tax-inclusive prices.
package tax

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const DefaultRate = 0.115

// Calculator applies a fixed tax rate. The zero value applies no tax.
type Calculator struct {
	rate float64
}

// NewCalculator validates rate as a finite non-negative fraction.
func NewCalculator(rate float64) (*Calculator, error) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return nil, fmt.Errorf("invalid tax rate %v: must be a finite non-negative fraction", rate)
	}
	return &Calculator{rate: rate}, nil
}

func (c *Calculator) Rate() float64 {
	return c.rate
}

// WithTax returns price*(1+rate) rounded to the cent, or nil when price does
// not coerce to a finite number.
func (c *Calculator) WithTax(price any) *float64 {
	p, ok := Coerce(price)
	if !ok {
		return nil
	}

	total := math.Round(p*(1+c.rate)*100) / 100
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return nil
	}
	return &total
}

// Coerce converts a decoded JSON value into a finite float. Numbers and
// numeric strings convert; null, booleans, empty strings, arrays and objects
// do not.
func Coerce(v any) (float64, bool) {
	var f float64

	switch n := v.(type) {
	case json.Number:
		parsed, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint64:
		f = float64(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
