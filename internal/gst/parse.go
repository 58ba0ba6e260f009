package gst

import (
	"strconv"
	"strings"
)

// DecimalOrZero parses a numeric report field tolerantly. Malformed or empty
// values coerce to 0 so a single bad record never aborts an aggregation.
func DecimalOrZero(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

// QuantityOrOne normalizes a line item quantity: missing or zero quantities
// count as a single unit.
func QuantityOrOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
