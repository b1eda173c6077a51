// Package report renders plans and ticker analyses as text, JSON or CSV.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"swingplanner/internal/ports"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ParseFormat validates a format name. Empty selects FormatText.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q: %w", s, ports.ErrInvalidRequest)
	}
}

// Money formats a currency amount with two decimals. Non-finite values render as 0.00.
func Money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.00"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Price formats a price with the shortest exact representation.
func Price(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Percent formats a percentage with two decimals and a trailing %.
func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

// RMultiple formats an R multiple, e.g. 2.00R.
func RMultiple(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "R"
}
