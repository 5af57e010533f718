package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal coerces free-text cell content to a decimal. Returns
// ok=false for empty or non-numeric values; callers treat those as
// missing, they are never silently zeroed.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// PctChange returns (after-before)/before*100. ok=false when before is
// zero (the ratio is undefined, not infinite).
func PctChange(before, after decimal.Decimal) (decimal.Decimal, bool) {
	if before.IsZero() {
		return decimal.Zero, false
	}
	return after.Sub(before).Div(before).Mul(decimal.NewFromInt(100)), true
}

// MoneyString renders a decimal rounded to 2 places for CSV artifacts.
func MoneyString(d decimal.Decimal) string {
	return d.Round(2).String()
}
