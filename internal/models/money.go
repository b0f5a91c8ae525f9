package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are limited to what a float64 can hold. Larger or finer exponents
// would expand into millions of digits when formatted.
const (
	maxMoneyExponent = 308
	minMoneyExponent = -324
)

// ParseMoney parses a profit or loss amount.
func ParseMoney(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, err
	}
	if e := v.Exponent(); e > maxMoneyExponent || e < minMoneyExponent {
		return decimal.Decimal{}, fmt.Errorf("amount %q out of range", s)
	}
	if math.IsInf(v.InexactFloat64(), 0) {
		return decimal.Decimal{}, fmt.Errorf("amount %q out of range", s)
	}
	return v, nil
}

// FormatMoney writes v keeping the scale it was parsed with, so 12.50 stays 12.50.
func FormatMoney(v decimal.Decimal) string {
	if e := v.Exponent(); e < 0 {
		return v.StringFixed(-e)
	}
	return v.String()
}
