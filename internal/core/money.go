// Package core provides money parsing and handling utilities.
//
// This file contains the two amount paths: strict parsing of form input and
// lenient normalization of values loaded back from the sheet.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user input into a non-negative decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Zero is a
// valid amount. Returns ErrInvalidAmount for empty, malformed or negative input.
//
// Examples:
//
//	ParseAmount("250.50") -> 250.5, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("-1")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// NormalizeAmount coerces a loaded cell to a number. Anything that does not
// parse becomes zero; callers never see an error for a bad historical row.
func NormalizeAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Float returns the amount as written to the sheet: a JSON number, never a string.
func Float(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
