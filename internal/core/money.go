// Package core provides the ledger domain types.
//
// This file contains amount parsing and the display formatting used by the
// summary, list and export views.
package core

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user input into a finite amount.
//
// Sign and magnitude are kept as entered. A lone comma is accepted as the
// decimal separator ("4,50" -> 4.5) and a leading currency sign is ignored.
//
// Examples:
//
//	ParseAmount("4.50")  -> 4.5, nil
//	ParseAmount("-12")   -> -12, nil
//	ParseAmount("$2000") -> 2000, nil
//	ParseAmount("abc")   -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatAmount renders an amount the way it was entered, in its shortest
// decimal form ("4.5", "2000", "-0.25").
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatDollars renders d with two decimals and a dollar sign ("$4.50").
func FormatDollars(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Decimal converts a stored amount for exact summation.
func Decimal(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}
