// Package core holds the domain types of the tracker and the pure functions
// that operate on them: parsing, validation, the password policy and the
// dashboard aggregation.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in cents.
type Money struct {
	Cents int64
}

// MaxAmount bounds a single amount in whole units. Ledger totals are
// plain int64 cents, so the bound leaves room for tens of thousands of
// maximal entries before a sum could wrap.
const MaxAmount = 1_000_000_000_000

var maxAmount = decimal.NewFromInt(MaxAmount)

// ParseAmount converts a decimal string to Money, rounding half away from
// zero at the second decimal place.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted. The
// sign is preserved.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234
//	ParseAmount("12,345") -> 1235
//	ParseAmount("-0.5")   -> -50
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.Count(s, ",") > 1 || (strings.Contains(s, ",") && strings.Contains(s, ".")) {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.ContainsAny(s, "eE") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.Abs().GreaterThan(maxAmount) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: d.Round(2).Shift(2).IntPart()}, nil
}

// ParseLimit is ParseAmount restricted to non-negative values.
func ParseLimit(s string) (Money, error) {
	m, err := ParseAmount(s)
	if err != nil || m.Cents < 0 {
		return Money{}, ErrInvalidLimit
	}
	return m, nil
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String renders the amount with exactly two decimals.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Float64 is used only for JSON output.
func (m Money) Float64() float64 {
	f, _ := m.Decimal().Float64()
	return f
}
