package decimal

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// String renders f as a human-readable decimal string, delegating to
// shopspring/decimal purely for formatting — the arithmetic above never
// goes through it.
func (f FixedPoint) String() string {
	return decimal.NewFromInt(f.mantissa).Shift(-9).String()
}

// Parse parses a decimal string (e.g. "123.45") into a FixedPoint. It
// returns an error if the value cannot be represented exactly with 9
// fractional digits.
func Parse(s string) (FixedPoint, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("decimal: parse %q: %w", s, err)
	}
	scaled := d.Shift(9)
	if !scaled.IsInteger() {
		return Zero, fmt.Errorf("decimal: %q cannot be represented exactly at scale 1e-9", s)
	}
	bi := scaled.BigInt()
	if !bi.IsInt64() {
		return Zero, fmt.Errorf("decimal: %q overflows FixedPoint", s)
	}
	return FixedPoint{mantissa: bi.Int64()}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// constant-like call sites.
func MustParse(s string) FixedPoint {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}
