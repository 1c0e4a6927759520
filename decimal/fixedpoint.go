// Package decimal implements the engine's fixed-scale numeric primitive:
// a signed 64-bit mantissa interpreted at a fixed scale of 10^-9, with
// checked arithmetic that reports overflow instead of wrapping.
//
// This is the core numeric component of the matching engine (prices and
// quantities share this representation), not a thin wrapper over a
// general-purpose decimal library: pro-rata allocation needs an exact,
// truncating division and an exact ratio accessor that neither
// shopspring/decimal nor quagmt/udecimal expose in the shape the engine
// needs, so the arithmetic is hand-built here. shopspring/decimal is still
// used, in string.go, purely for human-readable formatting.
package decimal

import "math/big"

// Scale is the number of fractional digits represented: 10^9.
const Scale int64 = 1_000_000_000

// FixedPoint is a signed fixed-point number with 9 fractional digits.
// The zero value represents 0.
type FixedPoint struct {
	mantissa int64
}

// Zero is the additive identity.
var Zero = FixedPoint{}

// One is 1.000000000.
var One = FixedPoint{mantissa: Scale}

// FromMantissa builds a FixedPoint directly from its scaled internal
// representation. Used by code (e.g. pro-rata allocation) that has already
// computed a scaled quantity.
func FromMantissa(m int64) FixedPoint {
	return FixedPoint{mantissa: m}
}

// FromInt64 builds a FixedPoint from an integer value. Returns ok=false on
// overflow.
func FromInt64(v int64) (FixedPoint, bool) {
	m, ok := mulOverflow(v, Scale)
	if !ok {
		return Zero, false
	}
	return FixedPoint{mantissa: m}, true
}

// Mantissa returns the internal scaled representation (value * 10^9).
func (f FixedPoint) Mantissa() int64 { return f.mantissa }

// Ratio returns (numerator, denominator) such that numerator/denominator
// equals f exactly. Used by pro-rata allocation to carry exact fractions
// instead of lossy float division.
func (f FixedPoint) Ratio() (num, den int64) {
	return f.mantissa, Scale
}

// Add returns f+other. Returns ok=false on overflow.
func (f FixedPoint) Add(other FixedPoint) (FixedPoint, bool) {
	m, ok := addOverflow(f.mantissa, other.mantissa)
	if !ok {
		return Zero, false
	}
	return FixedPoint{mantissa: m}, true
}

// Sub returns f-other. Returns ok=false on overflow.
func (f FixedPoint) Sub(other FixedPoint) (FixedPoint, bool) {
	m, ok := subOverflow(f.mantissa, other.mantissa)
	if !ok {
		return Zero, false
	}
	return FixedPoint{mantissa: m}, true
}

// Neg returns -f.
func (f FixedPoint) Neg() FixedPoint {
	return FixedPoint{mantissa: -f.mantissa}
}

// MulInt returns f*n for a plain integer multiplier n. Returns ok=false on
// overflow.
func (f FixedPoint) MulInt(n int64) (FixedPoint, bool) {
	m, ok := mulOverflow(f.mantissa, n)
	if !ok {
		return Zero, false
	}
	return FixedPoint{mantissa: m}, true
}

// MulTrunc returns f*other, truncated toward zero to the fixed scale. The
// intermediate product is computed with unbounded precision (big.Int) since
// mantissa*mantissa can exceed the int64 range; the spec calls this out
// explicitly as 128-bit-intermediate math. Returns ok=false if the
// truncated result does not fit in int64.
func (f FixedPoint) MulTrunc(other FixedPoint) (FixedPoint, bool) {
	n := new(big.Int).Mul(big.NewInt(f.mantissa), big.NewInt(other.mantissa))
	n.Quo(n, big.NewInt(Scale)) // Quo truncates toward zero
	if !n.IsInt64() {
		return Zero, false
	}
	return FixedPoint{mantissa: n.Int64()}, true
}

// DivTrunc returns f/other, truncated toward zero. Returns ok=false if
// other is zero or the result overflows.
func (f FixedPoint) DivTrunc(other FixedPoint) (FixedPoint, bool) {
	if other.mantissa == 0 {
		return Zero, false
	}
	n := new(big.Int).Mul(big.NewInt(f.mantissa), big.NewInt(Scale))
	n.Quo(n, big.NewInt(other.mantissa))
	if !n.IsInt64() {
		return Zero, false
	}
	return FixedPoint{mantissa: n.Int64()}, true
}

// Cmp returns -1, 0 or 1 as f is less than, equal to, or greater than other.
func (f FixedPoint) Cmp(other FixedPoint) int {
	switch {
	case f.mantissa < other.mantissa:
		return -1
	case f.mantissa > other.mantissa:
		return 1
	default:
		return 0
	}
}

func (f FixedPoint) LessThan(other FixedPoint) bool           { return f.mantissa < other.mantissa }
func (f FixedPoint) LessThanOrEqual(other FixedPoint) bool    { return f.mantissa <= other.mantissa }
func (f FixedPoint) GreaterThan(other FixedPoint) bool        { return f.mantissa > other.mantissa }
func (f FixedPoint) GreaterThanOrEqual(other FixedPoint) bool { return f.mantissa >= other.mantissa }
func (f FixedPoint) Equal(other FixedPoint) bool              { return f.mantissa == other.mantissa }
func (f FixedPoint) IsZero() bool                             { return f.mantissa == 0 }
func (f FixedPoint) IsNegative() bool                         { return f.mantissa < 0 }
func (f FixedPoint) IsPositive() bool                         { return f.mantissa > 0 }

// Min returns the lesser of a and b.
func Min(a, b FixedPoint) FixedPoint {
	if a.mantissa < b.mantissa {
		return a
	}
	return b
}

// Max returns the greater of a and b.
func Max(a, b FixedPoint) FixedPoint {
	if a.mantissa > b.mantissa {
		return a
	}
	return b
}

// TruncateToLot truncates f down toward zero to a multiple of lot. A
// non-positive lot is treated as "no quantization" and returns f unchanged.
func (f FixedPoint) TruncateToLot(lot FixedPoint) FixedPoint {
	if lot.mantissa <= 0 {
		return f
	}
	units := f.mantissa / lot.mantissa
	return FixedPoint{mantissa: units * lot.mantissa}
}

func addOverflow(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

func subOverflow(a, b int64) (int64, bool) {
	return addOverflow(a, -b)
}

func mulOverflow(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	product := a * b
	if product/b != a {
		return 0, false
	}
	return product, true
}
