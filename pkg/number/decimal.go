package number

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var (
	one = decimal.NewFromInt(1)

	// 2^127, the magnitude limit of a signed 128 bit integer
	int128Limit = new(uint256.Int).Lsh(uint256.NewInt(1), 127)
)

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// IsInteger d has no fractional part
func IsInteger(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(0))
}

// MulDiv a * b / c rounded down to an integer, ok is false when c is zero
func MulDiv(a, b, c decimal.Decimal) (decimal.Decimal, bool) {
	return MulDivAt(a, b, c, 0)
}

// MulDivUp a * b / c rounded up to an integer, ok is false when c is zero
func MulDivUp(a, b, c decimal.Decimal) (decimal.Decimal, bool) {
	return MulDivUpAt(a, b, c, 0)
}

// MulDivAt a * b / c rounded down to precision decimal places
func MulDivAt(a, b, c decimal.Decimal, precision int32) (decimal.Decimal, bool) {
	if c.IsZero() {
		return decimal.Zero, false
	}

	q, _ := a.Mul(b).QuoRem(c, precision)
	return q, true
}

// MulDivUpAt a * b / c rounded up to precision decimal places
func MulDivUpAt(a, b, c decimal.Decimal, precision int32) (decimal.Decimal, bool) {
	if c.IsZero() {
		return decimal.Zero, false
	}

	q, r := a.Mul(b).QuoRem(c, precision)
	if r.IsPositive() {
		q = q.Add(decimal.New(1, -precision))
	}

	return q, true
}

// Pow d^n by squaring, every step truncated to precision
func Pow(d decimal.Decimal, n int, precision int32) decimal.Decimal {
	result := one
	base := d
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Truncate(precision)
		}
		base = base.Mul(base).Truncate(precision)
		n >>= 1
	}

	return result
}

// FitsInt128 d is an integer in the signed 128 bit range
func FitsInt128(d decimal.Decimal) bool {
	if !IsInteger(d) {
		return false
	}

	v, overflow := uint256.FromBig(d.Abs().BigInt())
	if overflow {
		return false
	}

	if d.IsNegative() {
		return !v.Gt(int128Limit)
	}

	return v.Lt(int128Limit)
}
