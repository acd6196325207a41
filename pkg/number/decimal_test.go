package number

import (
	"testing"

	"github.com/bmizerany/assert"
	"github.com/shopspring/decimal"
)

func TestMulDiv(t *testing.T) {
	data := map[string][4]string{
		"exact":      {"10", "100", "50", "20"},
		"round down": {"10", "100", "110", "9"},
		"tiny":       {"1", "1", "3", "0"},
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			q, ok := MulDiv(Decimal(v[0]), Decimal(v[1]), Decimal(v[2]))
			assert.Equal(t, true, ok)
			assert.Equal(t, v[3], q.String())
		})
	}

	_, ok := MulDiv(decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.Zero)
	assert.Equal(t, false, ok)
}

func TestMulDivUp(t *testing.T) {
	data := map[string][4]string{
		"exact":    {"10", "100", "50", "20"},
		"round up": {"10", "100", "110", "10"},
		"tiny":     {"1", "1", "3", "1"},
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			q, ok := MulDivUp(Decimal(v[0]), Decimal(v[1]), Decimal(v[2]))
			assert.Equal(t, true, ok)
			assert.Equal(t, v[3], q.String())
		})
	}
}

func TestMulDivAt(t *testing.T) {
	data := map[string]struct {
		a, b, c   string
		precision int32
		down, up  string
	}{
		"exact":     {"10", "100", "50", 2, "20", "20"},
		"fraction":  {"3", "10", "19", 4, "1.5789", "1.579"},
		"integer":   {"3", "10", "19", 0, "1", "2"},
		"max scale": {"1", "1", "3", 18, "0.333333333333333333", "0.333333333333333334"},
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			q, ok := MulDivAt(Decimal(v.a), Decimal(v.b), Decimal(v.c), v.precision)
			assert.Equal(t, true, ok)
			assert.Equal(t, v.down, q.String())

			q, ok = MulDivUpAt(Decimal(v.a), Decimal(v.b), Decimal(v.c), v.precision)
			assert.Equal(t, true, ok)
			assert.Equal(t, v.up, q.String())
		})
	}

	_, ok := MulDivUpAt(decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.Zero, 18)
	assert.Equal(t, false, ok)
}

func TestPow(t *testing.T) {
	assert.Equal(t, "1", Pow(Decimal("1"), 64, 18).String())
	assert.Equal(t, "0.25", Pow(Decimal("0.5"), 2, 18).String())
	assert.Equal(t, "1024", Pow(Decimal("2"), 10, 18).String())
	assert.Equal(t, "1", Pow(Decimal("0.3"), 0, 18).String())
}

func TestFitsInt128(t *testing.T) {
	limit := decimal.NewFromInt(2).Pow(decimal.NewFromInt(127))

	data := map[string]struct {
		v  decimal.Decimal
		ok bool
	}{
		"zero":      {decimal.Zero, true},
		"max":       {limit.Sub(decimal.NewFromInt(1)), true},
		"overflow":  {limit, false},
		"min":       {limit.Neg(), true},
		"underflow": {limit.Neg().Sub(decimal.NewFromInt(1)), false},
		"fraction":  {Decimal("1.5"), false},
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, v.ok, FitsInt128(v.v))
		})
	}
}
