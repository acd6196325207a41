package ratemodel

import (
	"testing"

	"lending/core"
	"lending/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUtilizationRate(t *testing.T) {
	m := Default()

	assert.True(t, m.UtilizationRate(decimal.Zero, decimal.Zero).IsZero())
	assert.True(t, m.UtilizationRate(number.Decimal("100"), decimal.Zero).IsZero())
	assert.Equal(t, "0.5", m.UtilizationRate(number.Decimal("50"), number.Decimal("50")).String())
	assert.Equal(t, "1", m.UtilizationRate(decimal.Zero, number.Decimal("10")).String())
}

func TestBorrowRate(t *testing.T) {
	m := Default()

	assert.True(t, m.BorrowRatePerSecond(number.Decimal("100"), decimal.Zero).IsZero())

	// u = 1: 3.5 * (0.1 + 0.1 + 0.3)
	assert.Equal(t, "1.75", m.BorrowRatePerYear(decimal.Zero, number.Decimal("1")).String())

	perSecond := m.BorrowRatePerSecond(decimal.Zero, number.Decimal("1"))
	annualized := perSecond.Mul(SecondsPerYear)
	assert.True(t, annualized.Sub(number.Decimal("1.75")).Abs().LessThan(number.Decimal("0.000000000001")))
}

func TestBorrowRateIsConvex(t *testing.T) {
	m := Default()
	total := number.Decimal("100")

	var prev, prevSlope decimal.Decimal
	for borrows := int64(10); borrows <= 100; borrows += 10 {
		b := decimal.NewFromInt(borrows)
		rate := m.BorrowRatePerYear(total.Sub(b), b)
		assert.True(t, rate.GreaterThan(prev), "rate should increase with utilization")

		slope := rate.Sub(prev)
		if borrows > 20 {
			assert.True(t, slope.GreaterThanOrEqual(prevSlope), "rate should be convex")
		}
		prev, prevSlope = rate, slope
	}
}

func TestNearLinearAtLowUtilization(t *testing.T) {
	m := Default()

	// u = 0.1: the u^32 and u^64 terms vanish
	rate := m.BorrowRatePerYear(number.Decimal("90"), number.Decimal("10"))
	assert.Equal(t, "0.035", rate.Truncate(12).String())
}

func TestSupplyRate(t *testing.T) {
	m := Default()

	borrowRate := m.BorrowRatePerYear(number.Decimal("50"), number.Decimal("50"))
	supplyRate := m.SupplyRatePerYear(number.Decimal("50"), number.Decimal("50"))
	assert.True(t, supplyRate.LessThan(borrowRate))
	assert.True(t, supplyRate.IsPositive())
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Default().Validate())
	assert.Equal(t, core.ErrInvalidParameters, New(DefaultC2, DefaultC1, DefaultC3, 31556952).Validate())
	assert.Equal(t, core.ErrInvalidParameters, New(DefaultC1, DefaultC2, DefaultC3, 0).Validate())
}
