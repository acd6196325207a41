package ratemodel

import (
	"lending/core"
	"lending/pkg/number"

	"github.com/shopspring/decimal"
)

var (
	// MaxPricision max pricision
	MaxPricision int32 = 18

	// DefaultC1 linear and u^32 coefficient
	DefaultC1 = decimal.New(1, -1)
	// DefaultC2 u^64 coefficient
	DefaultC2 = decimal.New(3, -1)
	// DefaultC3 curve multiplier
	DefaultC3 = decimal.New(35, -1)
	// SecondsPerYear seconds per year
	SecondsPerYear = decimal.NewFromInt(31556952)
)

// Model convex utilization curve
// rate = c3 * (c1*u + c1*u^32 + c2*u^64) / seconds_per_year
type Model struct {
	C1             decimal.Decimal
	C2             decimal.Decimal
	C3             decimal.Decimal
	SecondsPerYear decimal.Decimal
}

// Default model with the default constants
func Default() *Model {
	return &Model{
		C1:             DefaultC1,
		C2:             DefaultC2,
		C3:             DefaultC3,
		SecondsPerYear: SecondsPerYear,
	}
}

// New new rate model
func New(c1, c2, c3 decimal.Decimal, secondsPerYear int64) *Model {
	return &Model{
		C1:             c1,
		C2:             c2,
		C3:             c3,
		SecondsPerYear: decimal.NewFromInt(secondsPerYear),
	}
}

var _ core.IRateModel = (*Model)(nil)

// Validate constants are positive and ordered c1 < c2 < c3
func (m *Model) Validate() error {
	if !m.C1.IsPositive() || !m.SecondsPerYear.IsPositive() {
		return core.ErrInvalidParameters
	}

	if !m.C1.LessThan(m.C2) || !m.C2.LessThan(m.C3) {
		return core.ErrInvalidParameters
	}

	return nil
}

// UtilizationRate utilization rate
// utilization_rate = borrows / (liquidity + borrows)
func (m *Model) UtilizationRate(liquidity, borrows decimal.Decimal) decimal.Decimal {
	total := liquidity.Add(borrows)
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return borrows.DivRound(total, MaxPricision+1).Truncate(MaxPricision)
}

// BorrowRatePerYear borrow APR
func (m *Model) BorrowRatePerYear(liquidity, borrows decimal.Decimal) decimal.Decimal {
	return m.annualRate(m.UtilizationRate(liquidity, borrows)).Truncate(MaxPricision)
}

// BorrowRatePerSecond borrow rate per second
func (m *Model) BorrowRatePerSecond(liquidity, borrows decimal.Decimal) decimal.Decimal {
	if !m.SecondsPerYear.IsPositive() {
		return decimal.Zero
	}

	rate := m.annualRate(m.UtilizationRate(liquidity, borrows))
	return rate.DivRound(m.SecondsPerYear, 2*MaxPricision)
}

func (m *Model) annualRate(u decimal.Decimal) decimal.Decimal {
	if u.IsZero() {
		return decimal.Zero
	}

	// intermediates keep twice the output precision
	u32 := number.Pow(u, 32, 2*MaxPricision)
	u64 := u32.Mul(u32).Truncate(2 * MaxPricision)

	curve := m.C1.Mul(u).Add(m.C1.Mul(u32)).Add(m.C2.Mul(u64))
	return m.C3.Mul(curve)
}

// SupplyRatePerYear lender APR, borrow interest spread over total assets
func (m *Model) SupplyRatePerYear(liquidity, borrows decimal.Decimal) decimal.Decimal {
	u := m.UtilizationRate(liquidity, borrows)
	return m.BorrowRatePerYear(liquidity, borrows).Mul(u).Truncate(MaxPricision)
}
