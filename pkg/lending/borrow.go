package lending

import (
	"lending/core"
	"lending/pkg/number"

	"github.com/shopspring/decimal"
)

// Borrow shares and total borrows are kept at MaxPricision decimal places,
// asset amounts paid or owed are whole units.

// AssetToShares shares worth amount, rounded down
// shares = amount * total_borrow_shares / total_borrows
func AssetToShares(pool *core.Pool, amount decimal.Decimal) (decimal.Decimal, error) {
	if pool.TotalBorrowShares.IsZero() {
		return amount, nil
	}

	shares, ok := number.MulDivAt(amount, pool.TotalBorrowShares, pool.TotalBorrows, MaxPricision)
	if !ok {
		return decimal.Zero, core.ErrDivisionByZero
	}

	return shares, nil
}

// AssetToSharesUp shares worth amount, rounded up
func AssetToSharesUp(pool *core.Pool, amount decimal.Decimal) (decimal.Decimal, error) {
	if pool.TotalBorrowShares.IsZero() {
		return amount, nil
	}

	shares, ok := number.MulDivUpAt(amount, pool.TotalBorrowShares, pool.TotalBorrows, MaxPricision)
	if !ok {
		return decimal.Zero, core.ErrDivisionByZero
	}

	return shares, nil
}

// SharesToAsset asset value of shares in whole units, rounded down
// amount = shares * total_borrows / total_borrow_shares
func SharesToAsset(pool *core.Pool, shares decimal.Decimal) (decimal.Decimal, error) {
	return sharesValue(pool, shares, 0, false)
}

// SharesToAssetUp asset value of shares in whole units, rounded up
func SharesToAssetUp(pool *core.Pool, shares decimal.Decimal) (decimal.Decimal, error) {
	return sharesValue(pool, shares, 0, true)
}

// SharesToDebt debt booked against shares in total borrows, rounded down
func SharesToDebt(pool *core.Pool, shares decimal.Decimal) (decimal.Decimal, error) {
	return sharesValue(pool, shares, MaxPricision, false)
}

// SharesToDebtUp debt booked against shares in total borrows, rounded up
func SharesToDebtUp(pool *core.Pool, shares decimal.Decimal) (decimal.Decimal, error) {
	return sharesValue(pool, shares, MaxPricision, true)
}

func sharesValue(pool *core.Pool, shares decimal.Decimal, precision int32, up bool) (decimal.Decimal, error) {
	if pool.TotalBorrowShares.IsZero() {
		if up {
			return shares.RoundCeil(precision), nil
		}

		return shares.RoundFloor(precision), nil
	}

	mulDiv := number.MulDivAt
	if up {
		mulDiv = number.MulDivUpAt
	}

	amount, ok := mulDiv(shares, pool.TotalBorrows, pool.TotalBorrowShares, precision)
	if !ok {
		return decimal.Zero, core.ErrDivisionByZero
	}

	return amount, nil
}

// BurnShares remove shares and the debt they represent from the pool totals
func BurnShares(pool *core.Pool, shares, debt decimal.Decimal) {
	pool.TotalBorrowShares = pool.TotalBorrowShares.Sub(shares)
	if !pool.TotalBorrowShares.IsPositive() {
		pool.TotalBorrowShares = decimal.Zero
		pool.TotalBorrows = decimal.Zero
		return
	}

	pool.TotalBorrows = decimal.Max(pool.TotalBorrows.Sub(debt), decimal.Zero)
}
