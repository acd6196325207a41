package lending

import (
	"lending/core"

	"github.com/shopspring/decimal"
)

// MaxPricision max pricision of accrued borrows
var MaxPricision int32 = 18

// AccrueInterest accrue interest of the pool up to now (unix seconds)
//
// Accrual is idempotent for equal timestamps and ignores clocks moving backwards.
// A pool that was never accrued only records the timestamp.
func AccrueInterest(pool *core.Pool, model core.IRateModel, now int64) bool {
	if pool.LastUpdatedAt == 0 {
		pool.LastUpdatedAt = now
		return true
	}

	delta := now - pool.LastUpdatedAt
	if delta <= 0 {
		return false
	}

	borrowRate := model.BorrowRatePerSecond(pool.Liquidity, pool.TotalBorrows)
	rateFactor := borrowRate.Mul(decimal.NewFromInt(delta))
	interestAccumulated := pool.TotalBorrows.Mul(rateFactor).Truncate(MaxPricision)

	pool.TotalBorrows = pool.TotalBorrows.Add(interestAccumulated)
	pool.LastUpdatedAt = now
	pool.VTokenUnitValue = VTokenUnitValue(pool)
	return true
}
