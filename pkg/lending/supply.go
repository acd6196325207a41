package lending

import (
	"lending/core"
	"lending/pkg/number"

	"github.com/shopspring/decimal"
)

// VTokenUnitValue asset value of one v-token, zero without supply
func VTokenUnitValue(pool *core.Pool) decimal.Decimal {
	if pool.VTokenSupply.IsZero() {
		return decimal.Zero
	}

	return pool.TotalAssets().DivRound(pool.VTokenSupply, MaxPricision)
}

// VTokensToMint v-tokens minted for a deposit of amount, rounded down
// minted = amount * vtoken_supply / total_assets
func VTokensToMint(pool *core.Pool, amount decimal.Decimal) decimal.Decimal {
	total := pool.TotalAssets()
	if pool.VTokenSupply.IsZero() || total.IsZero() {
		return amount
	}

	minted, _ := number.MulDiv(amount, pool.VTokenSupply, total)
	return minted
}

// VTokensToBurn v-tokens burnt for a withdrawal of amount, rounded up
func VTokensToBurn(pool *core.Pool, amount decimal.Decimal) (decimal.Decimal, error) {
	if VTokenUnitValue(pool).IsZero() {
		return decimal.Zero, core.ErrInvalidVTokenValue
	}

	burnt, ok := number.MulDivUp(amount, pool.VTokenSupply, pool.TotalAssets())
	if !ok {
		return decimal.Zero, core.ErrDivisionByZero
	}

	return burnt, nil
}

// VTokensToAsset asset value of vtokens, rounded down
func VTokensToAsset(pool *core.Pool, vtokens decimal.Decimal) (decimal.Decimal, error) {
	if VTokenUnitValue(pool).IsZero() {
		return decimal.Zero, core.ErrInvalidVTokenValue
	}

	amount, ok := number.MulDiv(vtokens, pool.TotalAssets(), pool.VTokenSupply)
	if !ok {
		return decimal.Zero, core.ErrDivisionByZero
	}

	return amount, nil
}

// RedeemAllowed pool holds enough liquidity for amount
func RedeemAllowed(pool *core.Pool, amount decimal.Decimal) bool {
	return pool.Liquidity.GreaterThanOrEqual(amount)
}
