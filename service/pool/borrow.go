package pool

import (
	"context"

	"lending/core"
	"lending/pkg/lending"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// BorrowTo lend amount to borrower
//
// Shares are rounded up and the debt booked is their value rounded up,
// so the borrow share price never drops.
func (s *poolService) BorrowTo(ctx context.Context, symbol, borrower string, amount decimal.Decimal) (bool, error) {
	log := logger.FromContext(ctx).WithFields(map[string]interface{}{
		"symbol":   symbol,
		"borrower": borrower,
		"amount":   amount,
	})

	if err := s.requireManager(ctx); err != nil {
		return false, err
	}

	if err := lending.RequireAmount(amount); err != nil {
		return false, err
	}

	pool, err := s.accrue(ctx, symbol)
	if err != nil {
		return false, err
	}

	if err := lending.Require(lending.RedeemAllowed(pool, amount), core.ErrInsufficientPoolBalance); err != nil {
		log.Debugln("pool: insufficient liquidity", pool.Liquidity)
		return false, err
	}

	shares, err := lending.AssetToSharesUp(pool, amount)
	if err != nil {
		return false, err
	}

	if err := lending.Require(shares.IsPositive(), core.ErrZeroShares); err != nil {
		return false, err
	}

	debt, err := lending.SharesToDebtUp(pool, shares)
	if err != nil {
		return false, err
	}

	account, err := s.pools.FindBorrower(ctx, symbol, borrower)
	if err != nil {
		return false, err
	}

	poolAddress, err := s.poolAddress(ctx, symbol)
	if err != nil {
		return false, err
	}

	firstBorrow := account.Shares.IsZero()

	account.Shares = account.Shares.Add(shares)
	pool.TotalBorrowShares = pool.TotalBorrowShares.Add(shares)
	pool.TotalBorrows = pool.TotalBorrows.Add(debt)
	pool.Liquidity = pool.Liquidity.Sub(amount)
	pool.VTokenUnitValue = lending.VTokenUnitValue(pool)

	if err := s.pools.Update(ctx, pool); err != nil {
		log.WithError(err).Errorln("pools.Update")
		return false, err
	}

	if err := s.pools.SaveBorrower(ctx, account); err != nil {
		log.WithError(err).Errorln("pools.SaveBorrower")
		return false, err
	}

	if err := s.tokens.Transfer(ctx, symbol, poolAddress, borrower, amount); err != nil {
		log.WithError(err).Errorln("tokens.Transfer")
		return false, err
	}

	s.notify(ctx, core.EventBorrow, symbol, borrower, amount)
	return firstBorrow, nil
}

// CollectFrom book a repayment of amount, already transferred to the pool
//
// Paying at least the rounded up debt burns every share of borrower.
func (s *poolService) CollectFrom(ctx context.Context, symbol, borrower string, amount decimal.Decimal) (bool, error) {
	log := logger.FromContext(ctx).WithFields(map[string]interface{}{
		"symbol":   symbol,
		"borrower": borrower,
		"amount":   amount,
	})

	if err := s.requireManager(ctx); err != nil {
		return false, err
	}

	if err := lending.RequireAmount(amount); err != nil {
		return false, err
	}

	pool, err := s.accrue(ctx, symbol)
	if err != nil {
		return false, err
	}

	account, err := s.pools.FindBorrower(ctx, symbol, borrower)
	if err != nil {
		return false, err
	}

	if err := lending.Require(account.Shares.IsPositive(), core.ErrBorrowNotFound); err != nil {
		return false, err
	}

	shares, err := lending.AssetToShares(pool, amount)
	if err != nil {
		return false, err
	}

	if err := lending.Require(shares.IsPositive(), core.ErrZeroShares); err != nil {
		return false, err
	}

	owed, err := lending.SharesToAssetUp(pool, account.Shares)
	if err != nil {
		return false, err
	}

	if err := lending.Require(amount.LessThanOrEqual(owed), core.ErrRepayExceedsDebt); err != nil {
		log.Debugln("pool: repay exceeds debt", owed)
		return false, err
	}

	if amount.Equal(owed) {
		shares = account.Shares
	}

	// debt leaving the pool is the value of the burnt shares, rounded down
	removed, err := lending.SharesToDebt(pool, shares)
	if err != nil {
		return false, err
	}

	account.Shares = account.Shares.Sub(shares)
	lending.BurnShares(pool, shares, removed)
	pool.Liquidity = pool.Liquidity.Add(amount)
	pool.VTokenUnitValue = lending.VTokenUnitValue(pool)

	if err := s.pools.Update(ctx, pool); err != nil {
		log.WithError(err).Errorln("pools.Update")
		return false, err
	}

	if err := s.pools.SaveBorrower(ctx, account); err != nil {
		log.WithError(err).Errorln("pools.SaveBorrower")
		return false, err
	}

	s.notify(ctx, core.EventRepay, symbol, borrower, amount)
	return account.Shares.IsZero(), nil
}

// CloseBorrow burn every share of borrower, the part of the debt not recovered is written off
func (s *poolService) CloseBorrow(ctx context.Context, symbol, borrower string, recovered decimal.Decimal) (decimal.Decimal, error) {
	log := logger.FromContext(ctx).WithFields(map[string]interface{}{
		"symbol":    symbol,
		"borrower":  borrower,
		"recovered": recovered,
	})

	if err := s.requireManager(ctx); err != nil {
		return decimal.Zero, err
	}

	if err := lending.Require(!recovered.IsNegative(), core.ErrInvalidAmount); err != nil {
		return decimal.Zero, err
	}

	pool, err := s.accrue(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	account, err := s.pools.FindBorrower(ctx, symbol, borrower)
	if err != nil {
		return decimal.Zero, err
	}

	if err := lending.Require(account.Shares.IsPositive(), core.ErrBorrowNotFound); err != nil {
		return decimal.Zero, err
	}

	debt, err := lending.SharesToAssetUp(pool, account.Shares)
	if err != nil {
		return decimal.Zero, err
	}

	if err := lending.Require(recovered.LessThanOrEqual(debt), core.ErrRepayExceedsDebt); err != nil {
		return decimal.Zero, err
	}

	removed, err := lending.SharesToDebt(pool, account.Shares)
	if err != nil {
		return decimal.Zero, err
	}

	lending.BurnShares(pool, account.Shares, removed)
	account.Shares = decimal.Zero
	pool.Liquidity = pool.Liquidity.Add(recovered)
	pool.VTokenUnitValue = lending.VTokenUnitValue(pool)

	if err := s.pools.Update(ctx, pool); err != nil {
		log.WithError(err).Errorln("pools.Update")
		return decimal.Zero, err
	}

	if err := s.pools.SaveBorrower(ctx, account); err != nil {
		log.WithError(err).Errorln("pools.SaveBorrower")
		return decimal.Zero, err
	}

	if recovered.IsPositive() {
		s.notify(ctx, core.EventRepay, symbol, borrower, recovered)
	}

	if loss := debt.Sub(recovered); loss.IsPositive() {
		log.Infoln("pool: bad debt written off", loss)
		s.notify(ctx, core.EventBadDebt, symbol, borrower, loss)
	}

	return debt, nil
}

// AbsorbCollateral credit seized collateral, already transferred to the pool, to liquidity
func (s *poolService) AbsorbCollateral(ctx context.Context, symbol string, amount decimal.Decimal) error {
	if err := s.requireManager(ctx); err != nil {
		return err
	}

	if err := lending.RequireAmount(amount); err != nil {
		return err
	}

	pool, err := s.accrue(ctx, symbol)
	if err != nil {
		return err
	}

	pool.Liquidity = pool.Liquidity.Add(amount)
	pool.VTokenUnitValue = lending.VTokenUnitValue(pool)

	if err := s.pools.Update(ctx, pool); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("pools.Update")
		return err
	}

	return nil
}
