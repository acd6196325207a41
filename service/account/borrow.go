package account

import (
	"context"

	"lending/core"
	"lending/pkg/lending"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// Borrow borrow amount of symbol into the margin account, gated by the risk engine
func (s *accountService) Borrow(ctx context.Context, userID, symbol string, amount decimal.Decimal) error {
	log := logger.FromContext(ctx).WithFields(map[string]interface{}{
		"user":   userID,
		"symbol": symbol,
		"amount": amount,
	})

	if err := s.auth.RequireCaller(ctx, userID); err != nil {
		return err
	}

	if err := lending.RequireAmount(amount); err != nil {
		return err
	}

	account, err := s.loadActive(ctx, userID)
	if err != nil {
		return err
	}

	allowed, err := s.risk.IsBorrowAllowed(ctx, symbol, amount, account)
	if err != nil {
		return err
	}

	if err := lending.Require(allowed, core.ErrBorrowNotAllowed); err != nil {
		log.Debugln("account: borrow would leave the account unhealthy")
		return err
	}

	managerCtx, err := s.asManager(ctx)
	if err != nil {
		return err
	}

	firstBorrow, err := s.pools.BorrowTo(managerCtx, symbol, account.Address, amount)
	if err != nil {
		return err
	}

	if err := account.RecordBorrow(symbol, amount); err != nil {
		return err
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		log.WithError(err).Errorln("accounts.Update")
		return err
	}

	log.Debugln("account: borrowed, first borrow", firstBorrow)
	return nil
}

// Repay pay back amount of symbol, drawn from the free margin balance first and the user wallet for the rest
func (s *accountService) Repay(ctx context.Context, userID, symbol string, amount decimal.Decimal) (bool, error) {
	log := logger.FromContext(ctx).WithFields(map[string]interface{}{
		"user":   userID,
		"symbol": symbol,
		"amount": amount,
	})

	if err := s.auth.RequireCaller(ctx, userID); err != nil {
		return false, err
	}

	if err := lending.RequireAmount(amount); err != nil {
		return false, err
	}

	account, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}

	if err := lending.Require(account.HasBorrowed(symbol), core.ErrBorrowedTokenNotFound); err != nil {
		return false, err
	}

	owed, err := s.pools.RepayAmount(ctx, symbol, account.Address)
	if err != nil {
		return false, err
	}

	if err := lending.Require(amount.LessThanOrEqual(owed), core.ErrRepayExceedsDebt); err != nil {
		return false, err
	}

	shares, err := s.pools.AssetToShares(ctx, symbol, amount)
	if err != nil {
		return false, err
	}

	if err := lending.Require(shares.IsPositive(), core.ErrZeroShares); err != nil {
		return false, err
	}

	poolAddress, err := s.registry.Resolve(ctx, core.ServicePool(symbol))
	if err != nil {
		return false, err
	}

	free, err := FreeBalance(ctx, s.tokens, account, symbol)
	if err != nil {
		return false, err
	}

	fromMargin := decimal.Min(free, amount)
	fromWallet := amount.Sub(fromMargin)

	if fromMargin.IsPositive() {
		if err := s.tokens.Transfer(ctx, symbol, account.Address, poolAddress, fromMargin); err != nil {
			log.WithError(err).Errorln("tokens.Transfer")
			return false, err
		}
	}

	if fromWallet.IsPositive() {
		if err := s.tokens.Transfer(ctx, symbol, userID, poolAddress, fromWallet); err != nil {
			return false, err
		}
	}

	managerCtx, err := s.asManager(ctx)
	if err != nil {
		return false, err
	}

	fullyRepaid, err := s.pools.CollectFrom(managerCtx, symbol, account.Address, amount)
	if err != nil {
		return false, err
	}

	if err := account.RecordRepay(symbol, fullyRepaid); err != nil {
		return false, err
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		log.WithError(err).Errorln("accounts.Update")
		return false, err
	}

	return fullyRepaid, nil
}
