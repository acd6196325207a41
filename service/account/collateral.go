package account

import (
	"context"

	"lending/core"
	"lending/pkg/lending"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

func (s *accountService) DepositCollateral(ctx context.Context, userID, symbol string, amount decimal.Decimal) error {
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

	params, err := s.risk.Parameters(ctx)
	if err != nil {
		return err
	}

	if err := account.AddCollateral(symbol, amount, params); err != nil {
		log.WithError(err).Debugln("account: collateral rejected")
		return err
	}

	if err := s.tokens.Transfer(ctx, symbol, userID, account.Address, amount); err != nil {
		return err
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		log.WithError(err).Errorln("accounts.Update")
		return err
	}

	s.notify(ctx, core.EventCollateralIn, symbol, userID, amount)
	return nil
}

func (s *accountService) WithdrawCollateral(ctx context.Context, userID, symbol string, amount decimal.Decimal) error {
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

	account, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	if err := lending.Require(account.HasCollateral(symbol), core.ErrCollateralTokenNotFound); err != nil {
		return err
	}

	if err := lending.Require(amount.LessThanOrEqual(account.CollateralOf(symbol)), core.ErrInsufficientBalance); err != nil {
		return err
	}

	allowed, err := s.risk.IsWithdrawAllowed(ctx, symbol, amount, account)
	if err != nil {
		return err
	}

	if err := lending.Require(allowed, core.ErrWithdrawNotAllowed); err != nil {
		log.Debugln("account: withdraw would leave the account unhealthy")
		return err
	}

	if err := account.RemoveCollateral(symbol, amount); err != nil {
		return err
	}

	if err := s.tokens.Transfer(ctx, symbol, account.Address, userID, amount); err != nil {
		log.WithError(err).Errorln("tokens.Transfer")
		return err
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		log.WithError(err).Errorln("accounts.Update")
		return err
	}

	s.notify(ctx, core.EventCollateralOut, symbol, userID, amount)
	return nil
}
