package pool

import (
	"context"

	"lending/core"
	"lending/pkg/lending"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

func (s *poolService) DepositLiquidity(ctx context.Context, symbol, lender string, amount decimal.Decimal) (decimal.Decimal, error) {
	log := logger.FromContext(ctx).WithFields(map[string]interface{}{
		"symbol": symbol,
		"lender": lender,
		"amount": amount,
	})

	if err := s.auth.RequireCaller(ctx, lender); err != nil {
		return decimal.Zero, err
	}

	if err := lending.RequireAmount(amount); err != nil {
		return decimal.Zero, err
	}

	pool, err := s.accrue(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	minted := lending.VTokensToMint(pool, amount)
	if err := lending.Require(minted.IsPositive(), core.ErrAmountTooSmall); err != nil {
		return decimal.Zero, err
	}

	position, _, err := s.pools.FindLender(ctx, symbol, lender)
	if err != nil {
		return decimal.Zero, err
	}

	poolAddress, err := s.poolAddress(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	if err := s.tokens.Transfer(ctx, symbol, lender, poolAddress, amount); err != nil {
		return decimal.Zero, err
	}

	pool.Liquidity = pool.Liquidity.Add(amount)
	pool.VTokenSupply = pool.VTokenSupply.Add(minted)
	pool.VTokensMinted = pool.VTokensMinted.Add(minted)
	pool.VTokenUnitValue = lending.VTokenUnitValue(pool)
	position.VTokenBalance = position.VTokenBalance.Add(minted)

	if err := s.pools.Update(ctx, pool); err != nil {
		log.WithError(err).Errorln("pools.Update")
		return decimal.Zero, err
	}

	if err := s.pools.SaveLender(ctx, position); err != nil {
		log.WithError(err).Errorln("pools.SaveLender")
		return decimal.Zero, err
	}

	s.notify(ctx, core.EventDeposit, symbol, lender, amount)
	s.notify(ctx, core.EventMint, symbol, lender, minted)
	return minted, nil
}

func (s *poolService) WithdrawLiquidity(ctx context.Context, symbol, lender string, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := s.auth.RequireCaller(ctx, lender); err != nil {
		return decimal.Zero, err
	}

	if err := lending.RequireAmount(amount); err != nil {
		return decimal.Zero, err
	}

	pool, err := s.accrue(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	position, ok, err := s.pools.FindLender(ctx, symbol, lender)
	if err != nil {
		return decimal.Zero, err
	}

	if err := lending.Require(ok, core.ErrLenderNotRegistered); err != nil {
		return decimal.Zero, err
	}

	burnt, err := lending.VTokensToBurn(pool, amount)
	if err != nil {
		return decimal.Zero, err
	}

	if err := s.redeem(ctx, pool, position, burnt, amount); err != nil {
		return decimal.Zero, err
	}

	return burnt, nil
}

// RedeemVTokens burn exactly vtokens, paying out their value rounded down
func (s *poolService) RedeemVTokens(ctx context.Context, symbol, lender string, vtokens decimal.Decimal) (decimal.Decimal, error) {
	if err := s.auth.RequireCaller(ctx, lender); err != nil {
		return decimal.Zero, err
	}

	if err := lending.RequireAmount(vtokens); err != nil {
		return decimal.Zero, err
	}

	pool, err := s.accrue(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	position, ok, err := s.pools.FindLender(ctx, symbol, lender)
	if err != nil {
		return decimal.Zero, err
	}

	if err := lending.Require(ok, core.ErrLenderNotRegistered); err != nil {
		return decimal.Zero, err
	}

	if err := lending.Require(vtokens.LessThanOrEqual(position.VTokenBalance), core.ErrInsufficientTokenBalance); err != nil {
		return decimal.Zero, err
	}

	amount, err := lending.VTokensToAsset(pool, vtokens)
	if err != nil {
		return decimal.Zero, err
	}

	if err := lending.Require(amount.IsPositive(), core.ErrAmountTooSmall); err != nil {
		return decimal.Zero, err
	}

	if err := s.redeem(ctx, pool, position, vtokens, amount); err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}

func (s *poolService) redeem(ctx context.Context, pool *core.Pool, position *core.LenderPosition, burnt, amount decimal.Decimal) error {
	log := logger.FromContext(ctx).WithFields(map[string]interface{}{
		"symbol": pool.Symbol,
		"lender": position.Lender,
		"amount": amount,
		"burnt":  burnt,
	})

	if err := lending.Require(lending.RedeemAllowed(pool, amount), core.ErrInsufficientPoolBalance); err != nil {
		log.Debugln("pool: insufficient liquidity", pool.Liquidity)
		return err
	}

	if err := lending.Require(burnt.LessThanOrEqual(position.VTokenBalance), core.ErrInsufficientTokenBalance); err != nil {
		return err
	}

	poolAddress, err := s.poolAddress(ctx, pool.Symbol)
	if err != nil {
		return err
	}

	pool.Liquidity = pool.Liquidity.Sub(amount)
	pool.VTokenSupply = pool.VTokenSupply.Sub(burnt)
	pool.VTokensBurnt = pool.VTokensBurnt.Add(burnt)
	pool.VTokenUnitValue = lending.VTokenUnitValue(pool)
	position.VTokenBalance = position.VTokenBalance.Sub(burnt)

	if err := s.pools.Update(ctx, pool); err != nil {
		log.WithError(err).Errorln("pools.Update")
		return err
	}

	if err := s.pools.SaveLender(ctx, position); err != nil {
		log.WithError(err).Errorln("pools.SaveLender")
		return err
	}

	if err := s.tokens.Transfer(ctx, pool.Symbol, poolAddress, position.Lender, amount); err != nil {
		log.WithError(err).Errorln("tokens.Transfer")
		return err
	}

	s.notify(ctx, core.EventWithdraw, pool.Symbol, position.Lender, amount)
	s.notify(ctx, core.EventBurn, pool.Symbol, position.Lender, burnt)
	return nil
}

func (s *poolService) VTokenBalance(ctx context.Context, symbol, lender string) (decimal.Decimal, error) {
	if _, err := s.pools.Find(ctx, symbol); err != nil {
		return decimal.Zero, err
	}

	position, _, err := s.pools.FindLender(ctx, symbol, lender)
	if err != nil {
		return decimal.Zero, err
	}

	return position.VTokenBalance, nil
}
