package risk

import (
	"context"

	"lending/core"

	"github.com/facebookgo/clock"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type riskService struct {
	params   core.IParamsStore
	accounts core.IAccountStore
	oracle   core.PriceOracle
	pools    core.IPoolService
	auth     core.AuthGate
	notifier core.INotifier
	clock    clock.Clock
}

// New new risk service
func New(
	params core.IParamsStore,
	accounts core.IAccountStore,
	oracle core.PriceOracle,
	pools core.IPoolService,
	auth core.AuthGate,
	notifier core.INotifier,
	clk clock.Clock,
) core.IRiskService {
	return &riskService{
		params:   params,
		accounts: accounts,
		oracle:   oracle,
		pools:    pools,
		auth:     auth,
		notifier: notifier,
		clock:    clk,
	}
}

func (s *riskService) Parameters(ctx context.Context) (*core.RiskParameters, error) {
	return s.params.Find(ctx)
}

func (s *riskService) SetParameters(ctx context.Context, params *core.RiskParameters) error {
	if err := s.auth.RequireAdmin(ctx); err != nil {
		return err
	}

	if err := params.Validate(); err != nil {
		return err
	}

	if err := s.requireWithinCap(ctx, params.MaxCollateralAssetCount); err != nil {
		return err
	}

	if err := s.params.Save(ctx, params); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("params.Save")
		return err
	}

	if s.notifier != nil {
		event := &core.Event{
			Type:      core.EventParametersUpdated,
			Amount:    params.MinHealthRatio,
			Timestamp: core.BlockTime(ctx, s.clock),
		}

		if err := s.notifier.Notify(ctx, event); err != nil {
			logger.FromContext(ctx).WithError(err).Errorln("notifier.Notify")
		}
	}

	return nil
}

// requireWithinCap no live account holds more collateral symbols than limit
func (s *riskService) requireWithinCap(ctx context.Context, limit int) error {
	users, err := s.accounts.List(ctx)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("accounts.List")
		return err
	}

	for _, userID := range users {
		account, err := s.accounts.Find(ctx, userID)
		if err != nil {
			return err
		}

		if !account.IsDeleted() && len(account.CollateralTokens) > limit {
			logger.FromContext(ctx).Infoln("risk: cap below collateral count of", userID)
			return core.ErrMaxAssetCapCrossed
		}
	}

	return nil
}

// value usd value of amount units of symbol
func (s *riskService) value(ctx context.Context, symbol string, amount decimal.Decimal) (decimal.Decimal, error) {
	price, decimals, err := s.oracle.Price(ctx, symbol, core.QuoteUSD)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("oracle.Price", symbol)
		return decimal.Zero, err
	}

	return amount.Mul(price).Shift(-decimals), nil
}

func (s *riskService) TotalCollateralValueUsd(ctx context.Context, account *core.MarginAccount) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, symbol := range account.CollateralTokens {
		value, err := s.value(ctx, symbol, account.CollateralOf(symbol))
		if err != nil {
			return decimal.Zero, err
		}

		total = total.Add(value)
	}

	return total, nil
}

func (s *riskService) TotalDebtValueUsd(ctx context.Context, account *core.MarginAccount) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, symbol := range account.BorrowedTokens {
		debt, err := s.pools.BorrowBalance(ctx, symbol, account.Address)
		if err != nil {
			return decimal.Zero, err
		}

		value, err := s.value(ctx, symbol, debt)
		if err != nil {
			return decimal.Zero, err
		}

		total = total.Add(value)
	}

	return total, nil
}

// IsHealthy balance / debt strictly above the minimum health ratio, always true without debt
func (s *riskService) IsHealthy(ctx context.Context, balanceUsd, debtUsd decimal.Decimal) (bool, error) {
	if !debtUsd.IsPositive() {
		return true, nil
	}

	params, err := s.params.Find(ctx)
	if err != nil {
		return false, err
	}

	return balanceUsd.GreaterThan(debtUsd.Mul(params.MinHealthRatio)), nil
}

func (s *riskService) IsBorrowAllowed(ctx context.Context, symbol string, amount decimal.Decimal, account *core.MarginAccount) (bool, error) {
	log := logger.FromContext(ctx).WithField("user", account.UserID)

	balance, err := s.TotalCollateralValueUsd(ctx, account)
	if err != nil {
		return false, err
	}

	debt, err := s.TotalDebtValueUsd(ctx, account)
	if err != nil {
		return false, err
	}

	value, err := s.value(ctx, symbol, amount)
	if err != nil {
		return false, err
	}

	ok, err := s.IsHealthy(ctx, balance.Add(value), debt.Add(value))
	if err != nil {
		return false, err
	}

	if !ok {
		log.Debugf("risk: borrow %s %s rejected, balance %s debt %s", amount, symbol, balance, debt)
	}

	return ok, nil
}

func (s *riskService) IsWithdrawAllowed(ctx context.Context, symbol string, amount decimal.Decimal, account *core.MarginAccount) (bool, error) {
	if !account.HasDebt() {
		return true, nil
	}

	balance, err := s.TotalCollateralValueUsd(ctx, account)
	if err != nil {
		return false, err
	}

	debt, err := s.TotalDebtValueUsd(ctx, account)
	if err != nil {
		return false, err
	}

	value, err := s.value(ctx, symbol, amount)
	if err != nil {
		return false, err
	}

	return s.IsHealthy(ctx, balance.Sub(value), debt)
}

func (s *riskService) HealthRatio(ctx context.Context, account *core.MarginAccount) (decimal.Decimal, error) {
	debt, err := s.TotalDebtValueUsd(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}

	if !debt.IsPositive() {
		return decimal.Zero, nil
	}

	balance, err := s.TotalCollateralValueUsd(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}

	return balance.DivRound(debt, 18), nil
}

func (s *riskService) IsAccountHealthy(ctx context.Context, account *core.MarginAccount) (bool, error) {
	balance, err := s.TotalCollateralValueUsd(ctx, account)
	if err != nil {
		return false, err
	}

	debt, err := s.TotalDebtValueUsd(ctx, account)
	if err != nil {
		return false, err
	}

	return s.IsHealthy(ctx, balance, debt)
}
