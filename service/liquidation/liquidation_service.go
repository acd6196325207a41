package liquidation

import (
	"context"

	"lending/core"
	"lending/service/account"

	"github.com/facebookgo/clock"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type liquidationService struct {
	accounts       core.IAccountStore
	accountService core.IAccountService
	pools          core.IPoolService
	tokens         core.TokenTransfer
	registry       core.Registry
	auth           core.AuthGate
	notifier       core.INotifier
	clock          clock.Clock
}

// New new liquidation service
func New(
	accounts core.IAccountStore,
	accountService core.IAccountService,
	pools core.IPoolService,
	tokens core.TokenTransfer,
	registry core.Registry,
	auth core.AuthGate,
	notifier core.INotifier,
	clk clock.Clock,
) core.ILiquidationService {
	return &liquidationService{
		accounts:       accounts,
		accountService: accountService,
		pools:          pools,
		tokens:         tokens,
		registry:       registry,
		auth:           auth,
		notifier:       notifier,
		clock:          clk,
	}
}

// Liquidate close every borrow of the account with what its free balance covers,
// then sweep all posted collateral into the matching pools
func (s *liquidationService) Liquidate(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx).WithField("user", userID)

	acc, err := s.accounts.Find(ctx, userID)
	if err != nil {
		return err
	}

	if acc.IsDeleted() {
		return core.ErrAccountDeleted
	}

	manager, err := s.registry.Resolve(ctx, core.ServiceAccountManager)
	if err != nil {
		return err
	}
	managerCtx := core.WithCaller(ctx, manager)

	repaid := decimal.Zero
	for _, symbol := range append([]string(nil), acc.BorrowedTokens...) {
		poolAddress, err := s.registry.Resolve(ctx, core.ServicePool(symbol))
		if err != nil {
			return err
		}

		debt, err := s.pools.RepayAmount(ctx, symbol, acc.Address)
		if err != nil {
			return err
		}

		free, err := account.FreeBalance(ctx, s.tokens, acc, symbol)
		if err != nil {
			return err
		}

		pay := decimal.Min(free, debt)
		if pay.IsPositive() {
			if err := s.tokens.Transfer(ctx, symbol, acc.Address, poolAddress, pay); err != nil {
				log.WithError(err).Errorln("tokens.Transfer", symbol)
				return err
			}
		}

		if _, err := s.pools.CloseBorrow(managerCtx, symbol, acc.Address, pay); err != nil {
			log.WithError(err).Errorln("pools.CloseBorrow", symbol)
			return err
		}

		if err := acc.RecordRepay(symbol, true); err != nil {
			return err
		}

		repaid = repaid.Add(pay)
	}

	for _, symbol := range append([]string(nil), acc.CollateralTokens...) {
		amount := acc.CollateralOf(symbol)

		poolAddress, err := s.registry.Resolve(ctx, core.ServicePool(symbol))
		if err != nil {
			return err
		}

		if err := s.tokens.Transfer(ctx, symbol, acc.Address, poolAddress, amount); err != nil {
			log.WithError(err).Errorln("tokens.Transfer", symbol)
			return err
		}

		if err := s.pools.AbsorbCollateral(managerCtx, symbol, amount); err != nil {
			log.WithError(err).Errorln("pools.AbsorbCollateral", symbol)
			return err
		}

		if err := acc.RemoveCollateral(symbol, amount); err != nil {
			return err
		}
	}

	if err := s.accounts.Update(ctx, acc); err != nil {
		log.WithError(err).Errorln("accounts.Update")
		return err
	}

	log.Infoln("liquidation: account liquidated")
	s.notify(ctx, core.EventLiquidate, userID, repaid)
	return nil
}

// SettleAccount repay the full debt of every borrowed symbol
func (s *liquidationService) SettleAccount(ctx context.Context, userID string) error {
	if err := s.auth.RequireCaller(ctx, userID); err != nil {
		return err
	}

	acc, err := s.accounts.Find(ctx, userID)
	if err != nil {
		return err
	}

	if acc.IsDeleted() {
		return core.ErrAccountDeleted
	}

	for _, symbol := range append([]string(nil), acc.BorrowedTokens...) {
		amount, err := s.pools.RepayAmount(ctx, symbol, acc.Address)
		if err != nil {
			return err
		}

		if _, err := s.accountService.Repay(ctx, userID, symbol, amount); err != nil {
			logger.FromContext(ctx).WithError(err).Errorln("accounts.Repay", symbol)
			return err
		}
	}

	s.notify(ctx, core.EventSettle, userID, decimal.Zero)
	return nil
}

func (s *liquidationService) notify(ctx context.Context, typ core.EventType, userID string, amount decimal.Decimal) {
	if s.notifier == nil {
		return
	}

	event := &core.Event{
		Type:      typ,
		Account:   userID,
		Amount:    amount,
		Timestamp: core.BlockTime(ctx, s.clock),
	}

	if err := s.notifier.Notify(ctx, event); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("notifier.Notify", typ)
	}
}
