package pool

import (
	"context"

	"lending/core"
	"lending/pkg/lending"

	"github.com/facebookgo/clock"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type poolService struct {
	pools    core.IPoolStore
	model    core.IRateModel
	tokens   core.TokenTransfer
	registry core.Registry
	auth     core.AuthGate
	notifier core.INotifier
	clock    clock.Clock
}

// New new pool service
func New(
	pools core.IPoolStore,
	model core.IRateModel,
	tokens core.TokenTransfer,
	registry core.Registry,
	auth core.AuthGate,
	notifier core.INotifier,
	clk clock.Clock,
) core.IPoolService {
	return &poolService{
		pools:    pools,
		model:    model,
		tokens:   tokens,
		registry: registry,
		auth:     auth,
		notifier: notifier,
		clock:    clk,
	}
}

func (s *poolService) CreatePool(ctx context.Context, symbol string) (*core.Pool, error) {
	log := logger.FromContext(ctx).WithField("symbol", symbol)

	if err := s.auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if _, err := s.poolAddress(ctx, symbol); err != nil {
		return nil, err
	}

	now := core.BlockTime(ctx, s.clock)
	pool := &core.Pool{
		Symbol:            symbol,
		Liquidity:         decimal.Zero,
		TotalBorrows:      decimal.Zero,
		TotalBorrowShares: decimal.Zero,
		LastUpdatedAt:     now.Unix(),
		VTokenSupply:      decimal.Zero,
		VTokenUnitValue:   decimal.Zero,
		VTokensMinted:     decimal.Zero,
		VTokensBurnt:      decimal.Zero,
		CreatedAt:         now,
	}

	if err := s.pools.Create(ctx, pool); err != nil {
		log.WithError(err).Errorln("pools.Create")
		return nil, err
	}

	s.notify(ctx, core.EventPoolCreated, symbol, "", decimal.Zero)
	return pool, nil
}

func (s *poolService) Pool(ctx context.Context, symbol string) (*core.Pool, error) {
	return s.accrue(ctx, symbol)
}

func (s *poolService) Accrue(ctx context.Context, symbol string) (*core.Pool, error) {
	pool, err := s.accrue(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := s.pools.Update(ctx, pool); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("pools.Update")
		return nil, err
	}

	return pool, nil
}

func (s *poolService) TotalAssets(ctx context.Context, symbol string) (decimal.Decimal, error) {
	pool, err := s.accrue(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	return pool.TotalAssets(), nil
}

func (s *poolService) AssetToShares(ctx context.Context, symbol string, amount decimal.Decimal) (decimal.Decimal, error) {
	pool, err := s.accrue(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	return lending.AssetToShares(pool, amount)
}

func (s *poolService) SharesToAsset(ctx context.Context, symbol string, shares decimal.Decimal) (decimal.Decimal, error) {
	pool, err := s.accrue(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	return lending.SharesToAsset(pool, shares)
}

func (s *poolService) BorrowBalance(ctx context.Context, symbol, borrower string) (decimal.Decimal, error) {
	pool, err := s.accrue(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	account, err := s.pools.FindBorrower(ctx, symbol, borrower)
	if err != nil {
		return decimal.Zero, err
	}

	return lending.SharesToAsset(pool, account.Shares)
}

func (s *poolService) RepayAmount(ctx context.Context, symbol, borrower string) (decimal.Decimal, error) {
	pool, err := s.accrue(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	account, err := s.pools.FindBorrower(ctx, symbol, borrower)
	if err != nil {
		return decimal.Zero, err
	}

	return lending.SharesToAssetUp(pool, account.Shares)
}

// accrue load the pool and advance its interest to the operation time, not saved
func (s *poolService) accrue(ctx context.Context, symbol string) (*core.Pool, error) {
	pool, err := s.pools.Find(ctx, symbol)
	if err != nil {
		return nil, err
	}

	now := core.BlockTime(ctx, s.clock).Unix()
	lending.AccrueInterest(pool, s.model, now)
	return pool, nil
}

func (s *poolService) poolAddress(ctx context.Context, symbol string) (string, error) {
	return s.registry.Resolve(ctx, core.ServicePool(symbol))
}

func (s *poolService) requireManager(ctx context.Context) error {
	manager, err := s.registry.Resolve(ctx, core.ServiceAccountManager)
	if err != nil {
		return err
	}

	return s.auth.RequireCaller(ctx, manager)
}

func (s *poolService) notify(ctx context.Context, typ core.EventType, symbol, account string, amount decimal.Decimal) {
	if s.notifier == nil {
		return
	}

	event := &core.Event{
		Type:      typ,
		Symbol:    symbol,
		Account:   account,
		Amount:    amount,
		Timestamp: core.BlockTime(ctx, s.clock),
	}

	if err := s.notifier.Notify(ctx, event); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("notifier.Notify", typ)
	}
}
