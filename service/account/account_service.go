package account

import (
	"context"

	"lending/core"

	"github.com/facebookgo/clock"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type accountService struct {
	accounts core.IAccountStore
	risk     core.IRiskService
	pools    core.IPoolService
	tokens   core.TokenTransfer
	registry core.Registry
	auth     core.AuthGate
	notifier core.INotifier
	clock    clock.Clock
}

// New new account service
func New(
	accounts core.IAccountStore,
	risk core.IRiskService,
	pools core.IPoolService,
	tokens core.TokenTransfer,
	registry core.Registry,
	auth core.AuthGate,
	notifier core.INotifier,
	clk clock.Clock,
) core.IAccountService {
	return &accountService{
		accounts: accounts,
		risk:     risk,
		pools:    pools,
		tokens:   tokens,
		registry: registry,
		auth:     auth,
		notifier: notifier,
		clock:    clk,
	}
}

func (s *accountService) Create(ctx context.Context, userID string) (*core.MarginAccount, error) {
	if err := s.auth.RequireCaller(ctx, userID); err != nil {
		return nil, err
	}

	account := core.NewMarginAccount(userID, core.BlockTime(ctx, s.clock))
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.notify(ctx, core.EventAccountCreated, "", userID, decimal.Zero)
	return account, nil
}

func (s *accountService) Find(ctx context.Context, userID string) (*core.MarginAccount, error) {
	return s.accounts.Find(ctx, userID)
}

func (s *accountService) FreeBalance(ctx context.Context, userID, symbol string) (decimal.Decimal, error) {
	account, err := s.accounts.Find(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	return FreeBalance(ctx, s.tokens, account, symbol)
}

// FreeBalance tokens held at the margin address that are not posted as collateral
func FreeBalance(ctx context.Context, tokens core.TokenTransfer, account *core.MarginAccount, symbol string) (decimal.Decimal, error) {
	balance, err := tokens.Balance(ctx, symbol, account.Address)
	if err != nil {
		return decimal.Zero, err
	}

	free := balance.Sub(account.CollateralOf(symbol))
	if free.IsNegative() {
		return decimal.Zero, nil
	}

	return free, nil
}

// load find the account of userID, it must not be deleted
func (s *accountService) load(ctx context.Context, userID string) (*core.MarginAccount, error) {
	account, err := s.accounts.Find(ctx, userID)
	if err != nil {
		return nil, err
	}

	if account.IsDeleted() {
		return nil, core.ErrAccountDeleted
	}

	return account, nil
}

// loadActive like load, the account must also be active
func (s *accountService) loadActive(ctx context.Context, userID string) (*core.MarginAccount, error) {
	account, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !account.Active {
		return nil, core.ErrAccountInactive
	}

	return account, nil
}

// asManager ctx calling as the account manager
func (s *accountService) asManager(ctx context.Context) (context.Context, error) {
	manager, err := s.registry.Resolve(ctx, core.ServiceAccountManager)
	if err != nil {
		return nil, err
	}

	return core.WithCaller(ctx, manager), nil
}

func (s *accountService) requireOwnerOrAdmin(ctx context.Context, userID string) error {
	if err := s.auth.RequireCaller(ctx, userID); err == nil {
		return nil
	}

	return s.auth.RequireAdmin(ctx)
}

func (s *accountService) Activate(ctx context.Context, userID string) error {
	if err := s.requireOwnerOrAdmin(ctx, userID); err != nil {
		return err
	}

	account, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	account.Activate()
	if err := s.accounts.Update(ctx, account); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("accounts.Update")
		return err
	}

	s.notify(ctx, core.EventAccountActivated, "", userID, decimal.Zero)
	return nil
}

func (s *accountService) Deactivate(ctx context.Context, userID string) error {
	if err := s.requireOwnerOrAdmin(ctx, userID); err != nil {
		return err
	}

	account, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	account.Deactivate()
	if err := s.accounts.Update(ctx, account); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("accounts.Update")
		return err
	}

	s.notify(ctx, core.EventAccountDeactivated, "", userID, decimal.Zero)
	return nil
}

// Delete return the posted collateral to the user and purge the ledger
func (s *accountService) Delete(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx).WithField("user", userID)

	if err := s.auth.RequireCaller(ctx, userID); err != nil {
		return err
	}

	account, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	if account.HasDebt() {
		return core.ErrHasDebt
	}

	for _, symbol := range account.CollateralTokens {
		amount := account.CollateralOf(symbol)
		if err := s.tokens.Transfer(ctx, symbol, account.Address, userID, amount); err != nil {
			log.WithError(err).Errorln("tokens.Transfer", symbol)
			return err
		}
	}

	if err := account.Delete(core.BlockTime(ctx, s.clock)); err != nil {
		return err
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		log.WithError(err).Errorln("accounts.Update")
		return err
	}

	s.notify(ctx, core.EventAccountDeleted, "", userID, decimal.Zero)
	return nil
}

func (s *accountService) notify(ctx context.Context, typ core.EventType, symbol, account string, amount decimal.Decimal) {
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
