package account_test

import (
	"context"
	"testing"
	"time"

	"lending/core"
	"lending/internal/app"
	"lending/internal/ratemodel"
	"lending/pkg/number"
	"lending/service/oracle"
	"lending/store/kv"

	"github.com/facebookgo/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	admin  = "admin"
	lender = "bob"
	user   = "alice"
)

type fixture struct {
	*app.App
	clock  *clock.Mock
	oracle *oracle.Static
}

func newFixture(t *testing.T) *fixture {
	clk := clock.NewMock()
	clk.Add(time.Unix(1700000000, 0).Sub(clk.Now()))

	o := oracle.NewStatic()
	o.Set("XLM", core.QuoteUSD, number.Decimal("1"), 0)
	o.Set("USDC", core.QuoteUSD, number.Decimal("1"), 0)
	o.Set("BTC", core.QuoteUSD, number.Decimal("100"), 0)

	f := &fixture{
		clock:  clk,
		oracle: o,
		App: app.New(app.Options{
			Store:     kv.NewMemory(),
			Clock:     clk,
			Oracle:    o,
			RateModel: ratemodel.Default(),
			Admins:    []string{admin},
			Registry: map[string]string{
				core.ServiceAccountManager: "manager",
				core.ServicePool("XLM"):    "pool:XLM",
				core.ServicePool("USDC"):   "pool:USDC",
			},
			Risk: core.RiskParameters{
				MinHealthRatio:          number.Decimal("1.1"),
				MaxCollateralAssetCount: 3,
				AllowedCollateral:       []string{"XLM", "USDC", "BTC"},
			},
		}),
	}

	for _, symbol := range []string{"XLM", "USDC"} {
		_, err := f.Pools.CreatePool(as(admin), symbol)
		require.Nil(t, err)

		f.fund(t, symbol, lender, 1000)
		_, err = f.Pools.DepositLiquidity(as(lender), symbol, lender, decimal.NewFromInt(1000))
		require.Nil(t, err)
	}

	_, err := f.Accounts.Create(as(user), user)
	require.Nil(t, err)

	return f
}

func as(identity string) context.Context {
	return core.WithCaller(context.Background(), identity)
}

func (f *fixture) fund(t *testing.T, symbol, holder string, amount int64) {
	require.Nil(t, f.Tokens.Mint(context.Background(), symbol, holder, decimal.NewFromInt(amount)))
}

func (f *fixture) balance(t *testing.T, symbol, holder string) string {
	b, err := f.Tokens.Balance(context.Background(), symbol, holder)
	require.Nil(t, err)
	return b.String()
}

func (f *fixture) account(t *testing.T) *core.MarginAccount {
	a, err := f.Accounts.Find(context.Background(), user)
	require.Nil(t, err)
	return a
}

func (f *fixture) assertConsistent(t *testing.T) {
	a := f.account(t)
	for _, symbol := range a.CollateralTokens {
		assert.True(t, a.CollateralOf(symbol).IsPositive(), "listed collateral %s has no balance", symbol)
	}
	for symbol, balance := range a.CollateralBalance {
		assert.True(t, a.HasCollateral(symbol) == balance.IsPositive(), "collateral %s list/balance mismatch", symbol)
	}

	for _, symbol := range []string{"XLM", "USDC"} {
		debt, err := f.Pools.BorrowBalance(context.Background(), symbol, a.Address)
		require.Nil(t, err)
		assert.Equal(t, a.HasBorrowed(symbol), debt.IsPositive(), "borrowed %s list/debt mismatch", symbol)
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	a := f.account(t)
	assert.True(t, a.Active)
	assert.False(t, a.HasDebt())
	assert.Equal(t, core.MarginAddress(user), a.Address)
	assert.Equal(t, int64(1700000000), a.CreatedAt.Unix())

	_, err := f.Accounts.Create(as(user), user)
	assert.Equal(t, core.ErrAccountExists, err)

	_, err = f.Accounts.Create(as(user), "carol")
	assert.Equal(t, core.ErrUnauthorized, err)

	_, err = f.Accounts.Find(context.Background(), "carol")
	assert.Equal(t, core.ErrAccountNotFound, err)
}

func TestDepositCollateral(t *testing.T) {
	f := newFixture(t)
	f.fund(t, "XLM", user, 200)
	f.fund(t, "DOGE", user, 10)

	require.Nil(t, f.Accounts.DepositCollateral(as(user), user, "XLM", decimal.NewFromInt(100)))
	assert.Equal(t, "100", f.balance(t, "XLM", user))
	assert.Equal(t, "100", f.balance(t, "XLM", core.MarginAddress(user)))
	assert.Equal(t, "100", f.account(t).CollateralOf("XLM").String())

	err := f.Accounts.DepositCollateral(as(user), user, "DOGE", decimal.NewFromInt(10))
	assert.Equal(t, core.ErrTokenNotAllowed, err)
	assert.Equal(t, core.KindPolicyViolation, core.KindOf(err))

	assert.Equal(t, core.ErrInsufficientBalance, f.Accounts.DepositCollateral(as(user), user, "XLM", decimal.NewFromInt(101)))
	assert.Equal(t, core.ErrInvalidAmount, f.Accounts.DepositCollateral(as(user), user, "XLM", decimal.Zero))
	assert.Equal(t, core.ErrUnauthorized, f.Accounts.DepositCollateral(as(lender), user, "XLM", decimal.NewFromInt(1)))

	f.assertConsistent(t)
}

func TestMaxCollateralAssetCount(t *testing.T) {
	f := newFixture(t)
	require.Nil(t, f.Risk.SetParameters(as(admin), &core.RiskParameters{
		MinHealthRatio:          number.Decimal("1.1"),
		MaxCollateralAssetCount: 2,
		AllowedCollateral:       []string{"XLM", "USDC", "BTC"},
	}))

	for _, symbol := range []string{"XLM", "USDC", "BTC"} {
		f.fund(t, symbol, user, 10)
	}

	require.Nil(t, f.Accounts.DepositCollateral(as(user), user, "XLM", decimal.NewFromInt(5)))
	require.Nil(t, f.Accounts.DepositCollateral(as(user), user, "USDC", decimal.NewFromInt(5)))
	assert.Equal(t, core.ErrMaxAssetCapCrossed, f.Accounts.DepositCollateral(as(user), user, "BTC", decimal.NewFromInt(5)))

	// topping up a listed symbol is not a new asset
	require.Nil(t, f.Accounts.DepositCollateral(as(user), user, "XLM", decimal.NewFromInt(5)))
	assert.Len(t, f.account(t).CollateralTokens, 2)
	assert.Equal(t, "10", f.balance(t, "BTC", user))
}

func TestBorrowRepayCycle(t *testing.T) {
	f := newFixture(t)
	f.fund(t, "XLM", user, 100)
	require.Nil(t, f.Accounts.DepositCollateral(as(user), user, "XLM", decimal.NewFromInt(100)))

	require.Nil(t, f.Accounts.Borrow(as(user), user, "USDC", decimal.NewFromInt(50)))

	a := f.account(t)
	assert.Equal(t, []string{"USDC"}, a.BorrowedTokens)
	assert.True(t, a.HasDebt())
	assert.Equal(t, "50", f.balance(t, "USDC", a.Address))

	borrower, err := f.PoolStore.FindBorrower(context.Background(), "USDC", a.Address)
	require.Nil(t, err)
	assert.Equal(t, "50", borrower.Shares.String())
	f.assertConsistent(t)

	fullyRepaid, err := f.Accounts.Repay(as(user), user, "USDC", decimal.NewFromInt(50))
	require.Nil(t, err)
	assert.True(t, fullyRepaid)

	a = f.account(t)
	assert.Empty(t, a.BorrowedTokens)
	assert.False(t, a.HasDebt())
	assert.Equal(t, "0", f.balance(t, "USDC", a.Address))

	pool, err := f.PoolStore.Find(context.Background(), "USDC")
	require.Nil(t, err)
	assert.True(t, pool.TotalBorrowShares.IsZero())
	assert.True(t, pool.TotalBorrows.IsZero())
	assert.Equal(t, "1000", pool.Liquidity.String())
	f.assertConsistent(t)
}

func TestPartialRepay(t *testing.T) {
	f := newFixture(t)
	f.fund(t, "XLM", user, 100)
	require.Nil(t, f.Accounts.DepositCollateral(as(user), user, "XLM", decimal.NewFromInt(100)))
	require.Nil(t, f.Accounts.Borrow(as(user), user, "USDC", decimal.NewFromInt(50)))

	fullyRepaid, err := f.Accounts.Repay(as(user), user, "USDC", decimal.NewFromInt(20))
	require.Nil(t, err)
	assert.False(t, fullyRepaid)
	assert.True(t, f.account(t).HasBorrowed("USDC"))

	_, err = f.Accounts.Repay(as(user), user, "USDC", decimal.NewFromInt(31))
	assert.Equal(t, core.ErrRepayExceedsDebt, err)

	_, err = f.Accounts.Repay(as(user), user, "XLM", decimal.NewFromInt(1))
	assert.Equal(t, core.ErrBorrowedTokenNotFound, err)

	f.assertConsistent(t)
}

func TestRepayWithInterest(t *testing.T) {
	f := newFixture(t)
	f.fund(t, "XLM", user, 100)
	require.Nil(t, f.Accounts.DepositCollateral(as(user), user, "XLM", decimal.NewFromInt(100)))
	require.Nil(t, f.Accounts.Borrow(as(user), user, "USDC", decimal.NewFromInt(50)))

	f.clock.Add(365 * 24 * time.Hour)

	a := f.account(t)
	owed, err := f.Pools.RepayAmount(context.Background(), "USDC", a.Address)
	require.Nil(t, err)
	require.True(t, owed.GreaterThan(decimal.NewFromInt(50)))

	// the shortfall above the borrowed funds comes from the wallet
	f.fund(t, "USDC", user, 10)
	fullyRepaid, err := f.Accounts.Repay(as(user), user, "USDC", owed)
	require.Nil(t, err)
	assert.True(t, fullyRepaid)

	assert.Equal(t, "0", f.balance(t, "USDC", a.Address))
	assert.Equal(t, decimal.NewFromInt(60).Sub(owed).String(), f.balance(t, "USDC", user))
	assert.Equal(t, "100", f.balance(t, "XLM", a.Address), "collateral is never used to repay")
	f.assertConsistent(t)
}

func TestBorrowRejectedWhenUnhealthy(t *testing.T) {
	f := newFixture(t)
	f.fund(t, "XLM", user, 100)
	require.Nil(t, f.Accounts.DepositCollateral(as(user), user, "XLM", decimal.NewFromInt(100)))

	// 100 usd collateral, 95 usd debt
	require.Nil(t, f.Accounts.Borrow(as(user), user, "USDC", decimal.NewFromInt(95)))
	before := f.account(t)

	err := f.Accounts.Borrow(as(user), user, "USDC", decimal.NewFromInt(10))
	assert.Equal(t, core.ErrBorrowNotAllowed, err)
	assert.Equal(t, core.KindPolicyViolation, core.KindOf(err))

	assert.Equal(t, before, f.account(t))
	assert.Equal(t, "95", f.balance(t, "USDC", before.Address))

	err = f.Accounts.Borrow(as(user), user, "BTC", decimal.NewFromInt(1))
	assert.Equal(t, core.ErrBorrowNotAllowed, err)
}

func TestBorrowErrors(t *testing.T) {
	f := newFixture(t)
	f.fund(t, "XLM", user, 10000)
	require.Nil(t, f.Accounts.DepositCollateral(as(user), user, "XLM", decimal.NewFromInt(10000)))

	assert.Equal(t, core.ErrInsufficientPoolBalance, f.Accounts.Borrow(as(user), user, "USDC", decimal.NewFromInt(1001)))
	assert.Equal(t, core.ErrUnauthorized, f.Accounts.Borrow(as(lender), user, "USDC", decimal.NewFromInt(1)))
	assert.Equal(t, core.ErrInvalidAmount, f.Accounts.Borrow(as(user), user, "USDC", decimal.NewFromInt(-1)))

	require.Nil(t, f.Accounts.Deactivate(as(user), user))
	assert.Equal(t, core.ErrAccountInactive, f.Accounts.Borrow(as(user), user, "USDC", decimal.NewFromInt(1)))
	assert.Equal(t, core.KindStateConflict, core.KindOf(core.ErrAccountInactive))

	require.Nil(t, f.Accounts.Activate(as(admin), user))
	require.Nil(t, f.Accounts.Borrow(as(user), user, "USDC", decimal.NewFromInt(1)))
}

func TestWithdrawCollateral(t *testing.T) {
	f := newFixture(t)
	f.fund(t, "XLM", user, 100)
	require.Nil(t, f.Accounts.DepositCollateral(as(user), user, "XLM", decimal.NewFromInt(100)))

	assert.Equal(t, core.ErrCollateralTokenNotFound, f.Accounts.WithdrawCollateral(as(user), user, "USDC", decimal.NewFromInt(1)))
	assert.Equal(t, core.ErrInsufficientBalance, f.Accounts.WithdrawCollateral(as(user), user, "XLM", decimal.NewFromInt(101)))

	require.Nil(t, f.Accounts.Borrow(as(user), user, "USDC", decimal.NewFromInt(50)))

	// 60 / 50 stays above 1.1
	require.Nil(t, f.Accounts.WithdrawCollateral(as(user), user, "XLM", decimal.NewFromInt(40)))
	assert.Equal(t, "40", f.balance(t, "XLM", user))

	// 50 / 50 does not
	err := f.Accounts.WithdrawCollateral(as(user), user, "XLM", decimal.NewFromInt(10))
	assert.Equal(t, core.ErrWithdrawNotAllowed, err)
	assert.Equal(t, core.KindPolicyViolation, core.KindOf(err))

	_, err = f.Accounts.Repay(as(user), user, "USDC", decimal.NewFromInt(50))
	require.Nil(t, err)

	require.Nil(t, f.Accounts.WithdrawCollateral(as(user), user, "XLM", decimal.NewFromInt(60)))
	a := f.account(t)
	assert.Empty(t, a.CollateralTokens)
	assert.Equal(t, "100", f.balance(t, "XLM", user))
	f.assertConsistent(t)
}

func TestDeleteBlockedByDebt(t *testing.T) {
	f := newFixture(t)
	f.fund(t, "XLM", user, 100)
	require.Nil(t, f.Accounts.DepositCollateral(as(user), user, "XLM", decimal.NewFromInt(100)))
	require.Nil(t, f.Accounts.Borrow(as(user), user, "USDC", decimal.NewFromInt(10)))

	before := f.account(t)

	err := f.Accounts.Delete(as(user), user)
	assert.Equal(t, core.ErrHasDebt, err)
	assert.Equal(t, core.KindStateConflict, core.KindOf(err))

	assert.Equal(t, before, f.account(t))
	assert.Equal(t, "100", f.balance(t, "XLM", before.Address))
	assert.Equal(t, "0", f.balance(t, "XLM", user))
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	f.fund(t, "XLM", user, 100)
	require.Nil(t, f.Accounts.DepositCollateral(as(user), user, "XLM", decimal.NewFromInt(100)))

	assert.Equal(t, core.ErrUnauthorized, f.Accounts.Delete(as(admin), user))
	require.Nil(t, f.Accounts.Delete(as(user), user))

	a := f.account(t)
	assert.True(t, a.IsDeleted())
	assert.False(t, a.Active)
	assert.Empty(t, a.CollateralTokens)
	assert.Empty(t, a.CollateralBalance)
	assert.Equal(t, "100", f.balance(t, "XLM", user))

	assert.Equal(t, core.ErrAccountDeleted, f.Accounts.DepositCollateral(as(user), user, "XLM", decimal.NewFromInt(1)))
	assert.Equal(t, core.ErrAccountDeleted, f.Accounts.Activate(as(user), user))
	assert.Equal(t, core.ErrAccountDeleted, f.Accounts.Delete(as(user), user))
}

func TestDeactivateEmitsEvent(t *testing.T) {
	f := newFixture(t)
	f.Events.Discard()

	assert.Equal(t, core.ErrUnauthorized, f.Accounts.Deactivate(as(lender), user))
	require.Nil(t, f.Accounts.Deactivate(as(user), user))
	assert.False(t, f.account(t).Active)

	events := f.Events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, core.EventAccountDeactivated, events[0].Type)
	assert.Equal(t, user, events[0].Account)
	assert.Equal(t, int64(1700000000), events[0].Timestamp.Unix())

	require.Nil(t, f.Accounts.Activate(as(user), user))
	assert.True(t, f.account(t).Active)
}

func TestFreeBalance(t *testing.T) {
	f := newFixture(t)
	f.fund(t, "USDC", user, 100)
	require.Nil(t, f.Accounts.DepositCollateral(as(user), user, "USDC", decimal.NewFromInt(100)))
	require.Nil(t, f.Accounts.Borrow(as(user), user, "USDC", decimal.NewFromInt(30)))

	assert.Equal(t, "130", f.balance(t, "USDC", core.MarginAddress(user)))

	free, err := f.Accounts.FreeBalance(context.Background(), user, "USDC")
	require.Nil(t, err)
	assert.Equal(t, "30", free.String())
}

func TestBorrowPricesThroughRegisteredOracle(t *testing.T) {
	f := newFixture(t)
	f.fund(t, "XLM", user, 100)
	require.Nil(t, f.Accounts.DepositCollateral(as(user), user, "XLM", decimal.NewFromInt(100)))

	f.Registry.Register(core.ServiceOracle, "reflector")
	err := f.Accounts.Borrow(as(user), user, "USDC", decimal.NewFromInt(10))
	assert.Equal(t, core.ErrServiceNotFound, err)
	assert.False(t, f.account(t).HasDebt())

	reflector := oracle.NewStatic()
	reflector.Set("XLM", core.QuoteUSD, number.Decimal("1"), 0)
	reflector.Set("USDC", core.QuoteUSD, number.Decimal("1"), 0)
	f.Feeds.Add("reflector", reflector)

	require.Nil(t, f.Accounts.Borrow(as(user), user, "USDC", decimal.NewFromInt(10)))
	assert.True(t, f.account(t).HasBorrowed("USDC"))
}
