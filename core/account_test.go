package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() *RiskParameters {
	return &RiskParameters{
		MinHealthRatio:          decimal.RequireFromString("1.1"),
		MaxCollateralAssetCount: 2,
		AllowedCollateral:       []string{"XLM", "USDC", "BTC"},
	}
}

func TestCollateralLedger(t *testing.T) {
	a := NewMarginAccount("alice", time.Unix(1700000000, 0))
	params := testParams()

	assert.Equal(t, ErrInvalidAmount, a.AddCollateral("XLM", decimal.Zero, params))
	assert.Equal(t, ErrTokenNotAllowed, a.AddCollateral("DOGE", decimal.NewFromInt(1), params))

	require.Nil(t, a.AddCollateral("XLM", decimal.NewFromInt(10), params))
	require.Nil(t, a.AddCollateral("USDC", decimal.NewFromInt(5), params))
	assert.Equal(t, ErrMaxAssetCapCrossed, a.AddCollateral("BTC", decimal.NewFromInt(1), params))
	require.Nil(t, a.AddCollateral("XLM", decimal.NewFromInt(5), params))

	assert.Equal(t, []string{"XLM", "USDC"}, a.CollateralTokens)
	assert.Equal(t, "15", a.CollateralOf("XLM").String())

	assert.Equal(t, ErrCollateralTokenNotFound, a.RemoveCollateral("BTC", decimal.NewFromInt(1)))
	assert.Equal(t, ErrInsufficientBalance, a.RemoveCollateral("XLM", decimal.NewFromInt(16)))

	require.Nil(t, a.RemoveCollateral("XLM", decimal.NewFromInt(15)))
	assert.Equal(t, []string{"USDC"}, a.CollateralTokens)
	assert.False(t, a.HasCollateral("XLM"))
	_, ok := a.CollateralBalance["XLM"]
	assert.False(t, ok)

	// the freed slot can take a new symbol
	require.Nil(t, a.AddCollateral("BTC", decimal.NewFromInt(1), params))
	assert.Len(t, a.CollateralTokens, 2)
}

func TestBorrowLedger(t *testing.T) {
	a := NewMarginAccount("alice", time.Unix(1700000000, 0))

	assert.Equal(t, ErrBorrowedTokenNotFound, a.RecordRepay("USDC", true))
	assert.Equal(t, ErrInvalidAmount, a.RecordBorrow("USDC", decimal.Zero))

	require.Nil(t, a.RecordBorrow("USDC", decimal.NewFromInt(10)))
	require.Nil(t, a.RecordBorrow("USDC", decimal.NewFromInt(10)))
	assert.Equal(t, []string{"USDC"}, a.BorrowedTokens)
	assert.True(t, a.HasDebt())

	require.Nil(t, a.RecordRepay("USDC", false))
	assert.True(t, a.HasBorrowed("USDC"))

	require.Nil(t, a.RecordRepay("USDC", true))
	assert.False(t, a.HasDebt())
}

func TestDeleteAccount(t *testing.T) {
	a := NewMarginAccount("alice", time.Unix(1700000000, 0))
	require.Nil(t, a.AddCollateral("XLM", decimal.NewFromInt(10), testParams()))
	require.Nil(t, a.RecordBorrow("USDC", decimal.NewFromInt(1)))

	assert.Equal(t, ErrHasDebt, a.Delete(time.Unix(1700000100, 0)))
	assert.False(t, a.IsDeleted())
	assert.True(t, a.Active)
	assert.Equal(t, "10", a.CollateralOf("XLM").String())

	require.Nil(t, a.RecordRepay("USDC", true))
	require.Nil(t, a.Delete(time.Unix(1700000100, 0)))
	assert.True(t, a.IsDeleted())
	assert.False(t, a.Active)
	assert.Empty(t, a.CollateralTokens)
	assert.Empty(t, a.CollateralBalance)
	assert.Equal(t, int64(1700000100), a.DeletedAt.Unix())
}

func TestErrorKinds(t *testing.T) {
	for err, kind := range map[error]ErrorKind{
		ErrUnauthorized:            KindAuthorization,
		ErrPoolNotFound:            KindNotFound,
		ErrPriceUnavailable:        KindNotFound,
		ErrServiceNotFound:         KindNotFound,
		ErrInsufficientBalance:     KindInsufficientFunds,
		ErrInsufficientPoolBalance: KindInsufficientFunds,
		ErrRepayExceedsDebt:        KindInsufficientFunds,
		ErrDivisionByZero:          KindArithmetic,
		ErrZeroShares:              KindArithmetic,
		ErrInvalidVTokenValue:      KindArithmetic,
		ErrTokenNotAllowed:         KindPolicyViolation,
		ErrMaxAssetCapCrossed:      KindPolicyViolation,
		ErrBorrowNotAllowed:        KindPolicyViolation,
		ErrHasDebt:                 KindStateConflict,
		ErrAccountExists:           KindStateConflict,
	} {
		assert.Equal(t, kind, KindOf(err), err.Error())
	}

	assert.Equal(t, KindUnknown, KindOf(assert.AnError))
	assert.Equal(t, "PolicyViolation", KindPolicyViolation.String())
}
