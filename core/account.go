package core

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MarginAddress token holder address of the margin account owned by userID
func MarginAddress(userID string) string {
	return fmt.Sprintf("margin:%s", userID)
}

// MarginAccount cross-margin account of a user
type MarginAccount struct {
	UserID            string                     `json:"user_id"`
	Address           string                     `json:"address"`
	CollateralTokens  []string                   `json:"collateral_tokens"`
	CollateralBalance map[string]decimal.Decimal `json:"collateral_balance"`
	BorrowedTokens    []string                   `json:"borrowed_tokens"`
	Active            bool                       `json:"active"`
	CreatedAt         time.Time                  `json:"created_at"`
	DeletedAt         *time.Time                 `json:"deleted_at,omitempty"`
	Version           int64                      `json:"version"`
}

// NewMarginAccount active account with empty ledger
func NewMarginAccount(userID string, now time.Time) *MarginAccount {
	return &MarginAccount{
		UserID:            userID,
		Address:           MarginAddress(userID),
		CollateralBalance: map[string]decimal.Decimal{},
		Active:            true,
		CreatedAt:         now,
	}
}

// HasDebt true while any symbol is borrowed
func (a *MarginAccount) HasDebt() bool {
	return len(a.BorrowedTokens) > 0
}

// IsDeleted deleted accounts keep their record but can not be used
func (a *MarginAccount) IsDeleted() bool {
	return a.DeletedAt != nil
}

// CollateralOf posted collateral of symbol, zero if none
func (a *MarginAccount) CollateralOf(symbol string) decimal.Decimal {
	return a.CollateralBalance[symbol]
}

// HasCollateral symbol is posted as collateral
func (a *MarginAccount) HasCollateral(symbol string) bool {
	return indexOf(a.CollateralTokens, symbol) >= 0
}

// HasBorrowed symbol is borrowed
func (a *MarginAccount) HasBorrowed(symbol string) bool {
	return indexOf(a.BorrowedTokens, symbol) >= 0
}

// AddCollateral credit collateral, new symbols must be allowed and fit under the asset cap
func (a *MarginAccount) AddCollateral(symbol string, amount decimal.Decimal, params *RiskParameters) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if !params.IsCollateralAllowed(symbol) {
		return ErrTokenNotAllowed
	}

	isNew := !a.HasCollateral(symbol)
	if isNew && len(a.CollateralTokens) >= params.MaxCollateralAssetCount {
		return ErrMaxAssetCapCrossed
	}

	if a.CollateralBalance == nil {
		a.CollateralBalance = map[string]decimal.Decimal{}
	}

	if isNew {
		a.CollateralTokens = append(a.CollateralTokens, symbol)
	}
	a.CollateralBalance[symbol] = a.CollateralBalance[symbol].Add(amount)
	return nil
}

// RemoveCollateral debit collateral, the symbol leaves the list at exactly zero
func (a *MarginAccount) RemoveCollateral(symbol string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if !a.HasCollateral(symbol) {
		return ErrCollateralTokenNotFound
	}

	balance := a.CollateralBalance[symbol]
	if amount.GreaterThan(balance) {
		return ErrInsufficientBalance
	}

	balance = balance.Sub(amount)
	if balance.IsZero() {
		delete(a.CollateralBalance, symbol)
		a.CollateralTokens = remove(a.CollateralTokens, symbol)
		return nil
	}

	a.CollateralBalance[symbol] = balance
	return nil
}

// RecordBorrow add symbol to the borrowed list
func (a *MarginAccount) RecordBorrow(symbol string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if !a.HasBorrowed(symbol) {
		a.BorrowedTokens = append(a.BorrowedTokens, symbol)
	}
	return nil
}

// RecordRepay drop symbol from the borrowed list once the pool reports it fully repaid
func (a *MarginAccount) RecordRepay(symbol string, fullyRepaid bool) error {
	if !a.HasBorrowed(symbol) {
		return ErrBorrowedTokenNotFound
	}

	if fullyRepaid {
		a.BorrowedTokens = remove(a.BorrowedTokens, symbol)
	}
	return nil
}

// Activate set active
func (a *MarginAccount) Activate() {
	a.Active = true
}

// Deactivate clear active, balances untouched
func (a *MarginAccount) Deactivate() {
	a.Active = false
}

// Delete purge the ledger, only allowed without debt
func (a *MarginAccount) Delete(now time.Time) error {
	if a.HasDebt() {
		return ErrHasDebt
	}

	a.DeletedAt = &now
	a.CollateralTokens = nil
	a.CollateralBalance = map[string]decimal.Decimal{}
	a.BorrowedTokens = nil
	a.Active = false
	return nil
}

func indexOf(list []string, symbol string) int {
	for idx, s := range list {
		if s == symbol {
			return idx
		}
	}

	return -1
}

func remove(list []string, symbol string) []string {
	idx := indexOf(list, symbol)
	if idx < 0 {
		return list
	}

	out := make([]string, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...)
}

// IAccountStore margin account store interface
type IAccountStore interface {
	Create(ctx context.Context, account *MarginAccount) error
	Find(ctx context.Context, userID string) (*MarginAccount, error)
	Update(ctx context.Context, account *MarginAccount) error
	List(ctx context.Context) ([]string, error)
}

// IAccountService margin account interface
type IAccountService interface {
	Create(ctx context.Context, userID string) (*MarginAccount, error)
	Find(ctx context.Context, userID string) (*MarginAccount, error)
	// FreeBalance tokens at the margin address not posted as collateral
	FreeBalance(ctx context.Context, userID, symbol string) (decimal.Decimal, error)
	DepositCollateral(ctx context.Context, userID, symbol string, amount decimal.Decimal) error
	WithdrawCollateral(ctx context.Context, userID, symbol string, amount decimal.Decimal) error
	Borrow(ctx context.Context, userID, symbol string, amount decimal.Decimal) error
	Repay(ctx context.Context, userID, symbol string, amount decimal.Decimal) (fullyRepaid bool, err error)
	Activate(ctx context.Context, userID string) error
	Deactivate(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string) error
}
