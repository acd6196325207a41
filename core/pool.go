package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Pool liquidity pool of one asset
type Pool struct {
	Symbol            string          `json:"symbol"`
	Liquidity         decimal.Decimal `json:"liquidity"`
	TotalBorrows      decimal.Decimal `json:"total_borrows"`
	TotalBorrowShares decimal.Decimal `json:"total_borrow_shares"`
	// unix seconds of the last accrual
	LastUpdatedAt   int64           `json:"last_updated_at"`
	VTokenSupply    decimal.Decimal `json:"vtoken_supply"`
	VTokenUnitValue decimal.Decimal `json:"vtoken_unit_value"`
	VTokensMinted   decimal.Decimal `json:"vtokens_minted"`
	VTokensBurnt    decimal.Decimal `json:"vtokens_burnt"`
	Version         int64           `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TotalAssets liquidity plus outstanding borrows
func (p *Pool) TotalAssets() decimal.Decimal {
	return p.Liquidity.Add(p.TotalBorrows)
}

// LenderPosition v-token balance of a lender
type LenderPosition struct {
	Symbol        string          `json:"symbol"`
	Lender        string          `json:"lender"`
	VTokenBalance decimal.Decimal `json:"vtoken_balance"`
}

// BorrowShareAccount borrow shares of a borrower
type BorrowShareAccount struct {
	Symbol   string          `json:"symbol"`
	Borrower string          `json:"borrower"`
	Shares   decimal.Decimal `json:"shares"`
}

// IPoolStore pool store interface
type IPoolStore interface {
	Create(ctx context.Context, pool *Pool) error
	Find(ctx context.Context, symbol string) (*Pool, error)
	All(ctx context.Context) ([]*Pool, error)
	Update(ctx context.Context, pool *Pool) error

	// FindLender returns a zero position with ok == false if the lender never deposited
	FindLender(ctx context.Context, symbol, lender string) (*LenderPosition, bool, error)
	SaveLender(ctx context.Context, position *LenderPosition) error
	ListLenders(ctx context.Context, symbol string) ([]*LenderPosition, error)

	FindBorrower(ctx context.Context, symbol, borrower string) (*BorrowShareAccount, error)
	SaveBorrower(ctx context.Context, account *BorrowShareAccount) error
	ListBorrowers(ctx context.Context, symbol string) ([]*BorrowShareAccount, error)
}

// IPoolService liquidity pool interface
type IPoolService interface {
	CreatePool(ctx context.Context, symbol string) (*Pool, error)
	// Pool accrued view of the pool
	Pool(ctx context.Context, symbol string) (*Pool, error)
	Accrue(ctx context.Context, symbol string) (*Pool, error)
	TotalAssets(ctx context.Context, symbol string) (decimal.Decimal, error)

	AssetToShares(ctx context.Context, symbol string, amount decimal.Decimal) (decimal.Decimal, error)
	SharesToAsset(ctx context.Context, symbol string, shares decimal.Decimal) (decimal.Decimal, error)
	// BorrowBalance debt of borrower in asset terms, rounded down
	BorrowBalance(ctx context.Context, symbol, borrower string) (decimal.Decimal, error)
	// RepayAmount amount that fully repays borrower, rounded up
	RepayAmount(ctx context.Context, symbol, borrower string) (decimal.Decimal, error)

	BorrowTo(ctx context.Context, symbol, borrower string, amount decimal.Decimal) (firstBorrow bool, err error)
	CollectFrom(ctx context.Context, symbol, borrower string, amount decimal.Decimal) (fullyRepaid bool, err error)
	// CloseBorrow burns every share of borrower, recovered is credited to liquidity
	CloseBorrow(ctx context.Context, symbol, borrower string, recovered decimal.Decimal) (debt decimal.Decimal, err error)
	// AbsorbCollateral credits tokens already transferred to the pool
	AbsorbCollateral(ctx context.Context, symbol string, amount decimal.Decimal) error

	DepositLiquidity(ctx context.Context, symbol, lender string, amount decimal.Decimal) (minted decimal.Decimal, err error)
	WithdrawLiquidity(ctx context.Context, symbol, lender string, amount decimal.Decimal) (burnt decimal.Decimal, err error)
	RedeemVTokens(ctx context.Context, symbol, lender string, vtokens decimal.Decimal) (amount decimal.Decimal, err error)
	VTokenBalance(ctx context.Context, symbol, lender string) (decimal.Decimal, error)
}

// IRateModel interest rate model
type IRateModel interface {
	UtilizationRate(liquidity, borrows decimal.Decimal) decimal.Decimal
	BorrowRatePerSecond(liquidity, borrows decimal.Decimal) decimal.Decimal
}
