package views

import (
	"lending/core"

	"github.com/shopspring/decimal"
)

// Pool pool view
type Pool struct {
	*core.Pool
	TotalAssets decimal.Decimal `json:"total_assets"`
	Utilization decimal.Decimal `json:"utilization"`
	BorrowAPY   decimal.Decimal `json:"borrow_apy"`
	SupplyAPY   decimal.Decimal `json:"supply_apy"`
	Lenders     int             `json:"lenders"`
	Borrowers   int             `json:"borrowers"`
}

// Lender lender position view
type Lender struct {
	*core.LenderPosition
	Value decimal.Decimal `json:"value"`
}

// Account margin account view
type Account struct {
	*core.MarginAccount
	CollateralValue decimal.Decimal            `json:"collateral_value_usd"`
	DebtValue       decimal.Decimal            `json:"debt_value_usd"`
	Debts           map[string]decimal.Decimal `json:"debts"`
	HealthRatio     decimal.Decimal            `json:"health_ratio"`
	Healthy         bool                       `json:"healthy"`
}
