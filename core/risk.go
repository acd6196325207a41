package core

import (
	"context"

	"github.com/asaskevich/govalidator"
	"github.com/shopspring/decimal"
)

// RiskParameters solvency thresholds and collateral policy
type RiskParameters struct {
	MinHealthRatio          decimal.Decimal `json:"min_health_ratio"`
	MaxCollateralAssetCount int             `json:"max_collateral_asset_count"`
	AllowedCollateral       []string        `json:"allowed_collateral"`
}

// IsCollateralAllowed symbol is in the allow-list
func (p *RiskParameters) IsCollateralAllowed(symbol string) bool {
	return govalidator.IsIn(symbol, p.AllowedCollateral...)
}

// Validate check the parameters are usable
func (p *RiskParameters) Validate() error {
	if p.MinHealthRatio.LessThan(decimal.NewFromInt(1)) {
		return ErrInvalidParameters
	}

	if p.MaxCollateralAssetCount <= 0 {
		return ErrInvalidParameters
	}

	return nil
}

// IParamsStore risk parameters store interface
type IParamsStore interface {
	Find(ctx context.Context) (*RiskParameters, error)
	Save(ctx context.Context, params *RiskParameters) error
}

// IRiskService risk engine interface
type IRiskService interface {
	Parameters(ctx context.Context) (*RiskParameters, error)
	// SetParameters rejects a collateral cap below what a live account already holds
	SetParameters(ctx context.Context, params *RiskParameters) error

	TotalCollateralValueUsd(ctx context.Context, account *MarginAccount) (decimal.Decimal, error)
	TotalDebtValueUsd(ctx context.Context, account *MarginAccount) (decimal.Decimal, error)
	IsHealthy(ctx context.Context, balanceUsd, debtUsd decimal.Decimal) (bool, error)
	IsBorrowAllowed(ctx context.Context, symbol string, amount decimal.Decimal, account *MarginAccount) (bool, error)
	IsWithdrawAllowed(ctx context.Context, symbol string, amount decimal.Decimal, account *MarginAccount) (bool, error)
	// HealthRatio collateral value over debt value, zero without debt
	HealthRatio(ctx context.Context, account *MarginAccount) (decimal.Decimal, error)
	IsAccountHealthy(ctx context.Context, account *MarginAccount) (bool, error)
}

// ILiquidationService liquidation engine interface
type ILiquidationService interface {
	Liquidate(ctx context.Context, userID string) error
	SettleAccount(ctx context.Context, userID string) error
}
