package config

import (
	"fmt"
	"time"

	"lending/core"
	"lending/internal/ratemodel"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// RiskParameters default risk parameters from config
func RiskParameters(cfg *core.Config) (core.RiskParameters, error) {
	ratio, err := decimal.NewFromString(cfg.Risk.MinHealthRatio)
	if err != nil {
		return core.RiskParameters{}, fmt.Errorf("risk.min_health_ratio: %w", err)
	}

	params := core.RiskParameters{
		MinHealthRatio:          ratio,
		MaxCollateralAssetCount: cfg.Risk.MaxCollateralAssetCount,
		AllowedCollateral:       cfg.Risk.AllowedCollateral,
	}

	return params, params.Validate()
}

// RateModel interest rate model from config
func RateModel(cfg *core.Config) (*ratemodel.Model, error) {
	var cs [3]decimal.Decimal
	for idx, v := range []string{cfg.RateModel.C1, cfg.RateModel.C2, cfg.RateModel.C3} {
		c, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("rate_model.c%d: %w", idx+1, err)
		}
		cs[idx] = c
	}

	model := ratemodel.New(cs[0], cs[1], cs[2], cfg.RateModel.SecondsPerYear)
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("rate_model: c1 < c2 < c3 required: %w", err)
	}

	return model, nil
}

// StaticPrices static oracle prices, scaled by 10^price_oracle.decimals
//
// yaml numbers and strings are both accepted.
func StaticPrices(cfg *core.Config) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(cfg.PriceOracle.Prices))
	for symbol, v := range cfg.PriceOracle.Prices {
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("price_oracle.prices.%s: %w", symbol, err)
		}

		price, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("price_oracle.prices.%s: %w", symbol, err)
		}

		prices[symbol] = price.Shift(cfg.PriceOracle.Decimals).Truncate(0)
	}

	return prices, nil
}

// CacheTTL price cache ttl
func CacheTTL(cfg *core.Config) time.Duration {
	return time.Duration(cfg.PriceOracle.CacheSeconds) * time.Second
}
