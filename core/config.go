package core

import (
	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/store/db"
)

// Config lending config
type Config struct {
	App         App               `json:"app"`
	DB          db.Config         `json:"db"`
	Risk        Risk              `json:"risk"`
	RateModel   RateModel         `json:"rate_model"`
	PriceOracle PriceOracleConfig `json:"price_oracle"`
	Pools       []string          `json:"pools"`
	Registry    map[string]string `json:"registry"`
	Nats        Nats              `json:"nats"`
	Worker      Worker            `json:"worker"`
	Server      Server            `json:"server"`
	Admins      []string          `json:"admins" valid:"required"`
}

// IsAdmin check if the user is admin
func (c *Config) IsAdmin(userID string) bool {
	return govalidator.IsIn(userID, c.Admins...)
}

// App app config
type App struct {
	// identity the account service acts as when it calls into pools
	AccountManager string `json:"account_manager" valid:"required"`
	Location       string `json:"location"`
}

// Risk default risk parameters, stored on first start
type Risk struct {
	MinHealthRatio          string   `json:"min_health_ratio"`
	MaxCollateralAssetCount int      `json:"max_collateral_asset_count"`
	AllowedCollateral       []string `json:"allowed_collateral"`
}

// RateModel interest rate curve constants
type RateModel struct {
	C1             string `json:"c1"`
	C2             string `json:"c2"`
	C3             string `json:"c3"`
	SecondsPerYear int64  `json:"seconds_per_year"`
}

// PriceOracleConfig price oracle config
type PriceOracleConfig struct {
	EndPoint     string `json:"end_point"`
	CacheSeconds int64  `json:"cache_seconds"`
	Decimals     int32  `json:"decimals"`
	// static prices in USD by symbol, used when EndPoint is empty
	Prices map[string]interface{} `json:"prices"`
}

// Nats event publisher config, disabled when URL is empty
type Nats struct {
	URL     string `json:"url"`
	Subject string `json:"subject"`
}

// Worker cron specs
type Worker struct {
	Accrual string `json:"accrual"`
	Keeper  string `json:"keeper"`
}

// Server ops http server
type Server struct {
	Port int `json:"port"`
}
