package config

import "lending/core"

const (
	defaultMinHealthRatio          = "1.1"
	defaultMaxCollateralAssetCount = 5
	defaultSecondsPerYear          = 31556952
	defaultAccrualSpec             = "@every 1m"
	defaultKeeperSpec              = "@every 30s"
	defaultSubject                 = "lending.events"
	defaultPriceDecimals           = 8
	defaultCacheSeconds            = 30
	defaultServerPort              = 7788
)

func defaultConfig(cfg *core.Config) {
	if cfg.Risk.MinHealthRatio == "" {
		cfg.Risk.MinHealthRatio = defaultMinHealthRatio
	}

	if cfg.Risk.MaxCollateralAssetCount <= 0 {
		cfg.Risk.MaxCollateralAssetCount = defaultMaxCollateralAssetCount
	}

	if len(cfg.Risk.AllowedCollateral) == 0 {
		cfg.Risk.AllowedCollateral = cfg.Pools
	}

	if cfg.RateModel.C1 == "" {
		cfg.RateModel.C1 = "0.1"
	}
	if cfg.RateModel.C2 == "" {
		cfg.RateModel.C2 = "0.3"
	}
	if cfg.RateModel.C3 == "" {
		cfg.RateModel.C3 = "3.5"
	}
	if cfg.RateModel.SecondsPerYear <= 0 {
		cfg.RateModel.SecondsPerYear = defaultSecondsPerYear
	}

	if cfg.Worker.Accrual == "" {
		cfg.Worker.Accrual = defaultAccrualSpec
	}

	if cfg.Worker.Keeper == "" {
		cfg.Worker.Keeper = defaultKeeperSpec
	}

	if cfg.PriceOracle.Decimals <= 0 {
		cfg.PriceOracle.Decimals = defaultPriceDecimals
	}

	if cfg.PriceOracle.CacheSeconds <= 0 {
		cfg.PriceOracle.CacheSeconds = defaultCacheSeconds
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = defaultServerPort
	}

	if cfg.Nats.Subject == "" {
		cfg.Nats.Subject = defaultSubject
	}

	if cfg.Registry == nil {
		cfg.Registry = map[string]string{}
	}

	if _, ok := cfg.Registry[core.ServiceAccountManager]; !ok {
		cfg.Registry[core.ServiceAccountManager] = cfg.App.AccountManager
	}

	if _, ok := cfg.Registry[core.ServiceOracle]; !ok {
		cfg.Registry[core.ServiceOracle] = core.ServiceOracle
	}

	for _, symbol := range cfg.Pools {
		name := core.ServicePool(symbol)
		if _, ok := cfg.Registry[name]; !ok {
			cfg.Registry[name] = name
		}
	}
}
