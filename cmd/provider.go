package cmd

import (
	"lending/config"
	"lending/core"
	"lending/internal/app"
	"lending/internal/ratemodel"
	"lending/service/event"
	"lending/service/host"
	"lending/service/oracle"
	"lending/store/kv"

	"github.com/facebookgo/clock"
	"github.com/fox-one/pkg/store/db"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideStore(database *db.DB) kv.Store {
	return kv.NewDB(database)
}

func provideRateModel() *ratemodel.Model {
	model, err := config.RateModel(&cfg)
	if err != nil {
		panic(err)
	}

	return model
}

func provideRiskParameters() core.RiskParameters {
	params, err := config.RiskParameters(&cfg)
	if err != nil {
		panic(err)
	}

	return params
}

func provideOracle() core.PriceOracle {
	if cfg.PriceOracle.EndPoint != "" {
		return oracle.New(cfg.PriceOracle.EndPoint, config.CacheTTL(&cfg))
	}

	prices, err := config.StaticPrices(&cfg)
	if err != nil {
		panic(err)
	}

	o := oracle.NewStatic()
	for symbol, price := range prices {
		o.Set(symbol, core.QuoteUSD, price, cfg.PriceOracle.Decimals)
	}

	return o
}

// provideNotifier log every event, and publish it to nats when configured
func provideNotifier() (core.INotifier, func()) {
	if cfg.Nats.URL == "" {
		return event.Logger(), func() {}
	}

	publisher, err := event.NewNats(cfg.Nats.URL, cfg.Nats.Subject)
	if err != nil {
		panic(err)
	}

	return event.Multi(event.Logger(), publisher), func() {
		if err := publisher.Close(); err != nil {
			logrus.WithError(err).Errorln("nats: close")
		}
	}
}

func provideMetrics() *host.Metrics {
	return host.NewMetrics(prometheus.DefaultRegisterer)
}

func provideApp(store kv.Store, prices core.PriceOracle, model *ratemodel.Model, notifier core.INotifier) *app.App {
	return app.New(app.Options{
		Store:     store,
		Clock:     clock.New(),
		Oracle:    prices,
		RateModel: model,
		Sink:      notifier,
		Metrics:   provideMetrics(),
		Admins:    cfg.Admins,
		Registry:  cfg.Registry,
		Risk:      provideRiskParameters(),
	})
}
