package app

import (
	"lending/core"
	"lending/service/account"
	"lending/service/auth"
	"lending/service/event"
	"lending/service/host"
	"lending/service/liquidation"
	"lending/service/oracle"
	"lending/service/pool"
	"lending/service/registry"
	"lending/service/risk"
	"lending/service/token"
	accountstore "lending/store/account"
	"lending/store/kv"
	"lending/store/params"
	poolstore "lending/store/pool"

	"github.com/facebookgo/clock"
)

// Options dependencies supplied by the process
type Options struct {
	Store     kv.Store
	Clock     clock.Clock
	Oracle    core.PriceOracle
	RateModel core.IRateModel
	Sink      core.INotifier
	Metrics   *host.Metrics
	Admins    []string
	Registry  map[string]string
	Risk      core.RiskParameters
}

// App every component of the lending core, sharing one journaled store
type App struct {
	Journal  *kv.Journal
	Events   *event.Buffer
	Host     *host.Host
	Registry *registry.Registry
	Feeds    *oracle.Feeds
	Tokens   *token.Ledger

	PoolStore    core.IPoolStore
	AccountStore core.IAccountStore
	ParamsStore  core.IParamsStore

	Pools       core.IPoolService
	Risk        core.IRiskService
	Accounts    core.IAccountService
	Liquidation core.ILiquidationService
}

// New wire the components
func New(opts Options) *App {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}

	journal := kv.NewJournal(opts.Store)
	events := event.NewBuffer(opts.Sink)

	a := &App{
		Journal:      journal,
		Events:       events,
		Host:         host.New(journal, events, clk, opts.Metrics),
		Registry:     registry.New(opts.Registry),
		Tokens:       token.New(journal),
		PoolStore:    poolstore.New(journal),
		AccountStore: accountstore.New(journal),
		ParamsStore:  params.New(journal, opts.Risk),
	}

	// the configured feed is served at whatever address the registry holds for the oracle
	address := opts.Registry[core.ServiceOracle]
	if address == "" {
		address = core.ServiceOracle
		a.Registry.Register(core.ServiceOracle, address)
	}

	a.Feeds = oracle.NewFeeds(a.Registry)
	if opts.Oracle != nil {
		a.Feeds.Add(address, opts.Oracle)
	}

	gate := auth.New(opts.Admins)
	a.Pools = pool.New(a.PoolStore, opts.RateModel, a.Tokens, a.Registry, gate, events, clk)
	a.Risk = risk.New(a.ParamsStore, a.AccountStore, a.Feeds, a.Pools, gate, events, clk)
	a.Accounts = account.New(a.AccountStore, a.Risk, a.Pools, a.Tokens, a.Registry, gate, events, clk)
	a.Liquidation = liquidation.New(a.AccountStore, a.Accounts, a.Pools, a.Tokens, a.Registry, gate, events, clk)
	return a
}
