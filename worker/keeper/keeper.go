package keeper

import (
	"context"
	"strconv"
	"time"

	"lending/core"
	"lending/pkg/id"
	"lending/service/host"
	"lending/worker"

	"github.com/fox-one/pkg/logger"
)

// Worker liquidates unhealthy accounts
type Worker struct {
	worker.BaseJob
	Identity     string
	AccountStore core.IAccountStore
	Risk         core.IRiskService
	Liquidation  core.ILiquidationService
	Host         *host.Host
}

// New new keeper worker, it calls as identity
func New(
	cfg *core.Config,
	identity string,
	accountStore core.IAccountStore,
	risk core.IRiskService,
	liquidation core.ILiquidationService,
	h *host.Host,
) (*Worker, error) {
	job := Worker{
		Identity:     identity,
		AccountStore: accountStore,
		Risk:         risk,
		Liquidation:  liquidation,
		Host:         h,
	}

	if err := job.Schedule(cfg.App.Location, cfg.Worker.Keeper); err != nil {
		return nil, err
	}

	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job, nil
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "keeper")
	ctx = core.WithCaller(ctx, w.Identity)

	users, err := w.AccountStore.List(ctx)
	if err != nil {
		log.WithError(err).Errorln("accounts.List")
		return err
	}

	round := strconv.FormatInt(time.Now().Unix(), 10)
	for _, userID := range users {
		// one trace per account and round
		ctx := core.WithTraceID(ctx, id.TraceIDFrom("keeper", userID, round))
		if err := w.Host.Exec(ctx, "liquidate", func(ctx context.Context) error {
			return w.check(ctx, userID)
		}); err != nil {
			log.WithError(err).Errorln("liquidate", userID)
		}
	}

	return nil
}

// check liquidate userID if the account is unhealthy
func (w *Worker) check(ctx context.Context, userID string) error {
	account, err := w.AccountStore.Find(ctx, userID)
	if err != nil {
		return err
	}

	if account.IsDeleted() || !account.HasDebt() {
		return nil
	}

	healthy, err := w.Risk.IsAccountHealthy(ctx, account)
	if err != nil {
		return err
	}

	if healthy {
		return nil
	}

	logger.FromContext(ctx).Infoln("keeper: liquidating", userID)
	return w.Liquidation.Liquidate(ctx, userID)
}
