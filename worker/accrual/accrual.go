package accrual

import (
	"context"

	"lending/core"
	"lending/service/host"
	"lending/worker"

	"github.com/fox-one/pkg/logger"
)

// Worker accrues the interest of every pool
type Worker struct {
	worker.BaseJob
	PoolStore core.IPoolStore
	Pools     core.IPoolService
	Host      *host.Host
}

// New new accrual worker
func New(cfg *core.Config, poolStore core.IPoolStore, pools core.IPoolService, h *host.Host) (*Worker, error) {
	job := Worker{
		PoolStore: poolStore,
		Pools:     pools,
		Host:      h,
	}

	if err := job.Schedule(cfg.App.Location, cfg.Worker.Accrual); err != nil {
		return nil, err
	}

	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job, nil
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "accrual")

	pools, err := w.PoolStore.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("pools.All")
		return err
	}

	for _, pool := range pools {
		symbol := pool.Symbol
		err := w.Host.Exec(ctx, "accrue", func(ctx context.Context) error {
			_, err := w.Pools.Accrue(ctx, symbol)
			return err
		})
		if err != nil {
			log.WithError(err).Errorln("accrue", symbol)
		}
	}

	return nil
}
