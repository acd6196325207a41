package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lending/core"
	"lending/service/oracle"
	"lending/worker"
	"lending/worker/accrual"
	"lending/worker/keeper"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "run interest accrual and liquidation keeper",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		notifier, closeNotifier := provideNotifier()
		defer closeNotifier()

		prices := provideOracle()
		warmPrices(ctx, prices)

		a := provideApp(provideStore(database), prices, provideRateModel(), notifier)

		accrualWorker, err := accrual.New(&cfg, a.PoolStore, a.Pools, a.Host)
		if err != nil {
			cmd.PrintErrln("create accrual worker:", err)
			return
		}

		identity, _ := cmd.Flags().GetString("keeper")
		keeperWorker, err := keeper.New(&cfg, identity, a.AccountStore, a.Risk, a.Liquidation, a.Host)
		if err != nil {
			cmd.PrintErrln("create keeper worker:", err)
			return
		}

		jobs := []worker.IJob{accrualWorker, keeperWorker}
		for _, job := range jobs {
			if err := job.Start(); err != nil {
				cmd.PrintErrln("start worker:", err)
				return
			}
		}

		log.Infoln("workers started")
		<-ctx.Done()

		for _, job := range jobs {
			_ = job.Stop()
		}

		log.Infoln("workers stopped")
	},
}

// warmPrices fill the price cache for every configured pool
func warmPrices(ctx context.Context, prices core.PriceOracle) {
	s, ok := prices.(*oracle.PriceService)
	if !ok {
		return
	}

	if err := s.Warm(ctx, core.QuoteUSD, cfg.Pools, 4); err != nil {
		logger.FromContext(ctx).WithError(err).Warnln("oracle: warm prices")
	}
}

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.Flags().String("keeper", "keeper", "identity the liquidation keeper calls as")
}
