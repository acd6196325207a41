package cmd

import (
	"context"
	"encoding/json"

	"lending/core"
	"lending/internal/app"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "manage liquidity pools",
}

var poolCreateCmd = &cobra.Command{
	Use:   "create <symbol>...",
	Short: "create pools, the caller must be an admin",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runAdmin(cmd, func(ctx context.Context, a *app.App) error {
			for _, symbol := range args {
				if err := a.Host.Exec(ctx, "create_pool", func(ctx context.Context) error {
					_, err := a.Pools.CreatePool(ctx, symbol)
					return err
				}); err != nil {
					return err
				}

				cmd.Println("pool created", symbol)
			}

			return nil
		})
	},
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "show or update risk parameters",
	Run: func(cmd *cobra.Command, args []string) {
		runAdmin(cmd, func(ctx context.Context, a *app.App) error {
			params, err := a.Risk.Parameters(ctx)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if !flags.Changed("ratio") && !flags.Changed("max") && !flags.Changed("allow") {
				data, _ := json.MarshalIndent(params, "", "  ")
				cmd.Println(string(data))
				return nil
			}

			if flags.Changed("ratio") {
				v, _ := flags.GetString("ratio")
				ratio, err := decimal.NewFromString(v)
				if err != nil {
					return err
				}

				params.MinHealthRatio = ratio
			}

			if flags.Changed("max") {
				params.MaxCollateralAssetCount, _ = flags.GetInt("max")
			}

			if flags.Changed("allow") {
				params.AllowedCollateral, _ = flags.GetStringSlice("allow")
			}

			return a.Host.Exec(ctx, "set_parameters", func(ctx context.Context) error {
				return a.Risk.SetParameters(ctx, params)
			})
		})
	},
}

// runAdmin run fn against the database, calling as the --as identity
func runAdmin(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) {
	caller, _ := cmd.Flags().GetString("as")
	if !cfg.IsAdmin(caller) {
		cmd.PrintErrln(caller, "is not an admin")
		return
	}

	database := provideDatabase()
	defer database.Close()

	notifier, closeNotifier := provideNotifier()
	defer closeNotifier()

	a := provideApp(provideStore(database), provideOracle(), provideRateModel(), notifier)

	ctx := core.WithCaller(cmd.Context(), caller)
	if err := fn(ctx, a); err != nil {
		cmd.PrintErrln(cmd.CommandPath(), "failed:", err)
	}
}

func init() {
	rootCmd.AddCommand(poolCmd)
	poolCmd.AddCommand(poolCreateCmd)
	poolCreateCmd.Flags().String("as", "", "admin identity")

	rootCmd.AddCommand(paramsCmd)
	paramsCmd.Flags().String("as", "", "admin identity")
	paramsCmd.Flags().String("ratio", "", "min health ratio")
	paramsCmd.Flags().Int("max", 0, "max collateral asset count")
	paramsCmd.Flags().StringSlice("allow", nil, "allowed collateral symbols")
}
