package cmd

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/repositories"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/store"
)

var (
	resetOrders bool
	warmCatalog bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load reference data into the store",
	Long: `Seed the configured store from the reference data source.
--reset-orders drops the stored orders and loads the reference orders again.
--warm stores every reference collection that is not stored yet.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&resetOrders, "reset-orders", false, "replace the stored orders with the reference orders")
	seedCmd.Flags().BoolVar(&warmCatalog, "warm", false, "seed every reference collection")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	if !resetOrders && !warmCatalog {
		return errors.New("nothing to do, pass --reset-orders and/or --warm")
	}
	ctx := cmd.Context()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if resetOrders {
		key := cfg.Store.StoreKey(repositories.KeyOrders)
		if err := store.Clear(ctx, a.backend, key); err != nil {
			return err
		}
		orders, err := a.orders.List(ctx, nil)
		if err != nil {
			return errors.Wrap(err, "failed to reload orders")
		}
		log.Info().Str("key", key).Int("orders", len(orders)).Msg("Orders reset from reference data")
	}

	if warmCatalog {
		if err := a.repos.Catalog.Warm(ctx); err != nil {
			return errors.Wrap(err, "failed to warm catalog")
		}
		log.Info().Msg("Reference collections seeded")
	}
	return nil
}
