package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/search"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/services"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Start the background worker that indexes the upcoming production days in Elasticsearch`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	if cfg.Elastic.URL == "" {
		return errors.New("elastic.url is required to run the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	elasticClient, err := search.NewElasticClient(cfg.Elastic)
	if err != nil {
		a.metrics.SetHealth("search", false)
		return err
	}
	a.metrics.SetHealth("search", true)

	indexer := services.NewIndexer(a.planning, elasticClient, a.metrics)

	g.Go(func() error {
		log.Info().Dur("interval", cfg.Worker.Interval).Int("days", cfg.Planning.IndexDays).Msg("Starting production day indexing job")

		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return errors.Wrap(err, "failed to create scheduler")
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.Worker.Interval),
			gocron.NewTask(func() {
				jobCtx, end := a.tracer.StartTransaction(ctx, "worker.index_upcoming")
				defer end()
				if _, err := indexer.IndexUpcoming(jobCtx, cfg.Planning.IndexDays); err != nil {
					a.tracer.RecordError(jobCtx, err)
					log.Error().Err(err).Msg("Failed to index upcoming production days")
				}
			}),
			gocron.WithStartAt(gocron.WithStartImmediately()),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return errors.Wrap(err, "failed to schedule indexing job")
		}

		scheduler.Start()
		<-ctx.Done()
		return scheduler.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Worker error")
		return err
	}

	log.Info().Msg("Worker shutting down gracefully")
	return nil
}
