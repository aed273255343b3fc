package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/koregy/sejong-eats-chatbot/internal/adapters/observability"
	"github.com/koregy/sejong-eats-chatbot/internal/app"
	"github.com/koregy/sejong-eats-chatbot/internal/shared"
	"github.com/koregy/sejong-eats-chatbot/internal/storage"
)

type options struct {
	restaurantsPath string
	hoursPath       string
	batchSize       int
	workers         int
	dryRun          bool
}

func newRootCmd(cfg shared.Config) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "ingestor",
		Short: "Replace the restaurant catalog from JSON exports",
		Long: `Reads the restaurant list and the per-day operating hours, joins them by
restaurant id, and replaces the whole catalog with the merged records.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg, opts)
		},
	}
	cmd.Flags().StringVar(&opts.restaurantsPath, "restaurants", "restaurants.json", "path to the restaurant list (JSON array)")
	cmd.Flags().StringVar(&opts.hoursPath, "hours", "operating_hours.json", "path to operating hours (JSON array)")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", cfg.BatchSize, "records per write batch")
	cmd.Flags().IntVar(&opts.workers, "workers", cfg.Workers, "batches written concurrently")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "merge and report without touching the catalog")
	return cmd
}

func run(ctx context.Context, cfg shared.Config, opts *options) error {
	restaurants, err := readRecords(opts.restaurantsPath)
	if err != nil {
		return err
	}
	hours, err := readRecords(opts.hoursPath)
	if err != nil {
		return err
	}
	log.Info().
		Int("restaurants", len(restaurants)).
		Int("hours", len(hours)).
		Str("driver", cfg.CatalogDriver).
		Msg("ingestor starting")

	if opts.dryRun {
		merged := app.NewIngestionService(nil).Merge(restaurants, hours)
		log.Info().Int("records", len(merged)).Msg("dry run, catalog untouched")
		return nil
	}

	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ing := app.NewIngestionService(store)
	n, err := ing.Load(ctx, ing.Merge(restaurants, hours), opts.batchSize, opts.workers)
	if err != nil {
		return fmt.Errorf("load catalog after %d records: %w", n, err)
	}
	log.Info().Int("records", n).Msg("ingestion completed")
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("ingestion failed")
		os.Exit(1)
	}
}
