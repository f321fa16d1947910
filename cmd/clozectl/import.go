package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/clozedeck-backend/internal/adapter/postgres"
	"github.com/heartmarshall/clozedeck-backend/internal/adapter/postgres/sentence"
	"github.com/heartmarshall/clozedeck-backend/internal/adapter/sheet"
	"github.com/heartmarshall/clozedeck-backend/internal/app/importer"
)

func importCmd() *cobra.Command {
	var (
		source      string
		concurrency int
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Synchronize sentences from the published sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnv()
			if err != nil {
				return err
			}

			// Flags override config.
			if source != "" {
				cfg.Import.Source = source
			}
			if concurrency > 0 {
				cfg.Import.Concurrency = concurrency
			}
			if cfg.Import.Source == "" {
				return fmt.Errorf("no import source: set import.source or --source")
			}

			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			im := importer.New(logger,
				sheet.NewFetcher(cfg.Import.FetchTimeout, logger),
				sentence.New(pool),
				importer.Config{
					Source:      cfg.Import.Source,
					Concurrency: cfg.Import.Concurrency,
					Languages:   cfg.Study.Languages,
					DryRun:      dryRun,
				},
			)

			result, err := im.Run(ctx)
			if err != nil {
				logger.Error("import failed", slog.String("error", err.Error()))
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"rows=%d synced=%d changed=%d skipped=%d failed=%d (%s)\n",
				result.Rows, result.Synced, result.Changed, result.Skipped, result.Failed, result.Duration)
			if result.Failed > 0 {
				return fmt.Errorf("%d row(s) rejected", result.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "sheet CSV URL or file path (overrides import.source)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel upserts (overrides import.concurrency)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse the sheet without writing")
	return cmd
}
