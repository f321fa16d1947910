package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/clozedeck-backend/internal/adapter/postgres"
	"github.com/heartmarshall/clozedeck-backend/internal/adapter/postgres/review"
	"github.com/heartmarshall/clozedeck-backend/internal/service/profile"
	"github.com/heartmarshall/clozedeck-backend/internal/service/study"
)

func resetCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every review record of a learner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("--user-id: %w", err)
			}

			cfg, logger, err := loadEnv()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			// Live sessions belong to the server process; this registry is empty.
			svc := profile.NewService(logger, review.New(pool), study.NewRegistry(cfg.Study.SessionTTL), postgres.NewTxManager(pool))

			deleted, err := svc.ResetProgressFor(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d review record(s)\n", deleted)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "learner id")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
