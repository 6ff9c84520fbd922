package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskvault/taskvault/internal/app"
	"github.com/taskvault/taskvault/internal/shared/infrastructure/migrations"
	"github.com/taskvault/taskvault/pkg/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer container.Close()

		if err := migrations.Run(ctx, container.Conn); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		logger.Info("migrations applied", "driver", container.Conn.Driver())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
