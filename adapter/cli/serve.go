package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskvault/taskvault/adapter/api"
	"github.com/taskvault/taskvault/internal/app"
	"github.com/taskvault/taskvault/internal/shared/infrastructure/migrations"
	"github.com/taskvault/taskvault/pkg/config"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the TaskVault API server",
	Long:  `Starts the HTTP API server, applying pending schema migrations first.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (overrides HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
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
	logger.Info("database ready", "driver", container.Conn.Driver())

	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = cfg.HTTPAddr
	if serveAddr != "" {
		serverCfg.Addr = serveAddr
	}

	server := api.NewServer(
		serverCfg,
		api.NewAuthHandler(container.AuthService, logger),
		api.NewTaskHandler(api.TaskHandlerConfig{
			CreateTask: container.CreateTask,
			UpdateTask: container.UpdateTask,
			DeleteTask: container.DeleteTask,
			ListTasks:  container.ListTasks,
			Cache:      container.Cache,
			Logger:     logger,
		}),
		api.NewStatsHandler(api.StatsHandlerConfig{
			Summary:           container.TaskSummary,
			PendingBreakdown:  container.PendingBreakdown,
			PriorityBreakdown: container.PriorityBreakdown,
			Cache:             container.Cache,
			CacheTTL:          cfg.StatsCacheTTL,
			Logger:            logger,
		}),
		container.AuthService,
		logger,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
