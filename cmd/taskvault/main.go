package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/taskvault/taskvault/adapter/cli"
	"github.com/taskvault/taskvault/pkg/config"
	"github.com/taskvault/taskvault/pkg/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{AppEnv: "development"}
	}

	logCfg := observability.DefaultLogConfig()
	if cfg.IsProduction() {
		logCfg = observability.ProductionLogConfig()
	}
	if cfg.LogLevel != "" {
		logCfg.Level = observability.LogLevel(cfg.LogLevel)
	}
	if cfg.LogFormat != "" {
		logCfg.Format = observability.LogFormat(cfg.LogFormat)
	}
	logger := observability.NewLogger(logCfg)
	cli.SetLogger(logger)

	// Cancel the root context on shutdown signals so `serve` can drain.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()
	}()

	cli.Execute(ctx)
}
