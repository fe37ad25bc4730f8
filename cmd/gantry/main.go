package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/torvane/gantry/adapter/cli"
	"github.com/torvane/gantry/adapter/cli/activity"
	"github.com/torvane/gantry/adapter/cli/baseline"
	"github.com/torvane/gantry/adapter/cli/dependency"
	"github.com/torvane/gantry/adapter/cli/schedule"
	"github.com/torvane/gantry/internal/app"
	"github.com/torvane/gantry/pkg/config"
	"github.com/torvane/gantry/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()
		cli.SetApp(cli.NewApp(
			container.CreateScheduleHandler,
			container.ActivityHandler,
			container.DependencyHandler,
			container.RescheduleHandler,
			container.BaselineHandler,
			container.ImportHandler,
			container.Queries,
		))
	}

	cli.AddCommand(schedule.Cmd)
	cli.AddCommand(activity.Cmd)
	cli.AddCommand(dependency.Cmd)
	cli.AddCommand(baseline.Cmd)

	cli.Execute()
}
