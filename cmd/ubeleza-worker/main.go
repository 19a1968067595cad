package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DIEGO-rav10/UBELEZA/internal/amqp"
	"github.com/DIEGO-rav10/UBELEZA/internal/cli"
	"github.com/DIEGO-rav10/UBELEZA/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	if !cfg.EventsEnabled() {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient := cli.InitAMQP(logger, cfg)
	defer amqpClient.Close()

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	appender := cli.NewArchiveAppender(ctx, logger, cfg)
	processor := services.NewExportProcessor(repo, appender)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeEvents(gctx, func(evt *amqp.Event) error {
			return processor.Handle(gctx, evt)
		})
	})

	logger.Info("Starting ubeleza-worker",
		"queue", cfg.AMQPQueue,
		"export_backend", cfg.ExportBackend)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
