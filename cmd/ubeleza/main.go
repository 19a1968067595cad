package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/DIEGO-rav10/UBELEZA/internal/cache"
	"github.com/DIEGO-rav10/UBELEZA/internal/cli"
	apphttp "github.com/DIEGO-rav10/UBELEZA/internal/http"
	"github.com/DIEGO-rav10/UBELEZA/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient := cli.InitAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	// A typed nil *amqp.Client must not reach the services as a non-nil
	// interface value.
	var publisher services.EventPublisher
	if amqpClient != nil {
		publisher = amqpClient
	}

	stateCache := services.NewStateCache(cfg.CacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(stateCache)
	cacheManager.StartCleanup(cfg.CacheTTL)
	defer cacheManager.Stop()

	cycles := services.NewCycleService(repo, publisher, stateCache)
	archives := services.NewArchiveService(repo, publisher, stateCache)

	handler := apphttp.NewServer(cfg, logger, cycles, archives, repo)
	defer handler.Stop()

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting ubeleza server", "port", cfg.Port, "events_enabled", cfg.EventsEnabled())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
