// extractord serves the order extraction API over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mcatarino/order-extractor/internal/cleanup"
	"github.com/mcatarino/order-extractor/internal/common"
	"github.com/mcatarino/order-extractor/internal/export"
	"github.com/mcatarino/order-extractor/internal/jobs"
	"github.com/mcatarino/order-extractor/internal/llm/gemini"
	"github.com/mcatarino/order-extractor/internal/pdf"
	"github.com/mcatarino/order-extractor/internal/pipeline"
	"github.com/mcatarino/order-extractor/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	oracle, err := gemini.New(ctx, gemini.Config{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
		MaxRetries:  cfg.LLM.MaxRetries,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to create model client", "err", err)
		os.Exit(1)
	}

	var store jobs.Store
	if dsn := cfg.Storage.JobsDSN; dsn != "" {
		sqliteStore, err := jobs.OpenSQLite(dsn)
		if err != nil {
			logger.Error("failed to open job store", "dsn", dsn, "err", err)
			os.Exit(1)
		}
		defer sqliteStore.Close()
		store = sqliteStore
		logger.Info("jobs.store.sqlite", "dsn", dsn)
	} else {
		store = jobs.NewMemoryStore()
		logger.Info("jobs.store.memory")
	}

	renderer := pdf.NewService(cfg.PDF, logger)
	processor := pipeline.NewProcessor(oracle, renderer, logger)
	exporter := export.NewService(logger)

	sweeper := cleanup.New(cfg.Storage, cfg.Cleanup, logger)
	go sweeper.Run(ctx)

	app := server.New(cfg, store, processor, exporter, logger)
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: app.Router(),
	}

	go func() {
		logger.Info("http.listen", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
	app.Shutdown(shutdownCtx)
	logger.Info("stopped")
}
