package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/askdata/askdata/internal/askclient"
	"github.com/askdata/askdata/internal/config"
	"github.com/askdata/askdata/internal/console"
	"github.com/askdata/askdata/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConsole(os.LookupEnv)
	if err != nil {
		slog.Error("failed to load console config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewConsoleLogger(cfg, os.Stdout)
	handler := console.NewHandler(cfg, console.Dependencies{
		Logger: logger,
		Client: askclient.New(cfg.APIBaseURL, cfg.APITimeout),
	})
	server := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting console", slog.String("addr", cfg.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("console server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down console")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}
