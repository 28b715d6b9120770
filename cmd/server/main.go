package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"triage-advisor/internal/app"
	"triage-advisor/internal/config"
	"triage-advisor/internal/logging"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load(os.Getenv("TRIAGE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Clients and services
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}

	// 3. Router and server
	if err := a.ListenAndServe(ctx); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
