package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kapu/rtms-price-go/internal/app"
	"github.com/kapu/rtms-price-go/internal/config"
	"github.com/kapu/rtms-price-go/internal/constants"
	"github.com/kapu/rtms-price-go/internal/health"
	"github.com/kapu/rtms-price-go/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.EnableFileLoggingWithLevel(util.LogConfig{
		Dir:        cfg.Logging.Dir,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	}, "rtms-price.log", cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	health.Init(cfg.Version)

	logger.Info("RTMS price service starting...",
		slog.String("version", cfg.Version),
		slog.String("log_level", cfg.Logging.Level),
		slog.Bool("rtms_key", cfg.RTMS.HasKey()),
		slog.String("started_at", util.FormatKST(util.NowKST(), "2006-01-02 15:04:05")),
	)
	if !cfg.RTMS.HasKey() {
		// 자격증명 없이도 기동은 계속되고, 실거래 조회만 명시적 실패로 강등된다
		logger.Warn("SERVICE_KEY not set, transaction lookups will fail fast")
	}

	buildCtx, buildCancel := context.WithTimeout(context.Background(), constants.AppTimeout.Build)
	runtime, err := app.BuildRuntime(buildCtx, cfg, logger)
	buildCancel()
	if err != nil {
		logger.Error("Failed to assemble application services", slog.Any("error", err))
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	runtime.StartServer(errCh)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("Server failed", slog.Any("error", err))
	}

	if err := runtime.Shutdown(context.Background()); err != nil {
		logger.Error("Shutdown incomplete", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("Shutdown complete")
}
