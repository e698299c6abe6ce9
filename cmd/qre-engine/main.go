package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopfloorstack/shopfloor-qre/internal/api"
	"github.com/shopfloorstack/shopfloor-qre/internal/cache"
	"github.com/shopfloorstack/shopfloor-qre/internal/config"
	"github.com/shopfloorstack/shopfloor-qre/internal/metrics"
	"github.com/shopfloorstack/shopfloor-qre/internal/services"
	"github.com/shopfloorstack/shopfloor-qre/internal/utils"
)

func main() {
	configPath := flag.String("config", "", "path to the service config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "qre-engine: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	slog.SetDefault(logger)

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tables, err := config.LoadTables(cfg.Tables.Path)
	if err != nil {
		return fmt.Errorf("load tables: %w", err)
	}
	logger.Info("threshold tables loaded", slog.String("path", cfg.Tables.Path))

	var provider cache.Provider = cache.NewNoopProvider()
	if cfg.Cache.Enabled {
		redisProvider, err := cache.NewRedisProvider(ctx, cfg.Cache)
		if err != nil {
			return fmt.Errorf("connect cache: %w", err)
		}
		provider = redisProvider
		logger.Info("alert cooldown cache connected", slog.String("addr", cfg.Cache.Addr))
	}
	defer provider.Close()

	service := services.NewEvaluationService(logger, tables, provider, cfg.Cache.AlertCooldown)

	if cfg.Tables.Watch && cfg.Tables.Path != "" {
		go func() {
			if err := config.WatchTables(ctx, cfg.Tables.Path, logger, service.UpdateTables); err != nil {
				logger.Error("tables watcher stopped", slog.Any("error", err))
			}
		}()
	}

	metricsServer := &http.Server{
		Addr:              cfg.Server.MetricsAddress,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()

	server := api.NewServer(cfg.Server.Address, service, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", slog.Any("error", err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown failed", slog.Any("error", err))
	}

	logger.Info("qre-engine stopped")
	return nil
}
