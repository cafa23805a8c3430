// Package main is the entry point for the furnicost API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"furnicost/internal/app"
	"furnicost/internal/config"
	v1 "furnicost/internal/infrastructure/http/v1"
	"furnicost/internal/infrastructure/http/v1/handlers"
	"furnicost/internal/infrastructure/storage/postgres"
	"furnicost/internal/infrastructure/storage/postgres/migrations"
	"furnicost/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatalw("server failed", "error", err)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	log.Infow("starting furnicost server", "version", version, "env", cfg.App.Env)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Postgres.DSN)
	if cfg.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolCfg.MinConns = cfg.Postgres.MinConns
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	if cfg.Postgres.Migrate {
		if err := migrations.Up(ctx, pool.Pool); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		log.Info("migrations applied")
	}

	a, err := app.Build(cfg, pool, log)
	if err != nil {
		return err
	}

	a.Listener.Start(ctx)
	defer a.Listener.Stop()

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:         log,
		TxManager:      a.TxManager,
		DB:             pool,
		PoolStats:      pool.Stats,
		CacheStats:     a.CacheStats,
		Info:           handlers.BuildInfo{App: "furnicost", Version: version, Env: cfg.App.Env},
		Metrics:        a.Metrics,
		MetricsPath:    cfg.Metrics.Path,
		Materials:      a.Materials,
		Recipes:        a.Recipes,
		Complexities:   a.Complexities,
		Products:       a.Products,
		Costing:        a.Costing,
		Pricing:        a.Pricing,
		Settings:       cfg.Pricing.Settings(),
		MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
		Development:    cfg.IsDevelopment(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// --- Graceful shutdown ---
	log.Info("shutting down server...")
	pool.LogStats(context.Background())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
