// Package main is the entry point for the furnicost background worker.
// It keeps stored product prices in line with the reference catalogs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"furnicost/internal/app"
	"furnicost/internal/config"
	"furnicost/internal/domain/costingsvc"
	"furnicost/internal/infrastructure/storage/postgres"
	"furnicost/internal/infrastructure/storage/postgres/migrations"
	"furnicost/pkg/logger"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	once := pflag.Bool("once", false, "run a single repricing pass and exit")
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
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), log))
	defer cancel()

	log.Info("starting furnicost worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Postgres.DSN))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if cfg.Postgres.Migrate {
		if err := migrations.Up(ctx, pool.Pool); err != nil {
			log.Fatalw("failed to apply migrations", "error", err)
		}
	}

	a, err := app.Build(cfg, pool, log)
	if err != nil {
		log.Fatalw("failed to wire services", "error", err)
	}

	if *once {
		if _, err := a.Repricer.RepriceAll(ctx); err != nil {
			log.Fatalw("repricing failed", "error", err)
		}
		return
	}

	worker := NewRepriceWorker(a.Repricer, log, cfg.Worker.Interval, cfg.Worker.Debounce)
	a.Listener.OnInvalidation(worker.Notify)
	a.Listener.Start(ctx)
	defer a.Listener.Stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

// Repricer recalculates every stored product price.
type Repricer interface {
	RepriceAll(ctx context.Context) (costingsvc.RepriceReport, error)
}

// RepriceWorker runs a repricing pass on a fixed interval and shortly after
// any reference catalog changes. Bursts of changes collapse into one pass.
type RepriceWorker struct {
	repricer Repricer
	log      *logger.Logger
	interval time.Duration
	debounce time.Duration
	trigger  chan struct{}
}

// NewRepriceWorker creates a worker. A zero interval disables scheduled passes.
func NewRepriceWorker(r Repricer, log *logger.Logger, interval, debounce time.Duration) *RepriceWorker {
	return &RepriceWorker{
		repricer: r,
		log:      log.WithComponent("worker"),
		interval: interval,
		debounce: debounce,
		trigger:  make(chan struct{}, 1),
	}
}

// Notify requests a pass. It never blocks.
func (w *RepriceWorker) Notify(table string) {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Run processes passes until ctx is done.
func (w *RepriceWorker) Run(ctx context.Context) {
	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case <-w.trigger:
			if pending == nil {
				pending = time.After(w.debounce)
			}

		case <-pending:
			pending = nil
			w.reprice(ctx, "catalog_changed")

		case <-tick:
			w.reprice(ctx, "schedule")
		}
	}
}

func (w *RepriceWorker) reprice(ctx context.Context, reason string) {
	report, err := w.repricer.RepriceAll(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Errorw("repricing failed", "reason", reason, "error", err)
		}
		return
	}
	w.log.Infow("repricing pass finished",
		"reason", reason,
		"repriced", report.Repriced,
		"incomplete", report.Incomplete,
		"failed", report.Failed,
	)
}
