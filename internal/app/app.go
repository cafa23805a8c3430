// Package app builds the service graph shared by the server and the worker.
package app

import (
	"fmt"
	"time"

	"furnicost/internal/config"
	"furnicost/internal/domain/audit"
	"furnicost/internal/domain/catalogs/complexity"
	"furnicost/internal/domain/catalogs/material"
	"furnicost/internal/domain/catalogs/paintrecipe"
	"furnicost/internal/domain/catalogs/product"
	"furnicost/internal/domain/costing"
	"furnicost/internal/domain/costingsvc"
	"furnicost/internal/domain/pricing"
	"furnicost/internal/infrastructure/cache"
	"furnicost/internal/infrastructure/metrics"
	"furnicost/internal/infrastructure/numerator"
	"furnicost/internal/infrastructure/storage/postgres"
	"furnicost/internal/infrastructure/storage/postgres/catalog_repo"
	"furnicost/pkg/logger"
)

// snapshotTTL bounds staleness when a catalog_changed notification is lost.
const snapshotTTL = 10 * time.Minute

// App holds the wired services.
type App struct {
	TxManager *postgres.TxManager
	Metrics   *metrics.Metrics

	// Listener invalidates the reference snapshots; the caller starts it.
	Listener *cache.Listener

	Materials    *material.Service
	Recipes      *paintrecipe.Service
	Complexities *complexity.Service
	Products     *product.Service

	Costing  *costingsvc.Service
	Repricer *costingsvc.Repricer
	Pricing  *pricing.Calculator

	snapshots []interface{ Stats() cache.Stats }
}

// CacheStats reports the reference snapshot state.
func (a *App) CacheStats() []cache.Stats {
	out := make([]cache.Stats, 0, len(a.snapshots))
	for _, s := range a.snapshots {
		out = append(out, s.Stats())
	}
	return out
}

// Build wires repositories, catalog snapshots, the costing engine and the
// pricing calculator on top of pool.
func Build(cfg *config.Config, pool *postgres.Pool, log *logger.Logger) (*App, error) {
	txm := postgres.NewTxManager(pool)
	if cfg.Postgres.StatementTimeout > 0 {
		txm = txm.WithStatementTimeout(cfg.Postgres.StatementTimeout)
	}
	codes := numerator.New(pool)

	// --- Catalogs ---
	materialRepo := catalog_repo.NewMaterialRepo(txm)
	recipeRepo := catalog_repo.NewPaintRecipeRepo(txm)
	complexityRepo := catalog_repo.NewComplexityRepo(txm)
	productRepo := catalog_repo.NewProductRepo(txm)

	a := &App{TxManager: txm}
	a.Materials = material.NewService(materialRepo, codes)
	a.Complexities = complexity.NewService(complexityRepo, codes)
	a.Recipes = paintrecipe.NewService(recipeRepo, codes, a.Complexities)
	a.Products = product.NewService(productRepo, codes)

	// --- Reference snapshots ---
	materials := cache.NewSnapshot("cat_materials", materialRepo.ListActive, snapshotTTL)
	recipes := cache.NewSnapshot("cat_paint_recipes", recipeRepo.ListActive, snapshotTTL)
	complexities := cache.NewSnapshot("cat_paint_complexities", complexityRepo.ListActive, snapshotTTL)

	a.Listener = cache.NewListener(pool.Pool, materials, recipes, complexities)
	a.Listener.OnInvalidation(func(table string) {
		log.Debugw("catalog snapshot invalidated", "table", table)
	})
	a.snapshots = []interface{ Stats() cache.Stats }{materials, recipes, complexities}

	// --- Metrics ---
	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		a.Metrics.RegisterPool(func() (int32, int32, int32) {
			s := pool.Stats()
			return s.TotalConns, s.AcquiredConns, s.IdleConns
		})
	}

	// --- Costing ---
	engineOpts := []costing.Option{costing.WithMissingRecipePolicy(cfg.Pricing.Policy())}
	if cfg.Pricing.ObserveBreakdown {
		engineOpts = append(engineOpts, costing.WithObserver(costing.LogObserver(log.WithComponent("costing"))))
	}

	svcCfg := costingsvc.Config{
		Engine:        costing.NewEngine(engineOpts...),
		Products:      productRepo,
		Materials:     materials,
		Recipes:       recipes,
		Complexities:  complexities,
		TxManager:     txm,
		Settings:      cfg.Pricing.Settings(),
		DefaultMarkup: cfg.Pricing.DefaultMarkup(),
		MinMargin:     cfg.Pricing.MinMargin(),
	}
	if a.Metrics != nil {
		svcCfg.Recorder = a.Metrics
	}
	if cfg.Audit.Enabled {
		store, err := postgres.NewFingerprintStore(txm, cfg.Audit.CompressThreshold)
		if err != nil {
			return nil, fmt.Errorf("create fingerprint store: %w", err)
		}
		svcCfg.Audit = audit.NewService(store)
	}
	a.Costing = costingsvc.New(svcCfg)
	a.Repricer = costingsvc.NewRepricer(a.Costing, productRepo, cfg.Worker.BatchSize)

	// --- Pricing ---
	calc, err := newCalculator(cfg.Pricing)
	if err != nil {
		return nil, err
	}
	a.Pricing = calc

	log.Infow("services wired",
		"missing_recipe_policy", cfg.Pricing.MissingRecipePolicy,
		"audit", cfg.Audit.Enabled,
		"metrics", cfg.Metrics.Enabled,
	)
	return a, nil
}

func newCalculator(p config.Pricing) (*pricing.Calculator, error) {
	rule, err := pricing.CompileRentabilityRule(p.RentabilityRule)
	if err != nil {
		return nil, fmt.Errorf("compile rentability rule: %w", err)
	}

	opts := []pricing.CalculatorOption{
		pricing.WithCollectionMultipliers(pricing.DefaultCollectionMultipliers().Merge(p.Collections)),
		pricing.WithMaterialMultipliers(pricing.DefaultMaterialMultipliers().Merge(p.MaterialKinds)),
		pricing.WithMinDisplayMargin(p.MinMargin()),
		pricing.WithRentabilityRule(rule),
	}
	if p.QuoteCacheSize > 0 {
		qc, err := pricing.NewLRUQuoteCache(p.QuoteCacheSize)
		if err != nil {
			return nil, fmt.Errorf("create quote cache: %w", err)
		}
		opts = append(opts, pricing.WithQuoteCache(qc))
	}
	return pricing.NewCalculator(opts...), nil
}
