// Package costingsvc runs the costing engine against the catalogs: it loads the
// product and reference datasets, calculates, persists the resulting prices and
// records an audit fingerprint.
package costingsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"furnicost/internal/core/apperror"
	"furnicost/internal/core/id"
	"furnicost/internal/core/tx"
	"furnicost/internal/core/types"
	"furnicost/internal/domain/audit"
	"furnicost/internal/domain/catalogs/complexity"
	"furnicost/internal/domain/catalogs/material"
	"furnicost/internal/domain/catalogs/paintrecipe"
	"furnicost/internal/domain/catalogs/product"
	"furnicost/internal/domain/costing"
	"furnicost/pkg/logger"
)

var tracer = otel.Tracer("furnicost/costing")

// Calculation sources reported to the Recorder.
const (
	SourceInline  = "inline"
	SourceCatalog = "catalog"
)

// ProductStore is the product persistence the service needs.
type ProductStore interface {
	GetByID(ctx context.Context, id id.ID) (*product.Product, error)
	UpdatePricing(ctx context.Context, id id.ID, p product.Pricing) error
}

// MaterialSource lists active materials.
type MaterialSource interface {
	ListActive(ctx context.Context) ([]*material.Material, error)
}

// RecipeSource lists active paint recipes.
type RecipeSource interface {
	ListActive(ctx context.Context) ([]*paintrecipe.Recipe, error)
}

// ComplexitySource lists active paint complexities.
type ComplexitySource interface {
	ListActive(ctx context.Context) ([]*complexity.Complexity, error)
}

// Recorder receives calculation metrics.
type Recorder interface {
	ObserveCalculation(source string, r costing.Result, elapsed time.Duration)
}

// Config wires the service.
type Config struct {
	Engine       *costing.Engine
	Products     ProductStore
	Materials    MaterialSource
	Recipes      RecipeSource
	Complexities ComplexitySource
	Audit        *audit.Service
	Recorder     Recorder

	// TxManager is optional; when nil it is taken from context.
	TxManager tx.Manager

	// Settings are the global coefficients applied to catalog calculations.
	Settings costing.Settings

	// DefaultMarkup applies when neither the request nor the product carries a markup.
	DefaultMarkup decimal.Decimal

	// MinMargin is the rentability threshold in percent.
	MinMargin decimal.Decimal
}

// Service is the costing application service.
type Service struct {
	cfg Config
	now func() time.Time
}

// New creates the service. Engine defaults to a skip-policy engine.
func New(cfg Config) *Service {
	if cfg.Engine == nil {
		cfg.Engine = costing.NewEngine()
	}
	return &Service{
		cfg: cfg,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Outcome is a calculation result plus service-level annotations.
type Outcome struct {
	costing.Result

	IsRentable  bool             `json:"isRentable"`
	Fingerprint string           `json:"fingerprint,omitempty"`
	Pricing     *product.Pricing `json:"pricing,omitempty"`
}

// Calculate runs the engine on inline data. It never touches storage.
func (s *Service) Calculate(ctx context.Context, in costing.Input) Outcome {
	_, span := tracer.Start(ctx, "costing.Calculate")
	defer span.End()

	started := time.Now()
	res := s.cfg.Engine.CalculateProductCost(in)
	s.observe(SourceInline, res, time.Since(started))

	span.SetAttributes(
		attribute.String("costing.final_price", res.FinalPrice.String()),
		attribute.Bool("costing.has_errors", res.HasErrors),
	)

	return Outcome{
		Result:     res,
		IsRentable: costing.IsRentable(res, s.cfg.MinMargin),
	}
}

// CalculateForProduct loads productID with the active datasets, runs the engine,
// writes total cost, markup and base price back to the product and records the
// fingerprint. Invalid labor and markup fall back to the product defaults.
func (s *Service) CalculateForProduct(ctx context.Context, productID id.ID, labor, markup types.Number) (Outcome, error) {
	ctx, span := tracer.Start(ctx, "costing.CalculateForProduct")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", productID.String()))

	p, in, err := s.load(ctx, productID, labor, markup)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Outcome{}, err
	}

	started := time.Now()
	res := s.cfg.Engine.CalculateProductCost(in)
	s.observe(SourceCatalog, res, time.Since(started))

	pricing := product.PricingFromResult(res, s.now())
	out := Outcome{
		Result:     res,
		IsRentable: costing.IsRentable(res, s.cfg.MinMargin),
		Pricing:    &pricing,
	}

	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.cfg.Products.UpdatePricing(ctx, p.ID, pricing); err != nil {
			return fmt.Errorf("update product pricing: %w", err)
		}
		if s.cfg.Audit == nil {
			return nil
		}
		rec, err := s.cfg.Audit.Record(ctx, in.Product, res)
		if err != nil {
			return err
		}
		out.Fingerprint = rec.Fingerprint
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Outcome{}, err
	}

	logger.Info(ctx, "product cost calculated",
		"product_id", p.ID.String(),
		"total_cost", res.TotalCost.String(),
		"final_price", res.FinalPrice.String(),
		"has_errors", res.HasErrors,
	)

	return out, nil
}

// VerifyFingerprint recalculates productID with its stored defaults and compares
// the fingerprint with the latest recorded one. A mismatch is not an error.
func (s *Service) VerifyFingerprint(ctx context.Context, productID id.ID) (audit.Verification, error) {
	if s.cfg.Audit == nil {
		return audit.Verification{}, apperror.NewBusinessRule(apperror.CodeBusinessRule, "fingerprint audit is disabled")
	}

	ctx, span := tracer.Start(ctx, "costing.VerifyFingerprint")
	defer span.End()

	p, in, err := s.load(ctx, productID, types.Number{}, types.Number{})
	if err != nil {
		return audit.Verification{}, err
	}
	if p.Markup.Valid {
		in.MarkupPercent = types.Num(p.Markup.Decimal)
	}

	res := s.cfg.Engine.CalculateProductCost(in)
	return s.cfg.Audit.Verify(ctx, in.Product, res)
}

// Requirements aggregates the material consumption of productID's technical card.
func (s *Service) Requirements(ctx context.Context, productID id.ID) ([]costing.RequiredMaterial, error) {
	_, in, err := s.load(ctx, productID, types.Number{}, types.Number{})
	if err != nil {
		return nil, err
	}
	return costing.RequiredMaterials(in.Product, in.Datasets), nil
}

// Datasets loads the active catalogs as engine datasets.
func (s *Service) Datasets(ctx context.Context) (costing.Datasets, error) {
	materials, err := s.cfg.Materials.ListActive(ctx)
	if err != nil {
		return costing.Datasets{}, fmt.Errorf("list materials: %w", err)
	}
	recipes, err := s.cfg.Recipes.ListActive(ctx)
	if err != nil {
		return costing.Datasets{}, fmt.Errorf("list paint recipes: %w", err)
	}
	complexities, err := s.cfg.Complexities.ListActive(ctx)
	if err != nil {
		return costing.Datasets{}, fmt.Errorf("list paint complexities: %w", err)
	}

	return costing.Datasets{
		Materials:    material.ToRecords(materials),
		Recipes:      paintrecipe.ToRecipes(recipes),
		Complexities: complexity.ToComplexities(complexities),
		Settings:     s.cfg.Settings,
	}, nil
}

func (s *Service) load(ctx context.Context, productID id.ID, labor, markup types.Number) (*product.Product, costing.Input, error) {
	p, err := s.cfg.Products.GetByID(ctx, productID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, costing.Input{}, apperror.NewNotFound("product", productID.String())
		}
		return nil, costing.Input{}, err
	}
	if p.DeletionMark {
		return nil, costing.Input{}, apperror.NewBusinessRule(apperror.CodeBusinessRule, "product is marked for deletion").
			WithDetail("id", productID.String())
	}

	ds, err := s.Datasets(ctx)
	if err != nil {
		return nil, costing.Input{}, apperror.NewInternal(err)
	}

	in := costing.Input{
		Product:       p.ToCostingProduct(),
		Datasets:      ds,
		LaborCost:     labor,
		MarkupPercent: s.markupFor(p, markup),
	}
	if !labor.Valid() {
		in.LaborCost = p.DefaultLabor()
	}
	return p, in, nil
}

func (s *Service) markupFor(p *product.Product, requested types.Number) types.Number {
	if requested.Valid() {
		return requested
	}
	if p.MarkupPercent.IsPositive() {
		return p.DefaultMarkup()
	}
	return types.Num(s.cfg.DefaultMarkup)
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	txm := s.cfg.TxManager
	if txm == nil {
		var err error
		if txm, err = tx.GetManager(ctx); err != nil {
			return apperror.NewInternal(err).WithDetail("missing", "tx_manager")
		}
	}
	return txm.RunInTransaction(ctx, fn)
}

func (s *Service) observe(source string, r costing.Result, elapsed time.Duration) {
	if s.cfg.Recorder != nil {
		s.cfg.Recorder.ObserveCalculation(source, r, elapsed)
	}
}
