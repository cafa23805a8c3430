package costing

import (
	"github.com/shopspring/decimal"

	"furnicost/internal/core/types"
)

// MissingRecipePolicy decides whether a paint job with an unknown recipe marks
// the result as erroneous.
type MissingRecipePolicy string

const (
	// MissingRecipeSkip drops the job silently. Prices stay computable with a
	// partially broken paint configuration.
	MissingRecipeSkip MissingRecipePolicy = "skip"

	// MissingRecipeFlag drops the job and sets HasErrors on the result.
	MissingRecipeFlag MissingRecipePolicy = "flag"
)

// ParseMissingRecipePolicy maps a config value to a policy. ok is false for unknown values.
func ParseMissingRecipePolicy(s string) (MissingRecipePolicy, bool) {
	switch MissingRecipePolicy(normalizeKey(s)) {
	case "", MissingRecipeSkip:
		return MissingRecipeSkip, true
	case MissingRecipeFlag:
		return MissingRecipeFlag, true
	}
	return "", false
}

// Engine runs the full costing pipeline. The zero value is not usable; call NewEngine.
// An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	recipePolicy MissingRecipePolicy
	observer     Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithMissingRecipePolicy sets how unknown paint recipes affect HasErrors.
func WithMissingRecipePolicy(p MissingRecipePolicy) Option {
	return func(e *Engine) {
		if p == MissingRecipeFlag {
			e.recipePolicy = MissingRecipeFlag
		} else {
			e.recipePolicy = MissingRecipeSkip
		}
	}
}

// WithObserver registers a callback invoked with every computed result.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// NewEngine creates an engine with the skip policy and no observer unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{recipePolicy: MissingRecipeSkip}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the configured missing-recipe policy.
func (e *Engine) Policy() MissingRecipePolicy {
	return e.recipePolicy
}

var defaultEngine = NewEngine()

// CalculateProductCost runs the pipeline with the default engine.
func CalculateProductCost(in Input) Result {
	return defaultEngine.CalculateProductCost(in)
}

// CalculateProductCost combines BOM and paint costs, adds labor, applies markup
// and derives gross profit, gross margin and ROI. It always returns a complete result.
//
// ROI is gross profit over total cost (labor included), not over production cost:
// a 50% markup yields a 50% ROI.
func (e *Engine) CalculateProductCost(in Input) Result {
	bom := ProcessBOM(in.Product, in.Datasets)
	paint := e.CalculatePaintCost(in.Product, in.Datasets)

	productionCost := bom.Total.Add(paint.Total)
	labor := in.LaborCost.NonNegative()
	totalCost := productionCost.Add(labor)

	markup := in.MarkupPercent.NonNegative()
	finalPrice := totalCost.Mul(one.Add(markup.Div(hundred)))

	grossProfit := finalPrice.Sub(totalCost)
	grossMargin := types.Percent(grossProfit, finalPrice)
	roi := types.Percent(grossProfit, totalCost)

	hasErrors := bom.HasErrors
	if e.recipePolicy == MissingRecipeFlag && len(paint.SkippedRecipeIDs) > 0 {
		hasErrors = true
	}

	res := Result{
		MaterialsCost:    types.RoundMoney(bom.Total),
		PaintCost:        paint.Total,
		LaborCost:        types.RoundMoney(labor),
		TotalCost:        types.RoundMoney(totalCost),
		MarkupPercent:    markup,
		FinalPrice:       types.RoundMoney(finalPrice),
		GrossProfit:      types.RoundMoney(grossProfit),
		GrossMargin:      grossMargin,
		ROI:              roi,
		HasErrors:        hasErrors,
		SurfaceArea:      paint.SurfaceArea,
		SkippedPaintJobs: paint.SkippedRecipeIDs,
		Currency:         in.Datasets.Settings.Currency,
		Breakdown: Breakdown{
			Materials: bom,
			Paint:     paint,
		},
	}

	if e.observer != nil {
		e.observer.ObserveCost(in.Product, res)
	}

	return res
}

// IsRentable reports whether the gross margin reaches minMargin percent.
func IsRentable(r Result, minMargin decimal.Decimal) bool {
	if !r.FinalPrice.IsPositive() {
		return false
	}
	return r.GrossMargin.GreaterThanOrEqual(minMargin)
}
