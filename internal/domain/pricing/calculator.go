package pricing

import (
	"github.com/shopspring/decimal"

	"furnicost/internal/core/types"
)

// DefaultMinMargin is both the display floor and the rentability threshold, in percent.
var DefaultMinMargin = decimal.NewFromInt(20)

// Calculator produces quotes. It is safe for concurrent use when its cache is.
type Calculator struct {
	collections Multipliers
	materials   Multipliers
	minMargin   decimal.Decimal
	rule        *RentabilityRule
	cache       QuoteCache
}

// CalculatorOption configures a Calculator.
type CalculatorOption func(*Calculator)

// WithCollectionMultipliers replaces the collection table.
func WithCollectionMultipliers(m Multipliers) CalculatorOption {
	return func(c *Calculator) { c.collections = m }
}

// WithMaterialMultipliers replaces the primary-material table.
func WithMaterialMultipliers(m Multipliers) CalculatorOption {
	return func(c *Calculator) { c.materials = m }
}

// WithMinDisplayMargin sets the display floor and the fallback rentability threshold.
func WithMinDisplayMargin(percent decimal.Decimal) CalculatorOption {
	return func(c *Calculator) { c.minMargin = types.MaxZero(percent) }
}

// WithRentabilityRule evaluates rentability with a CEL rule instead of the threshold.
func WithRentabilityRule(r *RentabilityRule) CalculatorOption {
	return func(c *Calculator) { c.rule = r }
}

// WithQuoteCache memoizes quotes in cache.
func WithQuoteCache(cache QuoteCache) CalculatorOption {
	return func(c *Calculator) { c.cache = cache }
}

// NewCalculator creates a calculator with the built-in tables and no cache.
func NewCalculator(opts ...CalculatorOption) *Calculator {
	c := &Calculator{
		collections: DefaultCollectionMultipliers(),
		materials:   DefaultMaterialMultipliers(),
		minMargin:   DefaultMinMargin,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCalculator = NewCalculator()

// Collections returns the collection table.
func (c *Calculator) Collections() Multipliers {
	return c.collections
}

// MaterialTable returns the primary-material table.
func (c *Calculator) MaterialTable() Multipliers {
	return c.materials
}

// Quote computes subtotal = base + materials, finalPrice = subtotal × collection ×
// material multiplier, markup and profit margin.
func (c *Calculator) Quote(req Request) Quote {
	var key string
	if c.cache != nil {
		key = cacheKey(req)
		if q, ok := c.cache.Get(key); ok {
			return q
		}
	}

	q := c.compute(req)

	if c.cache != nil {
		c.cache.Add(key, q)
	}
	return q
}

func (c *Calculator) compute(req Request) Quote {
	base := req.BasePrice.NonNegative()
	materialsCost := MaterialsCost(req.Materials, req.Quantities)
	subtotal := base.Add(materialsCost)

	collectionMul := c.collections.Lookup(req.Collection)
	materialMul := decimal.NewFromInt(1)
	if req.PrimaryMaterial != "" {
		materialMul = c.materials.Lookup(req.PrimaryMaterial)
	}

	finalPrice := subtotal.Mul(collectionMul).Mul(materialMul)
	markup := finalPrice.Sub(subtotal)
	margin := types.Percent(markup, subtotal)

	display := margin
	if display.LessThan(c.minMargin) {
		display = c.minMargin
	}

	q := Quote{
		Collection:           req.Collection,
		BasePrice:            base,
		MaterialsCost:        materialsCost,
		Subtotal:             subtotal,
		CollectionMultiplier: collectionMul,
		MaterialMultiplier:   materialMul,
		FinalPrice:           finalPrice,
		Markup:               markup,
		ProfitMargin:         margin,
		DisplayMargin:        display,
	}
	q.IsRentable = c.rentable(q)
	return q
}

// rentable falls back to the threshold when the rule fails at runtime.
func (c *Calculator) rentable(q Quote) bool {
	if c.rule == nil {
		return thresholdRentable(q, c.minMargin)
	}
	ok, err := c.rule.Evaluate(q)
	if err != nil {
		return thresholdRentable(q, c.minMargin)
	}
	return ok
}
