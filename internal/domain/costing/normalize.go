package costing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// All coercion of raw input happens here. The rest of the package only sees
// sanitized, non-negative decimals.

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
	milli   = decimal.NewFromInt(1000)
)

const standardComplexityName = "Standard"

type material struct {
	id, name, article, unit string
	price                   decimal.Decimal
	coeff                   decimal.Decimal
	hasCoeff                bool
}

func normalizeMaterial(m MaterialRecord) material {
	return material{
		id:       m.ID,
		name:     m.Name,
		article:  m.Article,
		unit:     m.Unit,
		price:    m.Price.NonNegative(),
		coeff:    m.ConsumptionCoeff.NonNegative(),
		hasCoeff: m.ConsumptionCoeff.Valid(),
	}
}

type line struct {
	ref      MaterialRef
	unit     string
	quantity decimal.Decimal
	coeff    decimal.Decimal
	hasCoeff bool
}

func normalizeLine(l BomLine) line {
	return line{
		ref:      l.MaterialRef,
		unit:     l.Unit,
		quantity: l.Quantity.NonNegative(),
		coeff:    l.ConsumptionCoeff.NonNegative(),
		hasCoeff: l.ConsumptionCoeff.Valid(),
	}
}

// effectiveCoeff resolves line override, then material default, then 1.
func effectiveCoeff(l line, m *material) decimal.Decimal {
	switch {
	case l.hasCoeff:
		return l.coeff
	case m != nil && m.hasCoeff:
		return m.coeff
	default:
		return one
	}
}

type recipe struct {
	id, name     string
	pricePerM2   decimal.Decimal
	complexityID string
}

func normalizeRecipe(r PaintRecipe) recipe {
	price := r.PricePerM2.NonNegative()
	if !price.IsPositive() {
		price = r.CostPerG.NonNegative().Mul(r.ConsumptionGPerM2.NonNegative())
	}
	return recipe{
		id:           r.ID,
		name:         r.Name,
		pricePerM2:   price,
		complexityID: r.ComplexityID,
	}
}

type complexity struct {
	name  string
	coeff decimal.Decimal
}

func standardComplexity() complexity {
	return complexity{name: standardComplexityName, coeff: one}
}

func normalizeComplexity(c PaintComplexity) complexity {
	return complexity{name: c.Name, coeff: c.Coeff.NonNegativeOr(one)}
}

// layers defaults to a single coat when absent.
func normalizeLayers(j PaintJob) decimal.Decimal {
	return j.Layers.NonNegativeOr(one)
}

func lossFactor(s Settings) decimal.Decimal {
	return one.Add(s.PaintLossPercent.NonNegative().Div(hundred))
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
