// Package paintrecipe provides the paint recipe catalog.
package paintrecipe

import (
	"context"

	"github.com/shopspring/decimal"

	"furnicost/internal/core/apperror"
	"furnicost/internal/core/entity"
	"furnicost/internal/core/id"
	"furnicost/internal/core/types"
	"furnicost/internal/domain/costing"
)

// Recipe is a finish recipe priced either per square meter or per gram.
type Recipe struct {
	entity.Catalog

	// PricePerM2 takes precedence when positive
	PricePerM2 decimal.Decimal `db:"price_per_m2" json:"pricePerM2"`

	CostPerG          decimal.Decimal `db:"cost_per_g" json:"costPerG"`
	ConsumptionGPerM2 decimal.Decimal `db:"consumption_g_per_m2" json:"consumptionGPerM2"`

	// ComplexityID is the default complexity of the recipe
	ComplexityID *id.ID `db:"complexity_id" json:"complexityId,omitempty"`

	Description string `db:"description" json:"description,omitempty"`
}

// NewRecipe creates a recipe priced per square meter.
func NewRecipe(code, name string, pricePerM2 decimal.Decimal) *Recipe {
	return &Recipe{
		Catalog:           entity.NewCatalog(code, name),
		PricePerM2:        pricePerM2,
		CostPerG:          decimal.Zero,
		ConsumptionGPerM2: decimal.Zero,
	}
}

// Validate implements entity.Validatable interface.
func (r *Recipe) Validate(ctx context.Context) error {
	if err := r.Catalog.Validate(ctx); err != nil {
		return err
	}

	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"pricePerM2", r.PricePerM2},
		{"costPerG", r.CostPerG},
		{"consumptionGPerM2", r.ConsumptionGPerM2},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return apperror.NewValidation(f.name + " cannot be negative").
				WithDetail("field", f.name)
		}
	}

	return nil
}

// EffectivePricePerM2 mirrors the engine rule: direct price when positive, else
// cost per gram × consumption.
func (r *Recipe) EffectivePricePerM2() decimal.Decimal {
	if r.PricePerM2.IsPositive() {
		return r.PricePerM2
	}
	return r.CostPerG.Mul(r.ConsumptionGPerM2)
}

// ToRecipe converts to the engine representation.
func (r *Recipe) ToRecipe() costing.PaintRecipe {
	rec := costing.PaintRecipe{
		ID:                r.ID.String(),
		Name:              r.Name,
		PricePerM2:        types.Num(r.PricePerM2),
		CostPerG:          types.Num(r.CostPerG),
		ConsumptionGPerM2: types.Num(r.ConsumptionGPerM2),
	}
	if r.ComplexityID != nil {
		rec.ComplexityID = r.ComplexityID.String()
	}
	return rec
}

// ToRecipes converts a slice.
func ToRecipes(items []*Recipe) []costing.PaintRecipe {
	out := make([]costing.PaintRecipe, 0, len(items))
	for _, r := range items {
		out = append(out, r.ToRecipe())
	}
	return out
}
