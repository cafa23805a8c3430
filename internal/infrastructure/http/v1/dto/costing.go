package dto

import (
	"furnicost/internal/core/types"
	"furnicost/internal/domain/costing"
)

// CalculateRequest is an inline calculation: the product and every dataset
// travel in the body. Values are lenient; nothing is rejected for being
// malformed.
type CalculateRequest struct {
	Product       costing.Product           `json:"product"`
	Materials     []costing.MaterialRecord  `json:"materials"`
	Recipes       []costing.PaintRecipe     `json:"recipes"`
	Complexities  []costing.PaintComplexity `json:"complexities"`
	Settings      *costing.Settings         `json:"settings"`
	LaborCost     types.Number              `json:"laborCost"`
	MarkupPercent types.Number              `json:"markupPercent"`
}

// ToInput converts the request into an engine input. defaults fill in the
// settings when the body omits them.
func (r *CalculateRequest) ToInput(defaults costing.Settings) costing.Input {
	settings := defaults
	if r.Settings != nil {
		settings = *r.Settings
		if settings.Currency == "" {
			settings.Currency = defaults.Currency
		}
	}
	return costing.Input{
		Product: r.Product,
		Datasets: costing.Datasets{
			Materials:    r.Materials,
			Recipes:      r.Recipes,
			Complexities: r.Complexities,
			Settings:     settings,
		},
		LaborCost:     r.LaborCost,
		MarkupPercent: r.MarkupPercent,
	}
}

// ProductCalculateRequest overrides the product's stored labor cost and markup.
// Absent values fall back to the product defaults.
type ProductCalculateRequest struct {
	LaborCost     types.Number `json:"laborCost"`
	MarkupPercent types.Number `json:"markupPercent"`
}
