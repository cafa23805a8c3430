// Package costing computes the production cost and sale price of a product from
// its technical card (bill of materials) and paint jobs.
//
// Every calculation is a pure function of its inputs. Nothing here performs I/O,
// returns an error or panics on bad data: missing or malformed values are
// replaced by a fixed fallback and surfaced through validity flags.
package costing

import (
	"github.com/shopspring/decimal"

	"furnicost/internal/core/types"
)

// MaterialRecord is a catalog material as seen by the engine.
type MaterialRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Article string `json:"article,omitempty"`
	Unit    string `json:"unit,omitempty"`

	// Price is the unit price.
	Price types.Number `json:"price"`

	// ConsumptionCoeff is the default waste multiplier, 1 when absent.
	ConsumptionCoeff types.Number `json:"consumptionCoeff"`
}

// MaterialRef identifies a material by id, article code or name.
type MaterialRef struct {
	MaterialID string `json:"materialId,omitempty"`
	Article    string `json:"article,omitempty"`
	Name       string `json:"name,omitempty"`
}

// BomLine is one technical card row.
type BomLine struct {
	MaterialRef

	// Unit is only used for diagnostics when the material cannot be resolved.
	Unit string `json:"unit,omitempty"`

	Quantity types.Number `json:"quantity"`

	// ConsumptionCoeff overrides the material default when present.
	ConsumptionCoeff types.Number `json:"consumptionCoeff"`
}

// PaintRecipe is a finish recipe. PricePerM2 wins over CostPerG × ConsumptionGPerM2
// when it is positive.
type PaintRecipe struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	PricePerM2        types.Number `json:"pricePerM2"`
	CostPerG          types.Number `json:"costPerG"`
	ConsumptionGPerM2 types.Number `json:"consumptionGPerM2"`
	ComplexityID      string       `json:"complexityId,omitempty"`
}

// PaintComplexity is a multiplicative labor intensity coefficient.
type PaintComplexity struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Coeff types.Number `json:"coeff"`
}

// PaintJob is one application of a recipe to the product.
type PaintJob struct {
	RecipeID     string       `json:"recipeId"`
	Layers       types.Number `json:"layers"`
	ComplexityID string       `json:"complexityId,omitempty"`
}

// Product is the costing subject.
type Product struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Article string `json:"article,omitempty"`

	// Size is "WIDTHxHEIGHTxDEPTH" in millimeters, e.g. "600x800x150".
	Size string `json:"size,omitempty"`

	TechCard  []BomLine  `json:"techCard,omitempty"`
	PaintJobs []PaintJob `json:"paintJobs,omitempty"`
}

// Settings holds global coefficients.
type Settings struct {
	// Currency is a display label only.
	Currency string `json:"currency,omitempty"`

	// PaintLossPercent is the expected paint waste, applied multiplicatively.
	PaintLossPercent types.Number `json:"paintLossPercent"`
}

// Datasets is the read-only context of every calculation. Nil slices are empty catalogs.
type Datasets struct {
	Materials    []MaterialRecord  `json:"materials,omitempty"`
	Recipes      []PaintRecipe     `json:"recipes,omitempty"`
	Complexities []PaintComplexity `json:"complexities,omitempty"`
	Settings     Settings          `json:"settings"`
}

// MaterialCostRow is the computed cost of one BOM line.
type MaterialCostRow struct {
	MaterialID       string          `json:"materialId,omitempty"`
	Name             string          `json:"name"`
	Article          string          `json:"article,omitempty"`
	Unit             string          `json:"unit,omitempty"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Quantity         decimal.Decimal `json:"quantity"`
	ConsumptionCoeff decimal.Decimal `json:"consumptionCoeff"`
	TotalCost        decimal.Decimal `json:"totalCost"`

	// Found is false when no catalog material matched the line.
	Found bool `json:"found"`

	// IsValid requires a resolved material with positive price and quantity.
	IsValid bool `json:"isValid"`
}

// BOMResult aggregates all technical card rows.
type BOMResult struct {
	Total     decimal.Decimal   `json:"total"`
	Items     []MaterialCostRow `json:"items"`
	HasErrors bool              `json:"hasErrors"`
}

// PaintJobResult is the computed cost of one paint job.
type PaintJobResult struct {
	RecipeID        string          `json:"recipeId"`
	RecipeName      string          `json:"recipeName"`
	ComplexityName  string          `json:"complexityName"`
	ComplexityCoeff decimal.Decimal `json:"complexityCoeff"`
	Layers          decimal.Decimal `json:"layers"`
	CostPerM2       decimal.Decimal `json:"costPerM2"`
	TotalCost       decimal.Decimal `json:"totalCost"`
}

// PaintResult aggregates all paint jobs. Total is rounded to a whole currency
// unit; SurfaceArea and per-job values keep full precision.
type PaintResult struct {
	Total       decimal.Decimal  `json:"total"`
	SurfaceArea decimal.Decimal  `json:"surfaceArea"`
	Jobs        []PaintJobResult `json:"jobs"`

	// SkippedRecipeIDs lists jobs dropped because their recipe was not found.
	SkippedRecipeIDs []string `json:"skippedRecipeIds,omitempty"`
}

// Input is the argument of CalculateProductCost. Absent labor and markup are zero.
type Input struct {
	Product       Product      `json:"product"`
	Datasets      Datasets     `json:"datasets"`
	LaborCost     types.Number `json:"laborCost"`
	MarkupPercent types.Number `json:"markupPercent"`
}

// Breakdown carries the line-item detail behind the headline numbers.
type Breakdown struct {
	Materials BOMResult   `json:"materials"`
	Paint     PaintResult `json:"paint"`
}

// Result is the complete cost and price of a product. Monetary headline fields
// are rounded to whole currency units; GrossMargin and ROI are percentages.
type Result struct {
	MaterialsCost decimal.Decimal `json:"materialsCost"`
	PaintCost     decimal.Decimal `json:"paintCost"`
	LaborCost     decimal.Decimal `json:"laborCost"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	MarkupPercent decimal.Decimal `json:"markupPercent"`
	FinalPrice    decimal.Decimal `json:"finalPrice"`
	GrossProfit   decimal.Decimal `json:"grossProfit"`
	GrossMargin   decimal.Decimal `json:"grossMargin"`
	ROI           decimal.Decimal `json:"roi"`

	HasErrors bool `json:"hasErrors"`

	SurfaceArea      decimal.Decimal `json:"surfaceArea"`
	SkippedPaintJobs []string        `json:"skippedPaintJobs,omitempty"`
	Currency         string          `json:"currency,omitempty"`

	Breakdown Breakdown `json:"breakdown"`
}
