package costing

import (
	"strings"

	"github.com/shopspring/decimal"

	"furnicost/internal/core/types"
)

// Dimensions are product sizes in meters.
type Dimensions struct {
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
	Depth  decimal.Decimal `json:"depth"`
}

var sizeSeparators = strings.NewReplacer("×", "x", "х", "x", "X", "x", "*", "x")

// ParseSize reads "WxHxD" in millimeters and returns meters. Missing or
// malformed dimensions are zero.
func ParseSize(size string) Dimensions {
	d := Dimensions{Width: decimal.Zero, Height: decimal.Zero, Depth: decimal.Zero}

	size = strings.TrimSpace(size)
	if size == "" {
		return d
	}

	parts := strings.Split(sizeSeparators.Replace(size), "x")
	dims := make([]decimal.Decimal, 3)
	for i := range dims {
		dims[i] = decimal.Zero
		if i < len(parts) {
			dims[i] = types.ParseNumber(parts[i]).OrZero().Div(milli)
		}
	}

	d.Width, d.Height, d.Depth = dims[0], dims[1], dims[2]
	return d
}

// SurfaceArea treats the product as a closed box: 2 × (W×H + W×D + H×D) m².
// Any non-positive dimension gives zero.
func SurfaceArea(size string) decimal.Decimal {
	d := ParseSize(size)
	if !d.Width.IsPositive() || !d.Height.IsPositive() || !d.Depth.IsPositive() {
		return decimal.Zero
	}

	faces := d.Width.Mul(d.Height).
		Add(d.Width.Mul(d.Depth)).
		Add(d.Height.Mul(d.Depth))

	return faces.Mul(decimal.NewFromInt(2))
}

// CalculatePaintCost costs every paint job with the default policy.
func CalculatePaintCost(p Product, ds Datasets) PaintResult {
	return defaultEngine.CalculatePaintCost(p, ds)
}

// CalculatePaintCost costs every paint job of p. Jobs whose recipe is unknown are
// dropped and listed in SkippedRecipeIDs.
func (e *Engine) CalculatePaintCost(p Product, ds Datasets) PaintResult {
	area := SurfaceArea(p.Size)
	res := PaintResult{
		Total:       decimal.Zero,
		SurfaceArea: area,
		Jobs:        []PaintJobResult{},
	}
	if area.IsZero() || len(p.PaintJobs) == 0 {
		return res
	}

	loss := lossFactor(ds.Settings)
	total := decimal.Zero

	for _, job := range p.PaintJobs {
		raw := findRecipe(job.RecipeID, ds.Recipes)
		if raw == nil {
			res.SkippedRecipeIDs = append(res.SkippedRecipeIDs, job.RecipeID)
			continue
		}
		r := normalizeRecipe(*raw)
		cx := resolveComplexity(job, r, ds.Complexities)
		layers := normalizeLayers(job)

		costPerM2 := r.pricePerM2.Mul(cx.coeff).Mul(loss)
		jobCost := costPerM2.Mul(area).Mul(layers)
		total = total.Add(jobCost)

		res.Jobs = append(res.Jobs, PaintJobResult{
			RecipeID:        r.id,
			RecipeName:      r.name,
			ComplexityName:  cx.name,
			ComplexityCoeff: cx.coeff,
			Layers:          layers,
			CostPerM2:       costPerM2,
			TotalCost:       jobCost,
		})
	}

	res.Total = types.RoundMoney(total)
	return res
}

// resolveComplexity tries the job override, then the recipe default, then Standard.
func resolveComplexity(job PaintJob, r recipe, complexities []PaintComplexity) complexity {
	if c := findComplexity(job.ComplexityID, complexities); c != nil {
		return normalizeComplexity(*c)
	}
	if c := findComplexity(r.complexityID, complexities); c != nil {
		return normalizeComplexity(*c)
	}
	return standardComplexity()
}
