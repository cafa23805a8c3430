// Package product provides the products catalog: furniture items with their
// technical card, paint jobs and the last computed price.
package product

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"furnicost/internal/core/apperror"
	"furnicost/internal/core/entity"
	"furnicost/internal/core/types"
	"furnicost/internal/domain/costing"
)

// Product is a furniture item.
type Product struct {
	entity.Catalog

	Article *string `db:"article" json:"article,omitempty"`

	// Size is "WxHxD" in millimeters
	Size string `db:"size" json:"size"`

	Collection string `db:"collection" json:"collection"`

	// PrimaryMaterial feeds the material multiplier of quick quotes
	PrimaryMaterial string `db:"primary_material" json:"primaryMaterial,omitempty"`

	TechCard  TechCard  `db:"tech_card" json:"techCard"`
	PaintJobs PaintJobs `db:"paint_jobs" json:"paintJobs"`

	// Costing defaults used when a calculation request omits them
	LaborCost     decimal.Decimal `db:"labor_cost" json:"laborCost"`
	MarkupPercent decimal.Decimal `db:"markup_percent" json:"markupPercent"`

	Pricing
}

// Pricing holds the persisted output of the last calculation. Price lists read
// these columns directly.
type Pricing struct {
	TotalCost    decimal.NullDecimal `db:"total_cost" json:"totalCost"`
	Markup       decimal.NullDecimal `db:"markup" json:"markup"`
	BasePrice    decimal.NullDecimal `db:"base_price" json:"basePrice"`
	CostErrors   bool                `db:"cost_errors" json:"costErrors"`
	CalculatedAt *time.Time          `db:"calculated_at" json:"calculatedAt,omitempty"`
}

// PricingFromResult extracts the persisted fields from a calculation.
func PricingFromResult(r costing.Result, at time.Time) Pricing {
	return Pricing{
		TotalCost:    decimal.NewNullDecimal(r.TotalCost),
		Markup:       decimal.NewNullDecimal(r.MarkupPercent),
		BasePrice:    decimal.NewNullDecimal(r.FinalPrice),
		CostErrors:   r.HasErrors,
		CalculatedAt: &at,
	}
}

// NewProduct creates a product with an empty technical card.
func NewProduct(code, name string) *Product {
	return &Product{
		Catalog:       entity.NewCatalog(code, name),
		TechCard:      TechCard{},
		PaintJobs:     PaintJobs{},
		LaborCost:     decimal.Zero,
		MarkupPercent: decimal.Zero,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.Size != "" && costing.SurfaceArea(p.Size).IsZero() {
		return apperror.NewValidation("size must be WIDTHxHEIGHTxDEPTH in millimeters").
			WithDetail("field", "size").
			WithDetail("value", p.Size)
	}

	if p.LaborCost.IsNegative() {
		return apperror.NewValidation("labor cost cannot be negative").
			WithDetail("field", "laborCost")
	}
	if p.MarkupPercent.IsNegative() {
		return apperror.NewValidation("markup cannot be negative").
			WithDetail("field", "markupPercent")
	}

	for i, l := range p.TechCard {
		if l.MaterialID == "" && l.Article == "" && l.Name == "" {
			return apperror.NewValidation("tech card line must reference a material").
				WithDetail("field", "techCard").
				WithDetail("line", i+1)
		}
		if l.Quantity.Valid() && l.Quantity.Decimal().IsNegative() {
			return apperror.NewValidation("quantity cannot be negative").
				WithDetail("field", "techCard").
				WithDetail("line", i+1)
		}
	}

	for i, j := range p.PaintJobs {
		if j.RecipeID == "" {
			return apperror.NewValidation("paint job must reference a recipe").
				WithDetail("field", "paintJobs").
				WithDetail("line", i+1)
		}
	}

	return nil
}

// ArticleValue returns the article or an empty string.
func (p *Product) ArticleValue() string {
	if p.Article == nil {
		return ""
	}
	return *p.Article
}

// ToCostingProduct converts to the engine representation.
func (p *Product) ToCostingProduct() costing.Product {
	return costing.Product{
		ID:        p.ID.String(),
		Name:      p.Name,
		Article:   p.ArticleValue(),
		Size:      p.Size,
		TechCard:  []costing.BomLine(p.TechCard),
		PaintJobs: []costing.PaintJob(p.PaintJobs),
	}
}

// DefaultLabor returns the stored labor cost as an engine input.
func (p *Product) DefaultLabor() types.Number { return types.Num(p.LaborCost) }

// DefaultMarkup returns the stored markup percent as an engine input.
func (p *Product) DefaultMarkup() types.Number { return types.Num(p.MarkupPercent) }
