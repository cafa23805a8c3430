package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"furnicost/internal/core/entity"
	"furnicost/internal/domain/catalogs/product"
	"furnicost/internal/domain/costing"
)

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Code            string             `json:"code"`
	Name            string             `json:"name" binding:"required"`
	Article         *string            `json:"article"`
	Size            string             `json:"size"`
	Collection      string             `json:"collection"`
	PrimaryMaterial string             `json:"primaryMaterial"`
	TechCard        []costing.BomLine  `json:"techCard"`
	PaintJobs       []costing.PaintJob `json:"paintJobs"`
	LaborCost       decimal.Decimal    `json:"laborCost"`
	MarkupPercent   decimal.Decimal    `json:"markupPercent"`
	Attributes      entity.Attributes  `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Code, r.Name)
	p.Article = optString(r.Article)
	p.Size = r.Size
	p.Collection = r.Collection
	p.PrimaryMaterial = r.PrimaryMaterial
	if r.TechCard != nil {
		p.TechCard = r.TechCard
	}
	if r.PaintJobs != nil {
		p.PaintJobs = r.PaintJobs
	}
	p.LaborCost = r.LaborCost
	p.MarkupPercent = r.MarkupPercent
	p.Attributes = r.Attributes
	return p
}

// UpdateProductRequest is the request body for updating a product. A present
// techCard or paintJobs replaces the whole list.
type UpdateProductRequest struct {
	CatalogUpdate
	Article         *string             `json:"article"`
	Size            *string             `json:"size"`
	Collection      *string             `json:"collection"`
	PrimaryMaterial *string             `json:"primaryMaterial"`
	TechCard        *[]costing.BomLine  `json:"techCard"`
	PaintJobs       *[]costing.PaintJob `json:"paintJobs"`
	LaborCost       *decimal.Decimal    `json:"laborCost"`
	MarkupPercent   *decimal.Decimal    `json:"markupPercent"`
}

// ApplyTo updates existing entity with DTO values.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	r.CatalogUpdate.ApplyTo(&p.Catalog)
	if r.Article != nil {
		p.Article = optString(r.Article)
	}
	if r.Size != nil {
		p.Size = *r.Size
	}
	if r.Collection != nil {
		p.Collection = *r.Collection
	}
	if r.PrimaryMaterial != nil {
		p.PrimaryMaterial = *r.PrimaryMaterial
	}
	if r.TechCard != nil {
		p.TechCard = *r.TechCard
	}
	if r.PaintJobs != nil {
		p.PaintJobs = *r.PaintJobs
	}
	if r.LaborCost != nil {
		p.LaborCost = *r.LaborCost
	}
	if r.MarkupPercent != nil {
		p.MarkupPercent = *r.MarkupPercent
	}
}

// ProductResponse is the response DTO for a product.
type ProductResponse struct {
	CatalogResponse
	Article         *string             `json:"article,omitempty"`
	Size            string              `json:"size"`
	SurfaceArea     decimal.Decimal     `json:"surfaceArea"`
	Collection      string              `json:"collection"`
	PrimaryMaterial string              `json:"primaryMaterial,omitempty"`
	TechCard        []costing.BomLine   `json:"techCard"`
	PaintJobs       []costing.PaintJob  `json:"paintJobs"`
	LaborCost       decimal.Decimal     `json:"laborCost"`
	MarkupPercent   decimal.Decimal     `json:"markupPercent"`
	TotalCost       decimal.NullDecimal `json:"totalCost"`
	Markup          decimal.NullDecimal `json:"markup"`
	BasePrice       decimal.NullDecimal `json:"basePrice"`
	CostErrors      bool                `json:"costErrors"`
	CalculatedAt    *time.Time          `json:"calculatedAt,omitempty"`
}

// FromProduct creates the response DTO.
func FromProduct(p *product.Product) ProductResponse {
	techCard := []costing.BomLine(p.TechCard)
	if techCard == nil {
		techCard = []costing.BomLine{}
	}
	paintJobs := []costing.PaintJob(p.PaintJobs)
	if paintJobs == nil {
		paintJobs = []costing.PaintJob{}
	}
	return ProductResponse{
		CatalogResponse: FromCatalog(p.Catalog),
		Article:         p.Article,
		Size:            p.Size,
		SurfaceArea:     costing.SurfaceArea(p.Size),
		Collection:      p.Collection,
		PrimaryMaterial: p.PrimaryMaterial,
		TechCard:        techCard,
		PaintJobs:       paintJobs,
		LaborCost:       p.LaborCost,
		MarkupPercent:   p.MarkupPercent,
		TotalCost:       p.TotalCost,
		Markup:          p.Markup,
		BasePrice:       p.BasePrice,
		CostErrors:      p.CostErrors,
		CalculatedAt:    p.CalculatedAt,
	}
}
