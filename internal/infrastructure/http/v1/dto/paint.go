package dto

import (
	"github.com/shopspring/decimal"

	"furnicost/internal/core/entity"
	"furnicost/internal/core/id"
	"furnicost/internal/domain/catalogs/complexity"
	"furnicost/internal/domain/catalogs/paintrecipe"
)

// --- Paint recipes ---

// CreateRecipeRequest is the request body for creating a paint recipe.
type CreateRecipeRequest struct {
	Code              string            `json:"code"`
	Name              string            `json:"name" binding:"required"`
	PricePerM2        decimal.Decimal   `json:"pricePerM2"`
	CostPerG          decimal.Decimal   `json:"costPerG"`
	ConsumptionGPerM2 decimal.Decimal   `json:"consumptionGPerM2"`
	ComplexityID      *id.ID            `json:"complexityId"`
	Description       string            `json:"description"`
	Attributes        entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateRecipeRequest) ToEntity() *paintrecipe.Recipe {
	rec := paintrecipe.NewRecipe(r.Code, r.Name, r.PricePerM2)
	rec.CostPerG = r.CostPerG
	rec.ConsumptionGPerM2 = r.ConsumptionGPerM2
	rec.ComplexityID = r.ComplexityID
	rec.Description = r.Description
	rec.Attributes = r.Attributes
	return rec
}

// UpdateRecipeRequest is the request body for updating a paint recipe.
type UpdateRecipeRequest struct {
	CatalogUpdate
	PricePerM2        *decimal.Decimal `json:"pricePerM2"`
	CostPerG          *decimal.Decimal `json:"costPerG"`
	ConsumptionGPerM2 *decimal.Decimal `json:"consumptionGPerM2"`
	ComplexityID      *id.ID           `json:"complexityId"`
	ClearComplexity   bool             `json:"clearComplexity"`
	Description       *string          `json:"description"`
}

// ApplyTo updates existing entity with DTO values.
func (r *UpdateRecipeRequest) ApplyTo(rec *paintrecipe.Recipe) {
	r.CatalogUpdate.ApplyTo(&rec.Catalog)
	if r.PricePerM2 != nil {
		rec.PricePerM2 = *r.PricePerM2
	}
	if r.CostPerG != nil {
		rec.CostPerG = *r.CostPerG
	}
	if r.ConsumptionGPerM2 != nil {
		rec.ConsumptionGPerM2 = *r.ConsumptionGPerM2
	}
	switch {
	case r.ClearComplexity:
		rec.ComplexityID = nil
	case r.ComplexityID != nil:
		rec.ComplexityID = r.ComplexityID
	}
	if r.Description != nil {
		rec.Description = *r.Description
	}
}

// RecipeResponse is the response DTO for a paint recipe.
type RecipeResponse struct {
	CatalogResponse
	PricePerM2          decimal.Decimal `json:"pricePerM2"`
	CostPerG            decimal.Decimal `json:"costPerG"`
	ConsumptionGPerM2   decimal.Decimal `json:"consumptionGPerM2"`
	EffectivePricePerM2 decimal.Decimal `json:"effectivePricePerM2"`
	ComplexityID        *id.ID          `json:"complexityId,omitempty"`
	Description         string          `json:"description,omitempty"`
}

// FromRecipe creates the response DTO.
func FromRecipe(r *paintrecipe.Recipe) RecipeResponse {
	return RecipeResponse{
		CatalogResponse:     FromCatalog(r.Catalog),
		PricePerM2:          r.PricePerM2,
		CostPerG:            r.CostPerG,
		ConsumptionGPerM2:   r.ConsumptionGPerM2,
		EffectivePricePerM2: r.EffectivePricePerM2(),
		ComplexityID:        r.ComplexityID,
		Description:         r.Description,
	}
}

// --- Paint complexities ---

// CreateComplexityRequest is the request body for creating a paint complexity.
type CreateComplexityRequest struct {
	Code        string            `json:"code"`
	Name        string            `json:"name" binding:"required"`
	Coeff       decimal.Decimal   `json:"coeff"`
	Description string            `json:"description"`
	Attributes  entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateComplexityRequest) ToEntity() *complexity.Complexity {
	c := complexity.NewComplexity(r.Code, r.Name, r.Coeff)
	c.Description = r.Description
	c.Attributes = r.Attributes
	return c
}

// UpdateComplexityRequest is the request body for updating a paint complexity.
type UpdateComplexityRequest struct {
	CatalogUpdate
	Coeff       *decimal.Decimal `json:"coeff"`
	Description *string          `json:"description"`
}

// ApplyTo updates existing entity with DTO values.
func (r *UpdateComplexityRequest) ApplyTo(c *complexity.Complexity) {
	r.CatalogUpdate.ApplyTo(&c.Catalog)
	if r.Coeff != nil {
		c.Coeff = *r.Coeff
	}
	if r.Description != nil {
		c.Description = *r.Description
	}
}

// ComplexityResponse is the response DTO for a paint complexity.
type ComplexityResponse struct {
	CatalogResponse
	Coeff       decimal.Decimal `json:"coeff"`
	Description string          `json:"description,omitempty"`
}

// FromComplexity creates the response DTO.
func FromComplexity(c *complexity.Complexity) ComplexityResponse {
	return ComplexityResponse{
		CatalogResponse: FromCatalog(c.Catalog),
		Coeff:           c.Coeff,
		Description:     c.Description,
	}
}
