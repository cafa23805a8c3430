package dto

import (
	"github.com/shopspring/decimal"

	"furnicost/internal/core/entity"
	"furnicost/internal/domain/catalogs/material"
)

// CreateMaterialRequest is the request body for creating a material.
type CreateMaterialRequest struct {
	Code             string              `json:"code"`
	Name             string              `json:"name" binding:"required"`
	Article          *string             `json:"article"`
	Unit             string              `json:"unit" binding:"required"`
	Price            decimal.Decimal     `json:"price"`
	ConsumptionCoeff decimal.NullDecimal `json:"consumptionCoeff"`
	Category         string              `json:"category"`
	Kind             string              `json:"kind"`
	IsActive         *bool               `json:"isActive"`
	Attributes       entity.Attributes   `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateMaterialRequest) ToEntity() *material.Material {
	m := material.NewMaterial(r.Code, r.Name, r.Unit, r.Price)
	m.Article = optString(r.Article)
	m.ConsumptionCoeff = r.ConsumptionCoeff
	m.Category = r.Category
	m.Kind = r.Kind
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
	m.Attributes = r.Attributes
	return m
}

// UpdateMaterialRequest is the request body for updating a material.
// Absent fields keep their stored values.
type UpdateMaterialRequest struct {
	CatalogUpdate
	Article          *string              `json:"article"`
	Unit             *string              `json:"unit"`
	Price            *decimal.Decimal     `json:"price"`
	ConsumptionCoeff *decimal.NullDecimal `json:"consumptionCoeff"`
	Category         *string              `json:"category"`
	Kind             *string              `json:"kind"`
	IsActive         *bool                `json:"isActive"`
}

// ApplyTo updates existing entity with DTO values.
func (r *UpdateMaterialRequest) ApplyTo(m *material.Material) {
	r.CatalogUpdate.ApplyTo(&m.Catalog)
	if r.Article != nil {
		m.Article = optString(r.Article)
	}
	if r.Unit != nil {
		m.Unit = *r.Unit
	}
	if r.Price != nil {
		m.Price = *r.Price
	}
	if r.ConsumptionCoeff != nil {
		m.ConsumptionCoeff = *r.ConsumptionCoeff
	}
	if r.Category != nil {
		m.Category = *r.Category
	}
	if r.Kind != nil {
		m.Kind = *r.Kind
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
}

// MaterialResponse is the response DTO for a material.
type MaterialResponse struct {
	CatalogResponse
	Article          *string             `json:"article,omitempty"`
	Unit             string              `json:"unit"`
	Price            decimal.Decimal     `json:"price"`
	ConsumptionCoeff decimal.NullDecimal `json:"consumptionCoeff"`
	Category         string              `json:"category,omitempty"`
	Kind             string              `json:"kind,omitempty"`
	IsActive         bool                `json:"isActive"`
}

// FromMaterial creates the response DTO.
func FromMaterial(m *material.Material) MaterialResponse {
	return MaterialResponse{
		CatalogResponse:  FromCatalog(m.Catalog),
		Article:          m.Article,
		Unit:             m.Unit,
		Price:            m.Price,
		ConsumptionCoeff: m.ConsumptionCoeff,
		Category:         m.Category,
		Kind:             m.Kind,
		IsActive:         m.IsActive,
	}
}
