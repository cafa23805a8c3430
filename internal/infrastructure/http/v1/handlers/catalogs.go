package handlers

import (
	"furnicost/internal/domain/catalogs/complexity"
	"furnicost/internal/domain/catalogs/material"
	"furnicost/internal/domain/catalogs/paintrecipe"
	"furnicost/internal/domain/catalogs/product"
	"furnicost/internal/infrastructure/http/v1/dto"
)

// MaterialHTTPHandler serves the materials catalog.
type MaterialHTTPHandler = CatalogHandler[*material.Material, dto.CreateMaterialRequest, dto.UpdateMaterialRequest]

// NewMaterialHandler creates the materials catalog handler.
func NewMaterialHandler(base *BaseHandler, service *material.Service) *MaterialHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*material.Material, dto.CreateMaterialRequest, dto.UpdateMaterialRequest]{
		Service:    service.CatalogService,
		EntityName: "material",
		MapCreateDTO: func(req dto.CreateMaterialRequest) *material.Material {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateMaterialRequest, existing *material.Material) *material.Material {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(m *material.Material) any { return dto.FromMaterial(m) },
	})
}

// RecipeHTTPHandler serves the paint recipe catalog.
type RecipeHTTPHandler = CatalogHandler[*paintrecipe.Recipe, dto.CreateRecipeRequest, dto.UpdateRecipeRequest]

// NewRecipeHandler creates the paint recipe catalog handler.
func NewRecipeHandler(base *BaseHandler, service *paintrecipe.Service) *RecipeHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*paintrecipe.Recipe, dto.CreateRecipeRequest, dto.UpdateRecipeRequest]{
		Service:    service.CatalogService,
		EntityName: "paint recipe",
		MapCreateDTO: func(req dto.CreateRecipeRequest) *paintrecipe.Recipe {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateRecipeRequest, existing *paintrecipe.Recipe) *paintrecipe.Recipe {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(r *paintrecipe.Recipe) any { return dto.FromRecipe(r) },
	})
}

// ComplexityHTTPHandler serves the paint complexity catalog.
type ComplexityHTTPHandler = CatalogHandler[*complexity.Complexity, dto.CreateComplexityRequest, dto.UpdateComplexityRequest]

// NewComplexityHandler creates the paint complexity catalog handler.
func NewComplexityHandler(base *BaseHandler, service *complexity.Service) *ComplexityHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*complexity.Complexity, dto.CreateComplexityRequest, dto.UpdateComplexityRequest]{
		Service:    service.CatalogService,
		EntityName: "paint complexity",
		MapCreateDTO: func(req dto.CreateComplexityRequest) *complexity.Complexity {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateComplexityRequest, existing *complexity.Complexity) *complexity.Complexity {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(c *complexity.Complexity) any { return dto.FromComplexity(c) },
	})
}

// ProductHTTPHandler serves the products catalog.
type ProductHTTPHandler = CatalogHandler[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]

// NewProductHandler creates the products catalog handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]{
		Service:    service.CatalogService,
		EntityName: "product",
		MapCreateDTO: func(req dto.CreateProductRequest) *product.Product {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) *product.Product {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(p *product.Product) any { return dto.FromProduct(p) },
	})
}
