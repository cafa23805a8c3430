package product

import (
	"context"

	"furnicost/internal/core/id"
	"furnicost/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	FindByArticle(ctx context.Context, article string) (*Product, error)

	// UpdatePricing writes the calculation output without touching version.
	UpdatePricing(ctx context.Context, id id.ID, p Pricing) error
}
