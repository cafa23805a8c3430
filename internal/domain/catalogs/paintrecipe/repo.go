package paintrecipe

import (
	"context"

	"furnicost/internal/domain"
)

// Repository defines the interface for Recipe persistence.
type Repository interface {
	domain.CatalogRepository[*Recipe]

	ListActive(ctx context.Context) ([]*Recipe, error)
}
