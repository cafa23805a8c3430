package material

import (
	"context"

	"furnicost/internal/domain"
)

// Repository defines the interface for Material persistence.
type Repository interface {
	domain.CatalogRepository[*Material]

	// FindByArticle returns the non-deleted material with article (case-insensitive).
	FindByArticle(ctx context.Context, article string) (*Material, error)

	// ListActive returns all active, non-deleted materials.
	ListActive(ctx context.Context) ([]*Material, error)
}
