package complexity

import (
	"context"

	"furnicost/internal/domain"
)

// Repository defines the interface for Complexity persistence.
type Repository interface {
	domain.CatalogRepository[*Complexity]

	ListActive(ctx context.Context) ([]*Complexity, error)
}
