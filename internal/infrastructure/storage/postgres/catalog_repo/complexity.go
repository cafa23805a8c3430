package catalog_repo

import (
	"context"

	"furnicost/internal/domain/catalogs/complexity"
	"furnicost/internal/infrastructure/storage/postgres"
)

const complexityTable = "cat_paint_complexities"

var _ complexity.Repository = (*ComplexityRepo)(nil)

// ComplexityRepo implements complexity.Repository.
type ComplexityRepo struct {
	*BaseCatalogRepo[*complexity.Complexity]
}

// NewComplexityRepo creates a new paint complexity repository.
func NewComplexityRepo(txm *postgres.TxManager) *ComplexityRepo {
	return &ComplexityRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			complexityTable,
			"paint complexity",
			postgres.ExtractDBColumns[complexity.Complexity](),
			func() *complexity.Complexity { return &complexity.Complexity{} },
		),
	}
}

// ListActive returns non-deleted complexities.
func (r *ComplexityRepo) ListActive(ctx context.Context) ([]*complexity.Complexity, error) {
	return r.FindAll(ctx, r.ActiveSelect())
}
