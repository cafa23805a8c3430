package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"furnicost/internal/domain/catalogs/material"
	"furnicost/internal/infrastructure/storage/postgres"
)

const materialTable = "cat_materials"

var _ material.Repository = (*MaterialRepo)(nil)

// MaterialRepo implements material.Repository.
type MaterialRepo struct {
	*BaseCatalogRepo[*material.Material]
}

// NewMaterialRepo creates a new material repository.
func NewMaterialRepo(txm *postgres.TxManager) *MaterialRepo {
	return &MaterialRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			materialTable,
			"material",
			postgres.ExtractDBColumns[material.Material](),
			func() *material.Material { return &material.Material{} },
		),
	}
}

// ListActive returns active, non-deleted materials.
func (r *MaterialRepo) ListActive(ctx context.Context) ([]*material.Material, error) {
	return r.FindAll(ctx, r.ActiveSelect().Where(squirrel.Eq{"is_active": true}))
}
