package catalog_repo

import (
	"context"

	"furnicost/internal/domain/catalogs/paintrecipe"
	"furnicost/internal/infrastructure/storage/postgres"
)

const paintRecipeTable = "cat_paint_recipes"

var _ paintrecipe.Repository = (*PaintRecipeRepo)(nil)

// PaintRecipeRepo implements paintrecipe.Repository.
type PaintRecipeRepo struct {
	*BaseCatalogRepo[*paintrecipe.Recipe]
}

// NewPaintRecipeRepo creates a new paint recipe repository.
func NewPaintRecipeRepo(txm *postgres.TxManager) *PaintRecipeRepo {
	return &PaintRecipeRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			paintRecipeTable,
			"paint recipe",
			postgres.ExtractDBColumns[paintrecipe.Recipe](),
			func() *paintrecipe.Recipe { return &paintrecipe.Recipe{} },
		),
	}
}

// ListActive returns non-deleted recipes.
func (r *PaintRecipeRepo) ListActive(ctx context.Context) ([]*paintrecipe.Recipe, error) {
	return r.FindAll(ctx, r.ActiveSelect())
}
