package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"furnicost/internal/core/apperror"
	"furnicost/internal/core/id"
	"furnicost/internal/domain/catalogs/product"
	"furnicost/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			productTable,
			"product",
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

// pricingUpdate builds the UPDATE of the calculated columns.
func pricingUpdate(b squirrel.StatementBuilderType, productID id.ID, p product.Pricing) squirrel.UpdateBuilder {
	return b.Update(productTable).
		Set("total_cost", p.TotalCost).
		Set("markup", p.Markup).
		Set("base_price", p.BasePrice).
		Set("cost_errors", p.CostErrors).
		Set("calculated_at", p.CalculatedAt).
		Where(squirrel.Eq{"id": productID})
}

// UpdatePricing stores the last calculation. Version is left alone so that a
// recalculation does not conflict with a concurrent catalog edit.
func (r *ProductRepo) UpdatePricing(ctx context.Context, productID id.ID, p product.Pricing) error {
	sql, args, err := pricingUpdate(r.Builder(), productID, p).ToSql()
	if err != nil {
		return fmt.Errorf("build pricing update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update pricing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}
