package costingsvc

import (
	"context"
	"time"

	"furnicost/internal/core/apperror"
	"furnicost/internal/core/types"
	"furnicost/internal/domain"
	"furnicost/internal/domain/catalogs/product"
	"furnicost/pkg/logger"
)

const defaultRepriceBatch = 100

// ProductPager pages through products.
type ProductPager interface {
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error)
}

// RepriceReport summarizes a repricing pass.
type RepriceReport struct {
	Total      int           `json:"total"`
	Repriced   int           `json:"repriced"`
	Incomplete int           `json:"incomplete"`
	Failed     int           `json:"failed"`
	Elapsed    time.Duration `json:"elapsedNs"`

	Issues []RepriceIssue `json:"issues,omitempty"`
}

// RepriceIssue names a product that failed or was priced from an incomplete
// technical card.
type RepriceIssue struct {
	ProductID string `json:"productId"`
	Code      string `json:"code"`
	Message   string `json:"message,omitempty"`
}

// Repricer recalculates the stored prices of every product that is not marked
// for deletion, using each product's own labor cost and markup.
type Repricer struct {
	svc      *Service
	products ProductPager
	batch    int
}

// NewRepricer creates a repricer reading products batch at a time.
func NewRepricer(svc *Service, products ProductPager, batch int) *Repricer {
	if batch <= 0 {
		batch = defaultRepriceBatch
	}
	return &Repricer{svc: svc, products: products, batch: batch}
}

// RepriceAll runs one pass. A product that fails is counted and skipped; the
// pass stops early only when listing fails or ctx is cancelled.
func (r *Repricer) RepriceAll(ctx context.Context) (RepriceReport, error) {
	ctx, span := tracer.Start(ctx, "costing.RepriceAll")
	defer span.End()

	started := time.Now()
	var report RepriceReport

	filter := domain.DefaultListFilter()
	filter.OrderBy = "code"
	filter.Limit = r.batch

	for {
		page, err := r.products.List(ctx, filter)
		if err != nil {
			report.Elapsed = time.Since(started)
			return report, err
		}

		for _, p := range page.Items {
			if err := ctx.Err(); err != nil {
				report.Elapsed = time.Since(started)
				return report, err
			}

			report.Total++
			out, err := r.svc.CalculateForProduct(ctx, p.ID, types.Number{}, types.Number{})
			if err != nil {
				report.Failed++
				report.Issues = append(report.Issues, RepriceIssue{
					ProductID: p.ID.String(),
					Code:      apperror.CodeOf(err),
					Message:   err.Error(),
				})
				logger.Warn(ctx, "product repricing failed", "product_id", p.ID.String(), "error", err)
				continue
			}
			report.Repriced++
			if out.HasErrors {
				report.Incomplete++
				report.Issues = append(report.Issues, RepriceIssue{
					ProductID: p.ID.String(),
					Code:      apperror.CodeIncompleteTechCard,
				})
				logger.Warn(ctx, "product priced from incomplete technical card",
					"code", apperror.CodeIncompleteTechCard,
					"product_id", p.ID.String(),
				)
			}
		}

		filter.Offset += len(page.Items)
		if len(page.Items) == 0 || int64(filter.Offset) >= page.TotalCount {
			break
		}
	}

	report.Elapsed = time.Since(started)
	logger.Info(ctx, "products repriced",
		"total", report.Total,
		"repriced", report.Repriced,
		"incomplete", report.Incomplete,
		"failed", report.Failed,
		"elapsed_ms", report.Elapsed.Milliseconds(),
	)
	return report, nil
}
