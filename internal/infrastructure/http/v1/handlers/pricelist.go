package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"furnicost/internal/core/apperror"
	"furnicost/internal/domain"
	"furnicost/internal/domain/catalogs/product"
	domainFilter "furnicost/internal/domain/filter"
	"furnicost/internal/infrastructure/xlsx"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	priceListPage   = 200
)

// ProductLister pages through products.
type ProductLister interface {
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error)
}

// PriceListHandler exports persisted product prices as a spreadsheet. It reads
// stored prices only and never recalculates.
type PriceListHandler struct {
	*BaseHandler
	products ProductLister
	currency string
	now      func() time.Time
}

// NewPriceListHandler creates a price list handler.
func NewPriceListHandler(base *BaseHandler, products ProductLister, currency string) *PriceListHandler {
	return &PriceListHandler{
		BaseHandler: base,
		products:    products,
		currency:    currency,
		now:         time.Now,
	}
}

// Export handles GET /catalog/products/price-list.
// Query: search, collection (exact match).
func (h *PriceListHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.collect(ctx, c.Query("search"), c.Query("collection"))
	if err != nil {
		h.Error(c, err)
		return
	}

	data, err := xlsx.WritePriceList(items, h.currency)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	name := fmt.Sprintf("price-list-%s.xlsx", h.now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *PriceListHandler) collect(ctx context.Context, search, collection string) ([]*product.Product, error) {
	filter := domain.DefaultListFilter()
	filter.Search = search
	filter.Limit = priceListPage
	if collection != "" {
		filter.AdvancedFilters = append(filter.AdvancedFilters, domainFilter.Item{
			Field:    "collection",
			Operator: domainFilter.Equal,
			Value:    collection,
		})
	}

	var out []*product.Product
	for {
		page, err := h.products.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)
		filter.Offset += len(page.Items)
		if len(page.Items) == 0 || int64(filter.Offset) >= page.TotalCount {
			return out, nil
		}
	}
}
