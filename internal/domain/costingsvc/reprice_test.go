package costingsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furnicost/internal/core/apperror"
	"furnicost/internal/core/types"
	"furnicost/internal/domain"
	"furnicost/internal/domain/catalogs/product"
	"furnicost/internal/domain/costing"
)

type slicePager struct {
	items []*product.Product
	calls int
	err   error
}

func (s *slicePager) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*product.Product], error) {
	s.calls++
	if s.err != nil {
		return domain.ListResult[*product.Product]{}, s.err
	}
	end := min(f.Offset+f.Limit, len(s.items))
	start := min(f.Offset, end)
	return domain.ListResult[*product.Product]{
		Items:      s.items[start:end],
		TotalCount: int64(len(s.items)),
		Limit:      f.Limit,
		Offset:     f.Offset,
	}, nil
}

func TestRepriceAll(t *testing.T) {
	f := newFixture(t)

	broken := product.NewProduct("PD-00002", "Shelf")
	broken.TechCard = product.TechCard{
		{MaterialRef: costing.MaterialRef{Name: "Unobtainium"}, Quantity: types.Num(dec("1"))},
	}
	f.products.items[broken.ID] = broken

	ghost := product.NewProduct("PD-00003", "Removed meanwhile")

	pager := &slicePager{items: []*product.Product{f.dresser, broken, ghost}}
	report, err := NewRepricer(f.svc, pager, 2).RepriceAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, pager.calls)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Repriced)
	assert.Equal(t, 1, report.Incomplete)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Issues, 2)
	assert.Equal(t, RepriceIssue{ProductID: broken.ID.String(), Code: apperror.CodeIncompleteTechCard}, report.Issues[0])
	assert.Equal(t, ghost.ID.String(), report.Issues[1].ProductID)
	assert.Equal(t, apperror.CodeNotFound, report.Issues[1].Code)

	require.Contains(t, f.products.pricing, f.dresser.ID)
	assert.True(t, f.products.pricing[f.dresser.ID].BasePrice.Decimal.Equal(dec("2100")))
	assert.True(t, f.products.pricing[broken.ID].CostErrors)
}

func TestRepriceAll_ListError(t *testing.T) {
	f := newFixture(t)
	pager := &slicePager{err: errors.New("connection reset")}

	_, err := NewRepricer(f.svc, pager, 0).RepriceAll(context.Background())
	assert.Error(t, err)
}

func TestRepriceAll_Cancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewRepricer(f.svc, &slicePager{items: []*product.Product{f.dresser}}, 10).RepriceAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Repriced)
	assert.Empty(t, f.products.pricing)
}
