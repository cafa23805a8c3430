package product

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furnicost/internal/core/types"
	"furnicost/internal/domain/costing"
)

func TestTechCard_ScanValue(t *testing.T) {
	card := TechCard{
		{MaterialRef: costing.MaterialRef{Article: "OAK-18"}, Quantity: types.Num(decimal.NewFromInt(2))},
	}

	raw, err := card.Value()
	require.NoError(t, err)

	var back TechCard
	require.NoError(t, back.Scan(raw))
	require.Len(t, back, 1)
	assert.Equal(t, "OAK-18", back[0].Article)
	assert.True(t, back[0].Quantity.Decimal().Equal(decimal.NewFromInt(2)))
	assert.False(t, back[0].ConsumptionCoeff.Valid())
}

func TestTechCard_ScanLenientRows(t *testing.T) {
	var card TechCard
	require.NoError(t, card.Scan(`[{"materialId":"m1","quantity":"1,5"},{"name":"Glue","quantity":"n/a"}]`))
	require.Len(t, card, 2)
	assert.True(t, card[0].Quantity.Decimal().Equal(decimal.RequireFromString("1.5")))
	assert.False(t, card[1].Quantity.Valid())

	var empty TechCard
	require.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)

	assert.Error(t, empty.Scan(42))
}

func TestPaintJobs_NilValue(t *testing.T) {
	var jobs PaintJobs
	raw, err := jobs.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), raw)
}

func TestProduct_Validate(t *testing.T) {
	ctx := context.Background()

	p := NewProduct("", "Dresser")
	p.Size = "600x800x150"
	require.NoError(t, p.Validate(ctx))

	p.Size = "large"
	assert.Error(t, p.Validate(ctx))
	p.Size = ""

	p.LaborCost = decimal.NewFromInt(-1)
	assert.Error(t, p.Validate(ctx))
	p.LaborCost = decimal.Zero

	p.TechCard = TechCard{{Quantity: types.Num(decimal.NewFromInt(1))}}
	assert.Error(t, p.Validate(ctx), "line without material reference")

	p.TechCard = TechCard{{MaterialRef: costing.MaterialRef{Name: "Oak"}, Quantity: types.Num(decimal.NewFromInt(-1))}}
	assert.Error(t, p.Validate(ctx))

	p.TechCard = nil
	p.PaintJobs = PaintJobs{{Layers: types.Num(decimal.NewFromInt(2))}}
	assert.Error(t, p.Validate(ctx))
}

func TestProduct_ToCostingProduct(t *testing.T) {
	article := "DR-1"
	p := NewProduct("PD-00001", "Dresser")
	p.Article = &article
	p.Size = "1000x2000x500"
	p.PaintJobs = PaintJobs{{RecipeID: "r1"}}

	cp := p.ToCostingProduct()
	assert.Equal(t, p.ID.String(), cp.ID)
	assert.Equal(t, "DR-1", cp.Article)
	assert.Equal(t, "1000x2000x500", cp.Size)
	assert.Len(t, cp.PaintJobs, 1)
}

func TestPricingFromResult(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	pr := PricingFromResult(costing.Result{
		TotalCost:     decimal.NewFromInt(1624),
		MarkupPercent: decimal.NewFromInt(50),
		FinalPrice:    decimal.NewFromInt(2436),
		HasErrors:     true,
	}, at)

	assert.True(t, pr.BasePrice.Decimal.Equal(decimal.NewFromInt(2436)))
	assert.True(t, pr.TotalCost.Valid)
	assert.True(t, pr.CostErrors)
	assert.Equal(t, at, *pr.CalculatedAt)
}
