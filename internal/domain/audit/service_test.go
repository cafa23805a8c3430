package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furnicost/internal/core/apperror"
	appctx "furnicost/internal/core/context"
	"furnicost/internal/core/types"
	"furnicost/internal/domain/costing"
)

type memoryStore struct {
	records []Record
	saveErr error
}

func (m *memoryStore) Save(ctx context.Context, rec Record) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memoryStore) Latest(ctx context.Context, productKey string) (Record, error) {
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].ProductKey == productKey {
			return m.records[i], nil
		}
	}
	return Record{}, apperror.NewNotFound("cost fingerprint", productKey)
}

func num(s string) types.Number {
	return types.Num(decimal.RequireFromString(s))
}

func sampleInput() costing.Input {
	return costing.Input{
		Product: costing.Product{
			ID:   "prod-1",
			Name: "Dresser",
			Size: "1000x2000x500",
			TechCard: []costing.BomLine{
				{MaterialRef: costing.MaterialRef{MaterialID: "m1"}, Quantity: num("2")},
			},
			PaintJobs: []costing.PaintJob{{RecipeID: "r1", Layers: num("1")}},
		},
		Datasets: costing.Datasets{
			Materials: []costing.MaterialRecord{{ID: "m1", Name: "Oak", Price: num("250")}},
			Recipes:   []costing.PaintRecipe{{ID: "r1", Name: "Lacquer", PricePerM2: num("100")}},
		},
		LaborCost:     num("200"),
		MarkupPercent: num("50"),
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	in := sampleInput()
	r := costing.CalculateProductCost(in)

	a, err := BuildPayload(in.Product, r).Encode()
	require.NoError(t, err)
	b, err := BuildPayload(in.Product, costing.CalculateProductCost(in)).Encode()
	require.NoError(t, err)

	assert.Equal(t, string(a), string(b))
	assert.Len(t, Fingerprint(a), 64)
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprint_ChangesWithPrice(t *testing.T) {
	in := sampleInput()
	before, _ := BuildPayload(in.Product, costing.CalculateProductCost(in)).Encode()

	in.MarkupPercent = num("60")
	after, _ := BuildPayload(in.Product, costing.CalculateProductCost(in)).Encode()

	assert.NotEqual(t, Fingerprint(before), Fingerprint(after))
}

func TestProductKey(t *testing.T) {
	assert.Equal(t, "p-1", ProductKey(costing.Product{ID: "p-1", Name: "X"}))
	assert.Equal(t, "name:oak table", ProductKey(costing.Product{Name: "  Oak Table "}))
}

func TestService_RecordAndVerify(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(store)
	ctx := appctx.WithOperator(context.Background(), "estimator")

	in := sampleInput()
	res := costing.CalculateProductCost(in)

	rec, err := svc.Record(ctx, in.Product, res)
	require.NoError(t, err)
	assert.Equal(t, "prod-1", rec.ProductKey)
	assert.Equal(t, "estimator", rec.Operator)
	assert.Equal(t, "2100", rec.FinalPrice)
	require.Len(t, store.records, 1)

	v, err := svc.Verify(ctx, in.Product, res)
	require.NoError(t, err)
	assert.True(t, v.Match)
	assert.Empty(t, v.Code)

	in.Datasets.Materials[0].Price = num("300")
	v, err = svc.Verify(ctx, in.Product, costing.CalculateProductCost(in))
	require.NoError(t, err)
	assert.False(t, v.Match)
	assert.Equal(t, rec.Fingerprint, v.Stored)
	assert.Equal(t, apperror.CodeFingerprintMismatch, v.Code)
}

func TestService_VerifyWithoutRecord(t *testing.T) {
	svc := NewService(&memoryStore{})
	in := sampleInput()

	_, err := svc.Verify(context.Background(), in.Product, costing.CalculateProductCost(in))
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_RecordStoreError(t *testing.T) {
	svc := NewService(&memoryStore{saveErr: errors.New("disk full")})
	in := sampleInput()

	_, err := svc.Record(context.Background(), in.Product, costing.CalculateProductCost(in))
	assert.ErrorContains(t, err, "disk full")
}
