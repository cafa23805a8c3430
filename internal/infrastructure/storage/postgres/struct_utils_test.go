package postgres

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furnicost/internal/domain/catalogs/material"
	"furnicost/internal/domain/catalogs/product"
)

func TestExtractDBColumns_Material(t *testing.T) {
	cols := ExtractDBColumns[material.Material]()

	assert.Equal(t, []string{
		"id", "deletion_mark", "version", "attributes", "updated_at",
		"code", "name",
		"article", "unit", "price", "consumption_coeff", "category", "kind", "is_active",
	}, cols)
}

func TestExtractDBColumns_ProductIncludesPricing(t *testing.T) {
	cols := ExtractDBColumns[product.Product]()

	for _, c := range []string{"tech_card", "paint_jobs", "total_cost", "markup", "base_price", "cost_errors", "calculated_at"} {
		assert.Contains(t, cols, c)
	}
}

func TestStructToMap(t *testing.T) {
	m := material.NewMaterial("MT-00001", "Oak", "m2", decimal.NewFromInt(900))
	m.Version = 5
	m.DeletionMark = true

	data := StructToMap(m)
	require.NotNil(t, data)

	assert.Equal(t, m.ID, data["id"])
	assert.Equal(t, true, data["deletion_mark"])
	assert.Equal(t, 5, data["version"])
	assert.Equal(t, "MT-00001", data["code"])
	assert.Equal(t, "Oak", data["name"])
	assert.Equal(t, "m2", data["unit"])
	assert.True(t, data["price"].(decimal.Decimal).Equal(decimal.NewFromInt(900)))
}

func TestStructToMap_EmbeddedPricing(t *testing.T) {
	p := product.NewProduct("PD-00001", "Dresser")
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	p.CalculatedAt = &at
	p.BasePrice = decimal.NewNullDecimal(decimal.NewFromInt(2436))

	data := StructToMap(p)
	assert.Equal(t, &at, data["calculated_at"])
	assert.Equal(t, p.BasePrice, data["base_price"])
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))

	var nilMaterial *material.Material
	assert.Nil(t, StructToMap(nilMaterial))
}

func TestWithout(t *testing.T) {
	cols := []string{"id", "version", "name", "updated_at"}
	assert.Equal(t, []string{"name", "updated_at"}, Without(cols, "id", "version"))
	assert.Equal(t, cols, Without(cols))
}
