package costing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"furnicost/internal/core/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func num(s string) types.Number {
	return types.Num(dec(s))
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func sampleDatasets() Datasets {
	return Datasets{
		Materials: []MaterialRecord{
			{ID: "m-oak", Name: "Oak board", Article: "OAK-20", Unit: "m2", Price: num("250")},
			{ID: "m-screw", Name: "Screw 4x30", Article: "SCR-430", Unit: "pcs", Price: num("2"), ConsumptionCoeff: num("1.1")},
			{ID: "m-glue", Name: "PVA glue", Unit: "kg", Price: num("0")},
		},
		Recipes: []PaintRecipe{
			{ID: "r-lacquer", Name: "Matte lacquer", PricePerM2: num("100"), ComplexityID: "c-hard"},
			{ID: "r-stain", Name: "Oil stain", CostPerG: num("0.5"), ConsumptionGPerM2: num("80")},
		},
		Complexities: []PaintComplexity{
			{ID: "c-hard", Name: "Carved", Coeff: num("1.2")},
			{ID: "c-flat", Name: "Flat", Coeff: num("0.9")},
		},
		Settings: Settings{Currency: "RUB", PaintLossPercent: num("10")},
	}
}
