package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furnicost/internal/core/types"
)

func TestCalculateMaterialCost(t *testing.T) {
	ds := sampleDatasets()

	tests := []struct {
		name      string
		line      BomLine
		wantCost  string
		wantCoeff string
		wantValid bool
		wantFound bool
	}{
		{
			name:      "material default coefficient of one",
			line:      BomLine{MaterialRef: MaterialRef{MaterialID: "m-oak"}, Quantity: num("2")},
			wantCost:  "500",
			wantCoeff: "1",
			wantValid: true,
			wantFound: true,
		},
		{
			name:      "material coefficient",
			line:      BomLine{MaterialRef: MaterialRef{Article: "scr-430"}, Quantity: num("100")},
			wantCost:  "220",
			wantCoeff: "1.1",
			wantValid: true,
			wantFound: true,
		},
		{
			name:      "line override wins",
			line:      BomLine{MaterialRef: MaterialRef{MaterialID: "m-screw"}, Quantity: num("100"), ConsumptionCoeff: num("1.5")},
			wantCost:  "300",
			wantCoeff: "1.5",
			wantValid: true,
			wantFound: true,
		},
		{
			name:      "negative quantity clamps to zero",
			line:      BomLine{MaterialRef: MaterialRef{MaterialID: "m-oak"}, Quantity: num("-3")},
			wantCost:  "0",
			wantCoeff: "1",
			wantValid: false,
			wantFound: true,
		},
		{
			name:      "missing quantity is zero",
			line:      BomLine{MaterialRef: MaterialRef{MaterialID: "m-oak"}},
			wantCost:  "0",
			wantCoeff: "1",
			wantValid: false,
			wantFound: true,
		},
		{
			name:      "zero price is invalid",
			line:      BomLine{MaterialRef: MaterialRef{MaterialID: "m-glue"}, Quantity: num("1")},
			wantCost:  "0",
			wantCoeff: "1",
			wantValid: false,
			wantFound: true,
		},
		{
			name:      "negative line coefficient clamps to zero",
			line:      BomLine{MaterialRef: MaterialRef{MaterialID: "m-oak"}, Quantity: num("1"), ConsumptionCoeff: num("-1")},
			wantCost:  "0",
			wantCoeff: "0",
			wantValid: true,
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := CalculateMaterialCost(tt.line, ds.Materials)
			assertDecimal(t, tt.wantCost, row.TotalCost)
			assertDecimal(t, tt.wantCoeff, row.ConsumptionCoeff)
			assert.Equal(t, tt.wantValid, row.IsValid)
			assert.Equal(t, tt.wantFound, row.Found)
		})
	}
}

func TestCalculateMaterialCost_UnknownMaterialKeepsDiagnostics(t *testing.T) {
	line := BomLine{
		MaterialRef: MaterialRef{MaterialID: "nope", Name: "Brass handle", Article: "BH-1"},
		Unit:        "pcs",
		Quantity:    num("4"),
	}

	row := CalculateMaterialCost(line, sampleDatasets().Materials)

	assert.False(t, row.IsValid)
	assert.False(t, row.Found)
	assertDecimal(t, "0", row.TotalCost)
	assert.Equal(t, "Brass handle", row.Name)
	assert.Equal(t, "BH-1", row.Article)
	assert.Equal(t, "pcs", row.Unit)
}

func TestProcessBOM(t *testing.T) {
	ds := sampleDatasets()

	t.Run("empty card", func(t *testing.T) {
		res := ProcessBOM(Product{Name: "Empty"}, ds)
		assertDecimal(t, "0", res.Total)
		assert.False(t, res.HasErrors)
		assert.Empty(t, res.Items)
	})

	t.Run("sums rows", func(t *testing.T) {
		p := Product{TechCard: []BomLine{
			{MaterialRef: MaterialRef{MaterialID: "m-oak"}, Quantity: num("2")},
			{MaterialRef: MaterialRef{MaterialID: "m-screw"}, Quantity: num("10")},
		}}
		res := ProcessBOM(p, ds)
		assertDecimal(t, "522", res.Total)
		assert.False(t, res.HasErrors)
		require.Len(t, res.Items, 2)
	})

	t.Run("missing material flags errors without failing", func(t *testing.T) {
		p := Product{TechCard: []BomLine{
			{MaterialRef: MaterialRef{MaterialID: "m-oak"}, Quantity: num("1")},
			{MaterialRef: MaterialRef{MaterialID: "ghost"}, Quantity: num("5")},
		}}
		res := ProcessBOM(p, ds)
		assertDecimal(t, "250", res.Total)
		assert.True(t, res.HasErrors)
		require.Len(t, res.Items, 2)
		assert.False(t, res.Items[1].IsValid)
		assertDecimal(t, "0", res.Items[1].TotalCost)
	})

	t.Run("garbage numbers degrade to defaults", func(t *testing.T) {
		p := Product{TechCard: []BomLine{
			{MaterialRef: MaterialRef{MaterialID: "m-oak"}, Quantity: types.ParseNumber("two")},
		}}
		res := ProcessBOM(p, ds)
		assertDecimal(t, "0", res.Total)
		assert.True(t, res.HasErrors)
	})
}

func TestProcessBOM_Monotonic(t *testing.T) {
	ds := sampleDatasets()

	prev := dec("-1")
	for _, q := range []string{"0", "0.5", "1", "3", "3", "10"} {
		p := Product{TechCard: []BomLine{
			{MaterialRef: MaterialRef{MaterialID: "m-oak"}, Quantity: num(q)},
			{MaterialRef: MaterialRef{MaterialID: "m-screw"}, Quantity: num("4")},
		}}
		total := ProcessBOM(p, ds).Total
		assert.True(t, total.GreaterThanOrEqual(prev), "quantity %s decreased total to %s", q, total)
		prev = total
	}

	prev = dec("-1")
	for _, price := range []string{"0", "1", "99.5", "250", "1000"} {
		ds.Materials[0].Price = num(price)
		p := Product{TechCard: []BomLine{
			{MaterialRef: MaterialRef{MaterialID: "m-oak"}, Quantity: num("2")},
		}}
		total := ProcessBOM(p, ds).Total
		assert.True(t, total.GreaterThanOrEqual(prev), "price %s decreased total to %s", price, total)
		prev = total
	}
}

func TestRequiredMaterials_Aggregates(t *testing.T) {
	p := Product{TechCard: []BomLine{
		{MaterialRef: MaterialRef{MaterialID: "m-screw"}, Quantity: num("10")},
		{MaterialRef: MaterialRef{MaterialID: "m-oak"}, Quantity: num("1")},
		{MaterialRef: MaterialRef{Article: "SCR-430"}, Quantity: num("20")},
		{MaterialRef: MaterialRef{Name: "Ghost"}, Quantity: num("2")},
		{MaterialRef: MaterialRef{Name: "ghost "}, Quantity: num("3")},
	}}

	got := RequiredMaterials(p, sampleDatasets())

	require.Len(t, got, 3)
	assert.Equal(t, "m-screw", got[0].MaterialID)
	assertDecimal(t, "33", got[0].Quantity)
	assert.Equal(t, "m-oak", got[1].MaterialID)
	assertDecimal(t, "1", got[1].Quantity)
	assert.False(t, got[2].Found)
	assertDecimal(t, "5", got[2].Quantity)
}
