package costing

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furnicost/internal/core/types"
)

func markupInput() Input {
	return Input{
		Product: Product{
			Name: "Cabinet",
			Size: "1000x2000x500",
			TechCard: []BomLine{
				{MaterialRef: MaterialRef{MaterialID: "m-oak"}, Quantity: num("2")},
			},
			PaintJobs: []PaintJob{{RecipeID: "r-lacquer", Layers: num("1")}},
		},
		Datasets:      sampleDatasets(),
		LaborCost:     num("200"),
		MarkupPercent: num("50"),
	}
}

func TestCalculateProductCost_MarkupScenario(t *testing.T) {
	res := CalculateProductCost(markupInput())

	assertDecimal(t, "500", res.MaterialsCost)
	assertDecimal(t, "924", res.PaintCost)
	assertDecimal(t, "200", res.LaborCost)
	assertDecimal(t, "1624", res.TotalCost)
	assertDecimal(t, "2436", res.FinalPrice)
	assertDecimal(t, "812", res.GrossProfit)
	assert.InDelta(t, 33.33, res.GrossMargin.InexactFloat64(), 0.01)
	assert.InDelta(t, 50.0, res.ROI.InexactFloat64(), 0.01)
	assert.False(t, res.HasErrors)
	assert.Equal(t, "RUB", res.Currency)
	assertDecimal(t, "7", res.SurfaceArea)
	assert.Len(t, res.Breakdown.Materials.Items, 1)
	assert.Len(t, res.Breakdown.Paint.Jobs, 1)
}

func TestCalculateProductCost_ZeroInput(t *testing.T) {
	res := CalculateProductCost(Input{})

	assertDecimal(t, "0", res.TotalCost)
	assertDecimal(t, "0", res.FinalPrice)
	assertDecimal(t, "0", res.GrossMargin)
	assertDecimal(t, "0", res.ROI)
	assert.False(t, res.HasErrors)
}

func TestCalculateProductCost_NegativeLaborAndMarkupClamp(t *testing.T) {
	in := markupInput()
	in.LaborCost = num("-500")
	in.MarkupPercent = types.ParseNumber("n/a")

	res := CalculateProductCost(in)

	assertDecimal(t, "0", res.LaborCost)
	assertDecimal(t, "1424", res.TotalCost)
	assertDecimal(t, "1424", res.FinalPrice)
	assertDecimal(t, "0", res.GrossMargin)
}

func TestCalculateProductCost_GracefulDegradation(t *testing.T) {
	in := markupInput()
	in.Product.TechCard = append(in.Product.TechCard, BomLine{
		MaterialRef: MaterialRef{Name: "Unobtainium"}, Quantity: num("1"),
	})

	res := CalculateProductCost(in)

	assert.True(t, res.HasErrors)
	assertDecimal(t, "500", res.MaterialsCost)
	require.Len(t, res.Breakdown.Materials.Items, 2)
	assert.False(t, res.Breakdown.Materials.Items[1].IsValid)
}

func TestCalculateProductCost_MissingRecipePolicy(t *testing.T) {
	in := markupInput()
	in.Product.PaintJobs = append(in.Product.PaintJobs, PaintJob{RecipeID: "r-gone"})

	skip := NewEngine().CalculateProductCost(in)
	assert.False(t, skip.HasErrors)
	assertDecimal(t, "924", skip.PaintCost)
	assert.Equal(t, []string{"r-gone"}, skip.SkippedPaintJobs)

	flag := NewEngine(WithMissingRecipePolicy(MissingRecipeFlag)).CalculateProductCost(in)
	assert.True(t, flag.HasErrors)
	assertDecimal(t, "924", flag.PaintCost, "flag policy must not change the price")
	assert.True(t, flag.FinalPrice.Equal(skip.FinalPrice))
}

func TestCalculateProductCost_Idempotent(t *testing.T) {
	in := markupInput()

	first, err := json.Marshal(CalculateProductCost(in))
	require.NoError(t, err)
	second, err := json.Marshal(CalculateProductCost(in))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestCalculateProductCost_MonotonicTotal(t *testing.T) {
	in := markupInput()

	prev := dec("-1")
	for _, q := range []string{"0", "1", "2", "2.5", "40"} {
		in.Product.TechCard[0].Quantity = num(q)
		res := CalculateProductCost(in)
		assert.True(t, res.TotalCost.GreaterThanOrEqual(prev), "quantity %s", q)
		prev = res.TotalCost
	}
}

func TestCalculateProductCost_Observer(t *testing.T) {
	var calls int
	var seen Result
	e := NewEngine(WithObserver(ObserverFunc(func(p Product, r Result) {
		calls++
		seen = r
		assert.Equal(t, "Cabinet", p.Name)
	})))

	res := e.CalculateProductCost(markupInput())

	assert.Equal(t, 1, calls)
	assert.True(t, seen.FinalPrice.Equal(res.FinalPrice))
}

func TestParseMissingRecipePolicy(t *testing.T) {
	p, ok := ParseMissingRecipePolicy("")
	assert.True(t, ok)
	assert.Equal(t, MissingRecipeSkip, p)

	p, ok = ParseMissingRecipePolicy(" FLAG ")
	assert.True(t, ok)
	assert.Equal(t, MissingRecipeFlag, p)

	_, ok = ParseMissingRecipePolicy("explode")
	assert.False(t, ok)
}

func TestIsRentable(t *testing.T) {
	res := CalculateProductCost(markupInput())
	assert.True(t, IsRentable(res, dec("20")))
	assert.False(t, IsRentable(res, dec("40")))
	assert.False(t, IsRentable(CalculateProductCost(Input{}), dec("0")))
}

func TestCalculateProductCost_ExtremeExponentsReturnPromptly(t *testing.T) {
	for _, price := range []string{`"1e-400000000"`, `"1e400000000"`, `-1e-999999`} {
		t.Run(price, func(t *testing.T) {
			var ds Datasets
			require.NoError(t, json.Unmarshal([]byte(`{"materials":[{"id":"m","price":`+price+`}]}`), &ds))
			in := Input{
				Product: Product{TechCard: []BomLine{
					{MaterialRef: MaterialRef{MaterialID: "m"}, Quantity: num("1")},
				}},
				Datasets: ds,
			}

			done := make(chan Result, 1)
			go func() { done <- CalculateProductCost(in) }()

			select {
			case res := <-done:
				assertDecimal(t, "0", res.TotalCost)
			case <-time.After(5 * time.Second):
				t.Fatal("calculation did not return")
			}
		})
	}
}
