package pricing

import (
	"github.com/shopspring/decimal"

	"furnicost/internal/core/types"
)

// Material is a material line of a quick estimate.
type Material struct {
	ID               string       `json:"id"`
	Name             string       `json:"name,omitempty"`
	Price            types.Number `json:"price"`
	Quantity         types.Number `json:"quantity"`
	ConsumptionCoeff types.Number `json:"consumptionCoeff"`

	// Active defaults to true when absent.
	Active *bool `json:"active,omitempty"`
}

// IsActive reports whether the material participates in the estimate.
func (m Material) IsActive() bool {
	return m.Active == nil || *m.Active
}

// Request describes a quick estimate.
type Request struct {
	// ProductID only feeds the cache key.
	ProductID string `json:"productId,omitempty"`

	BasePrice  types.Number `json:"basePrice"`
	Collection string       `json:"collection"`

	// PrimaryMaterial selects the material multiplier; empty means 1.
	PrimaryMaterial string `json:"primaryMaterial,omitempty"`

	Materials []Material `json:"materials,omitempty"`

	// Quantities overrides Material.Quantity by material id.
	Quantities map[string]types.Number `json:"quantities,omitempty"`
}

// Quote is the result of a quick estimate.
type Quote struct {
	Collection           string          `json:"collection"`
	BasePrice            decimal.Decimal `json:"basePrice"`
	MaterialsCost        decimal.Decimal `json:"materialsCost"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	CollectionMultiplier decimal.Decimal `json:"collectionMultiplier"`
	MaterialMultiplier   decimal.Decimal `json:"materialMultiplier"`
	FinalPrice           decimal.Decimal `json:"finalPrice"`
	Markup               decimal.Decimal `json:"markup"`
	ProfitMargin         decimal.Decimal `json:"profitMargin"`

	// DisplayMargin is ProfitMargin raised to the display floor. It never
	// affects FinalPrice.
	DisplayMargin decimal.Decimal `json:"displayMargin"`
	IsRentable    bool            `json:"isRentable"`
}

// MaterialsCost sums price × quantity × coefficient over active materials.
// quantities overrides a material's own quantity by id.
func MaterialsCost(materials []Material, quantities map[string]types.Number) decimal.Decimal {
	one := decimal.NewFromInt(1)
	total := decimal.Zero
	for _, m := range materials {
		if !m.IsActive() {
			continue
		}
		qty := m.Quantity
		if q, ok := quantities[m.ID]; ok {
			qty = q
		}
		cost := m.Price.NonNegative().
			Mul(qty.NonNegative()).
			Mul(m.ConsumptionCoeff.NonNegativeOr(one))
		total = total.Add(cost)
	}
	return total
}

// CalculateFurniturePrice quotes with the built-in tables, a 20% display floor and
// the profitMargin >= 20 rentability threshold.
func CalculateFurniturePrice(basePrice types.Number, collection string, materials []Material, quantities map[string]types.Number) Quote {
	return defaultCalculator.Quote(Request{
		BasePrice:  basePrice,
		Collection: collection,
		Materials:  materials,
		Quantities: quantities,
	})
}
