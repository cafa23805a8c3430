package costing

import (
	"github.com/shopspring/decimal"
)

// RequiredMaterial is the total consumption of one material for a single product.
type RequiredMaterial struct {
	MaterialID string          `json:"materialId,omitempty"`
	Name       string          `json:"name"`
	Article    string          `json:"article,omitempty"`
	Unit       string          `json:"unit,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	Found      bool            `json:"found"`
}

// RequiredMaterials sums quantity × consumption coefficient per material, in order
// of first appearance. Lines referencing the same material collapse into one entry;
// unresolved lines are grouped by their own name.
func RequiredMaterials(p Product, ds Datasets) []RequiredMaterial {
	out := make([]RequiredMaterial, 0, len(p.TechCard))
	index := make(map[string]int, len(p.TechCard))

	for _, l := range p.TechCard {
		row := CalculateMaterialCost(l, ds.Materials)
		consumed := row.Quantity.Mul(row.ConsumptionCoeff)

		key := "id:" + row.MaterialID
		if !row.Found {
			key = "ref:" + normalizeKey(row.Name) + "|" + normalizeKey(row.Article)
		}

		if i, ok := index[key]; ok {
			out[i].Quantity = out[i].Quantity.Add(consumed)
			continue
		}

		index[key] = len(out)
		out = append(out, RequiredMaterial{
			MaterialID: row.MaterialID,
			Name:       row.Name,
			Article:    row.Article,
			Unit:       row.Unit,
			Quantity:   consumed,
			Found:      row.Found,
		})
	}

	return out
}
