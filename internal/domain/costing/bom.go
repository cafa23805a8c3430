package costing

import (
	"github.com/shopspring/decimal"
)

// CalculateMaterialCost computes unitPrice × quantity × consumptionCoeff for one line.
// An unresolved material yields a zero-cost invalid row that keeps the line's own
// name, article and unit for diagnostics.
func CalculateMaterialCost(l BomLine, materials []MaterialRecord) MaterialCostRow {
	nl := normalizeLine(l)

	found := FindMaterial(l.MaterialRef, materials)
	if found == nil {
		return MaterialCostRow{
			MaterialID:       l.MaterialID,
			Name:             l.Name,
			Article:          l.Article,
			Unit:             l.Unit,
			UnitPrice:        decimal.Zero,
			Quantity:         nl.quantity,
			ConsumptionCoeff: effectiveCoeff(nl, nil),
			TotalCost:        decimal.Zero,
		}
	}

	m := normalizeMaterial(*found)
	coeff := effectiveCoeff(nl, &m)

	return MaterialCostRow{
		MaterialID:       m.id,
		Name:             m.name,
		Article:          m.article,
		Unit:             m.unit,
		UnitPrice:        m.price,
		Quantity:         nl.quantity,
		ConsumptionCoeff: coeff,
		TotalCost:        m.price.Mul(nl.quantity).Mul(coeff),
		Found:            true,
		IsValid:          m.price.IsPositive() && nl.quantity.IsPositive(),
	}
}

// ProcessBOM costs every technical card line and sums the rows.
// HasErrors is set when any row is invalid; an empty card is a valid zero.
func ProcessBOM(p Product, ds Datasets) BOMResult {
	res := BOMResult{
		Total: decimal.Zero,
		Items: make([]MaterialCostRow, 0, len(p.TechCard)),
	}

	for _, l := range p.TechCard {
		row := CalculateMaterialCost(l, ds.Materials)
		res.Total = res.Total.Add(row.TotalCost)
		if !row.IsValid {
			res.HasErrors = true
		}
		res.Items = append(res.Items, row)
	}

	return res
}
