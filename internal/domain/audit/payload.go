// Package audit records advisory fingerprints of cost calculations so a later
// recalculation can be compared with what was shown to the customer.
// A fingerprint is not a security control.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"furnicost/internal/domain/costing"
)

// Payload is the canonical content behind a fingerprint. Field order is fixed
// and every decimal is rendered as a string, so equal results serialize to
// identical bytes.
type Payload struct {
	Product   ProductInfo   `json:"product"`
	Materials []MaterialRow `json:"materials"`
	Paint     []PaintRow    `json:"paint"`
	Totals    Totals        `json:"totals"`
}

// ProductInfo identifies the costed product.
type ProductInfo struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Article string `json:"article"`
	Size    string `json:"size"`
}

// MaterialRow is one BOM row of the payload.
type MaterialRow struct {
	Name      string `json:"name"`
	Article   string `json:"article"`
	Quantity  string `json:"quantity"`
	Coeff     string `json:"coeff"`
	UnitPrice string `json:"unitPrice"`
	TotalCost string `json:"totalCost"`
	Valid     bool   `json:"valid"`
}

// PaintRow is one paint job of the payload.
type PaintRow struct {
	Recipe     string `json:"recipe"`
	Complexity string `json:"complexity"`
	Layers     string `json:"layers"`
	CostPerM2  string `json:"costPerM2"`
	TotalCost  string `json:"totalCost"`
}

// Totals holds the headline numbers.
type Totals struct {
	MaterialsCost string `json:"materialsCost"`
	PaintCost     string `json:"paintCost"`
	LaborCost     string `json:"laborCost"`
	TotalCost     string `json:"totalCost"`
	MarkupPercent string `json:"markupPercent"`
	FinalPrice    string `json:"finalPrice"`
	HasErrors     bool   `json:"hasErrors"`
}

// ProductKey identifies a product for fingerprinting: its id when known, else
// its lower-cased trimmed name.
func ProductKey(p costing.Product) string {
	if p.ID != "" {
		return p.ID
	}
	return "name:" + strings.ToLower(strings.TrimSpace(p.Name))
}

// BuildPayload extracts the canonical payload from a product and its result.
func BuildPayload(p costing.Product, r costing.Result) Payload {
	out := Payload{
		Product: ProductInfo{
			Key:     ProductKey(p),
			Name:    p.Name,
			Article: p.Article,
			Size:    p.Size,
		},
		Materials: make([]MaterialRow, 0, len(r.Breakdown.Materials.Items)),
		Paint:     make([]PaintRow, 0, len(r.Breakdown.Paint.Jobs)),
		Totals: Totals{
			MaterialsCost: r.MaterialsCost.String(),
			PaintCost:     r.PaintCost.String(),
			LaborCost:     r.LaborCost.String(),
			TotalCost:     r.TotalCost.String(),
			MarkupPercent: r.MarkupPercent.String(),
			FinalPrice:    r.FinalPrice.String(),
			HasErrors:     r.HasErrors,
		},
	}

	for _, m := range r.Breakdown.Materials.Items {
		out.Materials = append(out.Materials, MaterialRow{
			Name:      m.Name,
			Article:   m.Article,
			Quantity:  m.Quantity.String(),
			Coeff:     m.ConsumptionCoeff.String(),
			UnitPrice: m.UnitPrice.String(),
			TotalCost: m.TotalCost.String(),
			Valid:     m.IsValid,
		})
	}

	for _, j := range r.Breakdown.Paint.Jobs {
		out.Paint = append(out.Paint, PaintRow{
			Recipe:     j.RecipeName,
			Complexity: j.ComplexityName,
			Layers:     j.Layers.String(),
			CostPerM2:  j.CostPerM2.String(),
			TotalCost:  j.TotalCost.String(),
		})
	}

	return out
}

// Encode serializes the payload.
func (p Payload) Encode() ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode audit payload: %w", err)
	}
	return b, nil
}

// Fingerprint returns the hex SHA-256 of the encoded payload.
func Fingerprint(encoded []byte) string {
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}
