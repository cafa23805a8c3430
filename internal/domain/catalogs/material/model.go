// Package material provides the materials catalog: boards, fittings, glue and
// everything else a technical card can reference.
package material

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"furnicost/internal/core/apperror"
	"furnicost/internal/core/entity"
	"furnicost/internal/core/types"
	"furnicost/internal/domain/costing"
)

// Material is a purchasable material with a unit price.
type Material struct {
	entity.Catalog

	// Article is the supplier article code, unique among non-deleted materials
	Article *string `db:"article" json:"article,omitempty"`

	// Unit of measure (m2, pcs, kg, lm)
	Unit string `db:"unit" json:"unit"`

	Price decimal.Decimal `db:"price" json:"price"`

	// ConsumptionCoeff is the default waste multiplier; NULL means 1
	ConsumptionCoeff decimal.NullDecimal `db:"consumption_coeff" json:"consumptionCoeff"`

	// Category is a free-form grouping ("Boards", "Fittings")
	Category string `db:"category" json:"category"`

	// Kind feeds the material multiplier of quick quotes ("solid wood", "mdf")
	Kind string `db:"kind" json:"kind,omitempty"`

	IsActive bool `db:"is_active" json:"isActive"`
}

// NewMaterial creates an active material.
func NewMaterial(code, name, unit string, price decimal.Decimal) *Material {
	return &Material{
		Catalog:  entity.NewCatalog(code, name),
		Unit:     unit,
		Price:    price,
		IsActive: true,
	}
}

// Validate implements entity.Validatable interface.
func (m *Material) Validate(ctx context.Context) error {
	if err := m.Catalog.Validate(ctx); err != nil {
		return err
	}

	if strings.TrimSpace(m.Unit) == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}

	if m.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}

	if m.ConsumptionCoeff.Valid && m.ConsumptionCoeff.Decimal.IsNegative() {
		return apperror.NewValidation("consumption coefficient cannot be negative").
			WithDetail("field", "consumptionCoeff")
	}

	return nil
}

// ArticleValue returns the article or an empty string.
func (m *Material) ArticleValue() string {
	if m.Article == nil {
		return ""
	}
	return *m.Article
}

// ToRecord converts the material to the engine representation.
func (m *Material) ToRecord() costing.MaterialRecord {
	rec := costing.MaterialRecord{
		ID:      m.ID.String(),
		Name:    m.Name,
		Article: m.ArticleValue(),
		Unit:    m.Unit,
		Price:   types.Num(m.Price),
	}
	if m.ConsumptionCoeff.Valid {
		rec.ConsumptionCoeff = types.Num(m.ConsumptionCoeff.Decimal)
	}
	return rec
}

// ToRecords converts a slice of materials.
func ToRecords(items []*Material) []costing.MaterialRecord {
	out := make([]costing.MaterialRecord, 0, len(items))
	for _, m := range items {
		out = append(out, m.ToRecord())
	}
	return out
}
