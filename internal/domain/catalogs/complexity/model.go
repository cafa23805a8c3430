// Package complexity provides the paint complexity catalog: multiplicative
// coefficients for how hard a finish is to apply.
package complexity

import (
	"context"

	"github.com/shopspring/decimal"

	"furnicost/internal/core/apperror"
	"furnicost/internal/core/entity"
	"furnicost/internal/core/types"
	"furnicost/internal/domain/costing"
)

// Complexity is a named labor intensity coefficient.
type Complexity struct {
	entity.Catalog

	Coeff decimal.Decimal `db:"coeff" json:"coeff"`

	Description string `db:"description" json:"description,omitempty"`
}

// NewComplexity creates a complexity with the given coefficient.
func NewComplexity(code, name string, coeff decimal.Decimal) *Complexity {
	return &Complexity{
		Catalog: entity.NewCatalog(code, name),
		Coeff:   coeff,
	}
}

// Validate implements entity.Validatable interface.
func (c *Complexity) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}
	if c.Coeff.IsNegative() {
		return apperror.NewValidation("coefficient cannot be negative").
			WithDetail("field", "coeff")
	}
	return nil
}

// ToComplexity converts to the engine representation.
func (c *Complexity) ToComplexity() costing.PaintComplexity {
	return costing.PaintComplexity{
		ID:    c.ID.String(),
		Name:  c.Name,
		Coeff: types.Num(c.Coeff),
	}
}

// ToComplexities converts a slice.
func ToComplexities(items []*Complexity) []costing.PaintComplexity {
	out := make([]costing.PaintComplexity, 0, len(items))
	for _, c := range items {
		out = append(out, c.ToComplexity())
	}
	return out
}
