package entity

import (
	"context"
	"strings"

	"furnicost/internal/core/apperror"
)

// Catalog is the base type for reference data: materials, paint recipes,
// paint complexities and products.
type Catalog struct {
	BaseEntity

	// Code is a human-readable identifier, unique among non-deleted rows
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(code, name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Code:       code,
		Name:       name,
	}
}

// Validate implements Validatable interface.
// Code is optional here: it is generated by the numerator when omitted.
func (c *Catalog) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if len(c.Code) > 50 {
		return apperror.NewValidation("code is too long").
			WithDetail("field", "code").
			WithDetail("maxLength", 50)
	}
	return nil
}

// GetCode returns the catalog code.
func (c *Catalog) GetCode() string { return c.Code }

// SetCode assigns the catalog code.
func (c *Catalog) SetCode(code string) { c.Code = code }
