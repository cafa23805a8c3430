// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"furnicost/internal/core/entity"
	"furnicost/internal/core/id"
)

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- Catalog DTOs ---

// CatalogResponse contains the fields shared by every catalog.
type CatalogResponse struct {
	ID           string            `json:"id"`
	Code         string            `json:"code"`
	Name         string            `json:"name"`
	DeletionMark bool              `json:"deletionMark"`
	Version      int               `json:"version"`
	Attributes   entity.Attributes `json:"attributes,omitempty"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// FromCatalog creates CatalogResponse from entity.Catalog.
func FromCatalog(c entity.Catalog) CatalogResponse {
	return CatalogResponse{
		ID:           c.ID.String(),
		Code:         c.Code,
		Name:         c.Name,
		DeletionMark: c.DeletionMark,
		Version:      c.Version,
		Attributes:   c.Attributes,
		UpdatedAt:    c.UpdatedAt,
	}
}

// CatalogUpdate carries the optional common fields of an update request.
// Version is required for optimistic locking.
type CatalogUpdate struct {
	Code       *string           `json:"code"`
	Name       *string           `json:"name"`
	Attributes entity.Attributes `json:"attributes"`
	Version    int               `json:"version" binding:"required,min=1"`
}

// ApplyTo writes the present fields onto c.
func (u CatalogUpdate) ApplyTo(c *entity.Catalog) {
	if u.Code != nil {
		c.Code = *u.Code
	}
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Attributes != nil {
		c.Attributes = u.Attributes
	}
	c.Version = u.Version
}

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// --- Deletion ---

type SetDeletionMarkRequest struct {
	Marked bool `json:"marked"`
}

func optString(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
