package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"furnicost/internal/core/id"
	"furnicost/internal/core/types"
	"furnicost/internal/domain/audit"
	"furnicost/internal/domain/costing"
	"furnicost/internal/domain/costingsvc"
	"furnicost/internal/infrastructure/http/v1/dto"
)

// CostingService is the costing application service as seen by HTTP.
type CostingService interface {
	Calculate(ctx context.Context, in costing.Input) costingsvc.Outcome
	CalculateForProduct(ctx context.Context, productID id.ID, labor, markup types.Number) (costingsvc.Outcome, error)
	VerifyFingerprint(ctx context.Context, productID id.ID) (audit.Verification, error)
	Requirements(ctx context.Context, productID id.ID) ([]costing.RequiredMaterial, error)
}

// CostingHandler exposes product cost calculation.
type CostingHandler struct {
	*BaseHandler
	service  CostingService
	settings costing.Settings
}

// NewCostingHandler creates a costing handler. settings apply to inline
// calculations that do not carry their own.
func NewCostingHandler(base *BaseHandler, service CostingService, settings costing.Settings) *CostingHandler {
	return &CostingHandler{
		BaseHandler: base,
		service:     service,
		settings:    settings,
	}
}

// Calculate handles POST /costing/calculate.
func (h *CostingHandler) Calculate(c *gin.Context) {
	var req dto.CalculateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.OK(c, h.service.Calculate(c.Request.Context(), req.ToInput(h.settings)))
}

// CalculateProduct handles POST /costing/products/:id/calculate.
// The body is optional.
func (h *CostingHandler) CalculateProduct(c *gin.Context) {
	productID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.ProductCalculateRequest
	if !h.BindOptionalJSON(c, &req) {
		return
	}

	out, err := h.service.CalculateForProduct(c.Request.Context(), productID, req.LaborCost, req.MarkupPercent)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, out)
}

// VerifyFingerprint handles GET /costing/products/:id/fingerprint/verify.
func (h *CostingHandler) VerifyFingerprint(c *gin.Context) {
	productID, ok := h.ParseID(c)
	if !ok {
		return
	}

	v, err := h.service.VerifyFingerprint(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, v)
}

// Requirements handles GET /costing/products/:id/requirements.
func (h *CostingHandler) Requirements(c *gin.Context) {
	productID, ok := h.ParseID(c)
	if !ok {
		return
	}

	items, err := h.service.Requirements(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items})
}
