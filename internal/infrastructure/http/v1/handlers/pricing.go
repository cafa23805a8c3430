package handlers

import (
	"github.com/gin-gonic/gin"

	"furnicost/internal/domain/pricing"
	"furnicost/internal/infrastructure/http/v1/dto"
)

// PricingHandler exposes collection-multiplier quotes.
type PricingHandler struct {
	*BaseHandler
	calc *pricing.Calculator
}

// NewPricingHandler creates a pricing handler.
func NewPricingHandler(base *BaseHandler, calc *pricing.Calculator) *PricingHandler {
	return &PricingHandler{BaseHandler: base, calc: calc}
}

// Quote handles POST /pricing/quote.
func (h *PricingHandler) Quote(c *gin.Context) {
	var req pricing.Request
	if !h.BindJSON(c, &req) {
		return
	}

	h.OK(c, h.calc.Quote(req))
}

// Collections handles GET /pricing/collections.
func (h *PricingHandler) Collections(c *gin.Context) {
	h.OK(c, dto.MultiplierTableResponse{
		Collections: h.calc.Collections().Entries(),
		Materials:   h.calc.MaterialTable().Entries(),
	})
}
