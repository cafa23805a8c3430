package dto

import "furnicost/internal/domain/pricing"

// MultiplierTableResponse lists the collection and primary-material tables.
type MultiplierTableResponse struct {
	Collections []pricing.Entry `json:"collections"`
	Materials   []pricing.Entry `json:"materials"`
}
