package config

import (
	"github.com/shopspring/decimal"

	"furnicost/internal/core/types"
)

func typesNumber(f float64) types.Number {
	return types.Num(decimal.NewFromFloat(f))
}
