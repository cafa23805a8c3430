// Package numerator provides contracts for catalog code generation.
package numerator

// Strategy defines how sequence values are reserved.
type Strategy int

const (
	// StrategyStrict increments the database sequence for every code.
	StrategyStrict Strategy = iota

	// StrategyCached reserves ranges of values in memory. Gaps appear after restarts,
	// which is acceptable for catalog codes.
	StrategyCached
)

// Config describes one code series.
type Config struct {
	// Prefix is prepended to all codes (e.g. "MT", "PD")
	Prefix string

	// PadWidth is the minimum digit count (default 5)
	PadWidth int

	Strategy Strategy

	// RangeSize is the reservation size for StrategyCached (default 50)
	RangeSize int64
}

// Catalog code series.
var (
	MaterialCodes   = Config{Prefix: "MT", PadWidth: 5, Strategy: StrategyCached, RangeSize: 20}
	RecipeCodes     = Config{Prefix: "PR", PadWidth: 4}
	ComplexityCodes = Config{Prefix: "PC", PadWidth: 3}
	ProductCodes    = Config{Prefix: "PD", PadWidth: 5}
)
