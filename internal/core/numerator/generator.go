package numerator

import (
	"context"
	"fmt"
)

// Generator produces the next code of a series.
// Implementations live in the infrastructure layer.
type Generator interface {
	// Next returns a formatted code such as "MT-00042".
	Next(ctx context.Context, cfg Config) (string, error)
}

// GeneratorFunc adapts a function to Generator. Handy in tests.
type GeneratorFunc func(ctx context.Context, cfg Config) (string, error)

// Next implements Generator.
func (f GeneratorFunc) Next(ctx context.Context, cfg Config) (string, error) {
	return f(ctx, cfg)
}

// Format renders value in the series format PREFIX-00001.
func Format(cfg Config, value int64) string {
	width := cfg.PadWidth
	if width <= 0 {
		width = 5
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, width, value)
}
