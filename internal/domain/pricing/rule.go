package pricing

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/shopspring/decimal"
)

// DefaultRentabilityRule is used when no expression is configured.
const DefaultRentabilityRule = "profitMargin >= 20.0"

// RentabilityRule is a compiled boolean CEL expression over a quote.
//
// Available variables: profitMargin, markup, subtotal, finalPrice, basePrice,
// materialsCost, collectionMultiplier (double) and collection (string).
type RentabilityRule struct {
	expr string
	prg  cel.Program
}

// CompileRentabilityRule parses and type-checks expr. An empty expression
// compiles DefaultRentabilityRule.
func CompileRentabilityRule(expr string) (*RentabilityRule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		expr = DefaultRentabilityRule
	}

	env, err := cel.NewEnv(
		cel.Variable("profitMargin", cel.DoubleType),
		cel.Variable("markup", cel.DoubleType),
		cel.Variable("subtotal", cel.DoubleType),
		cel.Variable("finalPrice", cel.DoubleType),
		cel.Variable("basePrice", cel.DoubleType),
		cel.Variable("materialsCost", cel.DoubleType),
		cel.Variable("collectionMultiplier", cel.DoubleType),
		cel.Variable("collection", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile rentability rule %q: %w", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("rentability rule %q must return bool, got %s", expr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build rentability program: %w", err)
	}

	return &RentabilityRule{expr: expr, prg: prg}, nil
}

// MustCompileRentabilityRule panics on invalid expressions. Use for constants and tests.
func MustCompileRentabilityRule(expr string) *RentabilityRule {
	r, err := CompileRentabilityRule(expr)
	if err != nil {
		panic(err)
	}
	return r
}

// Expression returns the source expression.
func (r *RentabilityRule) Expression() string {
	return r.expr
}

// Evaluate runs the rule against q.
func (r *RentabilityRule) Evaluate(q Quote) (bool, error) {
	out, _, err := r.prg.Eval(map[string]any{
		"profitMargin":         q.ProfitMargin.InexactFloat64(),
		"markup":               q.Markup.InexactFloat64(),
		"subtotal":             q.Subtotal.InexactFloat64(),
		"finalPrice":           q.FinalPrice.InexactFloat64(),
		"basePrice":            q.BasePrice.InexactFloat64(),
		"materialsCost":        q.MaterialsCost.InexactFloat64(),
		"collectionMultiplier": q.CollectionMultiplier.InexactFloat64(),
		"collection":           q.Collection,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate rentability rule: %w", err)
	}

	v, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rentability rule returned %T", out.Value())
	}
	return v, nil
}

func thresholdRentable(q Quote, threshold decimal.Decimal) bool {
	return q.ProfitMargin.GreaterThanOrEqual(threshold)
}
