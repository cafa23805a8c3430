// Package pricing is the quick listing-price path: a base price plus optional
// materials, scaled by collection and material multipliers. It never reads a
// technical card or paint recipes.
package pricing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Multipliers maps a normalized (lower-case, trimmed) name to a coefficient.
// Unknown names resolve to 1.
type Multipliers map[string]decimal.Decimal

// DefaultCollectionMultipliers returns the built-in collection table.
func DefaultCollectionMultipliers() Multipliers {
	return Multipliers{
		"standard":     decimal.RequireFromString("1.0"),
		"classic":      decimal.RequireFromString("1.3"),
		"modern":       decimal.RequireFromString("1.4"),
		"premium":      decimal.RequireFromString("1.8"),
		"luxury":       decimal.RequireFromString("2.2"),
		"loft":         decimal.RequireFromString("1.5"),
		"provence":     decimal.RequireFromString("1.6"),
		"scandinavian": decimal.RequireFromString("1.35"),
		"econom":       decimal.RequireFromString("1.15"),
	}
}

// DefaultMaterialMultipliers returns the built-in primary-material table.
func DefaultMaterialMultipliers() Multipliers {
	return Multipliers{
		"solid wood": decimal.RequireFromString("1.3"),
		"veneer":     decimal.RequireFromString("1.15"),
		"mdf":        decimal.RequireFromString("1.0"),
		"chipboard":  decimal.RequireFromString("0.9"),
		"metal":      decimal.RequireFromString("1.1"),
		"glass":      decimal.RequireFromString("1.2"),
	}
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Lookup returns the multiplier for name, or 1 when unknown.
func (m Multipliers) Lookup(name string) decimal.Decimal {
	if v, ok := m[normalizeName(name)]; ok {
		return v
	}
	return decimal.NewFromInt(1)
}

// Merge returns a copy of m with overrides applied. Negative overrides are ignored.
func (m Multipliers) Merge(overrides map[string]float64) Multipliers {
	out := make(Multipliers, len(m)+len(overrides))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range overrides {
		if v < 0 {
			continue
		}
		out[normalizeName(k)] = decimal.NewFromFloat(v)
	}
	return out
}

// Entry is one row of a multiplier table.
type Entry struct {
	Name       string          `json:"name"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// Entries lists the table sorted by multiplier, then name.
func (m Multipliers) Entries() []Entry {
	out := make([]Entry, 0, len(m))
	for k, v := range m {
		out = append(out, Entry{Name: k, Multiplier: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Multiplier.Cmp(out[j].Multiplier); c != 0 {
			return c < 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}
