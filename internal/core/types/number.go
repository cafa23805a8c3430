package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is a lenient numeric input read from loosely typed catalog data.
//
// JSON numbers and numeric strings ("12.5", "12,5", " 7 ") decode to a valid
// value. null, missing fields, booleans, objects and garbage strings decode
// without error into an invalid Number. Callers pick the fallback with Or,
// OrZero or NonNegativeOr.
type Number struct {
	value decimal.Decimal
	valid bool
}

// Num builds a valid Number from a decimal.
func Num(d decimal.Decimal) Number {
	return Number{value: d, valid: true}
}

// NumFloat builds a Number from a float; NaN and ±Inf are invalid.
func NumFloat(f float64) Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{}
	}
	return Number{value: decimal.NewFromFloat(f), valid: true}
}

// NumInt builds a valid Number from an integer.
func NumInt(i int64) Number {
	return Number{value: decimal.NewFromInt(i), valid: true}
}

// ParseNumber parses s leniently; unparseable input yields an invalid Number.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Number{}
	}
	return finite(d)
}

// Decimal magnitudes bounding the float64 range.
const (
	maxMagnitude = 309
	minMagnitude = -324
)

// finite keeps d within float64 range: overflow is invalid and underflow is
// zero, as the values would be after a float conversion.
func finite(d decimal.Decimal) Number {
	if d.IsZero() {
		return Number{value: decimal.Zero, valid: true}
	}
	mag := int64(d.Exponent()) + int64(len(d.Coefficient().String()))
	if d.Coefficient().Sign() < 0 {
		mag--
	}
	switch {
	case mag > maxMagnitude:
		return Number{}
	case mag < minMagnitude:
		return Number{value: decimal.Zero, valid: true}
	}
	return Number{value: d, valid: true}
}

// Valid reports whether a finite numeric value was supplied.
func (n Number) Valid() bool { return n.valid }

// Decimal returns the value, or zero when invalid.
func (n Number) Decimal() decimal.Decimal {
	if !n.valid {
		return decimal.Zero
	}
	return n.value
}

// OrZero returns the value or zero.
func (n Number) OrZero() decimal.Decimal { return n.Decimal() }

// Or returns the value or def when invalid.
func (n Number) Or(def decimal.Decimal) decimal.Decimal {
	if !n.valid {
		return def
	}
	return n.value
}

// NonNegative returns the value clamped to >= 0, zero when invalid.
func (n Number) NonNegative() decimal.Decimal {
	return MaxZero(n.Decimal())
}

// NonNegativeOr returns def when invalid, otherwise the value clamped to >= 0.
func (n Number) NonNegativeOr(def decimal.Decimal) decimal.Decimal {
	if !n.valid {
		return def
	}
	return MaxZero(n.value)
}

// IsPositive reports a valid value strictly above zero.
func (n Number) IsPositive() bool {
	return n.valid && n.value.IsPositive()
}

// String renders the value, or an empty string when invalid.
func (n Number) String() string {
	if !n.valid {
		return ""
	}
	return n.value.String()
}

// MarshalJSON encodes a valid Number as a JSON number and an invalid one as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return []byte(n.value.String()), nil
}

// UnmarshalJSON never fails on well-formed JSON: anything non-numeric becomes invalid.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*n = Number{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*n = ParseNumber(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*n = ParseNumber(string(data))
	}
	return nil
}
