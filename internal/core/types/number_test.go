package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON_Lenient(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		want      string
	}{
		{"integer", `12`, true, "12"},
		{"fraction", `12.75`, true, "12.75"},
		{"negative", `-3`, true, "-3"},
		{"exponent", `1e3`, true, "1000"},
		{"numeric string", `"42.5"`, true, "42.5"},
		{"comma decimal separator", `"12,5"`, true, "12.5"},
		{"padded string", `"  7 "`, true, "7"},
		{"thousands with spaces", `"1 250"`, true, "1250"},
		{"underflow string", `"1e-400000000"`, true, "0"},
		{"underflow number", `-2.5e-400`, true, "0"},
		{"overflow string", `"1e400000000"`, false, ""},
		{"overflow number", `-9e309`, false, ""},
		{"large but finite", `1e300`, true, "1e300"},
		{"null", `null`, false, ""},
		{"empty string", `""`, false, ""},
		{"garbage string", `"abc"`, false, ""},
		{"boolean", `true`, false, ""},
		{"object", `{"a":1}`, false, ""},
		{"array", `[1]`, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.input), &n))
			assert.Equal(t, tt.wantValid, n.Valid())
			if tt.wantValid {
				assert.True(t, decimal.RequireFromString(tt.want).Equal(n.Decimal()), "got %s", n.Decimal())
			}
		})
	}
}

func TestNumber_MissingFieldIsInvalid(t *testing.T) {
	var v struct {
		Price Number `json:"price"`
		Qty   Number `json:"qty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"qty": 2}`), &v))

	assert.False(t, v.Price.Valid())
	assert.True(t, v.Qty.Valid())
}

func TestNumber_Fallbacks(t *testing.T) {
	one := decimal.NewFromInt(1)

	assert.True(t, Number{}.Or(one).Equal(one))
	assert.True(t, Number{}.OrZero().IsZero())
	assert.True(t, NumInt(-5).NonNegative().IsZero())
	assert.True(t, NumInt(-5).NonNegativeOr(one).IsZero(), "valid negative clamps to zero, not to the default")
	assert.True(t, Number{}.NonNegativeOr(one).Equal(one))
	assert.True(t, NumInt(3).NonNegativeOr(one).Equal(decimal.NewFromInt(3)))
}

func TestNumFloat_RejectsNonFinite(t *testing.T) {
	assert.True(t, NumFloat(0).Valid())
	assert.False(t, NumFloat(math.NaN()).Valid())
	assert.False(t, NumFloat(math.Inf(1)).Valid())
}

func TestNumber_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}{A: NumFloat(1.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.5,"b":null}`, string(out))
}

func TestRoundMoney_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, "3", RoundMoney(decimal.RequireFromString("2.5")).String())
	assert.Equal(t, "2", RoundMoney(decimal.RequireFromString("2.49")).String())
	assert.Equal(t, "924", RoundMoney(decimal.RequireFromString("924.0000001")).String())
}

func TestPercent_ZeroDenominator(t *testing.T) {
	assert.True(t, Percent(decimal.NewFromInt(5), decimal.Zero).IsZero())
	assert.Equal(t, "50", Percent(decimal.NewFromInt(1), decimal.NewFromInt(2)).String())
}
