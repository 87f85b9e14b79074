package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_String(t *testing.T) {
	tests := []struct {
		name string
		q    Quantity
		want string
	}{
		{"zero", 0, "0.0000"},
		{"whole", 50000, "5.0000"},
		{"fractional", 12500, "1.2500"},
		{"small fraction", 1, "0.0001"},
		{"negative", -32500, "-3.2500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.String())
		})
	}
}

func TestQuantity_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Quantity
	}{
		{"number", `5`, 50000},
		{"number with fraction", `1.25`, 12500},
		{"string", `"3.5"`, 35000},
		{"negative", `-2.0001`, -20001},
		{"extra digits truncated", `0.123456`, 1234},
		{"null", `null`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Quantity
			require.NoError(t, json.Unmarshal([]byte(tt.input), &q))
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestQuantity_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Quantity(12500))
	require.NoError(t, err)
	assert.Equal(t, "1.2500", string(data))
}

func TestQuantity_SignHelpers(t *testing.T) {
	assert.True(t, Quantity(10).IsPositive())
	assert.True(t, Quantity(-10).IsNegative())
	assert.True(t, Quantity(0).IsZero())
	assert.Equal(t, Quantity(10), Quantity(-10).Abs())
	assert.Equal(t, Quantity(-10), Quantity(10).Neg())
}
