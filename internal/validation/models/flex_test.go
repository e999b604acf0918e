package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexStringUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want FlexString
	}{
		{"plain string", `"P1001"`, "P1001"},
		{"whitespace trimmed", `"  P1001  "`, "P1001"},
		{"number coerced", `4011`, "4011"},
		{"decimal number coerced", `12.5`, "12.5"},
		{"bool coerced", `true`, "true"},
		{"null is absent", `null`, ""},
		{"object is absent", `{"a":1}`, ""},
		{"array is absent", `[1,2]`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexString
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestFlexStringHelpers(t *testing.T) {
	assert.True(t, FlexString("  ").IsBlank())
	assert.True(t, FlexString("").IsBlank())
	assert.False(t, FlexString("x").IsBlank())
	assert.Equal(t, "fruit", FlexString("  FRUIT ").Lower())
}

func TestFlexNumberUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  float64
		valid bool
	}{
		{"plain number", `4.5`, 4.5, true},
		{"integer", `12`, 12, true},
		{"zero is present", `0`, 0, true},
		{"numeric string", `"4.50"`, 4.5, true},
		{"currency string", `"$1,250.00"`, 1250, true},
		{"padded string", `" 3.2 "`, 3.2, true},
		{"unparsable string is absent", `"n/a"`, 0, false},
		{"empty string is absent", `""`, 0, false},
		{"null is absent", `null`, 0, false},
		{"bool is absent", `true`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexNumber
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			v, ok := f.Float()
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, v)
			}
		})
	}
}

// A record full of malformed fields must decode without error; bad values
// degrade to absent and are judged by the validators, not the decoder.
func TestRecordTolerantDecoding(t *testing.T) {
	payload := `{
		"plu_code": 4011,
		"barcode": "  9300601001019 ",
		"description": null,
		"retail_price": "not a price",
		"cost_price": "$2.50",
		"pack_size": "6"
	}`
	var r Record
	require.NoError(t, json.Unmarshal([]byte(payload), &r))

	assert.Equal(t, "4011", r.PLUCode.String())
	assert.Equal(t, "9300601001019", r.Barcode.String())
	assert.True(t, r.Description.IsBlank())

	_, ok := r.RetailPrice.Float()
	assert.False(t, ok)

	cost, ok := r.CostPrice.Float()
	require.True(t, ok)
	assert.Equal(t, 2.5, cost)

	size, ok := r.PackSize.Float()
	require.True(t, ok)
	assert.Equal(t, 6.0, size)
}
