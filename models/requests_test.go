package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Quantity
	}{
		{"string", `{"quantity": "12"}`, "12"},
		{"number", `{"quantity": 12}`, "12"},
		{"fractional number", `{"quantity": 5.5}`, "5.5"},
		{"null", `{"quantity": null}`, ""},
		{"missing", `{}`, ""},
		{"padded string", `{"quantity": " 3 "}`, " 3 "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ReagentAliquotRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.Quantity)
		})
	}
}

func TestReagentAliquotRequestFlattensFields(t *testing.T) {
	body := `{"barcode":"RA1","firstText":"first","secondText":"second","printer":"heron","quantity":"2"}`

	var req ReagentAliquotRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, "RA1", req.Barcode)
	assert.Equal(t, "heron", req.Printer)
	assert.Equal(t, map[string]interface{}{
		"barcode":    "RA1",
		"firstText":  "first",
		"secondText": "second",
	}, req.Fields())
}
