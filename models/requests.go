package models

import (
	"bytes"
	"encoding/json"
)

// Quantity is a label quantity exactly as the client sent it. JSON strings
// and numbers are both accepted; validation happens when it is parsed.
type Quantity string

func (q *Quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*q = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*q = Quantity(s)
		return nil
	}
	*q = Quantity(b)
	return nil
}

type PrintLabelsRequest struct {
	LabelFields []LabelField `json:"labelFields" binding:"required,min=1,dive"`
	Printer     string       `json:"printer" binding:"required"`
}

type DestinationPlatesRequest struct {
	NumberOfBarcodes int    `json:"numberOfBarcodes" binding:"required,min=1"`
	Printer          string `json:"printer" binding:"required"`
}

type ControlPlatesRequest struct {
	Barcode          string `json:"barcode" binding:"required"`
	NumberOfBarcodes int    `json:"numberOfBarcodes" binding:"required,min=1"`
	Printer          string `json:"printer" binding:"required"`
}

type AdHocPlateRequest struct {
	Barcode string `json:"barcode" binding:"required"`
	Text    string `json:"text"`
	Printer string `json:"printer" binding:"required"`
}

// ReagentAliquotRequest asks for quantity copies of one reagent aliquot label.
type ReagentAliquotRequest struct {
	ReagentAliquotFields
	Printer  string   `json:"printer" binding:"required"`
	Quantity Quantity `json:"quantity"`
}
