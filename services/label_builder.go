package services

import (
	"fmt"
	"strconv"
	"strings"

	"labelprint-service/apperrors"
	"labelprint-service/csvimport"
	"labelprint-service/models"
	"labelprint-service/templates"
)

// PrintQuery is the mutation every print request is sent with.
const PrintQuery = `mutation printRequest($printRequest: PrintRequest!, $printer: String!) {
  print(printRequest: $printRequest, printer: $printer) {
    jobId
  }
}`

const (
	MinQuantity = 1
	MaxQuantity = 100

	ControlText = "Control"

	barcodeColumn = "barcode"
	textColumn    = "text"
)

var errQuantity = fmt.Sprintf("Quantity should be between %d and %d.", MinQuantity, MaxQuantity)

// CreateLabelFields pairs every barcode with the same text.
func CreateLabelFields(barcodes []string, text string) []models.LabelField {
	fields := make([]models.LabelField, 0, len(barcodes))
	for _, barcode := range barcodes {
		fields = append(fields, models.LabelField{Barcode: barcode, Text: text})
	}
	return fields
}

// MultiplyBarcode returns n control labels for the same barcode.
func MultiplyBarcode(barcode string, n int) []models.LabelField {
	barcodes := make([]string, n)
	for i := range barcodes {
		barcodes[i] = barcode
	}
	return CreateLabelFields(barcodes, ControlText)
}

// CreatePrintRequestBody renders one general layout per label field.
func CreatePrintRequestBody(tmpl *templates.Template, labelFields []models.LabelField, printer string) models.PrintRequestBody {
	layouts := make([]models.Layout, 0, len(labelFields))
	for _, f := range labelFields {
		layouts = append(layouts, tmpl.Render(f.Fields()))
	}
	return newPrintRequestBody(printer, layouts)
}

// CreateReagentAliquotRequestBody renders the same reagent aliquot layout
// quantity times.
func CreateReagentAliquotRequestBody(tmpl *templates.Template, fields models.ReagentAliquotFields, printer string, quantity int) models.PrintRequestBody {
	layouts := make([]models.Layout, 0, quantity)
	for i := 0; i < quantity; i++ {
		layouts = append(layouts, tmpl.Render(fields.Fields()))
	}
	return newPrintRequestBody(printer, layouts)
}

func newPrintRequestBody(printer string, layouts []models.Layout) models.PrintRequestBody {
	return models.PrintRequestBody{
		Query: PrintQuery,
		Variables: models.PrintVariables{
			Printer:      printer,
			PrintRequest: models.PrintRequest{Layouts: layouts},
		},
	}
}

// ParseQuantity converts a user supplied quantity into a label count. Only
// whole numbers from MinQuantity to MaxQuantity are accepted.
func ParseQuantity(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < MinQuantity || n > MaxQuantity {
		return 0, apperrors.Validation(errQuantity)
	}
	return n, nil
}

// LabelFieldsFromRecords builds one label per CSV record. Records must carry
// a barcode column; a text column is optional and blank cells fall back to
// defaultText.
func LabelFieldsFromRecords(records []csvimport.Record, defaultText string) ([]models.LabelField, error) {
	if len(records) == 0 {
		return nil, apperrors.Validation("The file contains no barcodes.")
	}
	if _, ok := records[0][barcodeColumn]; !ok {
		return nil, apperrors.Validation(fmt.Sprintf("The file has no \"%s\" column.", barcodeColumn))
	}

	fields := make([]models.LabelField, 0, len(records))
	for i, record := range records {
		barcode := strings.TrimSpace(record[barcodeColumn])
		if barcode == "" {
			// header is line 1
			return nil, apperrors.Validation(fmt.Sprintf("Line %d has no barcode.", i+2))
		}
		text := strings.TrimSpace(record[textColumn])
		if text == "" {
			text = defaultText
		}
		fields = append(fields, models.LabelField{Barcode: barcode, Text: text})
	}
	return fields, nil
}

// SuccessMessage describes a successful submission of n labels.
func SuccessMessage(n int, printer string) string {
	noun := "labels"
	if n == 1 {
		noun = "label"
	}
	return fmt.Sprintf("Successfully printed %d %s to %s", n, noun, printer)
}
