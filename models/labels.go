package models

import "time"

// Layout is one physical label's fully populated field set, in the shape the
// print gateway expects.
type Layout map[string]interface{}

// LabelField holds the per-label variable data for general plate labels.
type LabelField struct {
	Barcode string `json:"barcode" binding:"required"`
	Text    string `json:"text"`
}

// Fields returns the placeholder values used to render f.
func (f LabelField) Fields() map[string]interface{} {
	return map[string]interface{}{"barcode": f.Barcode, "text": f.Text}
}

// ReagentAliquotFields holds the per-label data for reagent aliquot labels.
type ReagentAliquotFields struct {
	Barcode    string `json:"barcode" binding:"required"`
	FirstText  string `json:"firstText"`
	SecondText string `json:"secondText"`
}

func (f ReagentAliquotFields) Fields() map[string]interface{} {
	return map[string]interface{}{
		"barcode":    f.Barcode,
		"firstText":  f.FirstText,
		"secondText": f.SecondText,
	}
}

// PrintRequest is the printRequest variable of the print mutation.
type PrintRequest struct {
	Layouts []Layout `json:"layouts"`
}

// PrintVariables are the GraphQL variables sent with the print mutation.
type PrintVariables struct {
	Printer      string       `json:"printer"`
	PrintRequest PrintRequest `json:"printRequest"`
}

// PrintRequestBody is the full envelope posted to the print gateway.
type PrintRequestBody struct {
	Query     string         `json:"query"`
	Variables PrintVariables `json:"variables"`
}

// PrintResult describes a successful print submission.
type PrintResult struct {
	Message    string `json:"message"`
	Printer    string `json:"printer"`
	LabelCount int    `json:"label_count"`
	JobID      string `json:"job_id,omitempty"`
}

// Label types, used for the printer catalogue and emitted events.
const (
	LabelTypeGeneral        = "general"
	LabelTypeReagentAliquot = "reagent_aliquot"
)

// Printer is an entry of the printer catalogue.
type Printer struct {
	Name      string `json:"name" yaml:"name" validate:"required"`
	LabelType string `json:"label_type" yaml:"label_type"`
}

// Event types published after each print attempt.
const (
	EventLabelsPrinted = "labels_printed"
	EventPrintFailed   = "print_failed"
)

// PrintEvent is published after every print attempt.
type PrintEvent struct {
	ID         string    `json:"id"`
	EventType  string    `json:"event_type"`
	Workflow   string    `json:"workflow"`
	Printer    string    `json:"printer"`
	LabelType  string    `json:"label_type"`
	LabelCount int       `json:"label_count"`
	JobID      string    `json:"job_id,omitempty"`
	Message    string    `json:"message,omitempty"`
	Error      string    `json:"error,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// BarcodeGroup is a batch of barcodes issued by the barcode service.
type BarcodeGroup struct {
	ID       int      `json:"id"`
	Barcodes []string `json:"barcodes"`
}
