package providers

import (
	"context"
	"time"

	"labelprint-service/models"
)

// BarcodeIssuer issues new barcodes from a named barcode group.
type BarcodeIssuer interface {
	CreateBarcodes(ctx context.Context, group string, count int) (*models.BarcodeGroup, error)
}

// PrintGateway submits print jobs to the label printing service.
type PrintGateway interface {
	// Print submits body and returns the job ID assigned by the gateway.
	Print(ctx context.Context, body models.PrintRequestBody) (string, error)
}

// Config configures a single upstream service client.
type Config struct {
	BaseURL string        `validate:"required,url"`
	APIKey  string        // sent as the Authorization header when set
	Timeout time.Duration `validate:"gte=0"`
}
