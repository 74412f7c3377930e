package controllers

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"labelprint-service/models"
)

// MaxUploadSize bounds barcode CSV uploads.
const MaxUploadSize = 5 * 1024 * 1024

var allowedCSVExtensions = map[string]bool{
	".csv": true,
	".txt": true,
}

// SourcePlateForm is the multipart form accepted for source plate printing.
type SourcePlateForm struct {
	Printer string `form:"printer" validate:"required"`
}

// RequestValidator handles input validation that binding tags cannot express.
type RequestValidator struct {
	validate *validator.Validate
	printers map[string]models.Printer
}

// NewRequestValidator creates a validator. With an empty catalogue any
// printer name is accepted.
func NewRequestValidator(printers []models.Printer) *RequestValidator {
	known := make(map[string]models.Printer, len(printers))
	for _, p := range printers {
		known[p.Name] = p
	}
	return &RequestValidator{validate: validator.New(), printers: known}
}

// CheckPrinter rejects printers missing from the catalogue, or configured
// for a different label type.
func (rv *RequestValidator) CheckPrinter(name, labelType string) error {
	if len(rv.printers) == 0 {
		return nil
	}
	p, ok := rv.printers[name]
	if !ok {
		return fmt.Errorf("unknown printer %q", name)
	}
	if p.LabelType != "" && p.LabelType != labelType {
		return fmt.Errorf("printer %q prints %s labels", name, p.LabelType)
	}
	return nil
}

// ParseSourcePlateForm binds and validates the printer field of a multipart
// upload and returns the uploaded file.
func (rv *RequestValidator) ParseSourcePlateForm(c *gin.Context) (string, *multipart.FileHeader, error) {
	var form SourcePlateForm
	if err := c.ShouldBind(&form); err != nil {
		return "", nil, fmt.Errorf("invalid form data: %w", err)
	}
	if err := rv.validate.Struct(&form); err != nil {
		return "", nil, fmt.Errorf("validation failed: %w", err)
	}

	file, err := rv.GetCSVFile(c)
	if err != nil {
		return "", nil, err
	}
	return form.Printer, file, nil
}

// GetCSVFile returns the "file" part of a multipart upload after checking
// its type and size.
func (rv *RequestValidator) GetCSVFile(c *gin.Context) (*multipart.FileHeader, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("file is required")
	}
	if !rv.IsValidCSVFile(file) {
		return nil, fmt.Errorf("invalid file type. Only CSV files are allowed")
	}
	if err := rv.ValidateFileSize(file); err != nil {
		return nil, err
	}
	return file, nil
}

// IsValidCSVFile checks if the file is a valid CSV
func (rv *RequestValidator) IsValidCSVFile(file *multipart.FileHeader) bool {
	switch file.Header.Get("Content-Type") {
	case "text/csv", "application/csv", "text/plain", "application/vnd.ms-excel":
		return true
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	return allowedCSVExtensions[ext]
}

// ValidateFileSize checks if file size is within limits
func (rv *RequestValidator) ValidateFileSize(file *multipart.FileHeader) error {
	if file.Size > MaxUploadSize {
		return fmt.Errorf("file too large (max %dMB)", MaxUploadSize/(1024*1024))
	}
	return nil
}
