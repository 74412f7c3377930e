package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"labelprint-service/apperrors"
	"labelprint-service/csvimport"
	"labelprint-service/logger"
	"labelprint-service/models"
	"labelprint-service/services"
)

// PrintController handles HTTP requests for label printing.
type PrintController struct {
	printService services.PrintService
	printers     []models.Printer
	validator    *RequestValidator
	logger       *zap.Logger
}

// NewPrintController creates a new PrintController.
func NewPrintController(svc services.PrintService, printers []models.Printer, log *zap.Logger) *PrintController {
	return &PrintController{
		printService: svc,
		printers:     printers,
		validator:    NewRequestValidator(printers),
		logger:       log,
	}
}

// ListPrinters handles GET /api/printers
func (pc *PrintController) ListPrinters(ctx *gin.Context) {
	labelType := ctx.Query("label_type")
	printers := make([]models.Printer, 0, len(pc.printers))
	for _, p := range pc.printers {
		if labelType == "" || p.LabelType == "" || p.LabelType == labelType {
			printers = append(printers, p)
		}
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "printers": printers})
}

// PrintLabels handles POST /api/print/labels
func (pc *PrintController) PrintLabels(ctx *gin.Context) {
	var req models.PrintLabelsRequest
	if !pc.bind(ctx, &req) || !pc.checkPrinter(ctx, req.Printer, models.LabelTypeGeneral) {
		return
	}

	result, err := pc.printService.PrintLabels(ctx.Request.Context(), req.LabelFields, req.Printer)
	pc.respond(ctx, result, err)
}

// PrintDestinationPlates handles POST /api/print/destination-plates
func (pc *PrintController) PrintDestinationPlates(ctx *gin.Context) {
	var req models.DestinationPlatesRequest
	if !pc.bind(ctx, &req) || !pc.checkPrinter(ctx, req.Printer, models.LabelTypeGeneral) {
		return
	}

	result, err := pc.printService.PrintDestinationPlateLabels(ctx.Request.Context(), req.NumberOfBarcodes, req.Printer)
	pc.respond(ctx, result, err)
}

// PrintControlPlates handles POST /api/print/control-plates
func (pc *PrintController) PrintControlPlates(ctx *gin.Context) {
	var req models.ControlPlatesRequest
	if !pc.bind(ctx, &req) || !pc.checkPrinter(ctx, req.Printer, models.LabelTypeGeneral) {
		return
	}

	result, err := pc.printService.PrintControlPlateLabels(ctx.Request.Context(), req.Barcode, req.NumberOfBarcodes, req.Printer)
	pc.respond(ctx, result, err)
}

// PrintAdHocPlate handles POST /api/print/ad-hoc-plate
func (pc *PrintController) PrintAdHocPlate(ctx *gin.Context) {
	var req models.AdHocPlateRequest
	if !pc.bind(ctx, &req) || !pc.checkPrinter(ctx, req.Printer, models.LabelTypeGeneral) {
		return
	}

	result, err := pc.printService.PrintAdHocPlateLabel(ctx.Request.Context(), req.Barcode, req.Text, req.Printer)
	pc.respond(ctx, result, err)
}

// PrintReagentAliquots handles POST /api/print/reagent-aliquots
func (pc *PrintController) PrintReagentAliquots(ctx *gin.Context) {
	var req models.ReagentAliquotRequest
	if !pc.bind(ctx, &req) || !pc.checkPrinter(ctx, req.Printer, models.LabelTypeReagentAliquot) {
		return
	}

	result, err := pc.printService.PrintReagentAliquotLabels(ctx.Request.Context(), req)
	pc.respond(ctx, result, err)
}

// PrintSourcePlates handles POST /api/print/source-plates
func (pc *PrintController) PrintSourcePlates(ctx *gin.Context) {
	printer, file, err := pc.validator.ParseSourcePlateForm(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !pc.checkPrinter(ctx, printer, models.LabelTypeGeneral) {
		return
	}

	fileHandle, err := file.Open()
	if err != nil {
		pc.fail(ctx, apperrors.IO(err))
		return
	}
	defer fileHandle.Close()

	text, err := csvimport.Read(fileHandle)
	if err != nil {
		pc.fail(ctx, err)
		return
	}

	result, err := pc.printService.PrintSourcePlateLabels(ctx.Request.Context(), text, printer)
	pc.respond(ctx, result, err)
}

// ValidateCSV handles POST /api/csv/validate
func (pc *PrintController) ValidateCSV(ctx *gin.Context) {
	file, err := pc.validator.GetCSVFile(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	fileHandle, err := file.Open()
	if err != nil {
		pc.fail(ctx, apperrors.IO(err))
		return
	}
	defer fileHandle.Close()

	text, err := csvimport.Read(fileHandle)
	if err != nil {
		pc.fail(ctx, err)
		return
	}
	records, err := csvimport.Parse(text)
	if err != nil {
		pc.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"headers": csvimport.Headers(text),
		"count":   len(records),
		"records": records,
	})
}

func (pc *PrintController) bind(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request", "details": err.Error()})
		return false
	}
	return true
}

func (pc *PrintController) checkPrinter(ctx *gin.Context, printer, labelType string) bool {
	if err := pc.validator.CheckPrinter(printer, labelType); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
		return false
	}
	return true
}

func (pc *PrintController) respond(ctx *gin.Context, result *models.PrintResult, err error) {
	if err != nil {
		pc.fail(ctx, err)
		return
	}

	body := gin.H{
		"success":     true,
		"message":     result.Message,
		"label_count": result.LabelCount,
	}
	if result.JobID != "" {
		body["job_id"] = result.JobID
	}
	ctx.JSON(http.StatusOK, body)
}

func (pc *PrintController) fail(ctx *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.With(ctx, pc.logger).Error("Print request failed", zap.Int("status", status), zap.Error(err))
	}
	_ = ctx.Error(err)
	ctx.JSON(status, gin.H{"success": false, "error": err.Error()})
}
