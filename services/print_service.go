package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"labelprint-service/apperrors"
	"labelprint-service/csvimport"
	"labelprint-service/events"
	"labelprint-service/logger"
	"labelprint-service/models"
	"labelprint-service/providers"
	"labelprint-service/templates"
)

// Workflows, reported on metrics and events.
const (
	WorkflowLabels            = "labels"
	WorkflowDestinationPlates = "destination_plates"
	WorkflowControlPlates     = "control_plates"
	WorkflowAdHocPlate        = "ad_hoc_plate"
	WorkflowReagentAliquots   = "reagent_aliquots"
	WorkflowSourcePlates      = "source_plates"
)

const eventPublishTimeout = 5 * time.Second

// Config holds the settings the print pipelines need.
type Config struct {
	BarcodeGroup   string `validate:"required"`
	ProjectAcronym string `validate:"required"`
}

// PrintService defines the label printing workflows. Every method makes at
// most one call to each external service and never retries.
type PrintService interface {
	PrintLabels(ctx context.Context, labelFields []models.LabelField, printer string) (*models.PrintResult, error)
	PrintDestinationPlateLabels(ctx context.Context, numberOfBarcodes int, printer string) (*models.PrintResult, error)
	PrintControlPlateLabels(ctx context.Context, barcode string, numberOfBarcodes int, printer string) (*models.PrintResult, error)
	PrintAdHocPlateLabel(ctx context.Context, barcode, text, printer string) (*models.PrintResult, error)
	PrintReagentAliquotLabels(ctx context.Context, req models.ReagentAliquotRequest) (*models.PrintResult, error)
	PrintSourcePlateLabels(ctx context.Context, csvText, printer string) (*models.PrintResult, error)
}

type printServiceImpl struct {
	cfg       Config
	templates *templates.Set
	barcodes  providers.BarcodeIssuer
	gateway   providers.PrintGateway
	publisher events.Publisher
	metrics   *Metrics
	logger    *zap.Logger
}

// NewPrintService creates a new PrintService.
func NewPrintService(
	cfg Config,
	tmpl *templates.Set,
	barcodes providers.BarcodeIssuer,
	gateway providers.PrintGateway,
	publisher events.Publisher,
	metrics *Metrics,
	logger *zap.Logger,
) PrintService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if metrics == nil {
		metrics = NewMetrics(prometheus.NewRegistry(), nil)
	}
	return &printServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		barcodes:  barcodes,
		gateway:   gateway,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// PrintLabels prints one general label per label field.
func (s *printServiceImpl) PrintLabels(ctx context.Context, labelFields []models.LabelField, printer string) (*models.PrintResult, error) {
	return s.printGeneral(ctx, WorkflowLabels, labelFields, printer)
}

// PrintDestinationPlateLabels issues numberOfBarcodes new barcodes from the
// configured group and prints them with the project acronym. A failure to
// issue barcodes is returned as is and nothing is printed.
func (s *printServiceImpl) PrintDestinationPlateLabels(ctx context.Context, numberOfBarcodes int, printer string) (*models.PrintResult, error) {
	if numberOfBarcodes < 1 {
		return nil, s.fail(ctx, WorkflowDestinationPlates, models.LabelTypeGeneral, printer, 0,
			apperrors.Validation("Number of barcodes should be at least 1."))
	}

	group, err := s.barcodes.CreateBarcodes(ctx, s.cfg.BarcodeGroup, numberOfBarcodes)
	if err != nil {
		return nil, s.fail(ctx, WorkflowDestinationPlates, models.LabelTypeGeneral, printer, numberOfBarcodes, err)
	}

	labelFields := CreateLabelFields(group.Barcodes, s.cfg.ProjectAcronym)
	return s.printGeneral(ctx, WorkflowDestinationPlates, labelFields, printer)
}

// PrintControlPlateLabels prints numberOfBarcodes copies of a control label.
func (s *printServiceImpl) PrintControlPlateLabels(ctx context.Context, barcode string, numberOfBarcodes int, printer string) (*models.PrintResult, error) {
	if numberOfBarcodes < 1 {
		return nil, s.fail(ctx, WorkflowControlPlates, models.LabelTypeGeneral, printer, 0,
			apperrors.Validation("Number of barcodes should be at least 1."))
	}
	return s.printGeneral(ctx, WorkflowControlPlates, MultiplyBarcode(barcode, numberOfBarcodes), printer)
}

func (s *printServiceImpl) PrintAdHocPlateLabel(ctx context.Context, barcode, text, printer string) (*models.PrintResult, error) {
	labelFields := []models.LabelField{{Barcode: barcode, Text: text}}
	return s.printGeneral(ctx, WorkflowAdHocPlate, labelFields, printer)
}

// PrintReagentAliquotLabels prints req.Quantity identical reagent aliquot
// labels. An invalid quantity fails before the gateway is contacted.
func (s *printServiceImpl) PrintReagentAliquotLabels(ctx context.Context, req models.ReagentAliquotRequest) (*models.PrintResult, error) {
	quantity, err := ParseQuantity(string(req.Quantity))
	if err != nil {
		return nil, s.fail(ctx, WorkflowReagentAliquots, models.LabelTypeReagentAliquot, req.Printer, 0, err)
	}

	body := CreateReagentAliquotRequestBody(s.templates.ReagentAliquot, req.ReagentAliquotFields, req.Printer, quantity)
	return s.submit(ctx, WorkflowReagentAliquots, models.LabelTypeReagentAliquot, body)
}

// PrintSourcePlateLabels prints one label per row of a barcode CSV.
func (s *printServiceImpl) PrintSourcePlateLabels(ctx context.Context, csvText, printer string) (*models.PrintResult, error) {
	records, err := csvimport.Parse(csvText)
	if err != nil {
		return nil, s.fail(ctx, WorkflowSourcePlates, models.LabelTypeGeneral, printer, 0, err)
	}

	labelFields, err := LabelFieldsFromRecords(records, s.cfg.ProjectAcronym)
	if err != nil {
		return nil, s.fail(ctx, WorkflowSourcePlates, models.LabelTypeGeneral, printer, len(records), err)
	}
	return s.printGeneral(ctx, WorkflowSourcePlates, labelFields, printer)
}

func (s *printServiceImpl) printGeneral(ctx context.Context, workflow string, labelFields []models.LabelField, printer string) (*models.PrintResult, error) {
	body := CreatePrintRequestBody(s.templates.General, labelFields, printer)
	return s.submit(ctx, workflow, models.LabelTypeGeneral, body)
}

// submit sends body to the print gateway once and reports the outcome.
func (s *printServiceImpl) submit(ctx context.Context, workflow, labelType string, body models.PrintRequestBody) (*models.PrintResult, error) {
	printer := body.Variables.Printer
	count := len(body.Variables.PrintRequest.Layouts)

	jobID, err := s.gateway.Print(ctx, body)
	if err != nil {
		return nil, s.fail(ctx, workflow, labelType, printer, count, err)
	}

	result := &models.PrintResult{
		Message:    SuccessMessage(count, printer),
		Printer:    printer,
		LabelCount: count,
		JobID:      jobID,
	}

	logger.With(ctx, s.logger).Info("Labels printed",
		zap.String("workflow", workflow),
		zap.String("printer", printer),
		zap.Int("label_count", count),
		zap.String("job_id", jobID))

	if err := s.metrics.printed(ctx, workflow, printer, count); err != nil {
		s.logger.Warn("Failed to record print metric", zap.Error(err))
	}
	s.publishEvent(ctx, models.PrintEvent{
		EventType:  models.EventLabelsPrinted,
		Workflow:   workflow,
		Printer:    printer,
		LabelType:  labelType,
		LabelCount: count,
		JobID:      jobID,
		Message:    result.Message,
	})

	return result, nil
}

// fail records a failed attempt and returns err unchanged.
func (s *printServiceImpl) fail(ctx context.Context, workflow, labelType, printer string, count int, err error) error {
	kind := apperrors.KindOf(err)

	logger.With(ctx, s.logger).Warn("Print failed",
		zap.String("workflow", workflow),
		zap.String("printer", printer),
		zap.String("kind", string(kind)),
		zap.Error(err))

	if mErr := s.metrics.failed(ctx, workflow, string(kind)); mErr != nil {
		s.logger.Warn("Failed to record print metric", zap.Error(mErr))
	}
	s.publishEvent(ctx, models.PrintEvent{
		EventType:  models.EventPrintFailed,
		Workflow:   workflow,
		Printer:    printer,
		LabelType:  labelType,
		LabelCount: count,
		Error:      err.Error(),
	})

	return err
}

// publishEvent publishes an event, logging rather than returning failures.
// The request context's cancellation is ignored so a client disconnect does
// not drop the event.
func (s *printServiceImpl) publishEvent(ctx context.Context, event models.PrintEvent) {
	event.ID = uuid.NewString()
	event.RequestID = logger.RequestIDFrom(ctx)
	event.Timestamp = time.Now().UTC()

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, event); err != nil {
		s.logger.Error("Failed to publish print event",
			zap.String("event_type", event.EventType),
			zap.String("workflow", event.Workflow),
			zap.Error(err))
	}
}
