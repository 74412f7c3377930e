package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"labelprint-service/apperrors"
	"labelprint-service/controllers"
	"labelprint-service/models"
)

// ---- mock implementing services.PrintService ----

type mockPrintService struct{ mock.Mock }

func (m *mockPrintService) result(args mock.Arguments) (*models.PrintResult, error) {
	if r, ok := args.Get(0).(*models.PrintResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPrintService) PrintLabels(ctx context.Context, labelFields []models.LabelField, printer string) (*models.PrintResult, error) {
	return m.result(m.Called(labelFields, printer))
}
func (m *mockPrintService) PrintDestinationPlateLabels(ctx context.Context, n int, printer string) (*models.PrintResult, error) {
	return m.result(m.Called(n, printer))
}
func (m *mockPrintService) PrintControlPlateLabels(ctx context.Context, barcode string, n int, printer string) (*models.PrintResult, error) {
	return m.result(m.Called(barcode, n, printer))
}
func (m *mockPrintService) PrintAdHocPlateLabel(ctx context.Context, barcode, text, printer string) (*models.PrintResult, error) {
	return m.result(m.Called(barcode, text, printer))
}
func (m *mockPrintService) PrintReagentAliquotLabels(ctx context.Context, req models.ReagentAliquotRequest) (*models.PrintResult, error) {
	return m.result(m.Called(req))
}
func (m *mockPrintService) PrintSourcePlateLabels(ctx context.Context, csvText, printer string) (*models.PrintResult, error) {
	return m.result(m.Called(csvText, printer))
}

// ---- helpers ----

var catalogue = []models.Printer{
	{Name: "heron-bc1", LabelType: models.LabelTypeGeneral},
	{Name: "heron-ra", LabelType: models.LabelTypeReagentAliquot},
}

func setupRouter(svc *mockPrintService, printers []models.Printer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	c := controllers.NewPrintController(svc, printers, zap.NewNop())

	r.GET("/api/printers", c.ListPrinters)
	r.POST("/api/print/labels", c.PrintLabels)
	r.POST("/api/print/destination-plates", c.PrintDestinationPlates)
	r.POST("/api/print/control-plates", c.PrintControlPlates)
	r.POST("/api/print/ad-hoc-plate", c.PrintAdHocPlate)
	r.POST("/api/print/reagent-aliquots", c.PrintReagentAliquots)
	r.POST("/api/print/source-plates", c.PrintSourcePlates)
	r.POST("/api/csv/validate", c.ValidateCSV)
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postFile(t *testing.T, r http.Handler, path, filename, content string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, _ = part.Write([]byte(content))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// ---- tests ----

func TestListPrinters(t *testing.T) {
	r := setupRouter(&mockPrintService{}, catalogue)

	req := httptest.NewRequest(http.MethodGet, "/api/printers?label_type=reagent_aliquot", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	printers := decode(t, w)["printers"].([]interface{})
	require.Len(t, printers, 1)
	assert.Equal(t, "heron-ra", printers[0].(map[string]interface{})["name"])
}

func TestPrintLabels_Success(t *testing.T) {
	svc := &mockPrintService{}
	fields := []models.LabelField{{Barcode: "DN1", Text: "a"}}
	svc.On("PrintLabels", fields, "heron-bc1").
		Return(&models.PrintResult{Message: "Successfully printed 1 label to heron-bc1", LabelCount: 1, JobID: "job-1"}, nil)
	r := setupRouter(svc, catalogue)

	w := postJSON(r, "/api/print/labels", `{"labelFields":[{"barcode":"DN1","text":"a"}],"printer":"heron-bc1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Successfully printed 1 label to heron-bc1", resp["message"])
	assert.Equal(t, "job-1", resp["job_id"])
	svc.AssertExpectations(t)
}

func TestPrintLabels_InvalidBody(t *testing.T) {
	svc := &mockPrintService{}
	r := setupRouter(svc, catalogue)

	w := postJSON(r, "/api/print/labels", `{"labelFields":[],"printer":"heron-bc1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
	svc.AssertNotCalled(t, "PrintLabels", mock.Anything, mock.Anything)
}

func TestPrintLabels_UnknownPrinter(t *testing.T) {
	svc := &mockPrintService{}
	r := setupRouter(svc, catalogue)

	w := postJSON(r, "/api/print/labels", `{"labelFields":[{"barcode":"DN1"}],"printer":"nope"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, `unknown printer "nope"`, decode(t, w)["error"])
}

func TestPrintLabels_WrongLabelType(t *testing.T) {
	r := setupRouter(&mockPrintService{}, catalogue)

	w := postJSON(r, "/api/print/labels", `{"labelFields":[{"barcode":"DN1"}],"printer":"heron-ra"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPrintLabels_AnyPrinterWithoutCatalogue(t *testing.T) {
	svc := &mockPrintService{}
	svc.On("PrintLabels", mock.Anything, "whatever").Return(&models.PrintResult{Message: "ok"}, nil)
	r := setupRouter(svc, nil)

	w := postJSON(r, "/api/print/labels", `{"labelFields":[{"barcode":"DN1"}],"printer":"whatever"}`)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPrintDestinationPlates_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"gateway logic", apperrors.GatewayLogic([]string{"printer offline"}), http.StatusBadGateway},
		{"transport", apperrors.Transport(errors.New("dial tcp: refused")), http.StatusBadGateway},
		{"validation", apperrors.Validation("Number of barcodes should be at least 1."), http.StatusUnprocessableEntity},
		{"untyped", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockPrintService{}
			svc.On("PrintDestinationPlateLabels", 2, "heron-bc1").Return(nil, tt.err)
			r := setupRouter(svc, catalogue)

			w := postJSON(r, "/api/print/destination-plates", `{"numberOfBarcodes":2,"printer":"heron-bc1"}`)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.Equal(t, false, resp["success"])
			assert.Equal(t, tt.err.Error(), resp["error"])
		})
	}
}

func TestPrintControlPlates(t *testing.T) {
	svc := &mockPrintService{}
	svc.On("PrintControlPlateLabels", "CTRL-1", 4, "heron-bc1").
		Return(&models.PrintResult{Message: "Successfully printed 4 labels to heron-bc1", LabelCount: 4}, nil)
	r := setupRouter(svc, catalogue)

	w := postJSON(r, "/api/print/control-plates", `{"barcode":"CTRL-1","numberOfBarcodes":4,"printer":"heron-bc1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestPrintAdHocPlate(t *testing.T) {
	svc := &mockPrintService{}
	svc.On("PrintAdHocPlateLabel", "DN5", "rerun", "heron-bc1").
		Return(&models.PrintResult{Message: "Successfully printed 1 label to heron-bc1", LabelCount: 1}, nil)
	r := setupRouter(svc, catalogue)

	w := postJSON(r, "/api/print/ad-hoc-plate", `{"barcode":"DN5","text":"rerun","printer":"heron-bc1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestPrintReagentAliquots_QuantityForms(t *testing.T) {
	tests := []struct {
		body string
		want models.Quantity
	}{
		{`{"barcode":"RA1","printer":"heron-ra","quantity":5}`, "5"},
		{`{"barcode":"RA1","printer":"heron-ra","quantity":"7"}`, "7"},
		{`{"barcode":"RA1","printer":"heron-ra","quantity":"banana"}`, "banana"},
		{`{"barcode":"RA1","printer":"heron-ra","quantity":5.5}`, "5.5"},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			svc := &mockPrintService{}
			svc.On("PrintReagentAliquotLabels", mock.MatchedBy(func(req models.ReagentAliquotRequest) bool {
				return req.Quantity == tt.want && req.Barcode == "RA1"
			})).Return(nil, apperrors.Validation("Quantity should be between 1 and 100."))
			r := setupRouter(svc, catalogue)

			w := postJSON(r, "/api/print/reagent-aliquots", tt.body)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Equal(t, "Quantity should be between 1 and 100.", decode(t, w)["error"])
			svc.AssertExpectations(t)
		})
	}
}

func TestPrintSourcePlates(t *testing.T) {
	svc := &mockPrintService{}
	csvText := "barcode,text\nDN1,a\nDN2,b\n"
	svc.On("PrintSourcePlateLabels", csvText, "heron-bc1").
		Return(&models.PrintResult{Message: "Successfully printed 2 labels to heron-bc1", LabelCount: 2}, nil)
	r := setupRouter(svc, catalogue)

	w := postFile(t, r, "/api/print/source-plates", "plates.csv", csvText, map[string]string{"printer": "heron-bc1"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Successfully printed 2 labels to heron-bc1", decode(t, w)["message"])
	svc.AssertExpectations(t)
}

func TestPrintSourcePlates_MissingParts(t *testing.T) {
	r := setupRouter(&mockPrintService{}, catalogue)

	w := postFile(t, r, "/api/print/source-plates", "", "", map[string]string{"printer": "heron-bc1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "file is required", decode(t, w)["error"])

	w = postFile(t, r, "/api/print/source-plates", "plates.csv", "barcode\nDN1\n", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postFile(t, r, "/api/print/source-plates", "plates.xlsx", "barcode\nDN1\n", map[string]string{"printer": "heron-bc1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateCSV(t *testing.T) {
	r := setupRouter(&mockPrintService{}, catalogue)

	w := postFile(t, r, "/api/csv/validate", "plates.csv", "barcode,text\nDN1,a\nDN2,b\n", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, float64(2), resp["count"])
	assert.Equal(t, []interface{}{"barcode", "text"}, resp["headers"])
}

func TestValidateCSV_ParsingError(t *testing.T) {
	r := setupRouter(&mockPrintService{}, catalogue)

	w := postFile(t, r, "/api/csv/validate", "plates.csv", "a,b\nx\n", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Line 2 has the wrong number of fields: 1 when there should be 2.", decode(t, w)["error"])
}
