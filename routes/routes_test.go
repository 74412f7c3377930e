package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"labelprint-service/controllers"
	"labelprint-service/models"
	"labelprint-service/routes"
	"labelprint-service/services"
)

func TestRoutesRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	reg := prometheus.NewRegistry()
	metrics := services.NewMetrics(reg, nil)
	metrics.LabelsPrinted.WithLabelValues(services.WorkflowLabels, "a").Add(1)

	var guarded int
	pc := controllers.NewPrintController(nil, []models.Printer{{Name: "a"}}, zap.NewNop())
	routes.RegisterSystemRoutes(r, reg)
	routes.RegisterPrintRoutes(r, pc, func(c *gin.Context) {
		guarded++
		c.AbortWithStatus(http.StatusTeapot)
	})

	want := map[string]bool{
		"GET /health":                        true,
		"GET /metrics":                       true,
		"GET /api/printers":                  true,
		"POST /api/csv/validate":             true,
		"POST /api/print/labels":             true,
		"POST /api/print/destination-plates": true,
		"POST /api/print/control-plates":     true,
		"POST /api/print/ad-hoc-plate":       true,
		"POST /api/print/reagent-aliquots":   true,
		"POST /api/print/source-plates":      true,
	}
	for _, route := range r.Routes() {
		delete(want, route.Method+" "+route.Path)
	}
	assert.Empty(t, want)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/print/labels", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, 1, guarded)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/printers", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, guarded)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "labelprint_labels_printed_total")
}
