package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"labelprint-service/controllers"
)

// RegisterSystemRoutes sets up health and metrics endpoints.
func RegisterSystemRoutes(r *gin.Engine, gatherer prometheus.Gatherer) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "labelprint-service"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

// RegisterPrintRoutes sets up the printer catalogue, CSV validation and print
// endpoints. printMiddleware runs only on the print endpoints.
func RegisterPrintRoutes(r *gin.Engine, pc *controllers.PrintController, printMiddleware ...gin.HandlerFunc) {
	api := r.Group("/api")
	api.GET("/printers", pc.ListPrinters)
	api.POST("/csv/validate", pc.ValidateCSV)

	printing := api.Group("/print")
	printing.Use(printMiddleware...)

	printing.POST("/labels", pc.PrintLabels)
	printing.POST("/destination-plates", pc.PrintDestinationPlates)
	printing.POST("/control-plates", pc.PrintControlPlates)
	printing.POST("/ad-hoc-plate", pc.PrintAdHocPlate)
	printing.POST("/reagent-aliquots", pc.PrintReagentAliquots)
	printing.POST("/source-plates", pc.PrintSourcePlates)
}
