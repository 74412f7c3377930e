package services

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	awspkg "labelprint-service/pkg/aws"
)

// Metrics counts print outcomes in Prometheus and, when enabled, CloudWatch.
type Metrics struct {
	LabelsPrinted *prometheus.CounterVec
	PrintFailures *prometheus.CounterVec
	cloudwatch    *awspkg.MetricsClient
}

func NewMetrics(reg prometheus.Registerer, cloudwatch *awspkg.MetricsClient) *Metrics {
	factory := promauto.With(reg)
	if cloudwatch == nil {
		cloudwatch = awspkg.NewDisabledMetricsClient()
	}
	return &Metrics{
		LabelsPrinted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "labelprint_labels_printed_total",
			Help: "Number of labels successfully submitted to the print gateway.",
		}, []string{"workflow", "printer"}),
		PrintFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "labelprint_print_failures_total",
			Help: "Number of failed print attempts by error kind.",
		}, []string{"workflow", "kind"}),
		cloudwatch: cloudwatch,
	}
}

func (m *Metrics) printed(ctx context.Context, workflow, printer string, n int) error {
	m.LabelsPrinted.WithLabelValues(workflow, printer).Add(float64(n))
	return m.cloudwatch.PutMetric(ctx, awspkg.MetricLabelsPrinted, float64(n), types.StandardUnitCount, map[string]string{
		"Workflow": workflow,
		"Printer":  printer,
	})
}

func (m *Metrics) failed(ctx context.Context, workflow, kind string) error {
	m.PrintFailures.WithLabelValues(workflow, kind).Inc()
	return m.cloudwatch.RecordCount(ctx, awspkg.MetricPrintFailed, map[string]string{
		"Workflow": workflow,
		"Kind":     kind,
	})
}
