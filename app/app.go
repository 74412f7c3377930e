// Package app wires the print pipeline from a loaded configuration. It is
// shared by the HTTP server and the labelctl command.
package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"labelprint-service/config"
	"labelprint-service/events"
	awspkg "labelprint-service/pkg/aws"
	"labelprint-service/providers"
	"labelprint-service/services"
	"labelprint-service/templates"
)

// Pipeline holds the print service and the resources it owns.
type Pipeline struct {
	Service    services.PrintService
	Metrics    *services.Metrics
	CloudWatch *awspkg.MetricsClient
	publisher  events.Publisher
}

// Close releases the event publisher.
func (p *Pipeline) Close() error {
	return p.publisher.Close()
}

// NewPipeline builds the print service described by cfg. AWS clients are
// only created when a feature needs them; an unavailable AWS config disables
// those features with a warning.
func NewPipeline(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, log *zap.Logger) (*Pipeline, error) {
	tmpl, err := templates.LoadSet(cfg.TemplateDir)
	if err != nil {
		return nil, err
	}

	cloudwatch := awspkg.NewDisabledMetricsClient()
	var sns awspkg.SNSPublisher
	if cfg.CloudWatchEnabled || cfg.EventsSNSTopicARN != "" {
		awsCfg, err := awspkg.LoadAWSConfig(ctx)
		if err != nil {
			log.Warn("AWS config unavailable, SNS events and CloudWatch metrics disabled", zap.Error(err))
		} else {
			if cfg.CloudWatchEnabled {
				cloudwatch = awspkg.NewMetricsClient(awsCfg, cfg.CloudWatchNamespace, true)
			}
			if cfg.EventsSNSTopicARN != "" {
				sns = awspkg.NewSNSClient(awsCfg)
			}
		}
	}

	publisher := NewPublisher(cfg, sns, log)
	metrics := services.NewMetrics(reg, cloudwatch)

	svc := services.NewPrintService(
		cfg.Print,
		tmpl,
		providers.NewBaracodaProvider(cfg.Baracoda, log),
		providers.NewSprintProvider(cfg.Sprint, log),
		publisher,
		metrics,
		log,
	)

	return &Pipeline{
		Service:    svc,
		Metrics:    metrics,
		CloudWatch: cloudwatch,
		publisher:  publisher,
	}, nil
}

// NewPublisher picks the event sink: SNS when a topic ARN and client are
// available, then Kafka when brokers are configured, otherwise none.
func NewPublisher(cfg *config.Config, sns awspkg.SNSPublisher, log *zap.Logger) events.Publisher {
	switch {
	case cfg.EventsSNSTopicARN != "" && sns != nil:
		log.Info("Publishing print events to SNS", zap.String("topic_arn", cfg.EventsSNSTopicARN))
		return events.NewSNSPublisher(sns, cfg.EventsSNSTopicARN, log)
	case len(cfg.KafkaBrokers) > 0:
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventsTopic, log)
	default:
		log.Info("No print event sink configured")
		return events.NopPublisher{}
	}
}
