package events

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"labelprint-service/models"
	awspkg "labelprint-service/pkg/aws"
)

// Publisher delivers print events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event models.PrintEvent) error
	Close() error
}

// NopPublisher drops every event. It is used when no topic is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.PrintEvent) error { return nil }
func (NopPublisher) Close() error                                   { return nil }

// SNSPublisher publishes events as JSON to an SNS topic.
type SNSPublisher struct {
	client   awspkg.SNSPublisher
	topicArn string
	logger   *zap.Logger
}

func NewSNSPublisher(client awspkg.SNSPublisher, topicArn string, logger *zap.Logger) *SNSPublisher {
	return &SNSPublisher{client: client, topicArn: topicArn, logger: logger}
}

func (p *SNSPublisher) Publish(ctx context.Context, event models.PrintEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal print event: %w", err)
	}

	attrs := map[string]string{"event_type": event.EventType, "workflow": event.Workflow}
	if err := p.client.Publish(ctx, p.topicArn, payload, attrs); err != nil {
		return err
	}

	p.logger.Debug("Print event published to SNS",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.EventType))
	return nil
}

func (p *SNSPublisher) Close() error { return nil }
