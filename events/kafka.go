package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"labelprint-service/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic, keyed by printer so events
// for one printer stay ordered.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	logger.Info("Kafka print event producer initialized",
		zap.String("topic", topic),
		zap.Strings("brokers", brokers))
	return &KafkaPublisher{writer: w, topic: topic, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event models.PrintEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal print event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Printer),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write to %s failed: %w", p.topic, err)
	}

	p.logger.Debug("Print event sent to Kafka",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.EventType))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
