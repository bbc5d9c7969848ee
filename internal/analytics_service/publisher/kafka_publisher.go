package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"docuchat/internal/analytics_service/service"
	"docuchat/internal/models"
	"docuchat/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher sends analytics events to the event stream instead of
// writing to the database directly, keeping producers decoupled from the
// analytics store.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

// NewKafkaPublisher creates a publisher for the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &KafkaPublisher{writer: writer, log: log}
}

// Record publishes one event, keyed by user so one user's events stay ordered
// within a partition.
func (p *KafkaPublisher) Record(ctx context.Context, event models.LogEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal log event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", event.UserID)),
		Value: msgBytes,
	})
	if err != nil {
		p.log.WithField("error", err.Error()).Error("Failed to publish analytics event")
		return err
	}
	return nil
}

// Close closes the underlying Kafka writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ service.Recorder = (*KafkaPublisher)(nil)
