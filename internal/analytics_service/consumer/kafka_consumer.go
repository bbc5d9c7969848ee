package consumer

import (
	"context"
	"encoding/json"

	"docuchat/internal/analytics_service/service"
	"docuchat/internal/models"
	"docuchat/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// EventConsumer drains analytics events from Kafka into the relational
// analytics tables.
type EventConsumer struct {
	reader  *kafka.Reader
	service *service.Service
	log     *logger.Logger
}

// NewEventConsumer creates a consumer for the given brokers, topic and group.
func NewEventConsumer(brokers []string, topic, groupID string, svc *service.Service, log *logger.Logger) *EventConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &EventConsumer{reader: reader, service: svc, log: log}
}

// Start consumes events until the context is cancelled. Malformed messages
// are logged and committed so they do not wedge the partition.
func (c *EventConsumer) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				c.log.Info("Stopping analytics event consumer")
				return
			default:
				msg, err := c.reader.FetchMessage(ctx)
				if err != nil {
					if ctx.Err() == nil {
						c.log.WithField("error", err.Error()).Error("Failed to fetch analytics event")
					}
					continue
				}

				var event models.LogEvent
				if err := json.Unmarshal(msg.Value, &event); err != nil {
					c.log.WithField("error", err.Error()).Error("Discarding malformed analytics event")
				} else if err := c.service.Record(ctx, event); err != nil {
					c.log.WithField("error", err.Error()).Error("Failed to store analytics event")
				}

				if err := c.reader.CommitMessages(ctx, msg); err != nil {
					c.log.WithField("error", err.Error()).Error("Failed to commit analytics event")
				}
			}
		}
	}()
}

// Close closes the underlying Kafka reader.
func (c *EventConsumer) Close() error {
	return c.reader.Close()
}
