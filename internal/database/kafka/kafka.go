package kafka

import (
	"context"
	"fmt"

	"docuchat/internal/config"

	"github.com/segmentio/kafka-go"
)

// AnalyticsTopic carries the fire-and-forget usage, latency and error events
// published by every service and drained by the analytics consumer.
const AnalyticsTopic = "analytics_events"

// Client holds the broker configuration shared by writers and readers.
type Client struct {
	Config *config.KafkaConfig
}

// NewClient validates the broker configuration and returns a Client.
func NewClient(cfg *config.KafkaConfig) (*Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}
	return &Client{Config: cfg}, nil
}

// HealthCheck dials the first broker to verify connectivity.
func (c *Client) HealthCheck(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", c.Config.Brokers[0])
	if err != nil {
		return fmt.Errorf("cannot reach kafka broker: %w", err)
	}
	return conn.Close()
}
