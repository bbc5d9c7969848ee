package main

import (
	"docuchat/internal/analytics_service/publisher"
	"docuchat/internal/database/kafka"
	"docuchat/pkg/logger"
)

// newKafkaRecorder builds the analytics publisher on the shared broker
// configuration.
func newKafkaRecorder(client *kafka.Client, log *logger.Logger) *publisher.KafkaPublisher {
	return publisher.NewKafkaPublisher(client.Config.Brokers, kafka.AnalyticsTopic, log)
}
