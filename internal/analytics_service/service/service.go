package service

import (
	"context"
	"fmt"
	"time"

	"docuchat/internal/analytics_service/store"
	"docuchat/internal/models"
	"docuchat/pkg/logger"
)

// Recorder accepts fire-and-forget analytics events. The direct implementation
// writes straight to the relational store; the Kafka publisher implements the
// same interface for deployments that decouple producers from the database.
type Recorder interface {
	Record(ctx context.Context, event models.LogEvent) error
}

// Service records analytics events and serves the read-only aggregates.
type Service struct {
	store *store.Store
	log   *logger.Logger
}

// NewService creates a new Service.
func NewService(s *store.Store, log *logger.Logger) *Service {
	return &Service{store: s, log: log}
}

// Record dispatches one event into the matching analytics table.
func (s *Service) Record(ctx context.Context, event models.LogEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	switch event.Kind {
	case models.LogEventUsage:
		return s.store.InsertUsage(&models.UsageStat{
			UserID:      event.UserID,
			Username:    event.Username,
			Endpoint:    event.Endpoint,
			RequestType: event.RequestType,
			Timestamp:   event.Timestamp,
		})
	case models.LogEventPerformance:
		return s.store.InsertPerformance(&models.PerformanceMetric{
			Endpoint:     event.Endpoint,
			ResponseTime: event.ResponseTime,
			UserID:       event.UserID,
			Username:     event.Username,
			Timestamp:    event.Timestamp,
		})
	case models.LogEventError:
		return s.store.InsertError(&models.ErrorLog{
			Endpoint:     event.Endpoint,
			UserID:       event.UserID,
			Username:     event.Username,
			ErrorMessage: event.ErrorMessage,
			Timestamp:    event.Timestamp,
		})
	default:
		return fmt.Errorf("unknown log event kind %q", event.Kind)
	}
}

// UserSummary aggregates one user's activity.
type UserSummary struct {
	UserID        uint               `json:"user_id"`
	TotalMessages int64              `json:"total_messages"`
	MessagesToday int64              `json:"messages_today"`
	ErrorsLast24h int64              `json:"errors_last_24h"`
	PerDay        []store.DailyCount `json:"messages_per_day"`
}

// TotalMessages returns the user's lifetime chat request count.
func (s *Service) TotalMessages(userID uint) (int64, error) {
	return s.store.CountMessages(userID)
}

// MessagesPerDay returns the user's chat volume per calendar day.
func (s *Service) MessagesPerDay(userID uint) ([]store.DailyCount, error) {
	return s.store.MessagesPerDay(userID)
}

// RecentActivity returns the user's newest usage records.
func (s *Service) RecentActivity(userID uint, limit int) ([]models.UsageStat, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.RecentActivity(userID, limit)
}

// AverageResponseTimes returns the mean latency per endpoint.
func (s *Service) AverageResponseTimes() ([]store.EndpointLatency, error) {
	return s.store.AverageResponseTimes()
}

// ErrorLogs returns the newest failed requests.
func (s *Service) ErrorLogs(limit int) ([]models.ErrorLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.ListErrors(limit)
}

// SummaryForUser assembles the per-user activity summary.
func (s *Service) SummaryForUser(userID uint) (*UserSummary, error) {
	total, err := s.store.CountMessages(userID)
	if err != nil {
		return nil, err
	}

	perDay, err := s.store.MessagesPerDay(userID)
	if err != nil {
		return nil, err
	}

	var today int64
	if len(perDay) > 0 {
		if perDay[len(perDay)-1].Day == time.Now().UTC().Format("2006-01-02") {
			today = perDay[len(perDay)-1].Count
		}
	}

	errors24h, err := s.store.CountErrorsSince(userID, time.Now().Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}

	return &UserSummary{
		UserID:        userID,
		TotalMessages: total,
		MessagesToday: today,
		ErrorsLast24h: errors24h,
		PerDay:        perDay,
	}, nil
}

var _ Recorder = (*Service)(nil)
