package store

import (
	"time"

	"docuchat/internal/models"

	"gorm.io/gorm"
)

// Store wraps the relational database handle for analytics records.
type Store struct {
	DB *gorm.DB
}

// NewStore creates a new Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// InsertUsage records one endpoint call.
func (s *Store) InsertUsage(stat *models.UsageStat) error {
	return s.DB.Create(stat).Error
}

// InsertPerformance records one latency observation.
func (s *Store) InsertPerformance(metric *models.PerformanceMetric) error {
	return s.DB.Create(metric).Error
}

// InsertError records one failed request.
func (s *Store) InsertError(entry *models.ErrorLog) error {
	return s.DB.Create(entry).Error
}

// CountMessages returns how many chat requests the user has made.
func (s *Store) CountMessages(userID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.UsageStat{}).
		Where("user_id = ? AND request_type = ?", userID, "chat").
		Count(&count).Error
	return count, err
}

// DailyCount is one day's message volume for a user.
type DailyCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// MessagesPerDay returns the user's chat volume grouped by calendar day,
// oldest first.
func (s *Store) MessagesPerDay(userID uint) ([]DailyCount, error) {
	var rows []DailyCount
	err := s.DB.Model(&models.UsageStat{}).
		Select("DATE(timestamp) as day, COUNT(*) as count").
		Where("user_id = ? AND request_type = ?", userID, "chat").
		Group("DATE(timestamp)").
		Order("day asc").
		Scan(&rows).Error
	return rows, err
}

// RecentActivity returns the user's newest usage records, most recent first.
func (s *Store) RecentActivity(userID uint, limit int) ([]models.UsageStat, error) {
	var stats []models.UsageStat
	err := s.DB.Where("user_id = ?", userID).
		Order("timestamp desc").
		Limit(limit).
		Find(&stats).Error
	return stats, err
}

// EndpointLatency is the average observed latency for one endpoint.
type EndpointLatency struct {
	Endpoint        string  `json:"endpoint"`
	AvgResponseTime float64 `json:"avg_response_time"`
	Samples         int64   `json:"samples"`
}

// AverageResponseTimes returns the mean latency per endpoint.
func (s *Store) AverageResponseTimes() ([]EndpointLatency, error) {
	var rows []EndpointLatency
	err := s.DB.Model(&models.PerformanceMetric{}).
		Select("endpoint, AVG(response_time) as avg_response_time, COUNT(*) as samples").
		Group("endpoint").
		Order("endpoint asc").
		Scan(&rows).Error
	return rows, err
}

// ListErrors returns the newest error logs, most recent first.
func (s *Store) ListErrors(limit int) ([]models.ErrorLog, error) {
	var logs []models.ErrorLog
	err := s.DB.Order("timestamp desc").Limit(limit).Find(&logs).Error
	return logs, err
}

// CountErrorsSince returns how many errors the user hit after the cutoff.
func (s *Store) CountErrorsSince(userID uint, since time.Time) (int64, error) {
	var count int64
	err := s.DB.Model(&models.ErrorLog{}).
		Where("user_id = ? AND timestamp >= ?", userID, since).
		Count(&count).Error
	return count, err
}
