package models

import "time"

// UsageStat records one call to an endpoint.
type UsageStat struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index" json:"user_id"`
	Username    string    `gorm:"size:50" json:"username"`
	Endpoint    string    `gorm:"size:100" json:"endpoint"`
	RequestType string    `gorm:"size:20" json:"request_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (UsageStat) TableName() string {
	return "usage_stats"
}

// PerformanceMetric records the observed latency of one request.
type PerformanceMetric struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Endpoint     string    `gorm:"size:100" json:"endpoint"`
	ResponseTime float64   `json:"response_time"` // seconds
	UserID       uint      `gorm:"index" json:"user_id"`
	Username     string    `gorm:"size:50" json:"username"`
	Timestamp    time.Time `json:"timestamp"`
}

func (PerformanceMetric) TableName() string {
	return "performance_metrics"
}

// ErrorLog records a request that failed.
type ErrorLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Endpoint     string    `gorm:"size:100" json:"endpoint"`
	UserID       uint      `gorm:"index" json:"user_id"`
	Username     string    `gorm:"size:50" json:"username"`
	ErrorMessage string    `gorm:"type:text" json:"error_message"`
	Timestamp    time.Time `json:"timestamp"`
}

func (ErrorLog) TableName() string {
	return "error_logs"
}

// Log event kinds carried on the analytics stream.
const (
	LogEventUsage       = "usage"
	LogEventPerformance = "performance"
	LogEventError       = "error"
)

// LogEvent is the wire format for fire-and-forget analytics records published
// to Kafka and drained into the relational tables by the analytics consumer.
type LogEvent struct {
	Kind         string    `json:"kind"`
	UserID       uint      `json:"user_id"`
	Username     string    `json:"username"`
	Endpoint     string    `json:"endpoint"`
	RequestType  string    `json:"request_type,omitempty"`
	ResponseTime float64   `json:"response_time,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
