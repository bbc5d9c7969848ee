package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"docuchat/internal/analytics_service/store"
	"docuchat/internal/models"
	"docuchat/pkg/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.UsageStat{}, &models.PerformanceMetric{}, &models.ErrorLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewService(store.NewStore(db), logger.New("test", "", ""))
}

func record(t *testing.T, svc *Service, event models.LogEvent) {
	t.Helper()
	if err := svc.Record(context.Background(), event); err != nil {
		t.Fatalf("Record: %v", err)
	}
}

func TestRecordDispatchesByKind(t *testing.T) {
	svc := newTestService(t)

	record(t, svc, models.LogEvent{Kind: models.LogEventUsage, UserID: 1, Username: "alice", Endpoint: "/ask", RequestType: "chat"})
	record(t, svc, models.LogEvent{Kind: models.LogEventPerformance, UserID: 1, Endpoint: "/ask", ResponseTime: 0.42})
	record(t, svc, models.LogEvent{Kind: models.LogEventError, UserID: 1, Endpoint: "/ask", ErrorMessage: "boom"})

	total, err := svc.TotalMessages(1)
	if err != nil {
		t.Fatalf("TotalMessages: %v", err)
	}
	if total != 1 {
		t.Fatalf("total = %d, expected 1", total)
	}

	rows, err := svc.AverageResponseTimes()
	if err != nil {
		t.Fatalf("AverageResponseTimes: %v", err)
	}
	if len(rows) != 1 || rows[0].Endpoint != "/ask" || rows[0].Samples != 1 {
		t.Fatalf("unexpected latency rows: %+v", rows)
	}

	logs, err := svc.ErrorLogs(10)
	if err != nil {
		t.Fatalf("ErrorLogs: %v", err)
	}
	if len(logs) != 1 || logs[0].ErrorMessage != "boom" {
		t.Fatalf("unexpected error logs: %+v", logs)
	}
}

func TestRecordRejectsUnknownKind(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Record(context.Background(), models.LogEvent{Kind: "bogus"}); err == nil {
		t.Fatal("expected error for unknown event kind")
	}
}

func TestTotalMessagesCountsOnlyChatRequests(t *testing.T) {
	svc := newTestService(t)

	record(t, svc, models.LogEvent{Kind: models.LogEventUsage, UserID: 7, Endpoint: "/ask", RequestType: "chat"})
	record(t, svc, models.LogEvent{Kind: models.LogEventUsage, UserID: 7, Endpoint: "/ask", RequestType: "chat"})
	record(t, svc, models.LogEvent{Kind: models.LogEventUsage, UserID: 7, Endpoint: "/ingest", RequestType: "upload"})
	record(t, svc, models.LogEvent{Kind: models.LogEventUsage, UserID: 8, Endpoint: "/ask", RequestType: "chat"})

	total, err := svc.TotalMessages(7)
	if err != nil {
		t.Fatalf("TotalMessages: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, expected 2", total)
	}
}

func TestAverageResponseTimes(t *testing.T) {
	svc := newTestService(t)

	record(t, svc, models.LogEvent{Kind: models.LogEventPerformance, Endpoint: "/ask", ResponseTime: 1.0})
	record(t, svc, models.LogEvent{Kind: models.LogEventPerformance, Endpoint: "/ask", ResponseTime: 3.0})

	rows, err := svc.AverageResponseTimes()
	if err != nil {
		t.Fatalf("AverageResponseTimes: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 endpoint, got %d", len(rows))
	}
	if rows[0].AvgResponseTime < 1.99 || rows[0].AvgResponseTime > 2.01 {
		t.Fatalf("avg = %f, expected 2.0", rows[0].AvgResponseTime)
	}
	if rows[0].Samples != 2 {
		t.Fatalf("samples = %d, expected 2", rows[0].Samples)
	}
}

func TestRecentActivityNewestFirst(t *testing.T) {
	svc := newTestService(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		record(t, svc, models.LogEvent{
			Kind:        models.LogEventUsage,
			UserID:      5,
			Endpoint:    fmt.Sprintf("/endpoint-%d", i),
			RequestType: "chat",
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
		})
	}

	stats, err := svc.RecentActivity(5, 2)
	if err != nil {
		t.Fatalf("RecentActivity: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 records, got %d", len(stats))
	}
	if stats[0].Endpoint != "/endpoint-2" {
		t.Fatalf("newest record first expected, got %s", stats[0].Endpoint)
	}
}

func TestSummaryForUser(t *testing.T) {
	svc := newTestService(t)

	now := time.Now().UTC()
	record(t, svc, models.LogEvent{Kind: models.LogEventUsage, UserID: 9, Endpoint: "/ask", RequestType: "chat", Timestamp: now})
	record(t, svc, models.LogEvent{Kind: models.LogEventUsage, UserID: 9, Endpoint: "/ask", RequestType: "chat", Timestamp: now.Add(-48 * time.Hour)})
	record(t, svc, models.LogEvent{Kind: models.LogEventError, UserID: 9, Endpoint: "/ask", ErrorMessage: "x", Timestamp: now})

	summary, err := svc.SummaryForUser(9)
	if err != nil {
		t.Fatalf("SummaryForUser: %v", err)
	}
	if summary.TotalMessages != 2 {
		t.Fatalf("total = %d, expected 2", summary.TotalMessages)
	}
	if summary.MessagesToday != 1 {
		t.Fatalf("today = %d, expected 1", summary.MessagesToday)
	}
	if summary.ErrorsLast24h != 1 {
		t.Fatalf("errors = %d, expected 1", summary.ErrorsLast24h)
	}
	if len(summary.PerDay) != 2 {
		t.Fatalf("per day buckets = %d, expected 2", len(summary.PerDay))
	}
}
