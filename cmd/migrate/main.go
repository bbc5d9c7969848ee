package main

import (
	"log"

	"docuchat/internal/config"
	"docuchat/internal/database/mysql"
	"docuchat/internal/models"
	"docuchat/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Migrates every table used by the three services in one pass, for
// deployments that prefer a single migration step over per-service
// auto-migration.
func main() {
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger.Init(logrus.InfoLevel)
	appLogger := logger.New("migrate", "", "")

	db, err := mysql.GetDB(&cfg.Databases.MySQL)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.ChatSession{},
		&models.ChatHistory{},
		&models.Document{},
		&models.UsageStat{},
		&models.PerformanceMetric{},
		&models.ErrorLog{},
	)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	appLogger.Info("All tables migrated")
}
