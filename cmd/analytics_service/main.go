package main

import (
	"context"
	"log"

	"docuchat/internal/analytics_service/api"
	"docuchat/internal/analytics_service/consumer"
	"docuchat/internal/analytics_service/service"
	"docuchat/internal/analytics_service/store"
	"docuchat/internal/config"
	"docuchat/internal/database/kafka"
	"docuchat/internal/database/mysql"
	"docuchat/internal/models"
	"docuchat/pkg/logger"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Init(level)
	appLogger := logger.New("analytics_service", "", "")
	appLogger.Info("Logger initialized")

	db, err := mysql.GetDB(&cfg.Databases.MySQL)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Database connection established")

	if err := db.AutoMigrate(&models.UsageStat{}, &models.PerformanceMetric{}, &models.ErrorLog{}); err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Database migration completed")

	analyticsStore := store.NewStore(db)
	analyticsService := service.NewService(analyticsStore, appLogger)
	apiHandler := api.NewHandler(analyticsService)
	appLogger.Info("Dependencies injected")

	// Drain the event stream into the analytics tables when Kafka is
	// configured; without brokers the producers write directly.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if _, err := kafka.NewClient(&cfg.Databases.Kafka); err == nil {
		eventConsumer := consumer.NewEventConsumer(
			cfg.Databases.Kafka.Brokers,
			kafka.AnalyticsTopic,
			cfg.Databases.Kafka.GroupID,
			analyticsService,
			appLogger,
		)
		eventConsumer.Start(ctx)
		defer eventConsumer.Close()
		appLogger.Info("Analytics event consumer started")
	}

	router := api.SetupRouter(apiHandler, cfg.Auth.JwtSecret)
	appLogger.Info("Router setup completed")

	address := cfg.Server.AnalyticsAddress
	if address == "" {
		address = ":8002"
	}
	appLogger.Info("Starting analytics service on " + address)
	if err := router.Run(address); err != nil {
		appLogger.Fatal(err.Error())
	}
}
