package main

import (
	"log"
	"time"

	"docuchat/internal/auth_service/api"
	"docuchat/internal/auth_service/service"
	"docuchat/internal/auth_service/store"
	"docuchat/internal/config"
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
	appLogger := logger.New("auth_service", "", "")
	appLogger.Info("Logger initialized")

	db, err := mysql.GetDB(&cfg.Databases.MySQL)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Database connection established")

	if err := db.AutoMigrate(&models.User{}); err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Database migration completed")

	userStore := store.NewStore(db)
	authService := service.NewService(
		userStore,
		cfg.Auth.JwtSecret,
		time.Duration(cfg.Auth.TokenTTL)*time.Second,
		appLogger,
	)
	apiHandler := api.NewHandler(authService)
	appLogger.Info("Dependencies injected")

	router := api.SetupRouter(apiHandler)
	appLogger.Info("Router setup completed")

	address := cfg.Server.AuthAddress
	if address == "" {
		address = ":8001"
	}
	appLogger.Info("Starting auth service on " + address)
	if err := router.Run(address); err != nil {
		appLogger.Fatal(err.Error())
	}
}
