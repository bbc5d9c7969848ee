package main

import (
	"context"
	"log"
	"time"

	analyticsservice "docuchat/internal/analytics_service/service"
	analyticsstore "docuchat/internal/analytics_service/store"
	"docuchat/internal/chatbot_service/api"
	"docuchat/internal/chatbot_service/rag/memory"
	"docuchat/internal/chatbot_service/rag/pipeline"
	"docuchat/internal/chatbot_service/rag/splitters"
	"docuchat/internal/chatbot_service/rag/storages/vectorstore"
	"docuchat/internal/chatbot_service/service"
	"docuchat/internal/chatbot_service/store"
	"docuchat/internal/config"
	"docuchat/internal/database/kafka"
	"docuchat/internal/database/mysql"
	"docuchat/internal/database/redis"
	"docuchat/internal/embedding"
	"docuchat/internal/llm"
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
	appLogger := logger.New("chatbot_service", "", "")
	appLogger.Info("Logger initialized")

	db, err := mysql.GetDB(&cfg.Databases.MySQL)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Database connection established")

	if err := db.AutoMigrate(&models.ChatSession{}, &models.ChatHistory{}, &models.Document{}); err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Database migration completed")

	vectors, err := vectorstore.NewStore(cfg.RAG.SnapshotDir)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	embedder, err := embedding.NewModel(cfg.Embedding)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	ctx := context.Background()
	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	var conversationMemory memory.ConversationMemory
	if cfg.RAG.MemoryBackend == "redis" {
		redisClient, err := redis.GetClient(&cfg.Databases.Redis)
		if err != nil {
			appLogger.Fatal(err.Error())
		}
		conversationMemory = memory.NewRedis(redisClient)
		appLogger.Info("Using Redis conversation memory")
	} else {
		conversationMemory = memory.NewInMemory()
		appLogger.Info("Using in-process conversation memory")
	}

	splitter := splitters.NewCharSplitter(cfg.RAG.ChunkSize)
	indexing := pipeline.NewIndexingPipeline(splitter, embedder, vectors, appLogger)
	qa := pipeline.NewQAPipeline(
		vectors,
		embedder,
		llmClient,
		cfg.RAG.TopK,
		time.Duration(cfg.LLM.Timeout)*time.Second,
		cfg.LLM.MaxRetries,
		appLogger,
	)

	chatStore := store.NewStore(db)
	chatService := service.NewService(chatStore, vectors, indexing, qa, conversationMemory, cfg.RAG.MaxCrawlPages, appLogger)

	// Analytics events go to Kafka when brokers are configured, otherwise
	// straight into the analytics tables.
	var recorder analyticsservice.Recorder
	if kafkaClient, err := kafka.NewClient(&cfg.Databases.Kafka); err == nil {
		recorder = newKafkaRecorder(kafkaClient, appLogger)
		appLogger.Info("Publishing analytics events to Kafka")
	} else {
		recorder = analyticsservice.NewService(analyticsstore.NewStore(db), appLogger)
		appLogger.Info("Recording analytics events directly")
	}

	apiHandler := api.NewHandler(chatService)
	router := api.SetupRouter(apiHandler, recorder, appLogger)
	appLogger.Info("Router setup completed")

	address := cfg.Server.ChatbotAddress
	if address == "" {
		address = ":8000"
	}
	appLogger.Info("Starting chatbot service on " + address)
	if err := router.Run(address); err != nil {
		appLogger.Fatal(err.Error())
	}
}
