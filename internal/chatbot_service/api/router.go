package api

import (
	analytics "docuchat/internal/analytics_service/service"
	"docuchat/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires the chatbot endpoints onto a Gin engine. Every route
// reports usage, latency and errors through the analytics recorder.
func SetupRouter(h *Handler, recorder analytics.Recorder, log *logger.Logger) *gin.Engine {
	r := gin.Default()

	apiV1 := r.Group("/api/v1")
	apiV1.Use(Analytics(recorder, log))
	{
		apiV1.POST("/ingest", h.Ingest)
		apiV1.POST("/build-index", h.BuildIndex)
		apiV1.POST("/ask", h.Ask)
		apiV1.POST("/clear-memory", h.ClearMemory)
		apiV1.GET("/sessions/:session_id/chats", h.SessionChats)
	}

	return r
}
