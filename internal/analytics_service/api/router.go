package api

import (
	authapi "docuchat/internal/auth_service/api"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires the read-only analytics endpoints onto a Gin engine. All
// routes require a valid access token.
func SetupRouter(h *Handler, jwtSecret string) *gin.Engine {
	r := gin.Default()

	apiV1 := r.Group("/api/v1")
	{
		analytics := apiV1.Group("/analytics")
		analytics.Use(authapi.AuthMiddleware(jwtSecret))
		{
			analytics.GET("/users/:user_id/total-messages", h.TotalMessages)
			analytics.GET("/users/:user_id/messages-per-day", h.MessagesPerDay)
			analytics.GET("/users/:user_id/recent-activity", h.RecentActivity)
			analytics.GET("/users/:user_id/summary", h.UserSummary)
			analytics.GET("/performance/response-times", h.AverageResponseTimes)
			analytics.GET("/errors", h.ErrorLogs)
		}
	}

	return r
}
