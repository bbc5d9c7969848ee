package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	analytics "docuchat/internal/analytics_service/service"
	"docuchat/internal/models"
	"docuchat/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Context keys the handlers use to expose the caller to the analytics
// middleware.
const (
	callerIDKey   = "caller_id"
	callerNameKey = "caller_name"
)

func setCaller(c *gin.Context, userID uint, username string) {
	c.Set(callerIDKey, userID)
	c.Set(callerNameKey, username)
}

// requestType labels endpoints for the usage statistics.
func requestType(path string) string {
	switch {
	case strings.HasSuffix(path, "/ask"):
		return "chat"
	case strings.HasSuffix(path, "/ingest"):
		return "upload"
	case strings.HasSuffix(path, "/build-index"):
		return "build"
	default:
		return "other"
	}
}

// Analytics returns a middleware that publishes usage, latency and error
// events for every request. Publishing is fire-and-forget on a detached
// context; analytics must never slow down or fail a user request.
func Analytics(recorder analytics.Recorder, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}
		userID := c.GetUint(callerIDKey)
		username := c.GetString(callerNameKey)
		elapsed := time.Since(start).Seconds()
		status := c.Writer.Status()

		var errMsg string
		if status >= 400 {
			errMsg = c.Errors.String()
			if errMsg == "" {
				errMsg = http.StatusText(status)
			}
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			events := []models.LogEvent{
				{
					Kind:        models.LogEventUsage,
					UserID:      userID,
					Username:    username,
					Endpoint:    endpoint,
					RequestType: requestType(endpoint),
				},
				{
					Kind:         models.LogEventPerformance,
					UserID:       userID,
					Username:     username,
					Endpoint:     endpoint,
					ResponseTime: elapsed,
				},
			}
			if errMsg != "" {
				events = append(events, models.LogEvent{
					Kind:         models.LogEventError,
					UserID:       userID,
					Username:     username,
					Endpoint:     endpoint,
					ErrorMessage: errMsg,
				})
			}

			for _, event := range events {
				event.Timestamp = time.Now().UTC()
				if err := recorder.Record(ctx, event); err != nil {
					log.WithField("error", err.Error()).Warn("Failed to record analytics event")
				}
			}
		}()
	}
}
