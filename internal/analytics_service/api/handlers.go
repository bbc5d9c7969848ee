package api

import (
	"net/http"
	"strconv"

	"docuchat/internal/analytics_service/service"

	"github.com/gin-gonic/gin"
)

// Handler bundles the analytics endpoint handlers.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new Handler.
func NewHandler(s *service.Service) *Handler {
	return &Handler{service: s}
}

func userIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return uint(id), true
}

// TotalMessages returns the user's lifetime chat request count.
func (h *Handler) TotalMessages(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	total, err := h.service.TotalMessages(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "total_messages": total})
}

// MessagesPerDay returns the user's chat volume per calendar day.
func (h *Handler) MessagesPerDay(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	perDay, err := h.service.MessagesPerDay(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "messages_per_day": perDay})
}

// RecentActivity returns the user's newest usage records.
func (h *Handler) RecentActivity(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	stats, err := h.service.RecentActivity(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "recent_activity": stats})
}

// AverageResponseTimes returns the mean latency per endpoint.
func (h *Handler) AverageResponseTimes(c *gin.Context) {
	rows, err := h.service.AverageResponseTimes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"endpoints": rows})
}

// ErrorLogs returns the newest failed requests.
func (h *Handler) ErrorLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	logs, err := h.service.ErrorLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"errors": logs})
}

// UserSummary returns the per-user activity summary.
func (h *Handler) UserSummary(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	summary, err := h.service.SummaryForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
