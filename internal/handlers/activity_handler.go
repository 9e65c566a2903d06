package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/models"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/services"
)

// ActivityHandler serves back-office activity log queries
type ActivityHandler struct {
	service *services.ActivityService
	logger  *logrus.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(service *services.ActivityService, logger *logrus.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger,
	}
}

// ListActivity lists activity log entries with filtering and pagination
// GET /api/v1/admin/activity
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	filter := &models.ActivityLogFilter{
		Action:       c.Query("action"),
		ResourceType: c.Query("resource_type"),
		ResourceID:   c.Query("resource_id"),
	}

	if adminIDStr := c.Query("admin_user_id"); adminIDStr != "" {
		adminID, err := uuid.Parse(adminIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid admin_user_id"})
			return
		}
		filter.AdminUserID = &adminID
	}

	if fromStr := c.Query("from_date"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from_date, expected RFC3339"})
			return
		}
		filter.FromDate = &from
	}
	if toStr := c.Query("to_date"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to_date, expected RFC3339"})
			return
		}
		filter.ToDate = &to
	}

	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, total, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list activity logs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list activity logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}
