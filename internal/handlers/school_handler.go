package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/middleware"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/models"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/services"
)

// SchoolHandler handles back-office school provisioning requests
type SchoolHandler struct {
	service *services.SchoolService
	logger  *logrus.Logger
}

// NewSchoolHandler creates a new school handler
func NewSchoolHandler(service *services.SchoolService, logger *logrus.Logger) *SchoolHandler {
	return &SchoolHandler{
		service: service,
		logger:  logger,
	}
}

// CreateSchool provisions a new tenant and school instance
// POST /api/v1/admin/schools
func (h *SchoolHandler) CreateSchool(c *gin.Context) {
	var input services.CreateSchoolInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	instance, err := h.service.CreateSchool(c.Request.Context(), middleware.ActorID(c), input, c.ClientIP())
	if err != nil {
		if errors.Is(err, services.ErrSubdomainTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Failed to create school")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, instance)
}

// GetSchool retrieves a single school instance
// GET /api/v1/admin/schools/:id
func (h *SchoolHandler) GetSchool(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid school ID"})
		return
	}

	instance, err := h.service.GetSchool(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrSchoolNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
			return
		}
		h.logger.WithError(err).WithField("id", id).Error("Failed to get school")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get school"})
		return
	}

	c.JSON(http.StatusOK, instance)
}

// ListSchools lists school instances with optional status filter
// GET /api/v1/admin/schools
func (h *SchoolHandler) ListSchools(c *gin.Context) {
	var status *models.InstanceStatus
	if s := c.Query("status"); s != "" {
		value := models.InstanceStatus(s)
		status = &value
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	instances, total, err := h.service.ListSchools(c.Request.Context(), status, limit, offset)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list schools")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list schools"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"schools": instances,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// UpdateSchool applies partial updates to a school instance
// PATCH /api/v1/admin/schools/:id
func (h *SchoolHandler) UpdateSchool(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid school ID"})
		return
	}

	var input services.UpdateSchoolInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	instance, err := h.service.UpdateSchool(c.Request.Context(), middleware.ActorID(c), id, input, c.ClientIP())
	if err != nil {
		if errors.Is(err, services.ErrSchoolNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
			return
		}
		h.logger.WithError(err).WithField("id", id).Error("Failed to update school")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, instance)
}

// DeleteSchool hard deletes a school instance and its tenant data
// DELETE /api/v1/admin/schools/:id
func (h *SchoolHandler) DeleteSchool(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid school ID"})
		return
	}

	if err := h.service.DeleteSchool(c.Request.Context(), middleware.ActorID(c), id, c.ClientIP()); err != nil {
		if errors.Is(err, services.ErrSchoolNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
			return
		}
		h.logger.WithError(err).WithField("id", id).Error("Failed to delete school")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete school"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "School deleted"})
}
