package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/middleware"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/models"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/repository"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/services"
)

// StudentHandler serves tenant-scoped student data for the school dashboard
type StudentHandler struct {
	students   repository.StudentRepository
	schoolRepo repository.SchoolRepository
	resolver   *services.ResolverService
	logger     *logrus.Logger
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(
	students repository.StudentRepository,
	schoolRepo repository.SchoolRepository,
	resolver *services.ResolverService,
	logger *logrus.Logger,
) *StudentHandler {
	return &StudentHandler{
		students:   students,
		schoolRepo: schoolRepo,
		resolver:   resolver,
		logger:     logger,
	}
}

// resolveMembership resolves the caller's tenant or writes the error response
func (h *StudentHandler) resolveMembership(c *gin.Context) *models.Membership {
	identity := middleware.Identity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "A valid session is required"})
		return nil
	}

	subdomain := c.GetString("school_subdomain")
	membership, err := h.resolver.Resolve(c.Request.Context(), identity.UserID, subdomain)
	if err != nil {
		h.logger.WithError(err).WithField("subdomain", subdomain).Error("Tenant resolution failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Tenant resolution failed"})
		return nil
	}
	if membership == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "NO_TENANT", "message": "No approved membership for this school"})
		return nil
	}
	return membership
}

// ListStudents lists the resolved tenant's students
// GET /api/v1/dashboard/students
func (h *StudentHandler) ListStudents(c *gin.Context) {
	membership := h.resolveMembership(c)
	if membership == nil {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	students, total, err := h.students.List(c.Request.Context(), membership.TenantID, limit, offset)
	if err != nil {
		h.logger.WithError(err).WithField("tenant_id", membership.TenantID).Error("Failed to list students")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list students"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"students": students,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// CreateStudent adds a student to the resolved tenant, enforcing the
// instance's capacity limit
// POST /api/v1/dashboard/students
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	membership := h.resolveMembership(c)
	if membership == nil {
		return
	}

	var student models.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	student.TenantID = membership.TenantID

	if membership.Subdomain != "" {
		instance, err := h.schoolRepo.GetActiveBySubdomain(c.Request.Context(), membership.Subdomain)
		if err != nil {
			h.logger.WithError(err).Error("Failed to load school instance")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load school instance"})
			return
		}
		if instance != nil && instance.MaxStudents > 0 {
			count, err := h.students.Count(c.Request.Context(), membership.TenantID)
			if err != nil {
				h.logger.WithError(err).Error("Failed to count students")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count students"})
				return
			}
			if count >= int64(instance.MaxStudents) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":   "CAPACITY_EXCEEDED",
					"message": "Student capacity limit reached for this plan",
				})
				return
			}
		}
	}

	if err := h.students.Create(c.Request.Context(), &student); err != nil {
		h.logger.WithError(err).WithField("tenant_id", membership.TenantID).Error("Failed to create student")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create student"})
		return
	}

	c.JSON(http.StatusCreated, student)
}
