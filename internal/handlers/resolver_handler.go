package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/middleware"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/services"
)

// ResolverHandler resolves the caller's tenant membership for page loaders
type ResolverHandler struct {
	service *services.ResolverService
	logger  *logrus.Logger
}

// NewResolverHandler creates a new resolver handler
func NewResolverHandler(service *services.ResolverService, logger *logrus.Logger) *ResolverHandler {
	return &ResolverHandler{
		service: service,
		logger:  logger,
	}
}

// Resolve returns the membership for the current identity. The
// x-school-subdomain header selects subdomain mode; its absence falls back
// to the newest approved membership.
// GET /api/v1/tenants/resolve
func (h *ResolverHandler) Resolve(c *gin.Context) {
	identity := middleware.Identity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "A valid session is required"})
		return
	}

	subdomain := c.GetString("school_subdomain")

	membership, err := h.service.Resolve(c.Request.Context(), identity.UserID, subdomain)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":   identity.UserID,
			"subdomain": subdomain,
		}).Error("Tenant resolution failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Tenant resolution failed"})
		return
	}
	if membership == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NO_TENANT", "message": "No approved membership for this context"})
		return
	}

	c.JSON(http.StatusOK, membership)
}
