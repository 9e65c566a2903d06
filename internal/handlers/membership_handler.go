package handlers

import (
	"context"
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

// MembershipHandler handles back-office membership management
type MembershipHandler struct {
	service *services.MembershipService
	logger  *logrus.Logger
}

// NewMembershipHandler creates a new membership handler
func NewMembershipHandler(service *services.MembershipService, logger *logrus.Logger) *MembershipHandler {
	return &MembershipHandler{
		service: service,
		logger:  logger,
	}
}

// InviteRequest is the invite form payload
type InviteRequest struct {
	UserID   uuid.UUID `json:"user_id" binding:"required"`
	TenantID uuid.UUID `json:"tenant_id" binding:"required"`
	Role     string    `json:"role" binding:"required"`
}

// Invite creates a pending membership
// POST /api/v1/admin/members
func (h *MembershipHandler) Invite(c *gin.Context) {
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	member, err := h.service.Invite(c.Request.Context(), middleware.ActorID(c), req.UserID, req.TenantID, req.Role, c.ClientIP())
	if err != nil {
		if errors.Is(err, services.ErrUnknownRole) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Failed to invite member")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to invite member"})
		return
	}

	c.JSON(http.StatusCreated, member)
}

// Approve marks a pending membership as approved
// POST /api/v1/admin/members/:id/approve
func (h *MembershipHandler) Approve(c *gin.Context) {
	h.setStatus(c, h.service.Approve)
}

// Reject marks a membership as rejected
// POST /api/v1/admin/members/:id/reject
func (h *MembershipHandler) Reject(c *gin.Context) {
	h.setStatus(c, h.service.Reject)
}

func (h *MembershipHandler) setStatus(c *gin.Context, apply func(ctx context.Context, actorID, memberID uuid.UUID, ip string) (*models.Member, error)) {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	member, err := apply(c.Request.Context(), middleware.ActorID(c), memberID, c.ClientIP())
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Membership not found"})
			return
		}
		h.logger.WithError(err).WithField("member_id", memberID).Error("Failed to update membership status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update membership status"})
		return
	}

	c.JSON(http.StatusOK, member)
}

// ListByTenant lists a tenant's memberships with optional status filter
// GET /api/v1/admin/tenants/:id/members
func (h *MembershipHandler) ListByTenant(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID"})
		return
	}

	var status *models.MemberStatus
	if s := c.Query("status"); s != "" {
		value := models.MemberStatus(s)
		status = &value
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	members, total, err := h.service.ListByTenant(c.Request.Context(), tenantID, status, limit, offset)
	if err != nil {
		h.logger.WithError(err).WithField("tenant_id", tenantID).Error("Failed to list members")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": members,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}
