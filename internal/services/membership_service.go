package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/models"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/repository"
)

var (
	// ErrMemberNotFound is returned when no membership matches
	ErrMemberNotFound = errors.New("membership not found")
	// ErrUnknownRole is returned when the named role does not exist
	ErrUnknownRole = errors.New("unknown role")
)

// MembershipService handles membership management for the admin back-office
type MembershipService struct {
	membershipRepo repository.MembershipRepository
	activity       *ActivityService
	logger         *logrus.Logger
}

// NewMembershipService creates a new membership service
func NewMembershipService(membershipRepo repository.MembershipRepository, activity *ActivityService, logger *logrus.Logger) *MembershipService {
	return &MembershipService{
		membershipRepo: membershipRepo,
		activity:       activity,
		logger:         logger,
	}
}

// Invite creates a pending membership binding a user to a tenant with a role
func (s *MembershipService) Invite(ctx context.Context, actorID, userID, tenantID uuid.UUID, roleName, ip string) (*models.Member, error) {
	role, err := s.membershipRepo.GetRoleByName(ctx, roleName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up role: %w", err)
	}
	if role == nil {
		return nil, ErrUnknownRole
	}

	member := &models.Member{
		UserID:   userID,
		TenantID: tenantID,
		RoleID:   role.ID,
		Status:   models.MemberStatusPending,
	}
	if err := s.membershipRepo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}
	member.Role = role

	s.activity.Record(ctx, actorID, models.ActionInviteMember, models.ResourceMember, member.ID.String(), map[string]interface{}{
		"user_id":   userID.String(),
		"tenant_id": tenantID.String(),
		"role":      roleName,
	}, ip)

	return member, nil
}

// Approve marks a pending membership as approved
func (s *MembershipService) Approve(ctx context.Context, actorID, memberID uuid.UUID, ip string) (*models.Member, error) {
	return s.setStatus(ctx, actorID, memberID, models.MemberStatusApproved, models.ActionApproveMember, ip)
}

// Reject marks a membership as rejected, soft-disabling it
func (s *MembershipService) Reject(ctx context.Context, actorID, memberID uuid.UUID, ip string) (*models.Member, error) {
	return s.setStatus(ctx, actorID, memberID, models.MemberStatusRejected, models.ActionRejectMember, ip)
}

func (s *MembershipService) setStatus(ctx context.Context, actorID, memberID uuid.UUID, status models.MemberStatus, action, ip string) (*models.Member, error) {
	member, err := s.membershipRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	previous := member.Status
	if err := s.membershipRepo.UpdateStatus(ctx, memberID, status); err != nil {
		return nil, fmt.Errorf("failed to update membership status: %w", err)
	}
	member.Status = status

	s.activity.Record(ctx, actorID, action, models.ResourceMember, member.ID.String(), map[string]interface{}{
		"user_id":         member.UserID.String(),
		"tenant_id":       member.TenantID.String(),
		"previous_status": string(previous),
		"new_status":      string(status),
	}, ip)

	s.logger.WithFields(logrus.Fields{
		"member_id": memberID,
		"status":    status,
	}).Info("Membership status updated")

	return member, nil
}

// ListByTenant retrieves a tenant's memberships with optional status filter
func (s *MembershipService) ListByTenant(ctx context.Context, tenantID uuid.UUID, status *models.MemberStatus, limit, offset int) ([]models.Member, int64, error) {
	return s.membershipRepo.ListByTenant(ctx, tenantID, status, limit, offset)
}

// ListForUser retrieves all approved memberships for a user, newest first
func (s *MembershipService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Member, error) {
	return s.membershipRepo.ListApprovedByUser(ctx, userID)
}
