package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/models"
)

// MembershipRepository defines data access for members and roles
type MembershipRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Member, error)
	GetApproved(ctx context.Context, userID, tenantID uuid.UUID) (*models.Member, error)
	ListApprovedByUser(ctx context.Context, userID uuid.UUID) ([]models.Member, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, status *models.MemberStatus, limit, offset int) ([]models.Member, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.MemberStatus) error
	GetRoleByName(ctx context.Context, name string) (*models.Role, error)
}

// membershipRepository implements MembershipRepository
type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// Create creates a new membership row
func (r *membershipRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// GetByID retrieves a membership by ID with its role and tenant
func (r *membershipRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Preload("Role").Preload("Tenant").
		Where("id = ?", id).First(&member).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// GetApproved retrieves the approved membership for (user, tenant).
// A unique index on (user_id, tenant_id) guarantees at most one row; ordering
// by created_at keeps resolution deterministic should a historical duplicate
// survive.
func (r *membershipRepository) GetApproved(ctx context.Context, userID, tenantID uuid.UUID) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Preload("Role").Preload("Tenant").
		Where("user_id = ? AND tenant_id = ? AND status = ?", userID, tenantID, models.MemberStatusApproved).
		Order("created_at DESC").
		First(&member).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// ListApprovedByUser retrieves all approved memberships for a user, newest first
func (r *membershipRepository) ListApprovedByUser(ctx context.Context, userID uuid.UUID) ([]models.Member, error) {
	var members []models.Member
	err := r.db.WithContext(ctx).Preload("Role").Preload("Tenant").
		Where("user_id = ? AND status = ?", userID, models.MemberStatusApproved).
		Order("created_at DESC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// ListByTenant retrieves memberships for a tenant with optional status filter
func (r *membershipRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, status *models.MemberStatus, limit, offset int) ([]models.Member, int64, error) {
	var members []models.Member
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Member{}).Where("tenant_id = ?", tenantID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Role").Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	if err := query.Find(&members).Error; err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

// UpdateStatus sets the approval status of a membership
func (r *membershipRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.MemberStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// GetRoleByName retrieves a role reference row by name
func (r *membershipRepository) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}
