package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/models"
)

// SchoolRepository defines data access for tenants and school instances
type SchoolRepository interface {
	CreateWithTenant(ctx context.Context, tenant *models.Tenant, instance *models.SchoolInstance) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SchoolInstance, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*models.SchoolInstance, error)
	GetActiveBySubdomain(ctx context.Context, subdomain string) (*models.SchoolInstance, error)
	List(ctx context.Context, status *models.InstanceStatus, limit, offset int) ([]models.SchoolInstance, int64, error)
	Update(ctx context.Context, instance *models.SchoolInstance) error
	UpdateTenant(ctx context.Context, tenant *models.Tenant) error
	ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error)
	DeleteCascade(ctx context.Context, instance *models.SchoolInstance) error
}

// schoolRepository implements SchoolRepository
type schoolRepository struct {
	db *gorm.DB
}

// NewSchoolRepository creates a new SchoolRepository
func NewSchoolRepository(db *gorm.DB) SchoolRepository {
	return &schoolRepository{db: db}
}

// CreateWithTenant creates the tenant and its school instance in one transaction
func (r *schoolRepository) CreateWithTenant(ctx context.Context, tenant *models.Tenant, instance *models.SchoolInstance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return err
		}
		instance.TenantID = tenant.ID
		return tx.Create(instance).Error
	})
}

// GetByID retrieves a school instance by ID with its tenant
func (r *schoolRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SchoolInstance, error) {
	var instance models.SchoolInstance
	err := r.db.WithContext(ctx).Preload("Tenant").Where("id = ?", id).First(&instance).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &instance, nil
}

// GetBySubdomain retrieves a school instance by subdomain regardless of status
func (r *schoolRepository) GetBySubdomain(ctx context.Context, subdomain string) (*models.SchoolInstance, error) {
	var instance models.SchoolInstance
	err := r.db.WithContext(ctx).Preload("Tenant").Where("subdomain = ?", subdomain).First(&instance).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &instance, nil
}

// GetActiveBySubdomain retrieves a school instance by subdomain where status = active
func (r *schoolRepository) GetActiveBySubdomain(ctx context.Context, subdomain string) (*models.SchoolInstance, error) {
	var instance models.SchoolInstance
	err := r.db.WithContext(ctx).Preload("Tenant").
		Where("subdomain = ? AND status = ?", subdomain, models.InstanceStatusActive).
		First(&instance).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &instance, nil
}

// List retrieves school instances with optional status filter and pagination
func (r *schoolRepository) List(ctx context.Context, status *models.InstanceStatus, limit, offset int) ([]models.SchoolInstance, int64, error) {
	var instances []models.SchoolInstance
	var total int64

	query := r.db.WithContext(ctx).Model(&models.SchoolInstance{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Tenant").Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	if err := query.Find(&instances).Error; err != nil {
		return nil, 0, err
	}

	return instances, total, nil
}

// Update saves a school instance
func (r *schoolRepository) Update(ctx context.Context, instance *models.SchoolInstance) error {
	instance.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(instance).Error
}

// UpdateTenant saves a tenant's contact details
func (r *schoolRepository) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	tenant.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(tenant).Error
}

// ExistsBySubdomain checks whether a subdomain is already claimed
func (r *schoolRepository) ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SchoolInstance{}).
		Where("subdomain = ?", subdomain).Count(&count).Error
	return count > 0, err
}

// DeleteCascade hard deletes the instance and all tenant data in one transaction
func (r *schoolRepository) DeleteCascade(ctx context.Context, instance *models.SchoolInstance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tenantID := instance.TenantID
		if err := tx.Where("tenant_id = ?", tenantID).Delete(&models.Student{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ?", tenantID).Delete(&models.Member{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", instance.ID).Delete(&models.SchoolInstance{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", tenantID).Delete(&models.Tenant{}).Error
	})
}
