package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/database"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/models"
)

// StudentRepository defines tenant-scoped data access for students
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]models.Student, int64, error)
	Count(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// studentRepository implements StudentRepository
type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

// Create creates a student row for the tenant carried on the model
func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

// List retrieves students for a tenant with pagination
func (r *studentRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]models.Student, int64, error) {
	var students []models.Student
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Student{}).Scopes(database.TenantScope(tenantID))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	if err := query.Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

// Count returns the number of students for a tenant (used for capacity checks)
func (r *studentRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Student{}).
		Scopes(database.TenantScope(tenantID)).Count(&count).Error
	return count, err
}
