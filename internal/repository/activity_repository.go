package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/models"
)

// ActivityRepository defines data access for the admin activity log.
// The store is append-only: there is no update or delete API beyond
// retention pruning.
type ActivityRepository interface {
	Create(ctx context.Context, entry *models.AdminActivityLog) error
	List(ctx context.Context, filter *models.ActivityLogFilter) ([]models.AdminActivityLog, int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time, batchSize int) (int64, error)
}

// activityRepository implements ActivityRepository
type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Create appends one activity log row
func (r *activityRepository) Create(ctx context.Context, entry *models.AdminActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List retrieves activity log entries matching the filter, newest first
func (r *activityRepository) List(ctx context.Context, filter *models.ActivityLogFilter) ([]models.AdminActivityLog, int64, error) {
	var entries []models.AdminActivityLog
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AdminActivityLog{})

	if filter.AdminUserID != nil {
		query = query.Where("admin_user_id = ?", *filter.AdminUserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.ResourceType != "" {
		query = query.Where("resource_type = ?", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		query = query.Where("resource_id = ?", filter.ResourceID)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// defaultCleanupBatchSize bounds retention deletes when no batch size is
// configured; a non-positive batch would loop on LIMIT 0 deletes forever.
const defaultCleanupBatchSize = 500

// DeleteOlderThan prunes entries older than the cutoff in batches
func (r *activityRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = defaultCleanupBatchSize
	}
	var deleted int64
	for {
		result := r.db.WithContext(ctx).
			Where("id IN (?)", r.db.Model(&models.AdminActivityLog{}).
				Select("id").
				Where("created_at < ?", cutoff).
				Limit(batchSize)).
			Delete(&models.AdminActivityLog{})
		if result.Error != nil {
			return deleted, result.Error
		}
		deleted += result.RowsAffected
		if result.RowsAffected < int64(batchSize) {
			break
		}
	}
	return deleted, nil
}
