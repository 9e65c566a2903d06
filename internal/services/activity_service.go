package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/metrics"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/models"
	erpnats "github.com/ujjwalsingh108/sms-web-sub003/internal/nats"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/repository"
)

// ActivityService appends immutable audit records for mutating admin
// actions. Recording is best-effort: a write failure is logged and never
// blocks or rolls back the mutation it describes.
type ActivityService struct {
	repo      repository.ActivityRepository
	publisher *erpnats.Publisher
	logger    *logrus.Logger
}

// NewActivityService creates a new activity service
func NewActivityService(repo repository.ActivityRepository, publisher *erpnats.Publisher, logger *logrus.Logger) *ActivityService {
	return &ActivityService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Record appends one activity log entry. A missing actor makes the call a
// silent no-op, not an error.
func (s *ActivityService) Record(ctx context.Context, actorID uuid.UUID, action, resourceType, resourceID string, details interface{}, ip string) {
	if actorID == uuid.Nil {
		return
	}

	entry := &models.AdminActivityLog{
		AdminUserID:  actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ip,
	}

	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			s.logger.WithError(err).WithField("action", action).Warn("Failed to marshal activity details")
		} else {
			entry.Details = datatypes.JSON(data)
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"action":      action,
			"resource_id": resourceID,
		}).Error("Failed to write activity log entry")
		metrics.ActivityRecords.WithLabelValues(action, "error").Inc()
		return
	}
	metrics.ActivityRecords.WithLabelValues(action, "success").Inc()

	if s.publisher != nil {
		go func() {
			if err := s.publisher.PublishActivity(context.Background(), entry); err != nil {
				s.logger.WithError(err).Warn("Failed to publish activity event")
			}
		}()
	}
}

// Search retrieves activity log entries for the back-office
func (s *ActivityService) Search(ctx context.Context, filter *models.ActivityLogFilter) ([]models.AdminActivityLog, int64, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.WithError(err).Error("Failed to search activity logs")
		return nil, 0, err
	}
	return entries, total, nil
}
