package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/cache"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/models"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/repository"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/tenancy"
)

var (
	// ErrSchoolNotFound is returned when no school instance matches
	ErrSchoolNotFound = errors.New("school instance not found")
	// ErrSubdomainTaken is returned when the subdomain is already claimed
	ErrSubdomainTaken = errors.New("subdomain is already taken")
)

// CreateSchoolInput holds the admin "create school" form fields
type CreateSchoolInput struct {
	Name         string `json:"name" binding:"required"`
	Subdomain    string `json:"subdomain" binding:"required"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`
	Plan         string `json:"plan"`
	MaxStudents  int    `json:"max_students"`
	MaxStaff     int    `json:"max_staff"`
}

// UpdateSchoolInput holds partial updates for a school instance
type UpdateSchoolInput struct {
	Name          *string `json:"name"`
	ContactEmail  *string `json:"contact_email"`
	ContactPhone  *string `json:"contact_phone"`
	Address       *string `json:"address"`
	Plan          *string `json:"plan"`
	MaxStudents   *int    `json:"max_students"`
	MaxStaff      *int    `json:"max_staff"`
	Status        *string `json:"status"`
	SetupComplete *bool   `json:"setup_complete"`
}

// SchoolService handles admin provisioning of school instances
type SchoolService struct {
	schoolRepo  repository.SchoolRepository
	schoolCache *cache.SchoolCache
	activity    *ActivityService
	logger      *logrus.Logger
}

// NewSchoolService creates a new school service
func NewSchoolService(
	schoolRepo repository.SchoolRepository,
	schoolCache *cache.SchoolCache,
	activity *ActivityService,
	logger *logrus.Logger,
) *SchoolService {
	return &SchoolService{
		schoolRepo:  schoolRepo,
		schoolCache: schoolCache,
		activity:    activity,
		logger:      logger,
	}
}

// CreateSchool provisions a new tenant and its school instance
func (s *SchoolService) CreateSchool(ctx context.Context, actorID uuid.UUID, input CreateSchoolInput, ip string) (*models.SchoolInstance, error) {
	if err := tenancy.ValidateSubdomain(input.Subdomain); err != nil {
		return nil, err
	}

	exists, err := s.schoolRepo.ExistsBySubdomain(ctx, input.Subdomain)
	if err != nil {
		return nil, fmt.Errorf("failed to check subdomain: %w", err)
	}
	if exists {
		return nil, ErrSubdomainTaken
	}

	tenant := &models.Tenant{
		Name:         input.Name,
		ContactEmail: input.ContactEmail,
		ContactPhone: input.ContactPhone,
		Address:      input.Address,
	}
	instance := &models.SchoolInstance{
		Subdomain:   input.Subdomain,
		Status:      models.InstanceStatusPending,
		Plan:        orDefault(input.Plan, "basic"),
		MaxStudents: orDefaultInt(input.MaxStudents, 500),
		MaxStaff:    orDefaultInt(input.MaxStaff, 50),
	}

	if err := s.schoolRepo.CreateWithTenant(ctx, tenant, instance); err != nil {
		return nil, fmt.Errorf("failed to create school: %w", err)
	}
	instance.Tenant = tenant

	s.activity.Record(ctx, actorID, models.ActionCreateSchool, models.ResourceSchool, instance.ID.String(), map[string]interface{}{
		"subdomain": instance.Subdomain,
		"name":      tenant.Name,
		"plan":      instance.Plan,
	}, ip)

	s.logger.WithFields(logrus.Fields{
		"subdomain": instance.Subdomain,
		"tenant_id": tenant.ID,
	}).Info("School instance created")

	return instance, nil
}

// GetSchool retrieves a school instance by ID
func (s *SchoolService) GetSchool(ctx context.Context, id uuid.UUID) (*models.SchoolInstance, error) {
	instance, err := s.schoolRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get school: %w", err)
	}
	if instance == nil {
		return nil, ErrSchoolNotFound
	}
	return instance, nil
}

// ListSchools retrieves school instances with optional status filter
func (s *SchoolService) ListSchools(ctx context.Context, status *models.InstanceStatus, limit, offset int) ([]models.SchoolInstance, int64, error) {
	return s.schoolRepo.List(ctx, status, limit, offset)
}

// UpdateSchool applies partial updates to a school instance and its tenant,
// recording a before/after diff in the activity log
func (s *SchoolService) UpdateSchool(ctx context.Context, actorID uuid.UUID, id uuid.UUID, input UpdateSchoolInput, ip string) (*models.SchoolInstance, error) {
	instance, err := s.schoolRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get school: %w", err)
	}
	if instance == nil {
		return nil, ErrSchoolNotFound
	}

	before := snapshotSchool(instance)
	previousStatus := instance.Status

	if input.Name != nil && instance.Tenant != nil {
		instance.Tenant.Name = *input.Name
	}
	if input.ContactEmail != nil && instance.Tenant != nil {
		instance.Tenant.ContactEmail = *input.ContactEmail
	}
	if input.ContactPhone != nil && instance.Tenant != nil {
		instance.Tenant.ContactPhone = *input.ContactPhone
	}
	if input.Address != nil && instance.Tenant != nil {
		instance.Tenant.Address = *input.Address
	}
	if input.Plan != nil {
		instance.Plan = *input.Plan
	}
	if input.MaxStudents != nil {
		instance.MaxStudents = *input.MaxStudents
	}
	if input.MaxStaff != nil {
		instance.MaxStaff = *input.MaxStaff
	}
	if input.SetupComplete != nil {
		instance.SetupComplete = *input.SetupComplete
	}
	if input.Status != nil {
		status := models.InstanceStatus(*input.Status)
		switch status {
		case models.InstanceStatusPending, models.InstanceStatusActive,
			models.InstanceStatusSuspended, models.InstanceStatusCancelled:
			instance.Status = status
		default:
			return nil, fmt.Errorf("invalid status: %s", *input.Status)
		}
	}

	if instance.Tenant != nil {
		if err := s.schoolRepo.UpdateTenant(ctx, instance.Tenant); err != nil {
			return nil, fmt.Errorf("failed to update tenant: %w", err)
		}
	}
	if err := s.schoolRepo.Update(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to update school: %w", err)
	}

	if s.schoolCache != nil {
		s.schoolCache.Invalidate(ctx, instance.Subdomain)
	}

	// Status transitions get their own action names in the audit trail
	action := models.ActionUpdateSchool
	if instance.Status != previousStatus {
		switch instance.Status {
		case models.InstanceStatusSuspended:
			action = models.ActionSuspendSchool
		case models.InstanceStatusActive:
			action = models.ActionActivateSchool
		}
	}

	s.activity.Record(ctx, actorID, action, models.ResourceSchool, instance.ID.String(), map[string]interface{}{
		"subdomain": instance.Subdomain,
		"before":    before,
		"after":     snapshotSchool(instance),
	}, ip)

	return instance, nil
}

// DeleteSchool hard deletes a school instance with cascading removal of
// tenant data. The activity record is attempted even when the delete
// partially fails.
func (s *SchoolService) DeleteSchool(ctx context.Context, actorID uuid.UUID, id uuid.UUID, ip string) error {
	instance, err := s.schoolRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get school: %w", err)
	}
	if instance == nil {
		return ErrSchoolNotFound
	}

	deleteErr := s.schoolRepo.DeleteCascade(ctx, instance)

	if s.schoolCache != nil {
		s.schoolCache.Invalidate(ctx, instance.Subdomain)
	}

	details := map[string]interface{}{
		"subdomain": instance.Subdomain,
		"tenant_id": instance.TenantID.String(),
	}
	if deleteErr != nil {
		details["error"] = deleteErr.Error()
	}
	s.activity.Record(ctx, actorID, models.ActionDeleteSchool, models.ResourceSchool, instance.ID.String(), details, ip)

	if deleteErr != nil {
		return fmt.Errorf("failed to delete school: %w", deleteErr)
	}

	s.logger.WithField("subdomain", instance.Subdomain).Info("School instance deleted")
	return nil
}

// snapshotSchool captures the audited fields of an instance for diffing
func snapshotSchool(instance *models.SchoolInstance) map[string]interface{} {
	snap := map[string]interface{}{
		"status":         string(instance.Status),
		"plan":           instance.Plan,
		"max_students":   instance.MaxStudents,
		"max_staff":      instance.MaxStaff,
		"setup_complete": instance.SetupComplete,
	}
	if instance.Tenant != nil {
		snap["name"] = instance.Tenant.Name
		snap["contact_email"] = instance.Tenant.ContactEmail
		snap["contact_phone"] = instance.Tenant.ContactPhone
		snap["address"] = instance.Tenant.Address
	}
	return snap
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func orDefaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}
