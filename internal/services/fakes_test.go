package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/models"
)

// fakeSchoolRepo is an in-memory SchoolRepository for tests
type fakeSchoolRepo struct {
	instances map[uuid.UUID]*models.SchoolInstance
	err       error
	deleteErr error
	deleted   []uuid.UUID
}

func newFakeSchoolRepo() *fakeSchoolRepo {
	return &fakeSchoolRepo{instances: make(map[uuid.UUID]*models.SchoolInstance)}
}

func (f *fakeSchoolRepo) add(instance *models.SchoolInstance) {
	if instance.ID == uuid.Nil {
		instance.ID = uuid.New()
	}
	f.instances[instance.ID] = instance
}

func (f *fakeSchoolRepo) CreateWithTenant(ctx context.Context, tenant *models.Tenant, instance *models.SchoolInstance) error {
	if f.err != nil {
		return f.err
	}
	tenant.ID = uuid.New()
	instance.ID = uuid.New()
	instance.TenantID = tenant.ID
	instance.Tenant = tenant
	instance.CreatedAt = time.Now()
	f.instances[instance.ID] = instance
	return nil
}

func (f *fakeSchoolRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SchoolInstance, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.instances[id], nil
}

func (f *fakeSchoolRepo) GetBySubdomain(ctx context.Context, subdomain string) (*models.SchoolInstance, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, instance := range f.instances {
		if instance.Subdomain == subdomain {
			return instance, nil
		}
	}
	return nil, nil
}

func (f *fakeSchoolRepo) GetActiveBySubdomain(ctx context.Context, subdomain string) (*models.SchoolInstance, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, instance := range f.instances {
		if instance.Subdomain == subdomain && instance.Status == models.InstanceStatusActive {
			return instance, nil
		}
	}
	return nil, nil
}

func (f *fakeSchoolRepo) List(ctx context.Context, status *models.InstanceStatus, limit, offset int) ([]models.SchoolInstance, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var out []models.SchoolInstance
	for _, instance := range f.instances {
		if status == nil || instance.Status == *status {
			out = append(out, *instance)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeSchoolRepo) Update(ctx context.Context, instance *models.SchoolInstance) error {
	if f.err != nil {
		return f.err
	}
	f.instances[instance.ID] = instance
	return nil
}

func (f *fakeSchoolRepo) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	return f.err
}

func (f *fakeSchoolRepo) ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	instance, _ := f.GetBySubdomain(ctx, subdomain)
	return instance != nil, nil
}

func (f *fakeSchoolRepo) DeleteCascade(ctx context.Context, instance *models.SchoolInstance) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, instance.ID)
	delete(f.instances, instance.ID)
	return nil
}

// fakeMembershipRepo is an in-memory MembershipRepository for tests
type fakeMembershipRepo struct {
	members map[uuid.UUID]*models.Member
	roles   map[string]*models.Role
	err     error
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	repo := &fakeMembershipRepo{
		members: make(map[uuid.UUID]*models.Member),
		roles:   make(map[string]*models.Role),
	}
	for _, role := range models.SeedRoles() {
		r := role
		r.ID = uuid.New()
		repo.roles[r.Name] = &r
	}
	return repo
}

func (f *fakeMembershipRepo) add(member *models.Member) {
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	f.members[member.ID] = member
}

func (f *fakeMembershipRepo) Create(ctx context.Context, member *models.Member) error {
	if f.err != nil {
		return f.err
	}
	member.ID = uuid.New()
	member.CreatedAt = time.Now()
	f.members[member.ID] = member
	return nil
}

func (f *fakeMembershipRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.members[id], nil
}

func (f *fakeMembershipRepo) GetApproved(ctx context.Context, userID, tenantID uuid.UUID) (*models.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, member := range f.members {
		if member.UserID == userID && member.TenantID == tenantID && member.Status == models.MemberStatusApproved {
			return member, nil
		}
	}
	return nil, nil
}

func (f *fakeMembershipRepo) ListApprovedByUser(ctx context.Context, userID uuid.UUID) ([]models.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Member
	for _, member := range f.members {
		if member.UserID == userID && member.Status == models.MemberStatusApproved {
			out = append(out, *member)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeMembershipRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, status *models.MemberStatus, limit, offset int) ([]models.Member, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var out []models.Member
	for _, member := range f.members {
		if member.TenantID == tenantID && (status == nil || member.Status == *status) {
			out = append(out, *member)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeMembershipRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.MemberStatus) error {
	if f.err != nil {
		return f.err
	}
	if member, ok := f.members[id]; ok {
		member.Status = status
	}
	return nil
}

func (f *fakeMembershipRepo) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.roles[name], nil
}

// fakeActivityRepo is an in-memory ActivityRepository for tests
type fakeActivityRepo struct {
	entries   []models.AdminActivityLog
	createErr error
}

func (f *fakeActivityRepo) Create(ctx context.Context, entry *models.AdminActivityLog) error {
	if f.createErr != nil {
		return f.createErr
	}
	entry.ID = uuid.New()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityRepo) List(ctx context.Context, filter *models.ActivityLogFilter) ([]models.AdminActivityLog, int64, error) {
	return f.entries, int64(len(f.entries)), nil
}

func (f *fakeActivityRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time, batchSize int) (int64, error) {
	return 0, nil
}
