package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func seedSchool(schoolRepo *fakeSchoolRepo, subdomain string, status models.InstanceStatus) *models.SchoolInstance {
	tenant := &models.Tenant{ID: uuid.New(), Name: "Delhi Public School", ContactEmail: "office@dps.in"}
	instance := &models.SchoolInstance{
		TenantID:  tenant.ID,
		Subdomain: subdomain,
		Status:    status,
		Tenant:    tenant,
	}
	schoolRepo.add(instance)
	return instance
}

func seedMember(membershipRepo *fakeMembershipRepo, userID, tenantID uuid.UUID, roleName string, status models.MemberStatus, createdAt time.Time) *models.Member {
	role := membershipRepo.roles[roleName]
	member := &models.Member{
		UserID:    userID,
		TenantID:  tenantID,
		RoleID:    role.ID,
		Status:    status,
		CreatedAt: createdAt,
		Role:      role,
	}
	membershipRepo.add(member)
	return member
}

func TestResolveBySubdomain_ApprovedMemberActiveSchool(t *testing.T) {
	schoolRepo := newFakeSchoolRepo()
	membershipRepo := newFakeMembershipRepo()
	userID := uuid.New()

	instance := seedSchool(schoolRepo, "dps-ranchi", models.InstanceStatusActive)
	seedMember(membershipRepo, userID, instance.TenantID, models.RoleAdmin, models.MemberStatusApproved, time.Now())

	resolver := NewResolverService(schoolRepo, membershipRepo, nil, testLogger())

	membership, err := resolver.ResolveBySubdomain(context.Background(), userID, "dps-ranchi")
	require.NoError(t, err)
	require.NotNil(t, membership)
	assert.Equal(t, instance.TenantID, membership.TenantID)
	assert.Equal(t, "Delhi Public School", membership.TenantName)
	assert.Equal(t, "dps-ranchi", membership.Subdomain)
	assert.Equal(t, models.RoleAdmin, membership.RoleName)
	assert.Equal(t, "Admin", membership.RoleDisplayName)
}

func TestResolveBySubdomain_InactiveSchoolNeverResolves(t *testing.T) {
	for _, status := range []models.InstanceStatus{
		models.InstanceStatusPending,
		models.InstanceStatusSuspended,
		models.InstanceStatusCancelled,
	} {
		schoolRepo := newFakeSchoolRepo()
		membershipRepo := newFakeMembershipRepo()
		userID := uuid.New()

		instance := seedSchool(schoolRepo, "dps-ranchi", status)
		// Approved membership exists, but the instance is not active
		seedMember(membershipRepo, userID, instance.TenantID, models.RoleAdmin, models.MemberStatusApproved, time.Now())

		resolver := NewResolverService(schoolRepo, membershipRepo, nil, testLogger())

		membership, err := resolver.ResolveBySubdomain(context.Background(), userID, "dps-ranchi")
		require.NoError(t, err)
		assert.Nil(t, membership, "status %s must not resolve", status)
	}
}

func TestResolveBySubdomain_NoApprovedMember(t *testing.T) {
	schoolRepo := newFakeSchoolRepo()
	membershipRepo := newFakeMembershipRepo()
	userID := uuid.New()

	instance := seedSchool(schoolRepo, "dps-ranchi", models.InstanceStatusActive)
	seedMember(membershipRepo, userID, instance.TenantID, models.RoleTeacher, models.MemberStatusPending, time.Now())

	resolver := NewResolverService(schoolRepo, membershipRepo, nil, testLogger())

	membership, err := resolver.ResolveBySubdomain(context.Background(), userID, "dps-ranchi")
	require.NoError(t, err)
	assert.Nil(t, membership)
}

func TestResolveBySubdomain_UnknownSubdomain(t *testing.T) {
	resolver := NewResolverService(newFakeSchoolRepo(), newFakeMembershipRepo(), nil, testLogger())

	membership, err := resolver.ResolveBySubdomain(context.Background(), uuid.New(), "nowhere")
	require.NoError(t, err)
	assert.Nil(t, membership)
}

func TestResolveBySubdomain_BackendFailurePropagates(t *testing.T) {
	schoolRepo := newFakeSchoolRepo()
	schoolRepo.err = errors.New("connection refused")

	resolver := NewResolverService(schoolRepo, newFakeMembershipRepo(), nil, testLogger())

	_, err := resolver.ResolveBySubdomain(context.Background(), uuid.New(), "dps-ranchi")
	require.Error(t, err)
}

func TestResolveRoot_NewestMembershipWins(t *testing.T) {
	schoolRepo := newFakeSchoolRepo()
	membershipRepo := newFakeMembershipRepo()
	userID := uuid.New()

	older := seedSchool(schoolRepo, "old-school", models.InstanceStatusActive)
	newer := seedSchool(schoolRepo, "new-school", models.InstanceStatusActive)

	oldMember := seedMember(membershipRepo, userID, older.TenantID, models.RoleTeacher, models.MemberStatusApproved, time.Now().Add(-48*time.Hour))
	oldMember.Tenant = older.Tenant
	newMember := seedMember(membershipRepo, userID, newer.TenantID, models.RoleAdmin, models.MemberStatusApproved, time.Now())
	newMember.Tenant = newer.Tenant

	resolver := NewResolverService(schoolRepo, membershipRepo, nil, testLogger())

	membership, err := resolver.ResolveRoot(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, membership)
	assert.Equal(t, newer.TenantID, membership.TenantID)
	assert.Equal(t, models.RoleAdmin, membership.RoleName)
}

func TestResolveRoot_NoMemberships(t *testing.T) {
	resolver := NewResolverService(newFakeSchoolRepo(), newFakeMembershipRepo(), nil, testLogger())

	membership, err := resolver.ResolveRoot(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, membership)
}

func TestResolve_AdminAndWWWFallToRootMode(t *testing.T) {
	schoolRepo := newFakeSchoolRepo()
	membershipRepo := newFakeMembershipRepo()
	userID := uuid.New()

	instance := seedSchool(schoolRepo, "dps-ranchi", models.InstanceStatusActive)
	member := seedMember(membershipRepo, userID, instance.TenantID, models.RoleSuperAdmin, models.MemberStatusApproved, time.Now())
	member.Tenant = instance.Tenant

	resolver := NewResolverService(schoolRepo, membershipRepo, nil, testLogger())

	for _, sub := range []string{"", "admin", "www"} {
		membership, err := resolver.Resolve(context.Background(), userID, sub)
		require.NoError(t, err)
		require.NotNil(t, membership, "subdomain %q", sub)
		assert.Equal(t, instance.TenantID, membership.TenantID)
		// Root mode carries no subdomain
		assert.Empty(t, membership.Subdomain)
	}
}
