package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/models"
)

func newMembershipFixture() (*MembershipService, *fakeMembershipRepo, *fakeActivityRepo) {
	membershipRepo := newFakeMembershipRepo()
	activityRepo := &fakeActivityRepo{}
	activity := NewActivityService(activityRepo, nil, testLogger())
	svc := NewMembershipService(membershipRepo, activity, testLogger())
	return svc, membershipRepo, activityRepo
}

func TestInvite(t *testing.T) {
	svc, _, activityRepo := newMembershipFixture()
	actor := uuid.New()
	userID := uuid.New()
	tenantID := uuid.New()

	member, err := svc.Invite(context.Background(), actor, userID, tenantID, models.RoleTeacher, "10.0.0.1")
	require.NoError(t, err)
	require.NotNil(t, member)

	assert.Equal(t, models.MemberStatusPending, member.Status)
	assert.Equal(t, userID, member.UserID)
	assert.Equal(t, tenantID, member.TenantID)
	require.NotNil(t, member.Role)
	assert.Equal(t, models.RoleTeacher, member.Role.Name)

	require.Len(t, activityRepo.entries, 1)
	entry := activityRepo.entries[0]
	assert.Equal(t, models.ActionInviteMember, entry.Action)
	assert.Equal(t, models.ResourceMember, entry.ResourceType)

	var details map[string]string
	require.NoError(t, json.Unmarshal(entry.Details, &details))
	assert.Equal(t, models.RoleTeacher, details["role"])
	assert.Equal(t, tenantID.String(), details["tenant_id"])
}

func TestInvite_UnknownRole(t *testing.T) {
	svc, _, activityRepo := newMembershipFixture()

	_, err := svc.Invite(context.Background(), uuid.New(), uuid.New(), uuid.New(), "janitor", "")
	require.ErrorIs(t, err, ErrUnknownRole)
	assert.Empty(t, activityRepo.entries)
}

func TestApprove(t *testing.T) {
	svc, membershipRepo, activityRepo := newMembershipFixture()
	member := seedMember(membershipRepo, uuid.New(), uuid.New(), models.RoleTeacher, models.MemberStatusPending, time.Now())

	approved, err := svc.Approve(context.Background(), uuid.New(), member.ID, "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, models.MemberStatusApproved, approved.Status)
	assert.Equal(t, models.MemberStatusApproved, membershipRepo.members[member.ID].Status)

	require.Len(t, activityRepo.entries, 1)
	entry := activityRepo.entries[0]
	assert.Equal(t, models.ActionApproveMember, entry.Action)

	var details map[string]string
	require.NoError(t, json.Unmarshal(entry.Details, &details))
	assert.Equal(t, string(models.MemberStatusPending), details["previous_status"])
	assert.Equal(t, string(models.MemberStatusApproved), details["new_status"])
}

func TestReject(t *testing.T) {
	svc, membershipRepo, activityRepo := newMembershipFixture()
	member := seedMember(membershipRepo, uuid.New(), uuid.New(), models.RoleTeacher, models.MemberStatusApproved, time.Now())

	rejected, err := svc.Reject(context.Background(), uuid.New(), member.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.MemberStatusRejected, rejected.Status)

	require.Len(t, activityRepo.entries, 1)
	assert.Equal(t, models.ActionRejectMember, activityRepo.entries[0].Action)
}

func TestApprove_NotFound(t *testing.T) {
	svc, _, activityRepo := newMembershipFixture()

	_, err := svc.Approve(context.Background(), uuid.New(), uuid.New(), "")
	require.ErrorIs(t, err, ErrMemberNotFound)
	assert.Empty(t, activityRepo.entries)
}

func TestListForUser_NewestFirst(t *testing.T) {
	svc, membershipRepo, _ := newMembershipFixture()
	userID := uuid.New()

	older := seedMember(membershipRepo, userID, uuid.New(), models.RoleTeacher, models.MemberStatusApproved, time.Now().Add(-48*time.Hour))
	newer := seedMember(membershipRepo, userID, uuid.New(), models.RoleAdmin, models.MemberStatusApproved, time.Now())
	seedMember(membershipRepo, userID, uuid.New(), models.RoleParent, models.MemberStatusPending, time.Now())

	members, err := svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, newer.TenantID, members[0].TenantID)
	assert.Equal(t, older.TenantID, members[1].TenantID)
}
