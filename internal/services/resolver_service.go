package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/cache"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/metrics"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/models"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/repository"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/tenancy"
)

// ResolverService maps (identity, subdomain) to an approved membership.
// Resolution is read-only and side-effect-free: at most two sequential
// lookups in subdomain mode, one in root mode. "Not found" is a nil result,
// never an error; errors mean a genuine backend failure.
type ResolverService struct {
	schoolRepo     repository.SchoolRepository
	membershipRepo repository.MembershipRepository
	schoolCache    *cache.SchoolCache
	logger         *logrus.Logger
}

// NewResolverService creates a new tenant resolver
func NewResolverService(
	schoolRepo repository.SchoolRepository,
	membershipRepo repository.MembershipRepository,
	schoolCache *cache.SchoolCache,
	logger *logrus.Logger,
) *ResolverService {
	return &ResolverService{
		schoolRepo:     schoolRepo,
		membershipRepo: membershipRepo,
		schoolCache:    schoolCache,
		logger:         logger,
	}
}

// Resolve dispatches to subdomain mode when a school subdomain is present,
// root mode otherwise. "admin" and "www" never resolve as schools.
func (s *ResolverService) Resolve(ctx context.Context, userID uuid.UUID, subdomain string) (*models.Membership, error) {
	if subdomain == "" || subdomain == tenancy.SubdomainAdmin || subdomain == tenancy.SubdomainWWW {
		membership, err := s.ResolveRoot(ctx, userID)
		metrics.TenantResolutions.WithLabelValues("root", resolveOutcome(membership, err)).Inc()
		return membership, err
	}
	membership, err := s.ResolveBySubdomain(ctx, userID, subdomain)
	metrics.TenantResolutions.WithLabelValues("subdomain", resolveOutcome(membership, err)).Inc()
	return membership, err
}

func resolveOutcome(membership *models.Membership, err error) string {
	switch {
	case err != nil:
		return "error"
	case membership == nil:
		return "none"
	default:
		return "resolved"
	}
}

// ResolveBySubdomain looks up the active school instance for the subdomain,
// then the approved membership for (user, tenant). Either lookup missing
// means no tenant resolves.
func (s *ResolverService) ResolveBySubdomain(ctx context.Context, userID uuid.UUID, subdomain string) (*models.Membership, error) {
	instance, err := s.lookupActiveInstance(ctx, subdomain)
	if err != nil {
		return nil, fmt.Errorf("failed to look up school instance: %w", err)
	}
	if instance == nil || !instance.IsActive() {
		return nil, nil
	}

	member, err := s.membershipRepo.GetApproved(ctx, userID, instance.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up membership: %w", err)
	}
	if member == nil {
		return nil, nil
	}

	return buildMembership(member, instance), nil
}

// ResolveRoot returns the user's most recently created approved membership
// as the primary tenant, or nil when the user has none.
func (s *ResolverService) ResolveRoot(ctx context.Context, userID uuid.UUID) (*models.Membership, error) {
	members, err := s.membershipRepo.ListApprovedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}
	return buildMembership(&members[0], nil), nil
}

// lookupActiveInstance checks the cache before the database
func (s *ResolverService) lookupActiveInstance(ctx context.Context, subdomain string) (*models.SchoolInstance, error) {
	if s.schoolCache != nil {
		if instance, ok := s.schoolCache.Get(ctx, subdomain); ok {
			return instance, nil
		}
	}

	instance, err := s.schoolRepo.GetActiveBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}
	if instance != nil && s.schoolCache != nil {
		s.schoolCache.Set(ctx, subdomain, instance)
	}
	return instance, nil
}

// buildMembership combines a member row with its tenant and role into the
// resolved view. The instance is nil in root mode.
func buildMembership(member *models.Member, instance *models.SchoolInstance) *models.Membership {
	m := &models.Membership{
		TenantID: member.TenantID,
	}
	if member.Tenant != nil {
		m.TenantName = member.Tenant.Name
		m.ContactEmail = member.Tenant.ContactEmail
	}
	if instance != nil {
		m.Subdomain = instance.Subdomain
		if m.TenantName == "" && instance.Tenant != nil {
			m.TenantName = instance.Tenant.Name
			m.ContactEmail = instance.Tenant.ContactEmail
		}
	}
	if member.Role != nil {
		m.RoleName = member.Role.Name
		m.RoleDisplayName = member.Role.DisplayName
	}
	return m
}
