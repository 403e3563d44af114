package services

import (
	"context"
	"errors"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

type ProfileService struct {
	profileRepo ports.ProfileRepository
	resolver    ports.RoleResolver
}

var _ ports.ProfileService = (*ProfileService)(nil)

func NewProfileService(profileRepo ports.ProfileRepository, resolver ports.RoleResolver) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		resolver:    resolver,
	}
}

// Get returns the profile matching the identity's resolved role.
func (s *ProfileService) Get(ctx context.Context, identityID string) (*domain.Profile, error) {
	record, err := s.resolver.Resolve(ctx, identityID, domain.EntryVolunteer)
	if err != nil {
		return nil, err
	}
	return s.GetAs(ctx, identityID, record.Role)
}

// GetAs skips role resolution; the role gate has already done it.
func (s *ProfileService) GetAs(ctx context.Context, identityID string, role domain.Role) (*domain.Profile, error) {
	if identityID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	var err error
	profile := &domain.Profile{Role: role}
	switch role {
	case domain.RoleOrganizer:
		profile.Organization, err = s.profileRepo.FindOrganizationProfile(ctx, identityID)
	default:
		profile.Volunteer, err = s.profileRepo.FindVolunteerProfile(ctx, identityID)
	}
	if errors.Is(err, domain.ErrProfileNotFound) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, domain.Persistence("find profile", err)
	}
	return profile, nil
}

// UpdateVolunteer is the profile-edit boundary for volunteers. It requires a
// phone number so that every volunteer who edits a profile can register.
func (s *ProfileService) UpdateVolunteer(ctx context.Context, identityID string, profile domain.VolunteerProfile) (*domain.VolunteerProfile, error) {
	if identityID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	profile.IdentityID = identityID
	if err := profile.Normalize(); err != nil {
		return nil, err
	}
	saved, err := s.profileRepo.UpsertVolunteerProfile(ctx, profile)
	if err != nil {
		return nil, domain.Persistence("upsert volunteer profile", err)
	}
	return saved, nil
}

func (s *ProfileService) UpdateOrganization(ctx context.Context, identityID string, profile domain.OrganizationProfile) (*domain.OrganizationProfile, error) {
	if identityID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	profile.IdentityID = identityID
	if err := profile.Normalize(); err != nil {
		return nil, err
	}
	saved, err := s.profileRepo.UpsertOrganizationProfile(ctx, profile)
	if err != nil {
		return nil, domain.Persistence("upsert organization profile", err)
	}
	return saved, nil
}
