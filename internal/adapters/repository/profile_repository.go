package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
)

func (s *Store) FindVolunteerProfile(ctx context.Context, identityID string) (*domain.VolunteerProfile, error) {
	p := domain.VolunteerProfile{IdentityID: identityID}
	err := s.run(func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT full_name, phone, university, bio, interests, updated_at
			 FROM student_profiles WHERE identity_id = $1`,
			identityID,
		).Scan(&p.FullName, &p.Phone, &p.University, &p.Bio, pq.Array(&p.Interests), &p.UpdatedAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) UpsertVolunteerProfile(ctx context.Context, p domain.VolunteerProfile) (*domain.VolunteerProfile, error) {
	err := s.run(func() error {
		return s.db.QueryRowContext(ctx,
			`INSERT INTO student_profiles (identity_id, full_name, phone, university, bio, interests, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, NOW())
			 ON CONFLICT (identity_id) DO UPDATE SET
			   full_name = EXCLUDED.full_name,
			   phone = EXCLUDED.phone,
			   university = EXCLUDED.university,
			   bio = EXCLUDED.bio,
			   interests = EXCLUDED.interests,
			   updated_at = EXCLUDED.updated_at
			 RETURNING updated_at`,
			p.IdentityID, p.FullName, p.Phone, p.University, p.Bio, pq.Array(nonNil(p.Interests)),
		).Scan(&p.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) FindOrganizationProfile(ctx context.Context, identityID string) (*domain.OrganizationProfile, error) {
	p := domain.OrganizationProfile{IdentityID: identityID}
	err := s.run(func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT org_name, contact_person, contact_phone, contact_email, website, logo_ref, description, updated_at
			 FROM organization_profiles WHERE identity_id = $1`,
			identityID,
		).Scan(&p.OrgName, &p.ContactPerson, &p.ContactPhone, &p.ContactEmail, &p.Website, &p.LogoRef, &p.Description, &p.UpdatedAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) UpsertOrganizationProfile(ctx context.Context, p domain.OrganizationProfile) (*domain.OrganizationProfile, error) {
	err := s.run(func() error {
		return s.db.QueryRowContext(ctx,
			`INSERT INTO organization_profiles
			 (identity_id, org_name, contact_person, contact_phone, contact_email, website, logo_ref, description, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
			 ON CONFLICT (identity_id) DO UPDATE SET
			   org_name = EXCLUDED.org_name,
			   contact_person = EXCLUDED.contact_person,
			   contact_phone = EXCLUDED.contact_phone,
			   contact_email = EXCLUDED.contact_email,
			   website = EXCLUDED.website,
			   logo_ref = EXCLUDED.logo_ref,
			   description = EXCLUDED.description,
			   updated_at = EXCLUDED.updated_at
			 RETURNING updated_at`,
			p.IdentityID, p.OrgName, p.ContactPerson, p.ContactPhone, p.ContactEmail, p.Website, p.LogoRef, p.Description,
		).Scan(&p.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
