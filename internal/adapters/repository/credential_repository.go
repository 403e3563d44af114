package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

func (s *Store) FindIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	var identity domain.Identity
	err := s.run(func() error {
		return s.db.QueryRowContext(
			ctx,
			"SELECT id, email, password_hash, created_at FROM identities WHERE email = $1",
			email,
		).Scan(&identity.ID, &identity.Email, &identity.PasswordHash, &identity.CreatedAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

// CreateAccount writes the identity, its role record and its profile in one
// transaction.
func (s *Store) CreateAccount(ctx context.Context, account ports.Account) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		id := account.Identity.ID
		_, err := tx.ExecContext(ctx,
			"INSERT INTO identities (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)",
			id,
			account.Identity.Email,
			account.Identity.PasswordHash,
			account.Identity.CreatedAt,
		)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO users (id, email, role, created_at) VALUES ($1, $2, $3, $4)",
			id,
			account.Identity.Email,
			account.Role,
			account.Identity.CreatedAt,
		)
		if err != nil {
			return err
		}

		if v := account.Volunteer; v != nil {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO student_profiles (identity_id, full_name, phone, university, bio, interests, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				id, v.FullName, v.Phone, v.University, v.Bio, pq.Array(nonNil(v.Interests)), v.UpdatedAt,
			)
			if err != nil {
				return err
			}
		}
		if o := account.Organization; o != nil {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO organization_profiles
				 (identity_id, org_name, contact_person, contact_phone, contact_email, website, logo_ref, description, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				id, o.OrgName, o.ContactPerson, o.ContactPhone, o.ContactEmail, o.Website, o.LogoRef, o.Description, o.UpdatedAt,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
