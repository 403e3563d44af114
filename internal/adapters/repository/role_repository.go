package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
)

func (s *Store) FindRole(ctx context.Context, identityID string) (*domain.RoleRecord, error) {
	var record domain.RoleRecord
	err := s.run(func() error {
		return s.db.QueryRowContext(
			ctx,
			"SELECT id, email, role, created_at FROM users WHERE id = $1",
			identityID,
		).Scan(&record.IdentityID, &record.Email, &record.Role, &record.CreatedAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateRole inserts the role record, copying the email from the credential
// store. The primary key on users.id decides concurrent inserts.
func (s *Store) CreateRole(ctx context.Context, record domain.RoleRecord) error {
	var inserted int64
	err := s.run(func() error {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO users (id, email, role, created_at)
			 SELECT id, email, $2, $3 FROM identities WHERE id = $1`,
			record.IdentityID,
			record.Role,
			record.CreatedAt,
		)
		if err != nil {
			return err
		}
		inserted, err = res.RowsAffected()
		return err
	})
	if isUniqueViolation(err) {
		return domain.ErrRoleExists
	}
	if err != nil {
		return err
	}
	if inserted == 0 {
		return fmt.Errorf("create role for %s: %w", record.IdentityID, domain.ErrIdentityNotFound)
	}
	return nil
}
