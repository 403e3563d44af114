package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

// Role resolution outcomes reported to metrics.
const (
	resolvedExisting    = "existing"
	resolvedSynthesized = "synthesized"
	resolvedRaced       = "raced"
	resolvedFailed      = "failed"
)

type RoleResolver struct {
	roleRepo ports.RoleRepository
	metrics  ports.Metrics
	now      func() time.Time
}

var _ ports.RoleResolver = (*RoleResolver)(nil)

func NewRoleResolver(roleRepo ports.RoleRepository, metrics ports.Metrics) *RoleResolver {
	return &RoleResolver{
		roleRepo: roleRepo,
		metrics:  orNop(metrics),
		now:      time.Now,
	}
}

// Resolve returns the role record of identityID, synthesizing one from the
// entry context when none exists. Concurrent first resolutions converge on a
// single stored record: the loser of the insert race rereads the winner's row.
func (r *RoleResolver) Resolve(ctx context.Context, identityID string, entry domain.EntryContext) (*domain.RoleRecord, error) {
	if identityID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	record, err := r.roleRepo.FindRole(ctx, identityID)
	if err == nil {
		r.metrics.RoleResolved(resolvedExisting)
		return record, nil
	}
	if !errors.Is(err, domain.ErrRoleNotFound) {
		r.metrics.RoleResolved(resolvedFailed)
		return nil, domain.Persistence("find role", err)
	}

	synthesized := domain.RoleRecord{
		IdentityID: identityID,
		Role:       entry.DefaultRole(),
		CreatedAt:  r.now().UTC(),
	}
	err = r.roleRepo.CreateRole(ctx, synthesized)
	switch {
	case err == nil:
		log.Printf("auth: synthesized missing role record for %s as %s", identityID, synthesized.Role)
		r.metrics.RoleResolved(resolvedSynthesized)
		return &synthesized, nil
	case errors.Is(err, domain.ErrRoleExists):
		winner, rereadErr := r.roleRepo.FindRole(ctx, identityID)
		if rereadErr != nil {
			r.metrics.RoleResolved(resolvedFailed)
			return nil, domain.Persistence("reread role", rereadErr)
		}
		r.metrics.RoleResolved(resolvedRaced)
		return winner, nil
	default:
		r.metrics.RoleResolved(resolvedFailed)
		return nil, domain.Persistence(fmt.Sprintf("create role for %s", identityID), err)
	}
}
