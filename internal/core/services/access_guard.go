package services

import (
	"context"
	"log"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

type AccessGuard struct {
	resolver ports.RoleResolver
	metrics  ports.Metrics
}

var _ ports.AccessGuard = (*AccessGuard)(nil)

func NewAccessGuard(resolver ports.RoleResolver, metrics ports.Metrics) *AccessGuard {
	return &AccessGuard{
		resolver: resolver,
		metrics:  orNop(metrics),
	}
}

// Authorize gates one request for a resource that requires role required.
// An empty identityID means the caller is anonymous. Resolution failures fail
// closed and send the caller to the login entry.
func (g *AccessGuard) Authorize(ctx context.Context, identityID string, required domain.Role) domain.Decision {
	d := g.decide(ctx, identityID, required)
	label := string(d.Outcome)
	if d.Reason != "" {
		label = string(d.Reason)
	}
	g.metrics.AccessDecided(string(required), label)
	return d
}

func (g *AccessGuard) decide(ctx context.Context, identityID string, required domain.Role) domain.Decision {
	toLogin := domain.Decision{
		Outcome:  domain.OutcomeRedirect,
		Location: domain.LoginFor(required),
		Reason:   domain.KindNotAuthenticated,
	}
	if identityID == "" {
		return toLogin
	}

	record, err := g.resolver.Resolve(ctx, identityID, domain.EntryVolunteer)
	if err != nil {
		log.Printf("auth: role resolution failed for %s, treating as unauthenticated: %v", identityID, err)
		return toLogin
	}

	if record.Role != required {
		log.Printf("auth: role mismatch for %s: required %s, resolved %s", identityID, required, record.Role)
		return domain.Decision{
			Outcome:  domain.OutcomeRedirect,
			Location: domain.DashboardFor(record.Role),
			Role:     record.Role,
			Reason:   domain.KindRoleMismatch,
		}
	}
	return domain.Decision{Outcome: domain.OutcomeAllow, Role: record.Role}
}
