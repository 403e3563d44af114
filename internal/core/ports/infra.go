package ports

import (
	"context"
	"time"
)

// SessionRevoker tracks sessions ended by logout until they would have expired.
type SessionRevoker interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// Metrics receives the outcome of core decisions.
type Metrics interface {
	RoleResolved(outcome string)
	RegistrationChanged(outcome string)
	AccessDecided(role, outcome string)
}
