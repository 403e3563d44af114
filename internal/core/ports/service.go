package ports

import (
	"context"
	"time"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
)

// Session is an issued login session.
type Session struct {
	ID         string    `json:"-"`
	IdentityID string    `json:"identity_id"`
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type SignupRequest struct {
	Email        string
	Password     string
	Volunteer    *domain.VolunteerProfile
	Organization *domain.OrganizationProfile
}

// LoginResult is returned alongside domain.ErrRoleMismatch when the resolved
// role does not match the entry point; Redirect then names the resolved
// role's dashboard.
type LoginResult struct {
	Session  Session     `json:"session"`
	Role     domain.Role `json:"role"`
	Redirect string      `json:"redirect"`
}

type IdentityService interface {
	Signup(ctx context.Context, entry domain.EntryContext, req SignupRequest) (*LoginResult, error)
	Login(ctx context.Context, entry domain.EntryContext, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	CurrentIdentity(ctx context.Context, token string) (*Session, error)
}

type RoleResolver interface {
	Resolve(ctx context.Context, identityID string, entry domain.EntryContext) (*domain.RoleRecord, error)
}

type AccessGuard interface {
	Authorize(ctx context.Context, identityID string, required domain.Role) domain.Decision
}

type EventCatalog interface {
	Create(ctx context.Context, ownerID string, fields domain.EventFields) (*domain.Event, error)
	Update(ctx context.Context, ownerID, eventID string, fields domain.EventFields) (*domain.Event, error)
	Delete(ctx context.Context, ownerID, eventID string) error
	SetStatus(ctx context.Context, ownerID, eventID string, status domain.EventStatus) (*domain.Event, error)
	Cancel(ctx context.Context, ownerID, eventID string) (*domain.Event, error)
	Get(ctx context.Context, callerID, eventID string) (*domain.EventListing, error)
	ListUpcoming(ctx context.Context, filter domain.EventFilter) ([]domain.EventListing, error)
	ListOwnedBy(ctx context.Context, ownerID string) ([]domain.EventListing, error)
}

type RegistrationLedger interface {
	Register(ctx context.Context, volunteerID, eventID string) (*domain.Registration, error)
	Unregister(ctx context.Context, volunteerID, eventID string) error
	CountFor(ctx context.Context, eventID string) (int, error)
	ListAttendees(ctx context.Context, ownerID, eventID string) ([]domain.Attendee, error)
	ListMine(ctx context.Context, volunteerID string) ([]string, error)
}

type ProfileService interface {
	Get(ctx context.Context, identityID string) (*domain.Profile, error)
	// GetAs reads the profile for a role the caller has already resolved.
	GetAs(ctx context.Context, identityID string, role domain.Role) (*domain.Profile, error)
	UpdateVolunteer(ctx context.Context, identityID string, profile domain.VolunteerProfile) (*domain.VolunteerProfile, error)
	UpdateOrganization(ctx context.Context, identityID string, profile domain.OrganizationProfile) (*domain.OrganizationProfile, error)
}
