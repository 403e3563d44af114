package ports

import (
	"context"
	"time"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
)

// Account is everything written when a new identity signs up: the identity,
// its role record and the profile for that role. Implementations persist it
// atomically.
type Account struct {
	Identity     domain.Identity
	Role         domain.Role
	Volunteer    *domain.VolunteerProfile
	Organization *domain.OrganizationProfile
}

type CredentialRepository interface {
	// FindIdentityByEmail returns domain.ErrIdentityNotFound when absent.
	FindIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error)
	// CreateAccount returns domain.ErrEmailTaken on a duplicate email.
	CreateAccount(ctx context.Context, account Account) error
}

type RoleRepository interface {
	// FindRole returns domain.ErrRoleNotFound when the identity has no record.
	FindRole(ctx context.Context, identityID string) (*domain.RoleRecord, error)
	// CreateRole returns domain.ErrRoleExists when a record already exists.
	CreateRole(ctx context.Context, record domain.RoleRecord) error
}

type ProfileRepository interface {
	FindVolunteerProfile(ctx context.Context, identityID string) (*domain.VolunteerProfile, error)
	UpsertVolunteerProfile(ctx context.Context, profile domain.VolunteerProfile) (*domain.VolunteerProfile, error)
	FindOrganizationProfile(ctx context.Context, identityID string) (*domain.OrganizationProfile, error)
	UpsertOrganizationProfile(ctx context.Context, profile domain.OrganizationProfile) (*domain.OrganizationProfile, error)
}

type EventRepository interface {
	CreateEvent(ctx context.Context, event *domain.Event) error
	// FindEvent returns domain.ErrEventNotFound when absent.
	FindEvent(ctx context.Context, id string) (*domain.Event, error)
	// UpdateEvent writes event and, in the same transaction, any outbox messages.
	UpdateEvent(ctx context.Context, event *domain.Event, msgs ...OutboxMessage) error
	// DeleteEvent removes the event together with all of its registrations.
	DeleteEvent(ctx context.Context, id string, msgs ...OutboxMessage) error
	// FindUpcoming returns published events starting at or after now, ordered
	// by start time ascending, with the organizer name filled in. The store may
	// narrow the result by filter; it must never drop a listing the filter keeps.
	FindUpcoming(ctx context.Context, now time.Time, filter domain.EventFilter) ([]domain.EventListing, error)
	// FindByOwner returns every event of ownerID ordered by start time ascending.
	FindByOwner(ctx context.Context, ownerID string) ([]domain.EventListing, error)
}

type RegistrationRepository interface {
	// CreateRegistration relies on the (event_id, identity_id) uniqueness
	// constraint and returns domain.ErrAlreadyRegistered when it trips.
	CreateRegistration(ctx context.Context, reg domain.Registration, msg OutboxMessage) error
	// FindRegistration returns domain.ErrNotRegistered when absent.
	FindRegistration(ctx context.Context, eventID, identityID string) (*domain.Registration, error)
	// DeleteRegistration reports whether a row was removed. The outbox message
	// is only written when it was.
	DeleteRegistration(ctx context.Context, eventID, identityID string, msg OutboxMessage) (bool, error)
	CountByEvents(ctx context.Context, eventIDs []string) (map[string]int, error)
	// FindAttendees orders by registration time ascending.
	FindAttendees(ctx context.Context, eventID string) ([]domain.Attendee, error)
	FindEventIDsByIdentity(ctx context.Context, identityID string) ([]string, error)
}
