package domain

import "time"

type Role string

const (
	RoleVolunteer Role = "volunteer"
	RoleOrganizer Role = "organizer"
)

// Valid reports whether r is one of the two supported roles.
func (r Role) Valid() bool {
	return r == RoleVolunteer || r == RoleOrganizer
}

// EntryContext identifies the authentication path an identity arrived through.
// It decides the default role when a missing role record is synthesized.
type EntryContext string

const (
	EntryVolunteer EntryContext = "volunteer_entry"
	EntryOrganizer EntryContext = "organizer_entry"
)

// DefaultRole is the role synthesized for an identity without a role record.
func (e EntryContext) DefaultRole() Role {
	if e == EntryOrganizer {
		return RoleOrganizer
	}
	return RoleVolunteer
}

// EntryFor returns the entry context whose default role is r.
func EntryFor(r Role) EntryContext {
	if r == RoleOrganizer {
		return EntryOrganizer
	}
	return EntryVolunteer
}

// Identity is a principal created by the credential store.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RoleRecord binds an identity to exactly one role. It is written once and
// never transitioned.
type RoleRecord struct {
	IdentityID string    `json:"identity_id"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// Route targets handed to the presentation layer.
const (
	VolunteerDashboard = "/dashboard"
	OrganizerDashboard = "/org/dashboard"
	VolunteerLogin     = "/auth/login"
	OrganizerLogin     = "/auth/org-login"
)

// DashboardFor returns the dashboard matching role r.
func DashboardFor(r Role) string {
	if r == RoleOrganizer {
		return OrganizerDashboard
	}
	return VolunteerDashboard
}

// LoginFor returns the login entry for resources that require role r.
func LoginFor(r Role) string {
	if r == RoleOrganizer {
		return OrganizerLogin
	}
	return VolunteerLogin
}
