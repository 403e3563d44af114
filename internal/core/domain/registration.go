package domain

import "time"

// Registration links one volunteer identity to one event. At most one exists
// per (EventID, IdentityID).
type Registration struct {
	EventID      string    `json:"event_id"`
	IdentityID   string    `json:"identity_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Attendee is a registration enriched with the volunteer's contact details.
// It is only ever handed to the owner of the event.
type Attendee struct {
	IdentityID   string           `json:"identity_id"`
	Email        string           `json:"email"`
	Profile      VolunteerProfile `json:"profile"`
	RegisteredAt time.Time        `json:"registered_at"`
}
