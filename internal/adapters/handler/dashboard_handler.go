package handler

import (
	"errors"
	"net/http"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/adapters/middleware"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

type DashboardHandler struct {
	catalog  ports.EventCatalog
	ledger   ports.RegistrationLedger
	profiles ports.ProfileService
}

func NewDashboardHandler(catalog ports.EventCatalog, ledger ports.RegistrationLedger, profiles ports.ProfileService) *DashboardHandler {
	return &DashboardHandler{catalog: catalog, ledger: ledger, profiles: profiles}
}

type VolunteerDashboard struct {
	Profile      *domain.Profile       `json:"profile,omitempty"`
	Upcoming     []domain.EventListing `json:"upcoming"`
	Registered   []string              `json:"registered_event_ids"`
	ProfileReady bool                  `json:"profile_ready"`
}

type OrganizerDashboard struct {
	Profile *domain.Profile       `json:"profile,omitempty"`
	Events  []domain.EventListing `json:"events"`
}

// Volunteer lists upcoming events and marks those the caller joined.
// ProfileReady tells the client whether a phone number is on file.
func (h *DashboardHandler) Volunteer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identityID := middleware.IdentityID(ctx)

	profile, err := h.profile(r)
	if err != nil {
		writeError(w, err)
		return
	}
	upcoming, err := h.catalog.ListUpcoming(ctx, domain.EventFilter{})
	if err != nil {
		writeError(w, err)
		return
	}
	registered, err := h.ledger.ListMine(ctx, identityID)
	if err != nil {
		writeError(w, err)
		return
	}
	if registered == nil {
		registered = []string{}
	}

	ready := profile != nil && profile.Volunteer != nil && domain.ValidatePhone(profile.Volunteer.Phone) == nil
	writeJSON(w, http.StatusOK, VolunteerDashboard{
		Profile:      profile,
		Upcoming:     nonNilListings(upcoming),
		Registered:   registered,
		ProfileReady: ready,
	})
}

// Organizer lists the caller's events in every status with live counts.
func (h *DashboardHandler) Organizer(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profile(r)
	if err != nil {
		writeError(w, err)
		return
	}
	events, err := h.catalog.ListOwnedBy(r.Context(), middleware.IdentityID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OrganizerDashboard{Profile: profile, Events: nonNilListings(events)})
}

// profile tolerates a missing profile row; the dashboard still renders.
func (h *DashboardHandler) profile(r *http.Request) (*domain.Profile, error) {
	profile, err := callerProfile(r, h.profiles)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return nil, nil
	}
	return profile, err
}
