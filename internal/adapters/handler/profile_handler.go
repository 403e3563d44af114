package handler

import (
	"net/http"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/adapters/middleware"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

type ProfileHandler struct {
	profiles ports.ProfileService
}

func NewProfileHandler(profiles ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// callerProfile reuses the role RequireRole put in the context and resolves it
// only on routes without a role gate.
func callerProfile(r *http.Request, profiles ports.ProfileService) (*domain.Profile, error) {
	ctx := r.Context()
	if role := middleware.RoleFrom(ctx); role != "" {
		return profiles.GetAs(ctx, middleware.IdentityID(ctx), role)
	}
	return profiles.Get(ctx, middleware.IdentityID(ctx))
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := callerProfile(r, h.profiles)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateVolunteer(w http.ResponseWriter, r *http.Request) {
	var profile domain.VolunteerProfile
	if err := decodeJSON(w, r, &profile); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	saved, err := h.profiles.UpdateVolunteer(r.Context(), middleware.IdentityID(r.Context()), profile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *ProfileHandler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	var profile domain.OrganizationProfile
	if err := decodeJSON(w, r, &profile); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	saved, err := h.profiles.UpdateOrganization(r.Context(), middleware.IdentityID(r.Context()), profile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
