package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/adapters/middleware"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

type RegistrationHandler struct {
	ledger ports.RegistrationLedger
}

func NewRegistrationHandler(ledger ports.RegistrationLedger) *RegistrationHandler {
	return &RegistrationHandler{ledger: ledger}
}

type RegistrationResponse struct {
	Message           string              `json:"message"`
	Registration      domain.Registration `json:"registration"`
	RegistrationCount int                 `json:"registration_count"`
}

type MyRegistrationsResponse struct {
	EventIDs []string `json:"event_ids"`
}

// Register answers 201 for a new registration and 200 with the existing one
// for a repeat.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	reg, err := h.ledger.Register(r.Context(), middleware.IdentityID(r.Context()), eventID)

	status, message := http.StatusCreated, "Registered"
	switch {
	case errors.Is(err, domain.ErrAlreadyRegistered) && reg != nil:
		status, message = http.StatusOK, "Already registered"
	case err != nil:
		writeError(w, err)
		return
	}

	count, err := h.ledger.CountFor(r.Context(), eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, RegistrationResponse{
		Message:           message,
		Registration:      *reg,
		RegistrationCount: count,
	})
}

// Unregister is idempotent: removing an absent registration also answers 204.
func (h *RegistrationHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Unregister(r.Context(), middleware.IdentityID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RegistrationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ids, err := h.ledger.ListMine(r.Context(), middleware.IdentityID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, MyRegistrationsResponse{EventIDs: ids})
}
