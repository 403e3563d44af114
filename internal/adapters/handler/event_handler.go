package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/adapters/middleware"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

type EventHandler struct {
	catalog ports.EventCatalog
	ledger  ports.RegistrationLedger
}

func NewEventHandler(catalog ports.EventCatalog, ledger ports.RegistrationLedger) *EventHandler {
	return &EventHandler{catalog: catalog, ledger: ledger}
}

type StatusRequest struct {
	Status domain.EventStatus `json:"status"`
}

type EventListResponse struct {
	Events []domain.EventListing `json:"events"`
}

type AttendeesResponse struct {
	EventID   string            `json:"event_id"`
	Count     int               `json:"count"`
	Attendees []domain.Attendee `json:"attendees"`
}

// ListUpcoming serves GET /events?q=&location=&window=&tag=. Tags may be
// repeated or comma separated.
func (h *EventHandler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	window, err := domain.ParseTimeWindow(query.Get("window"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var tags []string
	for _, v := range query["tag"] {
		tags = append(tags, strings.Split(v, ",")...)
	}

	listings, err := h.catalog.ListUpcoming(r.Context(), domain.EventFilter{
		Query:    query.Get("q"),
		Location: query.Get("location"),
		Window:   window,
		Tags:     tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EventListResponse{Events: nonNilListings(listings)})
}

// Get serves one event. Owners also see their drafts and cancelled events.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	listing, err := h.catalog.Get(r.Context(), middleware.IdentityID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var fields domain.EventFields
	if err := decodeJSON(w, r, &fields); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	event, err := h.catalog.Create(r.Context(), middleware.IdentityID(r.Context()), fields)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/events/"+event.ID)
	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var fields domain.EventFields
	if err := decodeJSON(w, r, &fields); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	event, err := h.catalog.Update(r.Context(), middleware.IdentityID(r.Context()), chi.URLParam(r, "id"), fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), middleware.IdentityID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	event, err := h.catalog.SetStatus(r.Context(), middleware.IdentityID(r.Context()), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	event, err := h.catalog.Cancel(r.Context(), middleware.IdentityID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Attendees(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	attendees, err := h.ledger.ListAttendees(r.Context(), middleware.IdentityID(r.Context()), eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	if attendees == nil {
		attendees = []domain.Attendee{}
	}
	writeJSON(w, http.StatusOK, AttendeesResponse{EventID: eventID, Count: len(attendees), Attendees: attendees})
}

func nonNilListings(l []domain.EventListing) []domain.EventListing {
	if l == nil {
		return []domain.EventListing{}
	}
	return l
}
