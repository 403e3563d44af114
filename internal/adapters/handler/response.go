package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
)

const maxBodyBytes = 1 << 20

// retryAfterSeconds is advertised on persistence failures.
const retryAfterSeconds = "5"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   domain.Kind `json:"error"`
	Message string      `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

// statusFor maps a failure kind to its HTTP status.
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindNotAuthenticated, domain.KindInvalidCredentials:
		return http.StatusUnauthorized
	case domain.KindNotOwner, domain.KindRoleMismatch:
		return http.StatusForbidden
	case domain.KindEventNotFound, domain.KindProfileNotFound:
		return http.StatusNotFound
	case domain.KindAlreadyRegistered, domain.KindEmailTaken, domain.KindInvalidStatus,
		domain.KindEventNotPublished, domain.KindEventStarted:
		return http.StatusConflict
	case domain.KindInvalidSchedule, domain.KindScheduleInPast, domain.KindInvalidCapacity,
		domain.KindInvalidEvent, domain.KindInvalidSignup, domain.KindInvalidProfile:
		return http.StatusUnprocessableEntity
	case domain.KindPersistenceFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the stable kind of err. Internal and persistence
// failures are logged and their detail is withheld from the client.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)
	message := err.Error()

	switch kind {
	case domain.KindPersistenceFailure:
		log.Printf("handler: storage unavailable: %v", err)
		w.Header().Set("Retry-After", retryAfterSeconds)
		message = "service temporarily unavailable, please retry"
	case domain.KindInternal:
		log.Printf("handler: internal error: %v", err)
		message = "internal error"
	}
	writeJSON(w, status, ErrorResponse{Error: kind, Message: message})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: message})
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("invalid request body: trailing data")
	}
	return nil
}
