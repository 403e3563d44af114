package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrNotAuthenticated   = errors.New("no authenticated identity")
	ErrNotOwner           = errors.New("only the event owner can perform this action")
	ErrAlreadyRegistered  = errors.New("already registered for this event")
	ErrEventNotFound      = errors.New("event not found")
	ErrEventNotPublished  = fmt.Errorf("%w: event is not published", ErrEventNotFound)
	ErrEventStarted       = fmt.Errorf("%w: event has already started", ErrEventNotFound)
	ErrInvalidSchedule    = errors.New("end time must be after start time")
	ErrScheduleInPast     = errors.New("start time must not be in the past")
	ErrInvalidCapacity    = errors.New("capacity must be a positive integer")
	ErrInvalidStatus      = errors.New("status transition not allowed")
	ErrInvalidEvent       = errors.New("event is missing required fields")
	ErrRoleMismatch       = errors.New("role does not match the requested resource")
	ErrPersistenceFailure = errors.New("persistence failure")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidSignup      = errors.New("invalid signup request")
	ErrInvalidProfile     = errors.New("invalid profile")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrRoleNotFound       = errors.New("role record not found")
	ErrRoleExists         = errors.New("role record already exists")
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrNotRegistered      = errors.New("registration not found")
)

// Kind is the stable machine-readable name of a failure.
type Kind string

const (
	KindNotAuthenticated   Kind = "not_authenticated"
	KindNotOwner           Kind = "not_owner"
	KindAlreadyRegistered  Kind = "already_registered"
	KindEventNotFound      Kind = "event_not_found"
	KindEventNotPublished  Kind = "event_not_published"
	KindEventStarted       Kind = "event_started"
	KindInvalidSchedule    Kind = "invalid_schedule"
	KindScheduleInPast     Kind = "schedule_in_past"
	KindInvalidCapacity    Kind = "invalid_capacity"
	KindInvalidStatus      Kind = "invalid_status"
	KindInvalidEvent       Kind = "invalid_event"
	KindRoleMismatch       Kind = "role_mismatch"
	KindPersistenceFailure Kind = "persistence_failure"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindEmailTaken         Kind = "email_taken"
	KindInvalidSignup      Kind = "invalid_signup"
	KindInvalidProfile     Kind = "invalid_profile"
	KindProfileNotFound    Kind = "profile_not_found"
	KindInternal           Kind = "internal"
)

// kinds is ordered most specific first: ErrEventNotPublished and
// ErrEventStarted also match ErrEventNotFound.
var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrEventNotPublished, KindEventNotPublished},
	{ErrEventStarted, KindEventStarted},
	{ErrEventNotFound, KindEventNotFound},
	{ErrNotAuthenticated, KindNotAuthenticated},
	{ErrNotOwner, KindNotOwner},
	{ErrAlreadyRegistered, KindAlreadyRegistered},
	{ErrInvalidSchedule, KindInvalidSchedule},
	{ErrScheduleInPast, KindScheduleInPast},
	{ErrInvalidCapacity, KindInvalidCapacity},
	{ErrInvalidStatus, KindInvalidStatus},
	{ErrInvalidEvent, KindInvalidEvent},
	{ErrRoleMismatch, KindRoleMismatch},
	{ErrInvalidCredentials, KindInvalidCredentials},
	{ErrEmailTaken, KindEmailTaken},
	{ErrInvalidSignup, KindInvalidSignup},
	{ErrInvalidProfile, KindInvalidProfile},
	{ErrProfileNotFound, KindProfileNotFound},
	{ErrPersistenceFailure, KindPersistenceFailure},
}

// KindOf classifies err. Unknown errors are reported as KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// Persistence marks err as a retryable storage failure while keeping the cause
// in the chain.
func Persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistenceFailure, err)
}
