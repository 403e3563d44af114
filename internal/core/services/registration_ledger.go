package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

// Registration outcomes reported to metrics.
const (
	registrationCreated   = "created"
	registrationDuplicate = "duplicate"
	registrationRemoved   = "removed"
	registrationAbsent    = "absent"
)

type RegistrationLedger struct {
	registrationRepo ports.RegistrationRepository
	eventRepo        ports.EventRepository
	metrics          ports.Metrics
	now              func() time.Time
}

var _ ports.RegistrationLedger = (*RegistrationLedger)(nil)

func NewRegistrationLedger(
	registrationRepo ports.RegistrationRepository,
	eventRepo ports.EventRepository,
	metrics ports.Metrics,
) *RegistrationLedger {
	return &RegistrationLedger{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		metrics:          orNop(metrics),
		now:              time.Now,
	}
}

// Register joins volunteerID to a published, upcoming event. A duplicate call
// returns the existing registration together with domain.ErrAlreadyRegistered,
// whether the duplicate was seen up front or lost the insert race.
func (l *RegistrationLedger) Register(ctx context.Context, volunteerID, eventID string) (*domain.Registration, error) {
	if volunteerID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	event, err := l.eventRepo.FindEvent(ctx, eventID)
	if errors.Is(err, domain.ErrEventNotFound) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, domain.Persistence("find event", err)
	}
	if event.Status != domain.StatusPublished {
		return nil, domain.ErrEventNotPublished
	}

	now := l.now()
	if event.StartTime.Before(now) {
		return nil, domain.ErrEventStarted
	}

	reg := domain.Registration{
		EventID:      eventID,
		IdentityID:   volunteerID,
		RegisteredAt: now.UTC(),
	}
	msg, err := newOutboxMessage(ports.EventRegistrationCreated, eventID, volunteerID, now)
	if err != nil {
		return nil, err
	}

	err = l.registrationRepo.CreateRegistration(ctx, reg, msg)
	switch {
	case err == nil:
		l.metrics.RegistrationChanged(registrationCreated)
		return &reg, nil
	case errors.Is(err, domain.ErrAlreadyRegistered):
		l.metrics.RegistrationChanged(registrationDuplicate)
		existing, findErr := l.registrationRepo.FindRegistration(ctx, eventID, volunteerID)
		if findErr != nil {
			return nil, domain.Persistence("find existing registration", findErr)
		}
		return existing, domain.ErrAlreadyRegistered
	case errors.Is(err, domain.ErrEventNotFound):
		// deleted between the lookup and the insert
		return nil, domain.ErrEventNotFound
	default:
		return nil, domain.Persistence("create registration", err)
	}
}

// Unregister removes the caller's own registration. Removing an absent
// registration succeeds.
func (l *RegistrationLedger) Unregister(ctx context.Context, volunteerID, eventID string) error {
	if volunteerID == "" {
		return domain.ErrNotAuthenticated
	}
	msg, err := newOutboxMessage(ports.EventRegistrationRemoved, eventID, volunteerID, l.now())
	if err != nil {
		return err
	}
	removed, err := l.registrationRepo.DeleteRegistration(ctx, eventID, volunteerID, msg)
	if err != nil {
		return domain.Persistence("delete registration", err)
	}
	if removed {
		l.metrics.RegistrationChanged(registrationRemoved)
	} else {
		l.metrics.RegistrationChanged(registrationAbsent)
	}
	return nil
}

func (l *RegistrationLedger) CountFor(ctx context.Context, eventID string) (int, error) {
	counts, err := l.registrationRepo.CountByEvents(ctx, []string{eventID})
	if err != nil {
		return 0, domain.Persistence("count registrations", err)
	}
	return counts[eventID], nil
}

// ListAttendees exposes attendee contact details to the event owner only.
func (l *RegistrationLedger) ListAttendees(ctx context.Context, ownerID, eventID string) ([]domain.Attendee, error) {
	if ownerID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	event, err := l.eventRepo.FindEvent(ctx, eventID)
	if errors.Is(err, domain.ErrEventNotFound) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, domain.Persistence("find event", err)
	}
	if event.OwnerID != ownerID {
		log.Printf("ledger: %s denied attendee list of event %s", ownerID, eventID)
		return nil, domain.ErrNotOwner
	}

	attendees, err := l.registrationRepo.FindAttendees(ctx, eventID)
	if err != nil {
		return nil, domain.Persistence("find attendees", err)
	}
	sort.SliceStable(attendees, func(i, j int) bool {
		if !attendees[i].RegisteredAt.Equal(attendees[j].RegisteredAt) {
			return attendees[i].RegisteredAt.Before(attendees[j].RegisteredAt)
		}
		return attendees[i].IdentityID < attendees[j].IdentityID
	})
	return attendees, nil
}

// ListMine returns the ids of events volunteerID is registered for.
func (l *RegistrationLedger) ListMine(ctx context.Context, volunteerID string) ([]string, error) {
	if volunteerID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	ids, err := l.registrationRepo.FindEventIDsByIdentity(ctx, volunteerID)
	if err != nil {
		return nil, domain.Persistence("find registrations", err)
	}
	return ids, nil
}
