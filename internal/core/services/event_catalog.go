package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

type EventCatalog struct {
	eventRepo        ports.EventRepository
	registrationRepo ports.RegistrationRepository
	profileRepo      ports.ProfileRepository
	defaultCapacity  int
	now              func() time.Time
}

var _ ports.EventCatalog = (*EventCatalog)(nil)

func NewEventCatalog(
	eventRepo ports.EventRepository,
	registrationRepo ports.RegistrationRepository,
	profileRepo ports.ProfileRepository,
	defaultCapacity int,
) *EventCatalog {
	if defaultCapacity <= 0 {
		defaultCapacity = domain.DefaultCapacity
	}
	return &EventCatalog{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		profileRepo:      profileRepo,
		defaultCapacity:  defaultCapacity,
		now:              time.Now,
	}
}

func (c *EventCatalog) Create(ctx context.Context, ownerID string, fields domain.EventFields) (*domain.Event, error) {
	if ownerID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	now := c.now()
	event := &domain.Event{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Status:    domain.StatusPublished,
		CreatedAt: now.UTC(),
	}
	if err := c.apply(event, fields, now); err != nil {
		return nil, err
	}
	event.UpdatedAt = event.CreatedAt

	if err := c.eventRepo.CreateEvent(ctx, event); err != nil {
		return nil, domain.Persistence("create event", err)
	}
	return event, nil
}

func (c *EventCatalog) Update(ctx context.Context, ownerID, eventID string, fields domain.EventFields) (*domain.Event, error) {
	event, err := c.owned(ctx, ownerID, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: cancelled events cannot be edited", domain.ErrInvalidStatus)
	}
	now := c.now()
	if err := c.apply(event, fields, now); err != nil {
		return nil, err
	}
	event.UpdatedAt = now.UTC()

	if err := c.eventRepo.UpdateEvent(ctx, event); err != nil {
		return nil, domain.Persistence("update event", err)
	}
	return event, nil
}

// Delete removes the event and every registration for it.
func (c *EventCatalog) Delete(ctx context.Context, ownerID, eventID string) error {
	event, err := c.owned(ctx, ownerID, eventID)
	if err != nil {
		return err
	}
	msg, err := newOutboxMessage(ports.EventEventDeleted, event.ID, "", c.now())
	if err != nil {
		return err
	}
	if err := c.eventRepo.DeleteEvent(ctx, event.ID, msg); err != nil {
		return domain.Persistence("delete event", err)
	}
	return nil
}

// SetStatus toggles an event between draft and published.
func (c *EventCatalog) SetStatus(ctx context.Context, ownerID, eventID string, status domain.EventStatus) (*domain.Event, error) {
	if status != domain.StatusDraft && status != domain.StatusPublished {
		return nil, fmt.Errorf("%w: status must be draft or published", domain.ErrInvalidStatus)
	}
	event, err := c.owned(ctx, ownerID, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: event is cancelled", domain.ErrInvalidStatus)
	}
	if event.Status == status {
		return event, nil
	}
	event.Status = status
	event.UpdatedAt = c.now().UTC()
	if err := c.eventRepo.UpdateEvent(ctx, event); err != nil {
		return nil, domain.Persistence("set event status", err)
	}
	return event, nil
}

// Cancel moves the event to the terminal cancelled status. Cancelling an
// already cancelled event is a no-op.
func (c *EventCatalog) Cancel(ctx context.Context, ownerID, eventID string) (*domain.Event, error) {
	event, err := c.owned(ctx, ownerID, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status == domain.StatusCancelled {
		return event, nil
	}
	now := c.now()
	msg, err := newOutboxMessage(ports.EventEventCancelled, event.ID, "", now)
	if err != nil {
		return nil, err
	}
	event.Status = domain.StatusCancelled
	event.UpdatedAt = now.UTC()
	if err := c.eventRepo.UpdateEvent(ctx, event, msg); err != nil {
		return nil, domain.Persistence("cancel event", err)
	}
	return event, nil
}

// Get returns a published event to anyone and an event in any status to its
// owner. Other callers see domain.ErrEventNotFound for unpublished events.
func (c *EventCatalog) Get(ctx context.Context, callerID, eventID string) (*domain.EventListing, error) {
	event, err := c.find(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.StatusPublished && event.OwnerID != callerID {
		return nil, domain.ErrEventNotFound
	}

	listing := domain.EventListing{Event: *event}
	org, err := c.profileRepo.FindOrganizationProfile(ctx, event.OwnerID)
	switch {
	case err == nil:
		listing.OrganizerName = org.OrgName
	case !errors.Is(err, domain.ErrProfileNotFound):
		return nil, domain.Persistence("find organizer profile", err)
	}

	listings := []domain.EventListing{listing}
	if err := c.annotate(ctx, listings); err != nil {
		return nil, err
	}
	return &listings[0], nil
}

// ListUpcoming returns published events that have not started, ordered by
// start time, narrowed by filter.
func (c *EventCatalog) ListUpcoming(ctx context.Context, filter domain.EventFilter) ([]domain.EventListing, error) {
	now := c.now()
	rows, err := c.eventRepo.FindUpcoming(ctx, now, filter)
	if err != nil {
		return nil, domain.Persistence("find upcoming events", err)
	}

	upcoming := make([]domain.EventListing, 0, len(rows))
	for _, l := range rows {
		if l.Status == domain.StatusPublished && !l.StartTime.Before(now) {
			upcoming = append(upcoming, l)
		}
	}
	listings := filter.Apply(upcoming, now)
	sortByStart(listings)

	if err := c.annotate(ctx, listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// ListOwnedBy returns all events of ownerID regardless of status.
func (c *EventCatalog) ListOwnedBy(ctx context.Context, ownerID string) ([]domain.EventListing, error) {
	if ownerID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	listings, err := c.eventRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, domain.Persistence("find owned events", err)
	}
	sortByStart(listings)

	if err := c.annotate(ctx, listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (c *EventCatalog) find(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := c.eventRepo.FindEvent(ctx, eventID)
	if errors.Is(err, domain.ErrEventNotFound) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, domain.Persistence("find event", err)
	}
	return event, nil
}

func (c *EventCatalog) owned(ctx context.Context, ownerID, eventID string) (*domain.Event, error) {
	if ownerID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	event, err := c.find(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OwnerID != ownerID {
		log.Printf("catalog: %s attempted to modify event %s owned by %s", ownerID, eventID, event.OwnerID)
		return nil, domain.ErrNotOwner
	}
	return event, nil
}

// apply validates fields and copies them onto event.
func (c *EventCatalog) apply(event *domain.Event, fields domain.EventFields, now time.Time) error {
	title := strings.TrimSpace(fields.Title)
	location := strings.TrimSpace(fields.Location)
	if title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidEvent)
	}
	if location == "" {
		return fmt.Errorf("%w: location is required", domain.ErrInvalidEvent)
	}
	if err := domain.ValidateSchedule(fields.StartTime, fields.EndTime, now); err != nil {
		return err
	}

	capacity := fields.Capacity
	switch {
	case capacity < 0:
		return domain.ErrInvalidCapacity
	case capacity == 0 && event.Capacity > 0:
		capacity = event.Capacity
	case capacity == 0:
		capacity = c.defaultCapacity
	}

	switch fields.Status {
	case "":
	case domain.StatusDraft, domain.StatusPublished:
		event.Status = fields.Status
	default:
		return fmt.Errorf("%w: status must be draft or published", domain.ErrInvalidStatus)
	}

	event.Title = title
	event.Description = strings.TrimSpace(fields.Description)
	event.Category = domain.ParseCategory(fields.Category)
	event.Location = location
	event.StartTime = fields.StartTime.UTC()
	event.EndTime = fields.EndTime.UTC()
	event.Capacity = capacity
	event.Tags = domain.NormalizeTags(fields.Tags)
	return nil
}

func (c *EventCatalog) annotate(ctx context.Context, listings []domain.EventListing) error {
	if len(listings) == 0 {
		return nil
	}
	ids := make([]string, len(listings))
	for i := range listings {
		ids[i] = listings[i].ID
	}
	counts, err := c.registrationRepo.CountByEvents(ctx, ids)
	if err != nil {
		return domain.Persistence("count registrations", err)
	}
	for i := range listings {
		listings[i].RegistrationCount = counts[listings[i].ID]
	}
	return nil
}

func sortByStart(listings []domain.EventListing) {
	sort.SliceStable(listings, func(i, j int) bool {
		if !listings[i].StartTime.Equal(listings[j].StartTime) {
			return listings[i].StartTime.Before(listings[j].StartTime)
		}
		return listings[i].ID < listings[j].ID
	})
}
