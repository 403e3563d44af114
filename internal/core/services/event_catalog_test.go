package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/mocks"
)

func newCatalog(store *mocks.Store) *EventCatalog {
	c := NewEventCatalog(store, store, store, 0)
	c.now = fixedClock
	return c
}

func TestEventCatalog_Create(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.EventFields)
		wantErr error
		check   func(*testing.T, *domain.Event)
	}{
		{
			name: "valid_event_defaults_to_published_with_default_capacity",
			check: func(t *testing.T, e *domain.Event) {
				assert.Equal(t, domain.StatusPublished, e.Status)
				assert.Equal(t, domain.DefaultCapacity, e.Capacity)
				assert.Equal(t, []string{"outdoors", "families"}, e.Tags)
				assert.Equal(t, domain.CategoryEnvironment, e.Category)
				assert.Equal(t, "org-1", e.OwnerID)
			},
		},
		{
			name:   "draft_on_request",
			mutate: func(f *domain.EventFields) { f.Status = domain.StatusDraft; f.Capacity = 25 },
			check: func(t *testing.T, e *domain.Event) {
				assert.Equal(t, domain.StatusDraft, e.Status)
				assert.Equal(t, 25, e.Capacity)
			},
		},
		{
			name:    "start_yesterday_is_in_the_past",
			mutate:  func(f *domain.EventFields) { f.StartTime = testNow.Add(-24 * time.Hour); f.EndTime = testNow.Add(-20 * time.Hour) },
			wantErr: domain.ErrScheduleInPast,
		},
		{
			name:    "end_equal_to_start_is_invalid",
			mutate:  func(f *domain.EventFields) { f.EndTime = f.StartTime },
			wantErr: domain.ErrInvalidSchedule,
		},
		{
			name:    "end_before_start_is_invalid",
			mutate:  func(f *domain.EventFields) { f.EndTime = f.StartTime.Add(-time.Minute) },
			wantErr: domain.ErrInvalidSchedule,
		},
		{
			name:    "negative_capacity",
			mutate:  func(f *domain.EventFields) { f.Capacity = -1 },
			wantErr: domain.ErrInvalidCapacity,
		},
		{
			name:    "cannot_create_cancelled",
			mutate:  func(f *domain.EventFields) { f.Status = domain.StatusCancelled },
			wantErr: domain.ErrInvalidStatus,
		},
		{
			name:    "title_required",
			mutate:  func(f *domain.EventFields) { f.Title = "  " },
			wantErr: domain.ErrInvalidEvent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewStore()
			catalog := newCatalog(store)
			fields := validFields(48 * time.Hour)
			if tt.mutate != nil {
				tt.mutate(&fields)
			}

			event, err := catalog.Create(context.Background(), "org-1", fields)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, event)
				return
			}
			require.NoError(t, err)
			tt.check(t, event)

			stored, err := store.FindEvent(context.Background(), event.ID)
			require.NoError(t, err)
			assert.Equal(t, event.Title, stored.Title)
		})
	}
}

func TestEventCatalog_CreatePersistenceFailure(t *testing.T) {
	store := mocks.NewStore()
	store.CreateEventError = errors.New("connection reset")
	catalog := newCatalog(store)

	_, err := catalog.Create(context.Background(), "org-1", validFields(time.Hour))
	assert.Equal(t, domain.KindPersistenceFailure, domain.KindOf(err))
}

func TestEventCatalog_OwnershipIsEnforced(t *testing.T) {
	store := mocks.NewStore()
	store.SeedEvent(publishedEvent("evt-1", "org-c", 24*time.Hour))
	catalog := newCatalog(store)
	ctx := context.Background()

	_, err := catalog.Update(ctx, "org-b", "evt-1", validFields(24*time.Hour))
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	err = catalog.Delete(ctx, "org-b", "evt-1")
	assert.ErrorIs(t, err, domain.ErrNotOwner)
	assert.Empty(t, store.DeleteEventCalls)

	_, err = catalog.SetStatus(ctx, "org-b", "evt-1", domain.StatusDraft)
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = catalog.Cancel(ctx, "org-b", "evt-1")
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = catalog.Update(ctx, "org-c", "missing", validFields(24*time.Hour))
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestEventCatalog_Update(t *testing.T) {
	store := mocks.NewStore()
	seeded := publishedEvent("evt-1", "org-1", 24*time.Hour)
	seeded.Capacity = 40
	store.SeedEvent(seeded)
	catalog := newCatalog(store)
	ctx := context.Background()

	fields := validFields(72 * time.Hour)
	fields.Title = "Tree planting, day two"
	updated, err := catalog.Update(ctx, "org-1", "evt-1", fields)
	require.NoError(t, err)
	assert.Equal(t, "Tree planting, day two", updated.Title)
	assert.Equal(t, 40, updated.Capacity, "omitted capacity keeps the current one")
	assert.Equal(t, domain.StatusPublished, updated.Status)

	fields.StartTime = testNow.Add(-time.Hour)
	_, err = catalog.Update(ctx, "org-1", "evt-1", fields)
	assert.ErrorIs(t, err, domain.ErrScheduleInPast)
}

func TestEventCatalog_DeleteCascadesRegistrations(t *testing.T) {
	store := mocks.NewStore()
	store.SeedEvent(publishedEvent("evt-1", "org-1", 24*time.Hour))
	store.SeedEvent(publishedEvent("evt-2", "org-1", 24*time.Hour))
	store.SeedRegistration(domain.Registration{EventID: "evt-1", IdentityID: "vol-a", RegisteredAt: testNow})
	store.SeedRegistration(domain.Registration{EventID: "evt-1", IdentityID: "vol-b", RegisteredAt: testNow})
	store.SeedRegistration(domain.Registration{EventID: "evt-2", IdentityID: "vol-a", RegisteredAt: testNow})
	catalog := newCatalog(store)

	require.NoError(t, catalog.Delete(context.Background(), "org-1", "evt-1"))

	assert.Equal(t, 0, store.RegistrationCount("evt-1"))
	assert.Equal(t, 1, store.RegistrationCount("evt-2"))
	_, err := store.FindEvent(context.Background(), "evt-1")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	outbox := store.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, ports.EventEventDeleted, outbox[0].Type)
}

func TestEventCatalog_StatusLifecycle(t *testing.T) {
	store := mocks.NewStore()
	store.SeedEvent(publishedEvent("evt-1", "org-1", 24*time.Hour))
	catalog := newCatalog(store)
	ctx := context.Background()

	e, err := catalog.SetStatus(ctx, "org-1", "evt-1", domain.StatusDraft)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, e.Status)

	e, err = catalog.SetStatus(ctx, "org-1", "evt-1", domain.StatusPublished)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, e.Status)

	_, err = catalog.SetStatus(ctx, "org-1", "evt-1", domain.StatusCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	e, err = catalog.Cancel(ctx, "org-1", "evt-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, e.Status)

	// Cancelled is terminal.
	_, err = catalog.SetStatus(ctx, "org-1", "evt-1", domain.StatusPublished)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	_, err = catalog.Update(ctx, "org-1", "evt-1", validFields(24*time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	// A second cancel is a no-op and writes no second outbox row.
	_, err = catalog.Cancel(ctx, "org-1", "evt-1")
	require.NoError(t, err)
	outbox := store.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, ports.EventEventCancelled, outbox[0].Type)
}

func TestEventCatalog_ListUpcoming(t *testing.T) {
	store := mocks.NewStore()
	store.SeedOrganization(domain.OrganizationProfile{IdentityID: "org-1", OrgName: "Green Sydney"})
	store.SeedOrganization(domain.OrganizationProfile{IdentityID: "org-2", OrgName: "Paws Rescue"})

	later := publishedEvent("evt-later", "org-1", 20*24*time.Hour)
	later.Tags = []string{"outdoors"}
	soon := publishedEvent("evt-soon", "org-2", 2*time.Hour)
	soon.Title = "Dog walking"
	soon.Location = "Newtown"
	soon.Tags = []string{"animals"}
	week := publishedEvent("evt-week", "org-1", 5*24*time.Hour)
	week.Description = "Help sort donated books"
	week.Tags = []string{"indoors", "books"}
	past := publishedEvent("evt-past", "org-1", -2*time.Hour)
	draft := publishedEvent("evt-draft", "org-1", 3*time.Hour)
	draft.Status = domain.StatusDraft
	cancelled := publishedEvent("evt-cancelled", "org-1", 3*time.Hour)
	cancelled.Status = domain.StatusCancelled

	for _, e := range []domain.Event{later, soon, week, past, draft, cancelled} {
		store.SeedEvent(e)
	}
	store.SeedRegistration(domain.Registration{EventID: "evt-soon", IdentityID: "vol-a", RegisteredAt: testNow})

	catalog := newCatalog(store)

	tests := []struct {
		name   string
		filter domain.EventFilter
		want   []string
	}{
		{name: "no_filter_orders_by_start", want: []string{"evt-soon", "evt-week", "evt-later"}},
		{name: "text_matches_organizer_name", filter: domain.EventFilter{Query: "paws"}, want: []string{"evt-soon"}},
		{name: "text_matches_description", filter: domain.EventFilter{Query: "BOOKS"}, want: []string{"evt-week"}},
		{name: "location_substring", filter: domain.EventFilter{Location: "bondi"}, want: []string{"evt-week", "evt-later"}},
		{name: "today_window", filter: domain.EventFilter{Window: domain.WindowToday}, want: []string{"evt-soon"}},
		{name: "week_window", filter: domain.EventFilter{Window: domain.WindowWeek}, want: []string{"evt-soon", "evt-week"}},
		{name: "month_window", filter: domain.EventFilter{Window: domain.WindowMonth}, want: []string{"evt-soon", "evt-week", "evt-later"}},
		{name: "tags_are_or", filter: domain.EventFilter{Tags: []string{"animals", "books"}}, want: []string{"evt-soon", "evt-week"}},
		{name: "predicates_are_and", filter: domain.EventFilter{Location: "bondi", Tags: []string{"outdoors"}}, want: []string{"evt-later"}},
		{name: "no_match", filter: domain.EventFilter{Query: "knitting"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listings, err := catalog.ListUpcoming(context.Background(), tt.filter)
			require.NoError(t, err)

			got := make([]string, 0, len(listings))
			for _, l := range listings {
				got = append(got, l.ID)
				assert.Equal(t, domain.StatusPublished, l.Status)
				assert.False(t, l.StartTime.Before(testNow))
			}
			assert.Equal(t, tt.want, got)
		})
	}

	listings, err := catalog.ListUpcoming(context.Background(), domain.EventFilter{Query: "dog"})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, 1, listings[0].RegistrationCount)
	assert.Equal(t, "Paws Rescue", listings[0].OrganizerName)
}

// looseUpcomingStore records the filter it is given and returns every upcoming
// event regardless of it, like a store that narrows only partially.
type looseUpcomingStore struct {
	*mocks.Store
	got domain.EventFilter
}

func (s *looseUpcomingStore) FindUpcoming(ctx context.Context, now time.Time, filter domain.EventFilter) ([]domain.EventListing, error) {
	s.got = filter
	return s.Store.FindUpcoming(ctx, now, domain.EventFilter{})
}

func TestEventCatalog_ListUpcomingRefiltersStoreResult(t *testing.T) {
	store := &looseUpcomingStore{Store: mocks.NewStore()}
	tomorrow := publishedEvent("evt-tomorrow", "org-1", 24*time.Hour)
	tomorrow.Tags = []string{"outdoors"}
	store.SeedEvent(tomorrow)
	today := publishedEvent("evt-today", "org-1", time.Hour)
	today.Tags = []string{"outdoors"}
	store.SeedEvent(today)

	catalog := NewEventCatalog(store, store, store, 0)
	catalog.now = fixedClock
	filter := domain.EventFilter{Window: domain.WindowToday, Tags: []string{"outdoors"}}

	listings, err := catalog.ListUpcoming(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "evt-today", listings[0].ID)
	assert.Equal(t, filter, store.got)
}

func TestEventCatalog_ListOwnedBy(t *testing.T) {
	store := mocks.NewStore()
	b := publishedEvent("evt-b", "org-1", 48*time.Hour)
	a := publishedEvent("evt-a", "org-1", 24*time.Hour)
	a.Status = domain.StatusDraft
	c := publishedEvent("evt-c", "org-1", -48*time.Hour)
	c.Status = domain.StatusCancelled
	other := publishedEvent("evt-x", "org-2", 24*time.Hour)
	for _, e := range []domain.Event{b, a, c, other} {
		store.SeedEvent(e)
	}
	store.SeedRegistration(domain.Registration{EventID: "evt-b", IdentityID: "vol-a", RegisteredAt: testNow})
	store.SeedRegistration(domain.Registration{EventID: "evt-b", IdentityID: "vol-b", RegisteredAt: testNow})

	listings, err := newCatalog(store).ListOwnedBy(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, listings, 3)
	assert.Equal(t, "evt-c", listings[0].ID)
	assert.Equal(t, "evt-a", listings[1].ID)
	assert.Equal(t, "evt-b", listings[2].ID)
	assert.Equal(t, 2, listings[2].RegistrationCount)
	assert.Equal(t, 0, listings[1].RegistrationCount)
}

func TestEventCatalog_Get(t *testing.T) {
	store := mocks.NewStore()
	draft := publishedEvent("evt-draft", "org-1", 24*time.Hour)
	draft.Status = domain.StatusDraft
	store.SeedEvent(draft)
	store.SeedEvent(publishedEvent("evt-pub", "org-1", 24*time.Hour))
	catalog := newCatalog(store)
	ctx := context.Background()

	_, err := catalog.Get(ctx, "vol-1", "evt-draft")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	got, err := catalog.Get(ctx, "org-1", "evt-draft")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, got.Status)

	got, err = catalog.Get(ctx, "", "evt-pub")
	require.NoError(t, err)
	assert.Equal(t, "evt-pub", got.ID)
}
