// Package mocks provides in-memory implementations of the port interfaces for
// testing. The store enforces the same uniqueness rules as the database
// schema so that race and duplicate behavior can be tested without Postgres.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

type regKey struct {
	eventID    string
	identityID string
}

// Store implements every repository port over maps guarded by one mutex.
type Store struct {
	mu sync.Mutex

	identities    map[string]domain.Identity
	emails        map[string]string
	roles         map[string]domain.RoleRecord
	volunteers    map[string]domain.VolunteerProfile
	organizations map[string]domain.OrganizationProfile
	events        map[string]domain.Event
	registrations map[regKey]domain.Registration
	outbox        []ports.OutboxMessage

	// Call tracking for verification
	CreateRoleCalls         int
	CreateRegistrationCalls int
	DeleteEventCalls        []string

	// Error injection for testing error scenarios
	FindRoleError           error
	CreateRoleError         error
	CreateAccountError      error
	FindEventError          error
	CreateEventError        error
	UpdateEventError        error
	CreateRegistrationError error
	DeleteRegistrationError error
	CountError              error
}

var (
	_ ports.CredentialRepository   = (*Store)(nil)
	_ ports.RoleRepository         = (*Store)(nil)
	_ ports.ProfileRepository      = (*Store)(nil)
	_ ports.EventRepository        = (*Store)(nil)
	_ ports.RegistrationRepository = (*Store)(nil)
)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		identities:    make(map[string]domain.Identity),
		emails:        make(map[string]string),
		roles:         make(map[string]domain.RoleRecord),
		volunteers:    make(map[string]domain.VolunteerProfile),
		organizations: make(map[string]domain.OrganizationProfile),
		events:        make(map[string]domain.Event),
		registrations: make(map[regKey]domain.Registration),
	}
}

// SeedIdentity adds an identity without a role record.
func (m *Store) SeedIdentity(identity domain.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identities[identity.ID] = identity
	m.emails[identity.Email] = identity.ID
}

// SeedRole adds a role record.
func (m *Store) SeedRole(identityID string, role domain.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[identityID] = domain.RoleRecord{IdentityID: identityID, Role: role, CreatedAt: time.Now().UTC()}
}

// SeedEvent adds an event as is.
func (m *Store) SeedEvent(event domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.ID] = cloneEvent(event)
}

// SeedVolunteer adds a volunteer profile.
func (m *Store) SeedVolunteer(profile domain.VolunteerProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volunteers[profile.IdentityID] = profile
}

// SeedOrganization adds an organization profile.
func (m *Store) SeedOrganization(profile domain.OrganizationProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.organizations[profile.IdentityID] = profile
}

// SeedRegistration adds a registration directly.
func (m *Store) SeedRegistration(reg domain.Registration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations[regKey{reg.EventID, reg.IdentityID}] = reg
}

// RoleCount returns the number of stored role records for identityID (0 or 1).
func (m *Store) RoleCount(identityID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[identityID]; ok {
		return 1
	}
	return 0
}

// RegistrationCount returns the number of stored registrations for eventID.
func (m *Store) RegistrationCount(eventID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.registrations {
		if k.eventID == eventID {
			n++
		}
	}
	return n
}

// Outbox returns a copy of the outbox messages written so far.
func (m *Store) Outbox() []ports.OutboxMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.OutboxMessage, len(m.outbox))
	copy(out, m.outbox)
	return out
}

func (m *Store) FindIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.emails[email]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	identity := m.identities[id]
	return &identity, nil
}

func (m *Store) CreateAccount(ctx context.Context, account ports.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateAccountError != nil {
		return m.CreateAccountError
	}
	if _, ok := m.emails[account.Identity.Email]; ok {
		return domain.ErrEmailTaken
	}
	m.identities[account.Identity.ID] = account.Identity
	m.emails[account.Identity.Email] = account.Identity.ID
	m.roles[account.Identity.ID] = domain.RoleRecord{
		IdentityID: account.Identity.ID,
		Email:      account.Identity.Email,
		Role:       account.Role,
		CreatedAt:  account.Identity.CreatedAt,
	}
	if account.Volunteer != nil {
		m.volunteers[account.Identity.ID] = *account.Volunteer
	}
	if account.Organization != nil {
		m.organizations[account.Identity.ID] = *account.Organization
	}
	return nil
}

func (m *Store) FindRole(ctx context.Context, identityID string) (*domain.RoleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindRoleError != nil {
		return nil, m.FindRoleError
	}
	record, ok := m.roles[identityID]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return &record, nil
}

func (m *Store) CreateRole(ctx context.Context, record domain.RoleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateRoleCalls++
	if m.CreateRoleError != nil {
		return m.CreateRoleError
	}
	if _, ok := m.roles[record.IdentityID]; ok {
		return domain.ErrRoleExists
	}
	record.Email = m.identities[record.IdentityID].Email
	m.roles[record.IdentityID] = record
	return nil
}

func (m *Store) FindVolunteerProfile(ctx context.Context, identityID string) (*domain.VolunteerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.volunteers[identityID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (m *Store) UpsertVolunteerProfile(ctx context.Context, profile domain.VolunteerProfile) (*domain.VolunteerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile.UpdatedAt = time.Now().UTC()
	m.volunteers[profile.IdentityID] = profile
	return &profile, nil
}

func (m *Store) FindOrganizationProfile(ctx context.Context, identityID string) (*domain.OrganizationProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.organizations[identityID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (m *Store) UpsertOrganizationProfile(ctx context.Context, profile domain.OrganizationProfile) (*domain.OrganizationProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile.UpdatedAt = time.Now().UTC()
	m.organizations[profile.IdentityID] = profile
	return &profile, nil
}

func (m *Store) CreateEvent(ctx context.Context, event *domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateEventError != nil {
		return m.CreateEventError
	}
	m.events[event.ID] = cloneEvent(*event)
	return nil
}

func (m *Store) FindEvent(ctx context.Context, id string) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindEventError != nil {
		return nil, m.FindEventError
	}
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	e = cloneEvent(e)
	return &e, nil
}

func (m *Store) UpdateEvent(ctx context.Context, event *domain.Event, msgs ...ports.OutboxMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateEventError != nil {
		return m.UpdateEventError
	}
	if _, ok := m.events[event.ID]; !ok {
		return domain.ErrEventNotFound
	}
	m.events[event.ID] = cloneEvent(*event)
	m.outbox = append(m.outbox, msgs...)
	return nil
}

// DeleteEvent cascades to registrations like the ON DELETE CASCADE foreign key.
func (m *Store) DeleteEvent(ctx context.Context, id string, msgs ...ports.OutboxMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteEventCalls = append(m.DeleteEventCalls, id)
	delete(m.events, id)
	for k := range m.registrations {
		if k.eventID == id {
			delete(m.registrations, k)
		}
	}
	m.outbox = append(m.outbox, msgs...)
	return nil
}

func (m *Store) FindUpcoming(ctx context.Context, now time.Time, filter domain.EventFilter) ([]domain.EventListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.EventListing
	for _, e := range m.events {
		if e.Status != domain.StatusPublished || e.StartTime.Before(now) {
			continue
		}
		out = append(out, m.listing(e))
	}
	out = filter.Apply(out, now)
	sortListings(out)
	return out, nil
}

func (m *Store) FindByOwner(ctx context.Context, ownerID string) ([]domain.EventListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.EventListing
	for _, e := range m.events {
		if e.OwnerID == ownerID {
			out = append(out, m.listing(e))
		}
	}
	sortListings(out)
	return out, nil
}

func (m *Store) CreateRegistration(ctx context.Context, reg domain.Registration, msg ports.OutboxMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateRegistrationCalls++
	if m.CreateRegistrationError != nil {
		return m.CreateRegistrationError
	}
	key := regKey{reg.EventID, reg.IdentityID}
	if _, ok := m.registrations[key]; ok {
		return domain.ErrAlreadyRegistered
	}
	if _, ok := m.events[reg.EventID]; !ok {
		return domain.ErrEventNotFound
	}
	m.registrations[key] = reg
	m.outbox = append(m.outbox, msg)
	return nil
}

func (m *Store) FindRegistration(ctx context.Context, eventID, identityID string) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.registrations[regKey{eventID, identityID}]
	if !ok {
		return nil, domain.ErrNotRegistered
	}
	return &reg, nil
}

func (m *Store) DeleteRegistration(ctx context.Context, eventID, identityID string, msg ports.OutboxMessage) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteRegistrationError != nil {
		return false, m.DeleteRegistrationError
	}
	key := regKey{eventID, identityID}
	if _, ok := m.registrations[key]; !ok {
		return false, nil
	}
	delete(m.registrations, key)
	m.outbox = append(m.outbox, msg)
	return true, nil
}

func (m *Store) CountByEvents(ctx context.Context, eventIDs []string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountError != nil {
		return nil, m.CountError
	}
	want := make(map[string]struct{}, len(eventIDs))
	for _, id := range eventIDs {
		want[id] = struct{}{}
	}
	counts := make(map[string]int, len(eventIDs))
	for k := range m.registrations {
		if _, ok := want[k.eventID]; ok {
			counts[k.eventID]++
		}
	}
	return counts, nil
}

func (m *Store) FindAttendees(ctx context.Context, eventID string) ([]domain.Attendee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Attendee
	for k, reg := range m.registrations {
		if k.eventID != eventID {
			continue
		}
		out = append(out, domain.Attendee{
			IdentityID:   reg.IdentityID,
			Email:        m.identities[reg.IdentityID].Email,
			Profile:      m.volunteers[reg.IdentityID],
			RegisteredAt: reg.RegisteredAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RegisteredAt.Equal(out[j].RegisteredAt) {
			return out[i].RegisteredAt.Before(out[j].RegisteredAt)
		}
		return out[i].IdentityID < out[j].IdentityID
	})
	return out, nil
}

func (m *Store) FindEventIDsByIdentity(ctx context.Context, identityID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for k := range m.registrations {
		if k.identityID == identityID {
			ids = append(ids, k.eventID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *Store) listing(e domain.Event) domain.EventListing {
	return domain.EventListing{
		Event:         cloneEvent(e),
		OrganizerName: m.organizations[e.OwnerID].OrgName,
	}
}

func cloneEvent(e domain.Event) domain.Event {
	e.Tags = append([]string(nil), e.Tags...)
	return e
}

func sortListings(ls []domain.EventListing) {
	sort.Slice(ls, func(i, j int) bool {
		if !ls[i].StartTime.Equal(ls[j].StartTime) {
			return ls[i].StartTime.Before(ls[j].StartTime)
		}
		return ls[i].ID < ls[j].ID
	})
}
