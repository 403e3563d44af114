package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/mocks"
)

var (
	keyOnce sync.Once
	testKey *rsa.PrivateKey
)

func signingKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	keyOnce.Do(func() {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		testKey = k
	})
	return testKey
}

type identityFixture struct {
	store   *mocks.Store
	revoker *mocks.MockSessionRevoker
	svc     *IdentityService
}

func newIdentityFixture(t *testing.T) identityFixture {
	t.Helper()
	store := mocks.NewStore()
	revoker := mocks.NewMockSessionRevoker()
	resolver := NewRoleResolver(store, nil)
	resolver.now = fixedClock

	svc := NewIdentityService(store, resolver, revoker, signingKey(t), time.Hour)
	svc.bcryptCost = bcrypt.MinCost
	svc.now = fixedClock
	return identityFixture{store: store, revoker: revoker, svc: svc}
}

func seedCredentials(t *testing.T, store *mocks.Store, id, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	store.SeedIdentity(domain.Identity{ID: id, Email: email, PasswordHash: string(hash), CreatedAt: testNow})
}

func TestIdentityService_Signup(t *testing.T) {
	tests := []struct {
		name     string
		entry    domain.EntryContext
		req      ports.SignupRequest
		wantErr  error
		wantRole domain.Role
	}{
		{
			name:  "volunteer",
			entry: domain.EntryVolunteer,
			req: ports.SignupRequest{
				Email:     " Sam@Example.org ",
				Password:  "Volunteer1",
				Volunteer: &domain.VolunteerProfile{FullName: "Sam Lee"},
			},
			wantRole: domain.RoleVolunteer,
		},
		{
			name:  "organizer",
			entry: domain.EntryOrganizer,
			req: ports.SignupRequest{
				Email:        "team@greensydney.org",
				Password:     "Organizer1",
				Organization: &domain.OrganizationProfile{OrgName: "Green Sydney", Website: "https://greensydney.org"},
			},
			wantRole: domain.RoleOrganizer,
		},
		{
			name:    "weak_password",
			entry:   domain.EntryVolunteer,
			req:     ports.SignupRequest{Email: "a@example.org", Password: "password", Volunteer: &domain.VolunteerProfile{FullName: "A"}},
			wantErr: domain.ErrInvalidSignup,
		},
		{
			name:    "short_password",
			entry:   domain.EntryVolunteer,
			req:     ports.SignupRequest{Email: "a@example.org", Password: "Ab1", Volunteer: &domain.VolunteerProfile{FullName: "A"}},
			wantErr: domain.ErrInvalidSignup,
		},
		{
			name:    "bad_email",
			entry:   domain.EntryVolunteer,
			req:     ports.SignupRequest{Email: "not-an-email", Password: "Volunteer1", Volunteer: &domain.VolunteerProfile{FullName: "A"}},
			wantErr: domain.ErrInvalidSignup,
		},
		{
			name:    "volunteer_without_name",
			entry:   domain.EntryVolunteer,
			req:     ports.SignupRequest{Email: "a@example.org", Password: "Volunteer1"},
			wantErr: domain.ErrInvalidSignup,
		},
		{
			name:    "organizer_without_org_name",
			entry:   domain.EntryOrganizer,
			req:     ports.SignupRequest{Email: "a@example.org", Password: "Organizer1", Volunteer: &domain.VolunteerProfile{FullName: "A"}},
			wantErr: domain.ErrInvalidSignup,
		},
		{
			name:  "organizer_bad_website",
			entry: domain.EntryOrganizer,
			req: ports.SignupRequest{
				Email:        "a@example.org",
				Password:     "Organizer1",
				Organization: &domain.OrganizationProfile{OrgName: "Org", Website: "greensydney"},
			},
			wantErr: domain.ErrInvalidProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newIdentityFixture(t)
			result, err := f.svc.Signup(context.Background(), tt.entry, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, result.Role)
			assert.Equal(t, domain.DashboardFor(tt.wantRole), result.Redirect)
			assert.Equal(t, 1, f.store.RoleCount(result.Session.IdentityID))

			session, err := f.svc.CurrentIdentity(context.Background(), result.Session.Token)
			require.NoError(t, err)
			assert.Equal(t, result.Session.IdentityID, session.IdentityID)
		})
	}
}

func TestIdentityService_SignupStoresProfile(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	result, err := f.svc.Signup(ctx, domain.EntryOrganizer, ports.SignupRequest{
		Email:        "team@greensydney.org",
		Password:     "Organizer1",
		Organization: &domain.OrganizationProfile{OrgName: "  Green Sydney "},
	})
	require.NoError(t, err)

	org, err := f.store.FindOrganizationProfile(ctx, result.Session.IdentityID)
	require.NoError(t, err)
	assert.Equal(t, "Green Sydney", org.OrgName)
	assert.Equal(t, "team@greensydney.org", org.ContactEmail)

	identity, err := f.store.FindIdentityByEmail(ctx, "team@greensydney.org")
	require.NoError(t, err)
	assert.NotEqual(t, "Organizer1", identity.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte("Organizer1")))
}

func TestIdentityService_SignupDuplicateEmail(t *testing.T) {
	f := newIdentityFixture(t)
	req := ports.SignupRequest{
		Email:     "sam@example.org",
		Password:  "Volunteer1",
		Volunteer: &domain.VolunteerProfile{FullName: "Sam"},
	}
	_, err := f.svc.Signup(context.Background(), domain.EntryVolunteer, req)
	require.NoError(t, err)

	req.Email = "SAM@example.org"
	_, err = f.svc.Signup(context.Background(), domain.EntryVolunteer, req)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	f.store.CreateAccountError = errors.New("connection reset")
	req.Email = "other@example.org"
	_, err = f.svc.Signup(context.Background(), domain.EntryVolunteer, req)
	assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
}

func TestIdentityService_LoginHealsMissingRole(t *testing.T) {
	f := newIdentityFixture(t)
	seedCredentials(t, f.store, "id-1", "org@example.org", "Organizer1")
	ctx := context.Background()

	result, err := f.svc.Login(ctx, domain.EntryOrganizer, "org@example.org", "Organizer1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOrganizer, result.Role)
	assert.Equal(t, domain.OrganizerDashboard, result.Redirect)
	assert.Equal(t, 1, f.store.RoleCount("id-1"))

	// The synthesized role sticks: the volunteer entry now gets redirected.
	result, err = f.svc.Login(ctx, domain.EntryVolunteer, "org@example.org", "Organizer1")
	assert.ErrorIs(t, err, domain.ErrRoleMismatch)
	require.NotNil(t, result)
	assert.Equal(t, domain.RoleOrganizer, result.Role)
	assert.Equal(t, domain.OrganizerDashboard, result.Redirect)
	assert.NotEmpty(t, result.Session.Token)
}

func TestIdentityService_LoginRejectsBadCredentials(t *testing.T) {
	f := newIdentityFixture(t)
	seedCredentials(t, f.store, "id-1", "sam@example.org", "Volunteer1")

	_, err := f.svc.Login(context.Background(), domain.EntryVolunteer, "sam@example.org", "Volunteer2")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), domain.EntryVolunteer, "nobody@example.org", "Volunteer1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	assert.Equal(t, 0, f.store.RoleCount("id-1"), "failed logins never synthesize a role")
}

func TestIdentityService_LoginFailsClosedOnRoleStore(t *testing.T) {
	f := newIdentityFixture(t)
	seedCredentials(t, f.store, "id-1", "sam@example.org", "Volunteer1")
	f.store.FindRoleError = errors.New("timeout")

	result, err := f.svc.Login(context.Background(), domain.EntryVolunteer, "sam@example.org", "Volunteer1")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
}

func TestIdentityService_CurrentIdentity(t *testing.T) {
	f := newIdentityFixture(t)
	seedCredentials(t, f.store, "id-1", "sam@example.org", "Volunteer1")
	ctx := context.Background()

	result, err := f.svc.Login(ctx, domain.EntryVolunteer, "sam@example.org", "Volunteer1")
	require.NoError(t, err)
	token := result.Session.Token

	session, err := f.svc.CurrentIdentity(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "id-1", session.IdentityID)
	assert.True(t, testNow.Add(time.Hour).Equal(session.ExpiresAt))

	t.Run("empty_token", func(t *testing.T) {
		_, err := f.svc.CurrentIdentity(ctx, "")
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})

	t.Run("garbage_token", func(t *testing.T) {
		_, err := f.svc.CurrentIdentity(ctx, "not.a.jwt")
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})

	t.Run("wrong_algorithm", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "id-1",
			ID:        "forged",
			ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = f.svc.CurrentIdentity(ctx, forged)
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})

	t.Run("expired", func(t *testing.T) {
		later := *f.svc
		later.now = func() time.Time { return testNow.Add(2 * time.Hour) }
		_, err := later.CurrentIdentity(ctx, token)
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})

	t.Run("revocation_store_down", func(t *testing.T) {
		f.revoker.IsRevokedError = errors.New("redis: connection refused")
		defer func() { f.revoker.IsRevokedError = nil }()
		_, err := f.svc.CurrentIdentity(ctx, token)
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})
}

func TestIdentityService_Logout(t *testing.T) {
	f := newIdentityFixture(t)
	seedCredentials(t, f.store, "id-1", "sam@example.org", "Volunteer1")
	ctx := context.Background()

	result, err := f.svc.Login(ctx, domain.EntryVolunteer, "sam@example.org", "Volunteer1")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, result.Session.Token))

	_, err = f.svc.CurrentIdentity(ctx, result.Session.Token)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	err = f.svc.Logout(ctx, result.Session.Token)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestIdentityService_LogoutRevokeFailure(t *testing.T) {
	f := newIdentityFixture(t)
	seedCredentials(t, f.store, "id-1", "sam@example.org", "Volunteer1")
	ctx := context.Background()

	result, err := f.svc.Login(ctx, domain.EntryVolunteer, "sam@example.org", "Volunteer1")
	require.NoError(t, err)

	f.revoker.RevokeError = errors.New("redis: connection refused")
	err = f.svc.Logout(ctx, result.Session.Token)
	assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
}
