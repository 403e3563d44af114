package services

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

// IdentityService is the identity gateway: it creates and authenticates
// identities and issues, verifies and revokes RS256 session tokens. Sessions
// carry no role; the role is resolved on every request.
type IdentityService struct {
	credentialRepo ports.CredentialRepository
	resolver       ports.RoleResolver
	revoker        ports.SessionRevoker
	privateKey     *rsa.PrivateKey
	publicKey      *rsa.PublicKey
	sessionTTL     time.Duration
	bcryptCost     int
	now            func() time.Time
}

var _ ports.IdentityService = (*IdentityService)(nil)

func NewIdentityService(
	credentialRepo ports.CredentialRepository,
	resolver ports.RoleResolver,
	revoker ports.SessionRevoker,
	privateKey *rsa.PrivateKey,
	sessionTTL time.Duration,
) *IdentityService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &IdentityService{
		credentialRepo: credentialRepo,
		resolver:       resolver,
		revoker:        revoker,
		privateKey:     privateKey,
		publicKey:      &privateKey.PublicKey,
		sessionTTL:     sessionTTL,
		bcryptCost:     bcrypt.DefaultCost,
		now:            time.Now,
	}
}

// Signup creates an identity whose role is the entry point's role, together
// with its role record and profile, and logs it in.
func (s *IdentityService) Signup(ctx context.Context, entry domain.EntryContext, req ports.SignupRequest) (*ports.LoginResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	role := entry.DefaultRole()
	now := s.now().UTC()
	account := ports.Account{
		Identity: domain.Identity{
			ID:        uuid.NewString(),
			Email:     email,
			CreatedAt: now,
		},
		Role: role,
	}

	switch role {
	case domain.RoleOrganizer:
		if req.Organization == nil || strings.TrimSpace(req.Organization.OrgName) == "" {
			return nil, fmt.Errorf("%w: organization name is required", domain.ErrInvalidSignup)
		}
		org := *req.Organization
		org.IdentityID = account.Identity.ID
		if org.ContactEmail == "" {
			org.ContactEmail = email
		}
		if err := org.Normalize(); err != nil {
			return nil, err
		}
		org.UpdatedAt = now
		account.Organization = &org
	default:
		if req.Volunteer == nil || strings.TrimSpace(req.Volunteer.FullName) == "" {
			return nil, fmt.Errorf("%w: full name is required", domain.ErrInvalidSignup)
		}
		vol := *req.Volunteer
		vol.IdentityID = account.Identity.ID
		vol.FullName = strings.TrimSpace(vol.FullName)
		vol.Phone = strings.TrimSpace(vol.Phone)
		vol.University = strings.TrimSpace(vol.University)
		vol.Interests = domain.NormalizeTags(vol.Interests)
		vol.UpdatedAt = now
		account.Volunteer = &vol
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	account.Identity.PasswordHash = string(hash)

	if err := s.credentialRepo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		return nil, domain.Persistence("create account", err)
	}

	session, err := s.issue(account.Identity.ID)
	if err != nil {
		return nil, err
	}
	return &ports.LoginResult{
		Session:  *session,
		Role:     role,
		Redirect: domain.DashboardFor(role),
	}, nil
}

// Login authenticates the credentials and resolves the identity's role for
// the entry point, healing a missing role record. When the resolved role
// belongs to the other entry point the session is still issued and the
// result is returned with domain.ErrRoleMismatch, redirecting to the
// resolved role's dashboard.
func (s *IdentityService) Login(ctx context.Context, entry domain.EntryContext, email, password string) (*ports.LoginResult, error) {
	identity, err := s.credentialRepo.FindIdentityByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, domain.Persistence("find identity", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	record, err := s.resolver.Resolve(ctx, identity.ID, entry)
	if err != nil {
		return nil, err
	}

	session, err := s.issue(identity.ID)
	if err != nil {
		return nil, err
	}
	result := &ports.LoginResult{
		Session:  *session,
		Role:     record.Role,
		Redirect: domain.DashboardFor(record.Role),
	}
	if record.Role != entry.DefaultRole() {
		log.Printf("auth: %s logged in through %s but holds role %s", identity.ID, entry, record.Role)
		return result, domain.ErrRoleMismatch
	}
	return result, nil
}

// CurrentIdentity verifies token and reports the session it carries.
// Any verification failure, including an unreachable revocation store,
// yields domain.ErrNotAuthenticated.
func (s *IdentityService) CurrentIdentity(ctx context.Context, token string) (*ports.Session, error) {
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.publicKey, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotAuthenticated, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: token is missing subject or id", domain.ErrNotAuthenticated)
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		log.Printf("auth: revocation check failed, rejecting session: %v", err)
		return nil, fmt.Errorf("%w: revocation check failed", domain.ErrNotAuthenticated)
	}
	if revoked {
		return nil, fmt.Errorf("%w: session revoked", domain.ErrNotAuthenticated)
	}

	return &ports.Session{
		ID:         claims.ID,
		IdentityID: claims.Subject,
		Token:      token,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes the session until it would have expired.
func (s *IdentityService) Logout(ctx context.Context, token string) error {
	session, err := s.CurrentIdentity(ctx, token)
	if err != nil {
		return err
	}
	if err := s.revoker.Revoke(ctx, session.ID, session.ExpiresAt); err != nil {
		return domain.Persistence("revoke session", err)
	}
	return nil
}

func (s *IdentityService) issue(identityID string) (*ports.Session, error) {
	now := s.now()
	expiresAt := now.Add(s.sessionTTL)
	claims := jwt.RegisteredClaims{
		Subject:   identityID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	return &ports.Session{
		ID:         claims.ID,
		IdentityID: identityID,
		Token:      signed,
		ExpiresAt:  expiresAt,
	}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", fmt.Errorf("%w: invalid email address", domain.ErrInvalidSignup)
	}
	return email, nil
}

// validatePassword requires at least eight characters with an upper-case
// letter, a lower-case letter and a digit.
func validatePassword(password string) error {
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if len(password) < 8 || !upper || !lower || !digit {
		return fmt.Errorf("%w: password must be at least 8 characters with upper-case, lower-case and a digit", domain.ErrInvalidSignup)
	}
	return nil
}
