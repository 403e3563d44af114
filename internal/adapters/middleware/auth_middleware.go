package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

// SessionCookieName is the cookie that carries the session token for browser
// clients. API clients send it as a bearer token instead.
const SessionCookieName = "session"

type contextKey string

const (
	SessionKey contextKey = "session"
	RoleKey    contextKey = "role"
)

type AuthMiddleware struct {
	identity ports.IdentityService
	guard    ports.AccessGuard
}

func NewAuthMiddleware(identity ports.IdentityService, guard ports.AccessGuard) *AuthMiddleware {
	return &AuthMiddleware{
		identity: identity,
		guard:    guard,
	}
}

// RedirectResponse is the body of a guard redirect.
type RedirectResponse struct {
	Redirect string      `json:"redirect"`
	Reason   domain.Kind `json:"reason"`
}

// Authenticate attaches the verified session to the request context when the
// request carries a valid token. Requests without one continue anonymously so
// public routes keep working; RequireRole decides what anonymous callers see.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.identity.CurrentIdentity(r.Context(), token)
		if err != nil {
			log.Printf("auth: rejected session token: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), SessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates the wrapped routes to identities whose resolved role is
// role. Everyone else is redirected with 303 See Other: anonymous callers to
// the login entry of role, the wrong role to its own dashboard.
func (m *AuthMiddleware) RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := m.guard.Authorize(r.Context(), IdentityID(r.Context()), role)
			if !decision.Allowed() {
				writeRedirect(w, decision.Location, decision.Reason)
				return
			}

			ctx := context.WithValue(r.Context(), RoleKey, decision.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest returns the bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// SessionFrom returns the session attached by Authenticate, or nil.
func SessionFrom(ctx context.Context) *ports.Session {
	s, _ := ctx.Value(SessionKey).(*ports.Session)
	return s
}

// IdentityID returns the authenticated identity id, or "" for anonymous requests.
func IdentityID(ctx context.Context) string {
	if s := SessionFrom(ctx); s != nil {
		return s.IdentityID
	}
	return ""
}

// RoleFrom returns the role resolved by RequireRole.
func RoleFrom(ctx context.Context) domain.Role {
	role, _ := ctx.Value(RoleKey).(domain.Role)
	return role
}

func writeRedirect(w http.ResponseWriter, location string, reason domain.Kind) {
	w.Header().Set("Location", location)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusSeeOther)
	if err := json.NewEncoder(w).Encode(RedirectResponse{Redirect: location, Reason: reason}); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}
