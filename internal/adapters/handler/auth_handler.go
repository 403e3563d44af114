package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/adapters/middleware"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

type AuthHandler struct {
	identity      ports.IdentityService
	secureCookies bool
}

func NewAuthHandler(identity ports.IdentityService, secureCookies bool) *AuthHandler {
	return &AuthHandler{identity: identity, secureCookies: secureCookies}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest carries the credentials and the profile fields of whichever
// role the entry point creates.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	FullName   string   `json:"full_name,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	University string   `json:"university,omitempty"`
	Interests  []string `json:"interests,omitempty"`

	OrgName       string `json:"org_name,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
	ContactPhone  string `json:"contact_phone,omitempty"`
	Website       string `json:"website,omitempty"`
	Description   string `json:"description,omitempty"`
}

type LoginResponse struct {
	Message   string      `json:"message"`
	Token     string      `json:"token"`
	Role      domain.Role `json:"role"`
	Redirect  string      `json:"redirect"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Signup returns the signup handler of one entry point.
func (h *AuthHandler) Signup(entry domain.EntryContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeBadRequest(w, err.Error())
			return
		}

		signup := ports.SignupRequest{Email: req.Email, Password: req.Password}
		if entry.DefaultRole() == domain.RoleOrganizer {
			signup.Organization = &domain.OrganizationProfile{
				OrgName:       req.OrgName,
				ContactPerson: req.ContactPerson,
				ContactPhone:  req.ContactPhone,
				Website:       req.Website,
				Description:   req.Description,
			}
		} else {
			signup.Volunteer = &domain.VolunteerProfile{
				FullName:   req.FullName,
				Phone:      req.Phone,
				University: req.University,
				Interests:  req.Interests,
			}
		}

		result, err := h.identity.Signup(r.Context(), entry, signup)
		if err != nil {
			writeError(w, err)
			return
		}
		h.setSessionCookie(w, result.Session)
		writeJSON(w, http.StatusCreated, loginResponse("Signup successful", result))
	}
}

// Login returns the login handler of one entry point. A login through the
// wrong entry point still signs the identity in and redirects it to its own
// dashboard.
func (h *AuthHandler) Login(entry domain.EntryContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeBadRequest(w, err.Error())
			return
		}

		result, err := h.identity.Login(r.Context(), entry, req.Email, req.Password)
		switch {
		case errors.Is(err, domain.ErrRoleMismatch) && result != nil:
			h.setSessionCookie(w, result.Session)
			w.Header().Set("Location", result.Redirect)
			writeJSON(w, http.StatusSeeOther, loginResponse("Signed in with a different role", result))
		case err != nil:
			writeError(w, err)
		default:
			h.setSessionCookie(w, result.Session)
			writeJSON(w, http.StatusOK, loginResponse("Login successful", result))
		}
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r)
	if err := h.identity.Logout(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out"})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, session ports.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func loginResponse(message string, result *ports.LoginResult) LoginResponse {
	return LoginResponse{
		Message:   message,
		Token:     result.Session.Token,
		Role:      result.Role,
		Redirect:  result.Redirect,
		ExpiresAt: result.Session.ExpiresAt,
	}
}
