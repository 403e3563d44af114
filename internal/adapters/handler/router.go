package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/adapters/middleware"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

// MetricsEndpoint observes requests and serves the scrape endpoint.
type MetricsEndpoint interface {
	middleware.RequestObserver
	Handler() http.Handler
}

type RouterDeps struct {
	Identity ports.IdentityService
	Guard    ports.AccessGuard
	Catalog  ports.EventCatalog
	Ledger   ports.RegistrationLedger
	Profiles ports.ProfileService
	Health   *HealthHandler
	Metrics  MetricsEndpoint

	AllowedOrigins []string
	SecureCookies  bool
	RequestTimeout time.Duration
}

func NewRouter(deps RouterDeps) http.Handler {
	auth := middleware.NewAuthMiddleware(deps.Identity, deps.Guard)
	authHandler := NewAuthHandler(deps.Identity, deps.SecureCookies)
	events := NewEventHandler(deps.Catalog, deps.Ledger)
	registrations := NewRegistrationHandler(deps.Ledger)
	profiles := NewProfileHandler(deps.Profiles)
	dashboards := NewDashboardHandler(deps.Catalog, deps.Ledger, deps.Profiles)

	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if deps.Metrics != nil {
		r.Use(middleware.RequestMetrics(deps.Metrics))
	}
	r.Use(middleware.CORSMiddleware(deps.AllowedOrigins))

	if deps.Health != nil {
		r.Get("/health", deps.Health.Health)
		r.Get("/health/live", deps.Health.Health)
		r.Get("/health/ready", deps.Health.Ready)
	}
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(timeout))
		r.Use(auth.Authenticate)

		r.Post("/auth/signup", authHandler.Signup(domain.EntryVolunteer))
		r.Post("/auth/org-signup", authHandler.Signup(domain.EntryOrganizer))
		r.Post("/auth/login", authHandler.Login(domain.EntryVolunteer))
		r.Post("/auth/org-login", authHandler.Login(domain.EntryOrganizer))
		r.Post("/auth/logout", authHandler.Logout)

		r.Get("/events", events.ListUpcoming)
		r.Get("/events/{id}", events.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(domain.RoleVolunteer))

			r.Get("/dashboard", dashboards.Volunteer)
			r.Get("/profile", profiles.Get)
			r.Put("/profile", profiles.UpdateVolunteer)
			r.Post("/events/{id}/registration", registrations.Register)
			r.Delete("/events/{id}/registration", registrations.Unregister)
			r.Get("/me/registrations", registrations.ListMine)
		})

		r.Route("/org", func(r chi.Router) {
			r.Use(auth.RequireRole(domain.RoleOrganizer))

			r.Get("/dashboard", dashboards.Organizer)
			r.Get("/profile", profiles.Get)
			r.Put("/profile", profiles.UpdateOrganization)
			r.Post("/events", events.Create)
			r.Route("/events/{id}", func(r chi.Router) {
				r.Put("/", events.Update)
				r.Delete("/", events.Delete)
				r.Put("/status", events.SetStatus)
				r.Post("/cancel", events.Cancel)
				r.Get("/attendees", events.Attendees)
			})
		})
	})

	return r
}
