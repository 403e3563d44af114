package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

const namespace = "volunteer_hub"

// Prometheus exports core decision outcomes and HTTP request metrics on its
// own registry.
type Prometheus struct {
	registry      *prometheus.Registry
	roles         *prometheus.CounterVec
	registrations *prometheus.CounterVec
	access        *prometheus.CounterVec
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

var _ ports.Metrics = (*Prometheus)(nil)

func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		roles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "role_resolutions_total",
			Help:      "Role resolutions by outcome (existing, synthesized, raced, failed).",
		}, []string{"outcome"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registration_changes_total",
			Help:      "Registration ledger writes by outcome.",
		}, []string{"outcome"}),
		access: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_decisions_total",
			Help:      "Access guard decisions by required role and outcome.",
		}, []string{"role", "outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.roles,
		p.registrations,
		p.access,
		p.requests,
		p.latency,
	)
	return p
}

func (p *Prometheus) RoleResolved(outcome string) {
	p.roles.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) RegistrationChanged(outcome string) {
	p.registrations.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) AccessDecided(role, outcome string) {
	p.access.WithLabelValues(role, outcome).Inc()
}

// ObserveRequest records one served HTTP request.
func (p *Prometheus) ObserveRequest(route, method string, code int, elapsed time.Duration) {
	p.requests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	p.latency.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry exposes the underlying registry, for tests and extra collectors.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
