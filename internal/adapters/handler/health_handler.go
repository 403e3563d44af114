package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// DBPinger is satisfied by *sql.DB.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// RedisPinger is satisfied by *redis.Client.
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type HealthHandler struct {
	db        DBPinger
	redis     RedisPinger
	startTime time.Time
	version   string
	timeout   time.Duration
}

func NewHealthHandler(db DBPinger, redisClient RedisPinger, version string) *HealthHandler {
	if version == "" {
		version = "unknown"
	}
	return &HealthHandler{
		db:        db,
		redis:     redisClient,
		startTime: time.Now(),
		version:   version,
		timeout:   5 * time.Second,
	}
}

// HealthResponse follows Kubernetes/OpenShift health check conventions
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health is a liveness check; it never touches the dependencies.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "UP",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    map[string]Check{"process": {Status: "UP"}},
	})
}

// Ready reports DOWN with 503 when postgres or redis cannot be reached.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"database": h.checkDatabase(r.Context()),
		"redis":    h.checkRedis(r.Context()),
	}

	status, httpStatus := "UP", http.StatusOK
	for _, c := range checks {
		if c.Status != "UP" {
			status, httpStatus = "DOWN", http.StatusServiceUnavailable
		}
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    checks,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	if h.db == nil {
		return Check{Status: "DOWN", Message: "Database connection is not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return Check{Status: "DOWN", Message: "Cannot connect to database"}
	}
	return Check{Status: "UP"}
}

func (h *HealthHandler) checkRedis(ctx context.Context) Check {
	if h.redis == nil {
		return Check{Status: "DOWN", Message: "Redis client is not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := h.redis.Ping(ctx).Err(); err != nil {
		return Check{Status: "DOWN", Message: "Cannot connect to Redis"}
	}
	return Check{Status: "UP"}
}
