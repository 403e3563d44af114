package config

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sony/gobreaker"
)

// Circuit breaker names, one per guarded dependency.
const (
	BreakerPostgres      = "PostgreSQL"
	BreakerRedisSession  = "Redis-Session"
	BreakerRabbitMQ      = "RabbitMQ-Publisher"
	BreakerRelayPostgres = "Relay-PostgreSQL"
)

// NewCircuitBreaker creates a circuit breaker with standard settings.
// The name parameter uniquely identifies the circuit breaker instance.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Second * 10,
		Timeout:     openTimeout(name),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[CRITICAL] Circuit Breaker %s: %s -> %s", name, from, to)
		},
	})
}

// openTimeout is how long a tripped breaker stays open. The Redis timeout
// matches the 5s health check timeout.
func openTimeout(name string) time.Duration {
	switch name {
	case BreakerRedisSession:
		return 5 * time.Second
	case BreakerPostgres, BreakerRelayPostgres:
		return 10 * time.Second
	default:
		return 30 * time.Second
	}
}

// isSuccessful does not count a caller's own cancellation or deadline against
// the dependency.
func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
