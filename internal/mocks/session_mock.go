package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

// MockSessionRevoker keeps revoked session ids in memory.
type MockSessionRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time

	RevokeError    error
	IsRevokedError error
}

var _ ports.SessionRevoker = (*MockSessionRevoker)(nil)

func NewMockSessionRevoker() *MockSessionRevoker {
	return &MockSessionRevoker{revoked: make(map[string]time.Time)}
}

func (m *MockSessionRevoker) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RevokeError != nil {
		return m.RevokeError
	}
	m.revoked[sessionID] = until
	return nil
}

func (m *MockSessionRevoker) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsRevokedError != nil {
		return false, m.IsRevokedError
	}
	_, ok := m.revoked[sessionID]
	return ok, nil
}

// MockMetrics counts reported outcomes by name.
type MockMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

var _ ports.Metrics = (*MockMetrics)(nil)

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{counts: make(map[string]int)}
}

func (m *MockMetrics) inc(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
}

func (m *MockMetrics) RoleResolved(outcome string)        { m.inc("role:" + outcome) }
func (m *MockMetrics) RegistrationChanged(outcome string) { m.inc("registration:" + outcome) }
func (m *MockMetrics) AccessDecided(role, outcome string) { m.inc("access:" + role + ":" + outcome) }

// Count returns how often key was reported, e.g. "role:synthesized".
func (m *MockMetrics) Count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key]
}
