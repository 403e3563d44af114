package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

// MockLedgerEventPublisher records published ledger events so the outbox relay
// can be tested without a RabbitMQ connection.
type MockLedgerEventPublisher struct {
	mu sync.RWMutex

	PublishedEvents  []ports.LedgerEvent
	PublishError     error
	PublishCallCount int
}

var _ ports.LedgerEventPublisher = (*MockLedgerEventPublisher)(nil)

func NewMockLedgerEventPublisher() *MockLedgerEventPublisher {
	return &MockLedgerEventPublisher{}
}

func (m *MockLedgerEventPublisher) PublishLedgerEvent(ctx context.Context, evt ports.LedgerEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns a copy of the events published so far.
func (m *MockLedgerEventPublisher) GetPublishedEvents() []ports.LedgerEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := make([]ports.LedgerEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}
