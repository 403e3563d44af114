package ports

import (
	"context"
	"time"
)

// Ledger event types written to the outbox.
const (
	EventRegistrationCreated = "registration.created"
	EventRegistrationRemoved = "registration.removed"
	EventEventCancelled      = "event.cancelled"
	EventEventDeleted        = "event.deleted"
)

// LedgerEvent is the payload relayed to the notification consumer.
type LedgerEvent struct {
	Type       string    `json:"type"`
	EventID    string    `json:"event_id"`
	IdentityID string    `json:"identity_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// OutboxMessage is a LedgerEvent serialized for the outbox table.
type OutboxMessage struct {
	ID      string
	Type    string
	Payload []byte
}

type LedgerEventPublisher interface {
	PublishLedgerEvent(ctx context.Context, evt LedgerEvent) error
}
