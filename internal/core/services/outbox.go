package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

func newOutboxMessage(eventType, eventID, identityID string, at time.Time) (ports.OutboxMessage, error) {
	payload, err := json.Marshal(ports.LedgerEvent{
		Type:       eventType,
		EventID:    eventID,
		IdentityID: identityID,
		OccurredAt: at.UTC(),
	})
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	return ports.OutboxMessage{
		ID:      uuid.NewString(),
		Type:    eventType,
		Payload: payload,
	}, nil
}
