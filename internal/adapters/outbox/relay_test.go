package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/mocks"
)

func payload(t *testing.T, evt ports.LedgerEvent) []byte {
	t.Helper()
	b, err := json.Marshal(evt)
	require.NoError(t, err)
	return b
}

func TestDispatch(t *testing.T) {
	at := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	valid := ports.LedgerEvent{Type: ports.EventRegistrationCreated, EventID: "evt-1", IdentityID: "vol-1", OccurredAt: at}

	tests := []struct {
		name          string
		rec           record
		publishErr    error
		wantMalformed bool
		wantErr       bool
		wantPublished int
	}{
		{
			name:          "publishes_valid_row",
			rec:           record{ID: "o-1", EventType: ports.EventRegistrationCreated, Payload: payload(t, valid)},
			wantPublished: 1,
		},
		{
			name:          "invalid_json_is_malformed",
			rec:           record{ID: "o-2", EventType: ports.EventRegistrationCreated, Payload: []byte("{")},
			wantMalformed: true,
			wantErr:       true,
		},
		{
			name:          "type_mismatch_is_malformed",
			rec:           record{ID: "o-3", EventType: ports.EventEventDeleted, Payload: payload(t, valid)},
			wantMalformed: true,
			wantErr:       true,
		},
		{
			name:          "missing_event_id_is_malformed",
			rec:           record{ID: "o-4", EventType: ports.EventEventCancelled, Payload: []byte(`{"type":"event.cancelled"}`)},
			wantMalformed: true,
			wantErr:       true,
		},
		{
			name:       "broker_failure_is_retryable",
			rec:        record{ID: "o-5", EventType: ports.EventRegistrationCreated, Payload: payload(t, valid)},
			publishErr: errors.New("broker unavailable"),
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := mocks.NewMockLedgerEventPublisher()
			publisher.PublishError = tt.publishErr

			err := dispatch(context.Background(), publisher, tt.rec)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.wantMalformed, errors.Is(err, errMalformed))
			assert.Len(t, publisher.GetPublishedEvents(), tt.wantPublished)
		})
	}
}

func TestDispatch_TypeFallsBackToRow(t *testing.T) {
	publisher := mocks.NewMockLedgerEventPublisher()
	rec := record{ID: "o-1", EventType: ports.EventEventDeleted, Payload: []byte(`{"event_id":"evt-9"}`)}

	require.NoError(t, dispatch(context.Background(), publisher, rec))
	events := publisher.GetPublishedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, ports.EventEventDeleted, events[0].Type)
}

func TestRelayHealth(t *testing.T) {
	r := NewRelay(nil, "", mocks.NewMockLedgerEventPublisher())
	assert.True(t, r.IsHealthy())
	assert.True(t, r.IsReady())

	r.lastProcessed.Store(time.Now().Add(-2 * healthCheckStaleThreshold).UnixNano())
	assert.True(t, r.IsHealthy())
	assert.False(t, r.IsReady())

	r.markProcessed()
	r.healthy.Store(false)
	assert.False(t, r.IsHealthy())
	assert.False(t, r.IsReady())
}
