package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/config"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

const (
	// PostgreSQL NOTIFY/LISTEN configuration
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "outbox_channel"

	// Event processing timeouts
	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	healthCheckStaleThreshold = 5 * time.Minute

	maxEventsPerBatch = 100
)

// errMalformed marks an outbox row that can never be published.
var errMalformed = errors.New("malformed outbox payload")

type record struct {
	ID        string
	EventType string
	Payload   []byte
}

// Relay listens for PostgreSQL NOTIFY signals on the outbox_channel and
// publishes ledger events to RabbitMQ. A row is marked processed only after
// the broker accepted it, so delivery is at least once.
type Relay struct {
	db            *sql.DB
	publisher     ports.LedgerEventPublisher
	listener      *pq.Listener
	dbURL         string
	dbCB          *gobreaker.CircuitBreaker
	lastProcessed atomic.Int64
	healthy       atomic.Bool
}

// NewRelay creates a new outbox relay that listens for PostgreSQL notifications.
func NewRelay(db *sql.DB, dbURL string, publisher ports.LedgerEventPublisher) *Relay {
	r := &Relay{
		db:        db,
		dbURL:     dbURL,
		publisher: publisher,
		dbCB:      config.NewCircuitBreaker(config.BreakerRelayPostgres),
	}
	r.markProcessed()
	r.healthy.Store(true)
	return r
}

// IsHealthy is the liveness check: an open circuit is degraded but
// recoverable and does not fail it.
func (r *Relay) IsHealthy() bool {
	return r.healthy.Load()
}

// IsReady reports whether the relay can process events right now.
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}
	if time.Since(time.Unix(0, r.lastProcessed.Load())) > healthCheckStaleThreshold {
		return false
	}
	return r.healthy.Load()
}

func (r *Relay) markProcessed() {
	r.lastProcessed.Store(time.Now().UnixNano())
}

// Start begins listening for outbox notifications and processing events.
// This is a blocking call that runs until the context is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("outbox relay: listener error: %v", err)
		}
	}

	r.listener = pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer r.listener.Close()

	if err := r.listener.Listen(outboxChannelName); err != nil {
		return err
	}

	log.Printf("outbox relay: listening on '%s' for notifications...", outboxChannelName)

	// Catch up on rows written while the relay was down.
	if err := r.processUnprocessedEvents(ctx); err != nil {
		log.Printf("outbox relay: error processing startup backlog: %v", err)
	}

	ticker := time.NewTicker(periodicProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("outbox relay: shutting down...")
			return ctx.Err()

		case notification := <-r.listener.Notify:
			if notification == nil {
				log.Println("outbox relay: received nil notification (reconnecting...)")
				r.healthy.Store(false)
				continue
			}

			if err := r.processEventByID(ctx, notification.Extra); err != nil {
				log.Printf("outbox relay: error processing event %s: %v", notification.Extra, err)
			} else {
				r.markProcessed()
				r.healthy.Store(true)
			}

		case <-ticker.C:
			go r.listener.Ping()

			// Safety net for missed notifications.
			if err := r.processUnprocessedEvents(ctx); err != nil {
				log.Printf("outbox relay: error in periodic processing: %v", err)
			} else {
				r.markProcessed()
			}
		}
	}
}

// dispatch decodes and publishes one outbox row. It returns errMalformed for
// rows that should be marked processed without publishing.
func dispatch(ctx context.Context, publisher ports.LedgerEventPublisher, rec record) error {
	var evt ports.LedgerEvent
	if err := json.Unmarshal(rec.Payload, &evt); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if evt.Type == "" {
		evt.Type = rec.EventType
	}
	if evt.Type != rec.EventType || evt.EventID == "" {
		return fmt.Errorf("%w: type %q does not match row type %q or event id is empty", errMalformed, evt.Type, rec.EventType)
	}
	return publisher.PublishLedgerEvent(ctx, evt)
}

func markRowProcessed(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, id)
	return err
}

// processEventByID processes a single event by its ID.
func (r *Relay) processEventByID(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		var rec record
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&rec.ID, &rec.EventType, &rec.Payload)

		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if err := dispatch(ctx, r.publisher, rec); err != nil {
			if !errors.Is(err, errMalformed) {
				return nil, err
			}
			log.Printf("outbox relay: dropping event %s: %v", rec.ID, err)
		}

		if err := markRowProcessed(ctx, tx, rec.ID); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	})
	return err
}

// processUnprocessedEvents processes all unprocessed events (catch-up/recovery).
func (r *Relay) processUnprocessedEvents(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}

		var records []record
		for rows.Next() {
			var rec record
			if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload); err != nil {
				rows.Close()
				return nil, err
			}
			records = append(records, rec)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		for _, rec := range records {
			if err := dispatch(ctx, r.publisher, rec); err != nil {
				if !errors.Is(err, errMalformed) {
					log.Printf("outbox relay: failed to publish event %s: %v", rec.ID, err)
					continue
				}
				log.Printf("outbox relay: dropping event %s: %v", rec.ID, err)
			}

			if err := markRowProcessed(ctx, tx, rec.ID); err != nil {
				return nil, err
			}
			log.Printf("outbox relay: processed event %s", rec.ID)
		}

		return nil, tx.Commit()
	})
	return err
}
