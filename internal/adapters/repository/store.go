package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/config"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

// PostgreSQL SQLSTATE codes for constraint failures.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Store implements the repository ports on PostgreSQL. Every round trip runs
// through one circuit breaker so that an unreachable database fails fast.
type Store struct {
	db *sql.DB
	cb *gobreaker.CircuitBreaker
}

var (
	_ ports.CredentialRepository   = (*Store)(nil)
	_ ports.RoleRepository         = (*Store)(nil)
	_ ports.ProfileRepository      = (*Store)(nil)
	_ ports.EventRepository        = (*Store)(nil)
	_ ports.RegistrationRepository = (*Store)(nil)
)

func NewStore(db *sql.DB) *Store {
	return newStore(db, config.NewCircuitBreaker(config.BreakerPostgres))
}

func newStore(db *sql.DB, cb *gobreaker.CircuitBreaker) *Store {
	return &Store{db: db, cb: cb}
}

// run executes fn under the breaker. Constraint violations and missing rows
// are answers, not outages, and a cancelled or timed out request says nothing
// about the database: all of these are returned to the caller without
// counting as breaker failures.
func (s *Store) run(fn func() error) error {
	var answer error
	_, err := s.cb.Execute(func() (interface{}, error) {
		err := fn()
		if isAnswer(err) {
			answer = err
			return nil, nil
		}
		return nil, err
	})
	if answer != nil {
		return answer
	}
	return err
}

// inTx runs fn in a transaction under the breaker and commits when fn succeeds.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return s.run(func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if err := fn(tx); err != nil {
			return err
		}
		return tx.Commit()
	})
}

func isAnswer(err error) bool {
	return isUniqueViolation(err) ||
		isForeignKeyViolation(err, "") ||
		errors.Is(err, sql.ErrNoRows) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// isForeignKeyViolation matches a foreign key failure on constraint, or on any
// constraint when constraint is empty.
func isForeignKeyViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != foreignKeyViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

func insertOutbox(ctx context.Context, tx *sql.Tx, msgs ...ports.OutboxMessage) error {
	for _, msg := range msgs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO outbox_events (id, event_type, payload) VALUES ($1, $2, $3)",
			msg.ID,
			msg.Type,
			msg.Payload,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
