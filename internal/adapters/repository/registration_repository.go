package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

// registrationEventFK is the default name Postgres gives the event_id
// reference of event_registrations.
const registrationEventFK = "event_registrations_event_id_fkey"

// CreateRegistration inserts the registration and its outbox message in one
// transaction. The (event_id, identity_id) primary key rejects duplicates, so
// the check and the insert cannot race. An event deleted after the caller
// looked it up trips the event_id reference and reads as not found.
func (s *Store) CreateRegistration(ctx context.Context, reg domain.Registration, msg ports.OutboxMessage) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO event_registrations (event_id, identity_id, registered_at) VALUES ($1, $2, $3)",
			reg.EventID,
			reg.IdentityID,
			reg.RegisteredAt,
		)
		if err != nil {
			return err
		}
		return insertOutbox(ctx, tx, msg)
	})
	switch {
	case isUniqueViolation(err):
		return domain.ErrAlreadyRegistered
	case isForeignKeyViolation(err, registrationEventFK):
		return domain.ErrEventNotFound
	}
	return err
}

func (s *Store) FindRegistration(ctx context.Context, eventID, identityID string) (*domain.Registration, error) {
	reg := domain.Registration{EventID: eventID, IdentityID: identityID}
	err := s.run(func() error {
		return s.db.QueryRowContext(ctx,
			"SELECT registered_at FROM event_registrations WHERE event_id = $1 AND identity_id = $2",
			eventID,
			identityID,
		).Scan(&reg.RegisteredAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotRegistered
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (s *Store) DeleteRegistration(ctx context.Context, eventID, identityID string, msg ports.OutboxMessage) (bool, error) {
	var removed bool
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM event_registrations WHERE event_id = $1 AND identity_id = $2",
			eventID,
			identityID,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if removed = n > 0; !removed {
			return nil
		}
		return insertOutbox(ctx, tx, msg)
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (s *Store) CountByEvents(ctx context.Context, eventIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}
	err := s.run(func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT event_id, COUNT(*) FROM event_registrations
			 WHERE event_id = ANY($1) GROUP BY event_id`,
			pq.Array(eventIDs),
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var id string
			var n int
			if err := rows.Scan(&id, &n); err != nil {
				return err
			}
			counts[id] = n
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (s *Store) FindAttendees(ctx context.Context, eventID string) ([]domain.Attendee, error) {
	var attendees []domain.Attendee
	err := s.run(func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT r.identity_id, i.email, r.registered_at,
			   COALESCE(p.full_name, ''), COALESCE(p.phone, ''), COALESCE(p.university, ''),
			   COALESCE(p.bio, ''), COALESCE(p.interests, '{}')
			 FROM event_registrations r
			 JOIN identities i ON i.id = r.identity_id
			 LEFT JOIN student_profiles p ON p.identity_id = r.identity_id
			 WHERE r.event_id = $1
			 ORDER BY r.registered_at, r.identity_id`,
			eventID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var a domain.Attendee
			err := rows.Scan(&a.IdentityID, &a.Email, &a.RegisteredAt,
				&a.Profile.FullName, &a.Profile.Phone, &a.Profile.University,
				&a.Profile.Bio, pq.Array(&a.Profile.Interests))
			if err != nil {
				return err
			}
			a.Profile.IdentityID = a.IdentityID
			attendees = append(attendees, a)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return attendees, nil
}

func (s *Store) FindEventIDsByIdentity(ctx context.Context, identityID string) ([]string, error) {
	var ids []string
	err := s.run(func() error {
		rows, err := s.db.QueryContext(ctx,
			"SELECT event_id FROM event_registrations WHERE identity_id = $1 ORDER BY event_id",
			identityID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
