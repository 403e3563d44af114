package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/domain"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

const eventColumns = `e.id, e.owner_identity_id, e.title, e.description, e.category, e.location,
	e.start_time, e.end_time, e.capacity, e.status, e.tags, e.created_at, e.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner, extra ...any) (domain.Event, error) {
	var e domain.Event
	dest := []any{
		&e.ID, &e.OwnerID, &e.Title, &e.Description, &e.Category, &e.Location,
		&e.StartTime, &e.EndTime, &e.Capacity, &e.Status, pq.Array(&e.Tags), &e.CreatedAt, &e.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return e, err
}

func (s *Store) CreateEvent(ctx context.Context, e *domain.Event) error {
	return s.run(func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO events (id, owner_identity_id, title, description, category, location,
			   start_time, end_time, capacity, status, tags, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			e.ID, e.OwnerID, e.Title, e.Description, e.Category, e.Location,
			e.StartTime, e.EndTime, e.Capacity, e.Status, pq.Array(nonNil(e.Tags)), e.CreatedAt, e.UpdatedAt,
		)
		return err
	})
}

func (s *Store) FindEvent(ctx context.Context, id string) (*domain.Event, error) {
	var event domain.Event
	err := s.run(func() error {
		var err error
		event, err = scanEvent(s.db.QueryRowContext(ctx,
			"SELECT "+eventColumns+" FROM events e WHERE e.id = $1", id))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *Store) UpdateEvent(ctx context.Context, e *domain.Event, msgs ...ports.OutboxMessage) error {
	var updated int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE events SET title = $2, description = $3, category = $4, location = $5,
			   start_time = $6, end_time = $7, capacity = $8, status = $9, tags = $10, updated_at = $11
			 WHERE id = $1`,
			e.ID, e.Title, e.Description, e.Category, e.Location,
			e.StartTime, e.EndTime, e.Capacity, e.Status, pq.Array(nonNil(e.Tags)), e.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if updated, err = res.RowsAffected(); err != nil || updated == 0 {
			return err
		}
		return insertOutbox(ctx, tx, msgs...)
	})
	if err != nil {
		return err
	}
	if updated == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// DeleteEvent relies on ON DELETE CASCADE to remove the event's registrations.
func (s *Store) DeleteEvent(ctx context.Context, id string, msgs ...ports.OutboxMessage) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM events WHERE id = $1", id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil || n == 0 {
			return err
		}
		return insertOutbox(ctx, tx, msgs...)
	})
}

func (s *Store) FindUpcoming(ctx context.Context, now time.Time, filter domain.EventFilter) ([]domain.EventListing, error) {
	query, args := upcomingQuery(now, filter)
	return s.queryListings(ctx, query, args...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere, with s's own
// wildcards taken literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// upcomingQuery pushes the filter's predicates into SQL. The window bound is
// inclusive, so the query may return a few rows the in-memory filter drops.
func upcomingQuery(now time.Time, filter domain.EventFilter) (string, []any) {
	args := []any{now}
	param := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + eventColumns + `, COALESCE(o.org_name, '')
		 FROM events e
		 LEFT JOIN organization_profiles o ON o.identity_id = e.owner_identity_id
		 WHERE e.status = 'published' AND e.start_time >= $1`)
	if q := strings.TrimSpace(filter.Query); q != "" {
		p := param(containsPattern(q))
		fmt.Fprintf(&b, "\n\t\t AND (e.title ILIKE %[1]s OR e.description ILIKE %[1]s OR o.org_name ILIKE %[1]s)", p)
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		b.WriteString("\n\t\t AND e.location ILIKE " + param(containsPattern(loc)))
	}
	if end, ok := filter.Window.Bound(now); ok {
		b.WriteString("\n\t\t AND e.start_time <= " + param(end))
	}
	if tags := domain.NormalizeTags(filter.Tags); len(tags) > 0 {
		b.WriteString("\n\t\t AND e.tags && " + param(pq.Array(tags)))
	}
	b.WriteString("\n\t\t ORDER BY e.start_time, e.id")
	return b.String(), args
}

func (s *Store) FindByOwner(ctx context.Context, ownerID string) ([]domain.EventListing, error) {
	return s.queryListings(ctx,
		`SELECT `+eventColumns+`, COALESCE(o.org_name, '')
		 FROM events e
		 LEFT JOIN organization_profiles o ON o.identity_id = e.owner_identity_id
		 WHERE e.owner_identity_id = $1
		 ORDER BY e.start_time, e.id`,
		ownerID,
	)
}

func (s *Store) queryListings(ctx context.Context, query string, args ...any) ([]domain.EventListing, error) {
	var listings []domain.EventListing
	err := s.run(func() error {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var orgName string
			e, err := scanEvent(rows, &orgName)
			if err != nil {
				return err
			}
			listings = append(listings, domain.EventListing{Event: e, OrganizerName: orgName})
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return listings, nil
}
