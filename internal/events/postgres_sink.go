package events

import (
	"context"
	"fmt"

	"mergington-activities/internal/common/database"
)

const createAuditTable = `CREATE TABLE IF NOT EXISTS roster_audit (
	event_id UUID PRIMARY KEY,
	event_type TEXT NOT NULL,
	activity TEXT NOT NULL,
	email TEXT NOT NULL,
	participants INTEGER NOT NULL,
	max_participants INTEGER NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL
)`

const insertAuditRow = `INSERT INTO roster_audit
	(event_id, event_type, activity, email, participants, max_participants, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

// PostgresAuditSink appends every event to the roster_audit table. Rosters
// are never read back from it.
type PostgresAuditSink struct {
	db *database.PostgresClient
}

func NewPostgresAuditSink(db *database.PostgresClient) *PostgresAuditSink {
	return &PostgresAuditSink{db: db}
}

func (s *PostgresAuditSink) Name() string { return "postgres" }

func (s *PostgresAuditSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createAuditTable); err != nil {
		return fmt.Errorf("create roster_audit: %w", err)
	}
	return nil
}

func (s *PostgresAuditSink) Deliver(ctx context.Context, event RosterEvent) error {
	_, err := s.db.Exec(ctx, insertAuditRow,
		event.ID,
		event.Type,
		event.Activity,
		event.Email,
		event.Participants,
		event.MaxParticipants,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert roster_audit: %w", err)
	}
	return nil
}
