package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/wakati-labs/kwaheri/internal/domain"
)

// ActivityInput describes one record to append to the activity log.
type ActivityInput struct {
	ActorID    *string
	RecordType string
	EntityType string
	EntityID   string
	Payload    json.RawMessage
}

// AppendActivity inserts a new log record. The log is insert-only: no code
// path in this repository updates or deletes an activities row.
func (s *PostgresStore) AppendActivity(ctx context.Context, in ActivityInput) (*domain.Record, error) {
	var rec domain.Record
	err := s.pool.QueryRow(ctx, `
		INSERT INTO activities (actor_id, record_type, entity_type, entity_id, payload)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, seq, actor_id, record_type, entity_type, entity_id, payload, created_at
	`, in.ActorID, in.RecordType, in.EntityType, in.EntityID, in.Payload).Scan(
		&rec.ID, &rec.Seq, &rec.ActorID, &rec.RecordType, &rec.EntityType,
		&rec.EntityID, &rec.Payload, &rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting activity: %w", err)
	}
	return &rec, nil
}

// QueryActivities returns records of one record type, newest first, ties
// broken by append order. A non-empty entityIDs narrows the scan to those
// entities; nil means all entities of the type.
func (s *PostgresStore) QueryActivities(ctx context.Context, recordType, entityType string, entityIDs []string) ([]domain.Record, error) {
	query := `
		SELECT id, seq, actor_id, record_type, entity_type, entity_id, payload, created_at
		FROM activities
		WHERE record_type = $1 AND entity_type = $2`
	args := []interface{}{recordType, entityType}

	if entityIDs != nil {
		query += " AND entity_id = ANY($3)"
		args = append(args, entityIDs)
	}
	query += " ORDER BY created_at DESC, seq DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListRecentActivities returns the newest records of any type, optionally
// restricted to one actor. Feeds the activity timeline endpoints.
func (s *PostgresStore) ListRecentActivities(ctx context.Context, actorID string, limit int) ([]domain.Record, error) {
	query := `
		SELECT id, seq, actor_id, record_type, entity_type, entity_id, payload, created_at
		FROM activities`
	args := []interface{}{}

	if actorID != "" {
		query += " WHERE actor_id = $1"
		args = append(args, actorID)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, seq DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying recent activities: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// CountActivities returns the total size of the log.
func (s *PostgresStore) CountActivities(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM activities").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting activities: %w", err)
	}
	return n, nil
}

// InviteCodeExists reports whether any invite-config record has ever carried
// the given code. Historical records count: a rotated-away code stays burned.
func (s *PostgresStore) InviteCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM activities
			WHERE record_type = $1 AND payload->>'inviteCode' = $2
		)
	`, domain.RecordInviteConfigUpdated, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking invite code: %w", err)
	}
	return exists, nil
}

func scanRecords(rows pgx.Rows) ([]domain.Record, error) {
	records := []domain.Record{}
	for rows.Next() {
		var r domain.Record
		err := rows.Scan(&r.ID, &r.Seq, &r.ActorID, &r.RecordType, &r.EntityType,
			&r.EntityID, &r.Payload, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		records = append(records, r)
	}
	return records, nil
}
