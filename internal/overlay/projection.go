// Package overlay reconstructs mutable attributes from the append-only
// activity log. Each overlay pairs a record type with a payload decoder and a
// default, so entities gain new properties without schema changes: writes
// append a record, reads keep the newest record per entity.
package overlay

import (
	"context"
	"encoding/json"

	"github.com/wakati-labs/kwaheri/internal/domain"
	"github.com/wakati-labs/kwaheri/internal/store"
)

// LogStore is the slice of the activity store the overlays consume.
// *store.PostgresStore satisfies it.
type LogStore interface {
	AppendActivity(ctx context.Context, in store.ActivityInput) (*domain.Record, error)
	QueryActivities(ctx context.Context, recordType, entityType string, entityIDs []string) ([]domain.Record, error)
}

// Latest reduces a newest-first record sequence to one record per entity:
// the first record seen for an id wins, which is the latest overall. Input
// order is trusted; duplicate keys are expected.
func Latest(records []domain.Record) map[string]domain.Record {
	latest := make(map[string]domain.Record, len(records))
	for _, rec := range records {
		if _, seen := latest[rec.EntityID]; seen {
			continue
		}
		latest[rec.EntityID] = rec
	}
	return latest
}

// payloadFields splits a payload into its top-level fields. Returns nil for
// anything that is not a JSON object, so decoders degrade to defaults instead
// of failing on historical or foreign payload shapes.
func payloadFields(payload json.RawMessage) map[string]json.RawMessage {
	if len(payload) == 0 {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil
	}
	return fields
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func boolField(fields map[string]json.RawMessage, key string) (bool, bool) {
	raw, ok := fields[key]
	if !ok {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}

func intField(fields map[string]json.RawMessage, key string) (int, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

// nullableStringField distinguishes "explicitly null" from "absent or
// malformed": set is true for both a string value and a JSON null.
func nullableStringField(fields map[string]json.RawMessage, key string) (value *string, set bool) {
	raw, ok := fields[key]
	if !ok {
		return nil, false
	}
	if string(raw) == "null" {
		return nil, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false
	}
	return &s, true
}
