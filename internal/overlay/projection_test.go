package overlay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/wakati-labs/kwaheri/internal/domain"
)

func rec(id, entityID string, createdAt time.Time) domain.Record {
	return domain.Record{ID: id, EntityID: entityID, CreatedAt: createdAt}
}

func TestLatest_EmptyInput(t *testing.T) {
	latest := Latest(nil)
	if len(latest) != 0 {
		t.Errorf("expected empty projection, got %d entries", len(latest))
	}
}

func TestLatest_FirstSeenPerKeyWins(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	// Newest-first input, as the store returns it.
	records := []domain.Record{
		rec("r3", "a", base.Add(3*time.Hour)),
		rec("r2", "b", base.Add(2*time.Hour)),
		rec("r1", "a", base.Add(1*time.Hour)),
		rec("r0", "a", base),
	}

	latest := Latest(records)

	if len(latest) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(latest))
	}
	if latest["a"].ID != "r3" {
		t.Errorf("entity a: expected newest record r3, got %s", latest["a"].ID)
	}
	if latest["b"].ID != "r2" {
		t.Errorf("entity b: expected r2, got %s", latest["b"].ID)
	}
}

func TestLatest_ManyRecordsOneEntity(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	records := make([]domain.Record, 0, 50)
	for i := 49; i >= 0; i-- {
		records = append(records, rec(string(rune('a'+i%26)), "x", base.Add(time.Duration(i)*time.Minute)))
	}

	latest := Latest(records)

	if len(latest) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(latest))
	}
	if !latest["x"].CreatedAt.Equal(base.Add(49 * time.Minute)) {
		t.Errorf("expected newest record to win, got createdAt %v", latest["x"].CreatedAt)
	}
}

func TestPayloadFields_Malformed(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"not json", "{{{"},
		{"array", `["a","b"]`},
		{"scalar", `42`},
		{"null", `null`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if fields := payloadFields(json.RawMessage(tc.payload)); fields != nil {
				t.Errorf("expected nil fields for %q, got %v", tc.payload, fields)
			}
		})
	}
}

func TestFieldHelpers_WrongTypes(t *testing.T) {
	fields := payloadFields(json.RawMessage(`{"s": 5, "b": "yes", "n": "ten", "img": null}`))

	if _, ok := stringField(fields, "s"); ok {
		t.Error("numeric value should not decode as string")
	}
	if _, ok := boolField(fields, "b"); ok {
		t.Error("string value should not decode as bool")
	}
	if _, ok := intField(fields, "n"); ok {
		t.Error("string value should not decode as int")
	}
	if _, ok := stringField(fields, "missing"); ok {
		t.Error("missing key should not decode")
	}

	value, set := nullableStringField(fields, "img")
	if !set || value != nil {
		t.Errorf("explicit null should decode as set with nil value, got set=%v value=%v", set, value)
	}
}
