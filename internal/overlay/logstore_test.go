package overlay

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/wakati-labs/kwaheri/internal/domain"
	"github.com/wakati-labs/kwaheri/internal/store"
)

// memLog is an in-memory stand-in for the Postgres activity store: append
// assigns monotonically increasing sequence numbers and timestamps, query
// returns newest first with ties broken by append order.
type memLog struct {
	records   []domain.Record
	nextSeq   int64
	now       time.Time
	failWrite error
}

func newMemLog() *memLog {
	return &memLog{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (m *memLog) AppendActivity(_ context.Context, in store.ActivityInput) (*domain.Record, error) {
	if m.failWrite != nil {
		return nil, m.failWrite
	}
	m.nextSeq++
	// Stays constant across some appends so the seq tie-break is exercised.
	rec := domain.Record{
		ID:         fmt.Sprintf("rec-%d", m.nextSeq),
		Seq:        m.nextSeq,
		ActorID:    in.ActorID,
		RecordType: in.RecordType,
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		Payload:    in.Payload,
		CreatedAt:  m.now,
	}
	m.records = append(m.records, rec)
	return &rec, nil
}

func (m *memLog) QueryActivities(_ context.Context, recordType, entityType string, entityIDs []string) ([]domain.Record, error) {
	var scope map[string]bool
	if entityIDs != nil {
		scope = make(map[string]bool, len(entityIDs))
		for _, id := range entityIDs {
			scope[id] = true
		}
	}

	matched := []domain.Record{}
	for _, rec := range m.records {
		if rec.RecordType != recordType || rec.EntityType != entityType {
			continue
		}
		if scope != nil && !scope[rec.EntityID] {
			continue
		}
		matched = append(matched, rec)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].Seq > matched[j].Seq
	})
	return matched, nil
}

// advance moves the clock so later appends get strictly later timestamps.
func (m *memLog) advance(d time.Duration) {
	m.now = m.now.Add(d)
}

func (m *memLog) appendRaw(recordType, entityType, entityID, payload string) {
	m.AppendActivity(context.Background(), store.ActivityInput{
		RecordType: recordType,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    json.RawMessage(payload),
	})
}
