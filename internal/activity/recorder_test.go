package activity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/wakati-labs/kwaheri/internal/domain"
	"github.com/wakati-labs/kwaheri/internal/store"
)

type fakeAppender struct {
	appended []store.ActivityInput
	err      error
}

func (f *fakeAppender) AppendActivity(ctx context.Context, in store.ActivityInput) (*domain.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.appended = append(f.appended, in)
	return &domain.Record{
		ID:         "rec-1",
		RecordType: in.RecordType,
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		Payload:    in.Payload,
		CreatedAt:  time.Now(),
	}, nil
}

type fakeHub struct {
	broadcasts []domain.Record
}

func (f *fakeHub) BroadcastRecord(rec domain.Record) {
	f.broadcasts = append(f.broadcasts, rec)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecord_AppendsAndBroadcasts(t *testing.T) {
	appender := &fakeAppender{}
	hub := &fakeHub{}
	rec := NewRecorder(appender, testLogger(), hub)

	rec.Record(context.Background(), store.ActivityInput{
		RecordType: domain.RecordFundraiserStatusUpdated,
		EntityType: domain.EntityFundraiser,
		EntityID:   "f1",
		Payload:    []byte(`{"status":"ACTIVE"}`),
	})

	if len(appender.appended) != 1 {
		t.Fatalf("expected 1 append, got %d", len(appender.appended))
	}
	if len(hub.broadcasts) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(hub.broadcasts))
	}
	if hub.broadcasts[0].EntityID != "f1" {
		t.Errorf("broadcast entity id = %q", hub.broadcasts[0].EntityID)
	}
}

func TestRecord_SwallowsAppendFailure(t *testing.T) {
	appender := &fakeAppender{err: errors.New("connection refused")}
	hub := &fakeHub{}
	rec := NewRecorder(appender, testLogger(), hub)

	// Must not panic or broadcast; the caller never sees the failure.
	rec.Record(context.Background(), store.ActivityInput{
		RecordType: domain.RecordFundraiserStatusUpdated,
		EntityType: domain.EntityFundraiser,
		EntityID:   "f1",
	})

	if len(hub.broadcasts) != 0 {
		t.Errorf("failed append must not broadcast, got %d", len(hub.broadcasts))
	}
}

func TestRecord_NilHub(t *testing.T) {
	appender := &fakeAppender{}
	rec := NewRecorder(appender, testLogger(), nil)

	rec.Record(context.Background(), store.ActivityInput{
		RecordType: domain.RecordUserRegistered,
		EntityType: domain.EntityUser,
		EntityID:   "u1",
	})

	if len(appender.appended) != 1 {
		t.Fatalf("expected append with nil hub, got %d", len(appender.appended))
	}
}
