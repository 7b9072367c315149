// Package activity records audit entries into the log as a side effect of
// primary mutations.
package activity

import (
	"context"
	"log/slog"

	"github.com/wakati-labs/kwaheri/internal/domain"
	"github.com/wakati-labs/kwaheri/internal/store"
)

// Appender is the write half of the log store.
type Appender interface {
	AppendActivity(ctx context.Context, in store.ActivityInput) (*domain.Record, error)
}

// Broadcaster pushes freshly appended records to live listeners. The
// websocket hub satisfies it.
type Broadcaster interface {
	BroadcastRecord(rec domain.Record)
}

// Recorder appends best-effort audit records. A failed append must never
// fail the mutation that triggered it, so errors are logged and swallowed.
type Recorder struct {
	log    Appender
	logger *slog.Logger
	hub    Broadcaster
}

// NewRecorder creates a recorder. hub may be nil when no live feed exists.
func NewRecorder(log Appender, logger *slog.Logger, hub Broadcaster) *Recorder {
	return &Recorder{log: log, logger: logger, hub: hub}
}

// Record appends an audit record. Fire-and-forget from the caller's
// perspective: nothing is returned and nothing propagates.
func (r *Recorder) Record(ctx context.Context, in store.ActivityInput) {
	rec, err := r.log.AppendActivity(ctx, in)
	if err != nil {
		r.logger.Error("activity append failed",
			"error", err,
			"record_type", in.RecordType,
			"entity_type", in.EntityType,
			"entity_id", in.EntityID,
		)
		return
	}

	if r.hub != nil {
		r.hub.BroadcastRecord(*rec)
	}
}
