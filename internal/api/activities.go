package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/wakati-labs/kwaheri/internal/domain"
)

type activityLister interface {
	ListRecentActivities(ctx context.Context, actorID string, limit int) ([]domain.Record, error)
}

type ActivityHandler struct {
	store activityLister
}

func NewActivityHandler(s activityLister) *ActivityHandler {
	return &ActivityHandler{store: s}
}

// feedRecord is the public shape of one log record. The payload is withheld,
// same as the websocket hub: invite codes and applicant contact details live
// in payloads, and the feed is readable by anyone.
type feedRecord struct {
	ID         string    `json:"id"`
	ActorID    *string   `json:"actor_id,omitempty"`
	RecordType string    `json:"record_type"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func feedView(records []domain.Record) []feedRecord {
	views := make([]feedRecord, len(records))
	for i, rec := range records {
		views[i] = feedRecord{
			ID:         rec.ID,
			ActorID:    rec.ActorID,
			RecordType: rec.RecordType,
			EntityType: rec.EntityType,
			EntityID:   rec.EntityID,
			CreatedAt:  rec.CreatedAt,
		}
	}
	return views
}

func feedLimit(r *http.Request) int {
	limit := 100
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	return limit
}

// Feed returns the newest activity records across all entities, payloads
// withheld.
func (h *ActivityHandler) Feed(w http.ResponseWriter, r *http.Request) {
	activities, err := h.store.ListRecentActivities(r.Context(), "", feedLimit(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}
	respondJSON(w, http.StatusOK, map[string][]feedRecord{"activities": feedView(activities)})
}

// Mine returns the caller's own activity records with full payloads; every
// payload here was written on the caller's behalf.
func (h *ActivityHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())

	activities, err := h.store.ListRecentActivities(r.Context(), claims.UserID, feedLimit(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}
	respondJSON(w, http.StatusOK, map[string][]domain.Record{"activities": activities})
}
