package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wakati-labs/kwaheri/internal/domain"
)

type fakeActivityLister struct {
	records []domain.Record
}

func (f *fakeActivityLister) ListRecentActivities(_ context.Context, actorID string, limit int) ([]domain.Record, error) {
	return f.records, nil
}

func TestFeed_WithholdsPayloads(t *testing.T) {
	actor := "owner-1"
	lister := &fakeActivityLister{records: []domain.Record{
		{
			ID:         "rec-1",
			ActorID:    &actor,
			RecordType: domain.RecordInviteConfigUpdated,
			EntityType: domain.EntityFundraiser,
			EntityID:   "fund-1",
			Payload:    json.RawMessage(`{"visibilityType":"PRIVATE","inviteCode":"KF-AB23-CD45"}`),
			CreatedAt:  time.Now(),
		},
		{
			ID:         "rec-2",
			RecordType: domain.RecordApplicationSubmitted,
			EntityType: domain.EntityApplication,
			EntityID:   "app-1",
			Payload:    json.RawMessage(`{"vendorName":"Acme","contactEmail":"amina@example.com","contactPhone":"+254700000000","status":"PENDING"}`),
			CreatedAt:  time.Now(),
		},
	}}
	h := NewActivityHandler(lister)

	req := httptest.NewRequest("GET", "/api/activities/feed", nil)
	rr := httptest.NewRecorder()
	h.Feed(rr, req)

	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	body := rr.Body.String()
	// The feed is anonymous; payload contents must never reach it.
	if strings.Contains(body, "KF-AB23-CD45") {
		t.Errorf("feed leaked an invite code: %s", body)
	}
	if strings.Contains(body, "amina@example.com") || strings.Contains(body, "+254700000000") {
		t.Errorf("feed leaked applicant contact details: %s", body)
	}
	if strings.Contains(body, `"payload"`) {
		t.Errorf("feed serialized a payload field: %s", body)
	}

	// The metadata itself stays visible.
	if !strings.Contains(body, "FUNDRAISER_INVITE_CONFIG_UPDATED") {
		t.Errorf("feed dropped the record type: %s", body)
	}
	if !strings.Contains(body, "fund-1") || !strings.Contains(body, "app-1") {
		t.Errorf("feed dropped entity ids: %s", body)
	}
}

func TestFeedLimit(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"", 100},
		{"?limit=25", 25},
		{"?limit=500", 500},
		{"?limit=501", 100},
		{"?limit=0", 100},
		{"?limit=abc", 100},
	}

	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/api/activities/feed"+tc.query, nil)
		if got := feedLimit(req); got != tc.want {
			t.Errorf("feedLimit(%q) = %d, want %d", tc.query, got, tc.want)
		}
	}
}
