package overlay

import (
	"context"
	"testing"
	"time"

	"github.com/wakati-labs/kwaheri/internal/domain"
)

func boolPtr(b bool) *bool       { return &b }
func strPtr(s string) *string    { return &s }
func intPtr(n int) *int          { return &n }

func TestServiceSlug(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Catering", "catering"},
		{"Coffin/Casket Dealers", "coffin-casket-dealers"},
		{"Air Freight (Within Kenya)", "air-freight-within-kenya"},
		{"Obituaries - Newspapers", "obituaries-newspapers"},
		{"Video & Streaming Services", "video-streaming-services"},
	}

	for _, tc := range cases {
		if got := ServiceSlug(tc.title); got != tc.want {
			t.Errorf("ServiceSlug(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestServices_DefaultsFromCatalog(t *testing.T) {
	services := NewServices(newMemLog())

	items, err := services.List(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != len(ServiceDefinitions()) {
		t.Fatalf("expected %d services, got %d", len(ServiceDefinitions()), len(items))
	}

	first := items[0]
	if first.ID != "administration-of-estate" || first.Title != "Administration of Estate" {
		t.Errorf("unexpected first service: %+v", first)
	}
	if !first.IsActive || first.ImageURL != nil || first.SortOrder != 0 || first.UpdatedAt != nil {
		t.Errorf("expected pristine catalog defaults, got %+v", first)
	}
}

func TestServices_PatchPreservesUnspecifiedFields(t *testing.T) {
	log := newMemLog()
	services := NewServices(log)
	ctx := context.Background()

	// Establish a current value with title, image and order.
	_, ok, err := services.Update(ctx, nil, "catering", domain.UpdateServiceRequest{
		Title:     strPtr("Catering & Refreshments"),
		ImageURL:  strPtr("https://cdn.example.com/catering.jpg"),
		SortOrder: intPtr(3),
	})
	if err != nil || !ok {
		t.Fatalf("first update failed: ok=%v err=%v", ok, err)
	}
	log.advance(time.Second)

	// PATCH only isActive; everything else must carry over from the
	// projected value, not the catalog default.
	updated, ok, err := services.Update(ctx, nil, "catering", domain.UpdateServiceRequest{
		IsActive: boolPtr(false),
	})
	if err != nil || !ok {
		t.Fatalf("second update failed: ok=%v err=%v", ok, err)
	}

	if updated.Title != "Catering & Refreshments" {
		t.Errorf("title lost in patch: %q", updated.Title)
	}
	if updated.ImageURL == nil || *updated.ImageURL != "https://cdn.example.com/catering.jpg" {
		t.Errorf("image lost in patch: %v", updated.ImageURL)
	}
	if updated.SortOrder != 3 {
		t.Errorf("sort order lost in patch: %d", updated.SortOrder)
	}
	if updated.IsActive {
		t.Error("isActive should be false after patch")
	}

	// And the projection agrees after a fresh read.
	item, ok, err := services.Get(ctx, "catering")
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if item.Title != "Catering & Refreshments" || item.IsActive {
		t.Errorf("projection disagrees after patch: %+v", item)
	}
}

func TestServices_ClearImage(t *testing.T) {
	log := newMemLog()
	services := NewServices(log)
	ctx := context.Background()

	services.Update(ctx, nil, "hearse", domain.UpdateServiceRequest{
		ImageURL: strPtr("https://cdn.example.com/hearse.jpg"),
	})
	log.advance(time.Second)

	updated, ok, err := services.Update(ctx, nil, "hearse", domain.UpdateServiceRequest{ClearImage: true})
	if err != nil || !ok {
		t.Fatalf("update failed: ok=%v err=%v", ok, err)
	}
	if updated.ImageURL != nil {
		t.Errorf("expected image cleared, got %v", *updated.ImageURL)
	}
}

func TestServices_InactiveFilteredFromPublicList(t *testing.T) {
	log := newMemLog()
	services := NewServices(log)
	ctx := context.Background()

	services.Update(ctx, nil, "catering", domain.UpdateServiceRequest{IsActive: boolPtr(false)})

	public, err := services.List(ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, item := range public {
		if item.ID == "catering" {
			t.Error("inactive service leaked into the public list")
		}
	}

	all, err := services.List(ctx, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != len(public)+1 {
		t.Errorf("expected admin list to carry exactly one extra entry: %d vs %d", len(all), len(public))
	}
}

func TestServices_SortOrderReorders(t *testing.T) {
	log := newMemLog()
	services := NewServices(log)
	ctx := context.Background()

	services.Update(ctx, nil, "urns", domain.UpdateServiceRequest{SortOrder: intPtr(0)})

	items, err := services.List(ctx, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Both "urns" and "Administration of Estate" now sort at 0; title order
	// breaks the tie.
	if items[0].ID != "administration-of-estate" || items[1].ID != "urns" {
		t.Errorf("unexpected head of list: %s, %s", items[0].ID, items[1].ID)
	}
}

func TestServices_MalformedPayloadFallsToDefault(t *testing.T) {
	log := newMemLog()
	services := NewServices(log)

	log.appendRaw(domain.RecordServiceUpdated, domain.EntityService, "catering", `[1,2,3]`)

	item, ok, err := services.Get(context.Background(), "catering")
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if item.Title != "Catering" || !item.IsActive {
		t.Errorf("malformed payload should project catalog defaults, got %+v", item)
	}
	// The record still counts as the latest touch.
	if item.UpdatedAt == nil {
		t.Error("expected updatedAt from the malformed record")
	}
}

func TestServices_UnknownID(t *testing.T) {
	services := NewServices(newMemLog())

	_, ok, err := services.Get(context.Background(), "no-such-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("unknown id should not resolve")
	}

	_, ok, err = services.Update(context.Background(), nil, "no-such-service", domain.UpdateServiceRequest{IsActive: boolPtr(false)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("update of unknown id should not resolve")
	}
}
