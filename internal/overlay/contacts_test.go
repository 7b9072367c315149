package overlay

import (
	"context"
	"testing"

	"github.com/wakati-labs/kwaheri/internal/domain"
)

func TestListingContacts_DefaultIsEmpty(t *testing.T) {
	contacts := NewListingContacts(newMemLog())

	contact, err := contacts.GetOne(context.Background(), "listing-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contact != "" {
		t.Errorf("expected empty default, got %q", contact)
	}
}

func TestListingContacts_LatestWins(t *testing.T) {
	log := newMemLog()
	contacts := NewListingContacts(log)
	ctx := context.Background()

	if err := contacts.Set(ctx, nil, "listing-1", "+254700111222"); err != nil {
		t.Fatalf("first set: %v", err)
	}
	log.advance(1)
	if err := contacts.Set(ctx, nil, "listing-1", "  +254700333444  "); err != nil {
		t.Fatalf("second set: %v", err)
	}

	contact, err := contacts.GetOne(ctx, "listing-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contact != "+254700333444" {
		t.Errorf("expected trimmed newest contact, got %q", contact)
	}

	// The log keeps both records; nothing was overwritten.
	if len(log.records) != 2 {
		t.Errorf("expected 2 records in the log, got %d", len(log.records))
	}
}

func TestListingContacts_GetMany(t *testing.T) {
	log := newMemLog()
	contacts := NewListingContacts(log)
	ctx := context.Background()

	contacts.Set(ctx, nil, "listing-1", "+254700111222")
	log.advance(1)
	contacts.Set(ctx, nil, "listing-2", "+254700333444")
	log.advance(1)
	// Malformed payload for listing-3: decodes to no contact, omitted.
	log.appendRaw(domain.RecordListingContactUpdated, domain.EntityListing, "listing-3", `"oops"`)

	got, err := contacts.GetMany(ctx, []string{"listing-1", "listing-2", "listing-3", "listing-4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 contacts, got %d: %v", len(got), got)
	}
	if got["listing-1"] != "+254700111222" || got["listing-2"] != "+254700333444" {
		t.Errorf("unexpected contacts: %v", got)
	}
}

func TestListingContacts_GetManyEmptyInput(t *testing.T) {
	contacts := NewListingContacts(newMemLog())

	got, err := contacts.GetMany(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}
