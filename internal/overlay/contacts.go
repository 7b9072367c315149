package overlay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wakati-labs/kwaheri/internal/domain"
	"github.com/wakati-labs/kwaheri/internal/store"
)

// ListingContacts overlays a vendor contact onto marketplace listings. A
// listing with no contact record projects to the empty string.
type ListingContacts struct {
	log LogStore
}

func NewListingContacts(log LogStore) *ListingContacts {
	return &ListingContacts{log: log}
}

func decodeContact(payload json.RawMessage) string {
	fields := payloadFields(payload)
	contact, _ := stringField(fields, "vendorContact")
	return contact
}

// GetOne returns the current contact for a listing, or "" if none is set.
func (c *ListingContacts) GetOne(ctx context.Context, listingID string) (string, error) {
	records, err := c.log.QueryActivities(ctx, domain.RecordListingContactUpdated, domain.EntityListing, []string{listingID})
	if err != nil {
		return "", fmt.Errorf("loading listing contact: %w", err)
	}
	rec, ok := Latest(records)[listingID]
	if !ok {
		return "", nil
	}
	return decodeContact(rec.Payload), nil
}

// GetMany returns the current contact per listing id in one query. Listings
// with no contact, or whose newest record decodes to an empty contact, are
// omitted from the result.
func (c *ListingContacts) GetMany(ctx context.Context, listingIDs []string) (map[string]string, error) {
	if len(listingIDs) == 0 {
		return map[string]string{}, nil
	}

	records, err := c.log.QueryActivities(ctx, domain.RecordListingContactUpdated, domain.EntityListing, listingIDs)
	if err != nil {
		return nil, fmt.Errorf("loading listing contacts: %w", err)
	}

	contacts := make(map[string]string)
	for id, rec := range Latest(records) {
		if contact := decodeContact(rec.Payload); contact != "" {
			contacts[id] = contact
		}
	}
	return contacts, nil
}

// Set appends a new contact record for the listing. Prior records are left
// untouched; the new one becomes current by being newest.
func (c *ListingContacts) Set(ctx context.Context, actorID *string, listingID, contact string) error {
	payload, err := json.Marshal(map[string]string{"vendorContact": strings.TrimSpace(contact)})
	if err != nil {
		return fmt.Errorf("encoding contact payload: %w", err)
	}

	_, err = c.log.AppendActivity(ctx, store.ActivityInput{
		ActorID:    actorID,
		RecordType: domain.RecordListingContactUpdated,
		EntityType: domain.EntityListing,
		EntityID:   listingID,
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("appending contact record: %w", err)
	}
	return nil
}
