package domain

import (
	"encoding/json"
	"time"
)

// Record is a single row of the append-only activity log. Rows are written
// once and never mutated; "current state" for an attribute is the payload of
// the newest record per (RecordType, EntityType, EntityID).
type Record struct {
	ID         string          `json:"id"`
	Seq        int64           `json:"-"`
	ActorID    *string         `json:"actor_id,omitempty"`
	RecordType string          `json:"record_type"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Record types carried by the log. The ADMIN_* and VENDOR_* families back
// attribute overlays; the rest are plain audit entries.
const (
	RecordListingContactUpdated = "ADMIN_LISTING_CONTACT_UPDATED"
	RecordServiceUpdated        = "ADMIN_SERVICE_UPDATED"
	RecordApplicationSubmitted  = "VENDOR_APPLICATION_SUBMITTED"
	RecordApplicationReviewed   = "VENDOR_APPLICATION_STATUS_UPDATED"
	RecordInviteConfigUpdated   = "FUNDRAISER_INVITE_CONFIG_UPDATED"

	RecordUserRegistered          = "USER_REGISTERED"
	RecordFundraiserCreated       = "FUNDRAISER_CREATED"
	RecordFundraiserStatusUpdated = "ADMIN_FUNDRAISER_STATUS_UPDATED"
	RecordContributionCreated     = "FUNDRAISER_CONTRIBUTION_CREATED"
	RecordListingCreated          = "MARKETPLACE_LISTING_CREATED"
	RecordListingStatusUpdated    = "ADMIN_LISTING_STATUS_UPDATED"
)

// Entity types used as the second half of the projection key.
const (
	EntityUser         = "USER"
	EntityFundraiser   = "FUNDRAISER"
	EntityContribution = "FUNDRAISER_CONTRIBUTION"
	EntityListing      = "MARKETPLACE_LISTING"
	EntityService      = "SERVICE"
	EntityApplication  = "VENDOR_APPLICATION"
)
