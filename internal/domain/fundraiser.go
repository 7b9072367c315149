package domain

import (
	"time"
)

const (
	FundraiserActive = "ACTIVE"
	FundraiserPaused = "PAUSED"
	FundraiserClosed = "CLOSED"
)

// Visibility modes for a fundraiser. LINK_ONLY and PRIVATE both require an
// invite code; only PUBLIC is reachable without one.
const (
	VisibilityPublic   = "PUBLIC"
	VisibilityLinkOnly = "LINK_ONLY"
	VisibilityPrivate  = "PRIVATE"
)

// ValidVisibility reports whether s is one of the three visibility modes.
func ValidVisibility(s string) bool {
	return s == VisibilityPublic || s == VisibilityLinkOnly || s == VisibilityPrivate
}

// InviteConfig is the projected invite/visibility state of a fundraiser,
// reconstructed from the newest FUNDRAISER_INVITE_CONFIG_UPDATED record.
type InviteConfig struct {
	VisibilityType string `json:"visibilityType"`
	InviteCode     string `json:"inviteCode"`
}

type Fundraiser struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	OwnerName    string    `json:"owner_name,omitempty"`
	Title        string    `json:"title"`
	Story        string    `json:"story"`
	TargetAmount int64     `json:"target_amount"`
	Currency     string    `json:"currency"`
	TotalRaised  int64     `json:"total_raised"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Contribution struct {
	ID               string    `json:"id"`
	FundraiserID     string    `json:"fundraiser_id"`
	ContributorName  string    `json:"contributor_name"`
	ContributorEmail *string   `json:"contributor_email,omitempty"`
	Amount           int64     `json:"amount"`
	Message          *string   `json:"message,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type CreateFundraiserRequest struct {
	Title          string `json:"title"`
	Story          string `json:"story"`
	TargetAmount   int64  `json:"target_amount"`
	Currency       string `json:"currency"`
	VisibilityType string `json:"visibility_type"`
}

type CreateContributionRequest struct {
	ContributorName  string  `json:"contributor_name"`
	ContributorEmail *string `json:"contributor_email,omitempty"`
	Amount           int64   `json:"amount"`
	Message          *string `json:"message,omitempty"`
}
