package domain

import (
	"time"
)

const (
	ApplicationPending  = "PENDING"
	ApplicationApproved = "APPROVED"
	ApplicationRejected = "REJECTED"
)

// ValidApplicationStatus reports whether s is a known review status.
func ValidApplicationStatus(s string) bool {
	return s == ApplicationPending || s == ApplicationApproved || s == ApplicationRejected
}

// VendorApplication lives only in the activity log: the submission record
// defines its existence, and the newest status record carries the review
// decision.
type VendorApplication struct {
	ID           string     `json:"id"`
	VendorName   string     `json:"vendor_name"`
	ContactEmail string     `json:"contact_email"`
	ContactPhone string     `json:"contact_phone,omitempty"`
	BusinessType string     `json:"business_type"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	ReviewNote   string     `json:"review_note,omitempty"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
}

type SubmitApplicationRequest struct {
	VendorName   string `json:"vendor_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone,omitempty"`
	BusinessType string `json:"business_type"`
	Description  string `json:"description"`
}

type ReviewApplicationRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}
