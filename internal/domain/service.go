package domain

import (
	"time"
)

// ServiceItem is one entry of the services directory: a static catalog row
// with the newest ADMIN_SERVICE_UPDATED payload merged on top.
type ServiceItem struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	ImageURL  *string    `json:"image_url"`
	IsActive  bool       `json:"is_active"`
	SortOrder int        `json:"sort_order"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// UpdateServiceRequest carries a partial update; nil fields keep the
// currently projected value.
type UpdateServiceRequest struct {
	Title    *string `json:"title,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
	// ClearImage removes the image; it wins over ImageURL.
	ClearImage bool  `json:"clear_image,omitempty"`
	IsActive   *bool `json:"is_active,omitempty"`
	SortOrder  *int  `json:"sort_order,omitempty"`
}

// Empty reports whether the request carries no change at all.
func (r UpdateServiceRequest) Empty() bool {
	return r.Title == nil && r.ImageURL == nil && !r.ClearImage && r.IsActive == nil && r.SortOrder == nil
}
