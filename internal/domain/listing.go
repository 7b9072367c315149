package domain

import (
	"time"
)

const (
	ListingActive  = "ACTIVE"
	ListingHidden  = "HIDDEN"
	ListingRemoved = "REMOVED"
)

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Listing struct {
	ID           string    `json:"id"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	VendorName   string    `json:"vendor_name"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	Currency     string    `json:"currency"`
	ImageURL     *string   `json:"image_url,omitempty"`
	Status       string    `json:"status"`
	// VendorContact is not a column; it is merged in from the listing
	// contact overlay on read.
	VendorContact string    `json:"vendor_contact,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateListingRequest struct {
	CategoryID    string  `json:"category_id"`
	VendorName    string  `json:"vendor_name"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Price         int64   `json:"price"`
	Currency      string  `json:"currency"`
	ImageURL      *string `json:"image_url,omitempty"`
	VendorContact string  `json:"vendor_contact,omitempty"`
}
