package api

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"github.com/wakati-labs/kwaheri/internal/domain"
	"github.com/wakati-labs/kwaheri/internal/overlay"
	"github.com/wakati-labs/kwaheri/internal/ratelimit"
	"github.com/wakati-labs/kwaheri/internal/store"
)

type MarketplaceHandler struct {
	store            *store.PostgresStore
	contacts         *overlay.ListingContacts
	applications     *overlay.Applications
	limiter          *ratelimit.Limiter
	applicationLimit int
}

func NewMarketplaceHandler(
	s *store.PostgresStore,
	contacts *overlay.ListingContacts,
	applications *overlay.Applications,
	limiter *ratelimit.Limiter,
	applicationLimit int,
) *MarketplaceHandler {
	return &MarketplaceHandler{
		store:            s,
		contacts:         contacts,
		applications:     applications,
		limiter:          limiter,
		applicationLimit: applicationLimit,
	}
}

func (h *MarketplaceHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	respondJSON(w, http.StatusOK, map[string][]domain.Category{"categories": categories})
}

// ListListings returns active listings with the contact overlay merged in,
// one activity query for the whole page.
func (h *MarketplaceHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("categoryId")

	listings, err := h.store.ListListings(r.Context(), categoryID, domain.ListingActive, 0)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list listings")
		return
	}

	ids := make([]string, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	contacts, err := h.contacts.GetMany(r.Context(), ids)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list listings")
		return
	}
	for i := range listings {
		listings[i].VendorContact = contacts[listings[i].ID]
	}

	respondJSON(w, http.StatusOK, map[string][]domain.Listing{"listings": listings})
}

func (h *MarketplaceHandler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(r.Context(), "vendor-application", clientIP(r), h.applicationLimit) {
		respondError(w, http.StatusTooManyRequests, "too many applications, try again later")
		return
	}

	var req domain.SubmitApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.VendorName) == "" {
		respondError(w, http.StatusBadRequest, "vendor_name is required")
		return
	}
	if _, err := mail.ParseAddress(req.ContactEmail); err != nil {
		respondError(w, http.StatusBadRequest, "contact_email must be a valid email address")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		respondError(w, http.StatusBadRequest, "description is required")
		return
	}

	app, err := h.applications.Submit(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to submit application")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]*domain.VendorApplication{"application": app})
}
