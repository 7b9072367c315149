package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/wakati-labs/kwaheri/internal/activity"
	"github.com/wakati-labs/kwaheri/internal/domain"
	"github.com/wakati-labs/kwaheri/internal/overlay"
	"github.com/wakati-labs/kwaheri/internal/store"
)

type AdminHandler struct {
	store        *store.PostgresStore
	contacts     *overlay.ListingContacts
	services     *overlay.Services
	applications *overlay.Applications
	recorder     *activity.Recorder
}

func NewAdminHandler(
	s *store.PostgresStore,
	contacts *overlay.ListingContacts,
	services *overlay.Services,
	applications *overlay.Applications,
	recorder *activity.Recorder,
) *AdminHandler {
	return &AdminHandler{
		store:        s,
		contacts:     contacts,
		services:     services,
		applications: applications,
		recorder:     recorder,
	}
}

type overviewStats struct {
	Users             int64 `json:"users"`
	ActiveFundraisers int64 `json:"active_fundraisers"`
	TotalRaised       int64 `json:"total_raised"`
	ActiveListings    int64 `json:"active_listings"`
	Activities        int64 `json:"activities"`
}

func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var stats overviewStats
	var err error
	if stats.Users, err = h.store.CountUsers(ctx); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load overview")
		return
	}
	if stats.ActiveFundraisers, err = h.store.CountFundraisersByStatus(ctx, domain.FundraiserActive); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load overview")
		return
	}
	if stats.TotalRaised, err = h.store.SumTotalRaised(ctx); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load overview")
		return
	}
	if stats.ActiveListings, err = h.store.CountListingsByStatus(ctx, domain.ListingActive); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load overview")
		return
	}
	if stats.Activities, err = h.store.CountActivities(ctx); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load overview")
		return
	}

	recent, err := h.store.ListRecentActivities(ctx, "", 20)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load overview")
		return
	}

	fundraisers, err := h.store.ListFundraisers(ctx, "")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load overview")
		return
	}
	if len(fundraisers) > 20 {
		fundraisers = fundraisers[:20]
	}

	listings, err := h.store.ListListings(ctx, "", "", 20)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load overview")
		return
	}
	ids := make([]string, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	contacts, err := h.contacts.GetMany(ctx, ids)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load overview")
		return
	}
	for i := range listings {
		listings[i].VendorContact = contacts[listings[i].ID]
	}

	users, err := h.store.ListUsers(ctx, 20)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load overview")
		return
	}
	adminCount, err := h.store.CountUsersByRole(ctx, domain.RoleAdmin)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load overview")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stats":             stats,
		"recent_activities": recent,
		"fundraiser_list":   fundraisers,
		"listing_list":      listings,
		"users_list":        users,
		"roles_summary": map[string]int64{
			"admin": adminCount,
			"user":  stats.Users - adminCount,
		},
	})
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandler) UpdateFundraiserStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != domain.FundraiserActive && req.Status != domain.FundraiserPaused && req.Status != domain.FundraiserClosed {
		respondError(w, http.StatusBadRequest, "invalid status")
		return
	}

	f, err := h.store.UpdateFundraiserStatus(r.Context(), id, req.Status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update fundraiser")
		return
	}
	if f == nil {
		respondError(w, http.StatusNotFound, "fundraiser not found")
		return
	}

	payload, _ := json.Marshal(map[string]string{"status": req.Status})
	h.recorder.Record(r.Context(), store.ActivityInput{
		ActorID:    actorRef(r.Context()),
		RecordType: domain.RecordFundraiserStatusUpdated,
		EntityType: domain.EntityFundraiser,
		EntityID:   f.ID,
		Payload:    payload,
	})

	respondJSON(w, http.StatusOK, map[string]*domain.Fundraiser{"fundraiser": f})
}

func (h *AdminHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CategoryID == "" || strings.TrimSpace(req.VendorName) == "" || strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "category_id, vendor_name and title are required")
		return
	}
	if req.Price <= 0 {
		respondError(w, http.StatusBadRequest, "price must be positive")
		return
	}
	if req.Currency == "" {
		req.Currency = "KES"
	}
	req.Currency = strings.ToUpper(req.Currency)

	category, err := h.store.GetCategory(r.Context(), req.CategoryID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create listing")
		return
	}
	if category == nil {
		respondError(w, http.StatusNotFound, "category not found")
		return
	}

	listing, err := h.store.CreateListing(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create listing")
		return
	}

	h.recorder.Record(r.Context(), store.ActivityInput{
		ActorID:    actorRef(r.Context()),
		RecordType: domain.RecordListingCreated,
		EntityType: domain.EntityListing,
		EntityID:   listing.ID,
	})

	if req.VendorContact != "" {
		if err := h.contacts.Set(r.Context(), actorRef(r.Context()), listing.ID, req.VendorContact); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to create listing")
			return
		}
		listing.VendorContact = strings.TrimSpace(req.VendorContact)
	}

	respondJSON(w, http.StatusCreated, map[string]*domain.Listing{"listing": listing})
}

func (h *AdminHandler) UpdateListingStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != domain.ListingActive && req.Status != domain.ListingHidden && req.Status != domain.ListingRemoved {
		respondError(w, http.StatusBadRequest, "invalid status")
		return
	}

	listing, err := h.store.UpdateListingStatus(r.Context(), id, req.Status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update listing")
		return
	}
	if listing == nil {
		respondError(w, http.StatusNotFound, "listing not found")
		return
	}

	payload, _ := json.Marshal(map[string]string{"status": req.Status})
	h.recorder.Record(r.Context(), store.ActivityInput{
		ActorID:    actorRef(r.Context()),
		RecordType: domain.RecordListingStatusUpdated,
		EntityType: domain.EntityListing,
		EntityID:   listing.ID,
		Payload:    payload,
	})

	respondJSON(w, http.StatusOK, map[string]*domain.Listing{"listing": listing})
}

type contactUpdateRequest struct {
	VendorContact string `json:"vendor_contact"`
}

// UpdateListingContact appends a contact record for an existing listing. The
// listing row itself is untouched; the overlay carries the attribute.
func (h *AdminHandler) UpdateListingContact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req contactUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	contact := strings.TrimSpace(req.VendorContact)
	if len(contact) < 7 {
		respondError(w, http.StatusBadRequest, "vendor_contact must be at least 7 characters")
		return
	}

	listing, err := h.store.GetListing(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update contact")
		return
	}
	if listing == nil {
		respondError(w, http.StatusNotFound, "listing not found")
		return
	}

	if err := h.contacts.Set(r.Context(), actorRef(r.Context()), id, contact); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update contact")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"listing": map[string]string{
			"id":             id,
			"vendor_contact": contact,
		},
	})
}

// ListServices returns the full catalog including inactive entries.
func (h *AdminHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.services.List(r.Context(), true)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list services")
		return
	}
	respondJSON(w, http.StatusOK, map[string][]domain.ServiceItem{"services": services})
}

func (h *AdminHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Empty() {
		respondError(w, http.StatusBadRequest, "provide at least one field to update")
		return
	}

	service, ok, err := h.services.Update(r.Context(), actorRef(r.Context()), id, req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update service")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "service not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]domain.ServiceItem{"service": service})
}

func (h *AdminHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	applications, err := h.applications.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list applications")
		return
	}
	respondJSON(w, http.StatusOK, map[string][]domain.VendorApplication{"applications": applications})
}

func (h *AdminHandler) ReviewApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.ReviewApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !domain.ValidApplicationStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "invalid status")
		return
	}

	app, err := h.applications.Review(r.Context(), actorRef(r.Context()), id, req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to review application")
		return
	}
	if app == nil {
		respondError(w, http.StatusNotFound, "application not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]*domain.VendorApplication{"application": app})
}
