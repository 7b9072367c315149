package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/wakati-labs/kwaheri/internal/access"
	"github.com/wakati-labs/kwaheri/internal/activity"
	"github.com/wakati-labs/kwaheri/internal/domain"
	"github.com/wakati-labs/kwaheri/internal/invite"
	"github.com/wakati-labs/kwaheri/internal/overlay"
	"github.com/wakati-labs/kwaheri/internal/ratelimit"
	"github.com/wakati-labs/kwaheri/internal/store"
)

// fundraiserStore is the slice of the Postgres store the fundraiser handlers
// consume. *store.PostgresStore satisfies it.
type fundraiserStore interface {
	CreateFundraiser(ctx context.Context, ownerID string, req domain.CreateFundraiserRequest) (*domain.Fundraiser, error)
	GetFundraiser(ctx context.Context, id string) (*domain.Fundraiser, error)
	ListFundraisers(ctx context.Context, status string) ([]domain.Fundraiser, error)
	CreateContribution(ctx context.Context, fundraiserID string, req domain.CreateContributionRequest) (*domain.Contribution, error)
	ListContributions(ctx context.Context, fundraiserID string) ([]domain.Contribution, error)
}

type FundraiserHandler struct {
	store             fundraiserStore
	invites           *overlay.InviteConfigs
	generator         *invite.Generator
	recorder          *activity.Recorder
	limiter           *ratelimit.Limiter
	logger            *slog.Logger
	baseURL           string
	contributionLimit int
}

func NewFundraiserHandler(
	s fundraiserStore,
	invites *overlay.InviteConfigs,
	generator *invite.Generator,
	recorder *activity.Recorder,
	limiter *ratelimit.Limiter,
	logger *slog.Logger,
	baseURL string,
	contributionLimit int,
) *FundraiserHandler {
	return &FundraiserHandler{
		store:             s,
		invites:           invites,
		generator:         generator,
		recorder:          recorder,
		limiter:           limiter,
		logger:            logger,
		baseURL:           baseURL,
		contributionLimit: contributionLimit,
	}
}

// fundraiserView merges the projected invite configuration onto the
// relational row. The invite code itself is only populated for the owner.
type fundraiserView struct {
	domain.Fundraiser
	VisibilityType string `json:"visibility_type"`
	InviteCode     string `json:"invite_code,omitempty"`
}

func viewFor(f domain.Fundraiser, cfg domain.InviteConfig, caller string) fundraiserView {
	v := fundraiserView{Fundraiser: f, VisibilityType: cfg.VisibilityType}
	if caller != "" && caller == f.OwnerID {
		v.InviteCode = cfg.InviteCode
	}
	return v
}

// List returns fundraisers the caller may see: everyone sees PUBLIC ones,
// owners additionally see their own link-only and private ones.
func (h *FundraiserHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	caller := callerID(r.Context())

	fundraisers, err := h.store.ListFundraisers(r.Context(), status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list fundraisers")
		return
	}

	ids := make([]string, len(fundraisers))
	for i, f := range fundraisers {
		ids[i] = f.ID
	}
	configs, err := h.invites.GetMany(r.Context(), ids)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list fundraisers")
		return
	}

	views := []fundraiserView{}
	for _, f := range fundraisers {
		cfg := configs[f.ID]
		// List filtering never consults a code; non-owners only see PUBLIC.
		if !access.Allowed(caller, f.OwnerID, cfg, "") {
			continue
		}
		views = append(views, viewFor(f, cfg, caller))
	}

	respondJSON(w, http.StatusOK, map[string][]fundraiserView{"fundraisers": views})
}

type fundraiserDetail struct {
	fundraiserView
	Contributions []domain.Contribution `json:"contributions"`
}

func (h *FundraiserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	caller := callerID(r.Context())

	f, err := h.store.GetFundraiser(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get fundraiser")
		return
	}
	if f == nil {
		respondError(w, http.StatusNotFound, "fundraiser not found")
		return
	}

	cfg, err := h.invites.GetOne(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get fundraiser")
		return
	}

	if err := access.Check(caller, f.OwnerID, cfg, r.URL.Query().Get("inviteCode")); err != nil {
		if errors.Is(err, access.ErrForbidden) {
			respondError(w, http.StatusForbidden, "invite code required or invalid")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to get fundraiser")
		return
	}

	contributions, err := h.store.ListContributions(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get fundraiser")
		return
	}

	respondJSON(w, http.StatusOK, map[string]fundraiserDetail{"fundraiser": {
		fundraiserView: viewFor(*f, cfg, caller),
		Contributions:  contributions,
	}})
}

func (h *FundraiserHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())

	var req domain.CreateFundraiserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if len(req.Title) < 3 {
		respondError(w, http.StatusBadRequest, "title must be at least 3 characters")
		return
	}
	if len(req.Story) < 10 {
		respondError(w, http.StatusBadRequest, "story must be at least 10 characters")
		return
	}
	if req.TargetAmount <= 0 {
		respondError(w, http.StatusBadRequest, "target_amount must be positive")
		return
	}
	if req.Currency == "" {
		req.Currency = "KES"
	}
	req.Currency = strings.ToUpper(req.Currency)
	if len(req.Currency) != 3 {
		respondError(w, http.StatusBadRequest, "currency must be a 3-letter code")
		return
	}
	if req.VisibilityType == "" {
		req.VisibilityType = domain.VisibilityPublic
	}
	if !domain.ValidVisibility(req.VisibilityType) {
		respondError(w, http.StatusBadRequest, "invalid visibility_type")
		return
	}

	f, err := h.store.CreateFundraiser(r.Context(), claims.UserID, req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create fundraiser")
		return
	}

	cfg := domain.InviteConfig{VisibilityType: req.VisibilityType}
	if req.VisibilityType != domain.VisibilityPublic {
		code, err := h.generator.Generate(r.Context())
		if err != nil {
			// Exhaustion is an operational alert, not a user problem; the
			// fundraiser row already exists and stays reachable by its owner.
			h.logger.Error("invite code generation failed", "error", err, "fundraiser_id", f.ID)
			respondError(w, http.StatusInternalServerError, "failed to create fundraiser")
			return
		}
		cfg.InviteCode = code

		// This append is the visibility attribute itself, not an audit
		// record: without it the fundraiser projects to PUBLIC. The request
		// must fail rather than claim a private fundraiser exists.
		if err := h.invites.Set(r.Context(), &claims.UserID, f.ID, cfg); err != nil {
			h.logger.Error("invite config append failed", "error", err, "fundraiser_id", f.ID)
			respondError(w, http.StatusInternalServerError, "failed to create fundraiser")
			return
		}
	}

	h.recorder.Record(r.Context(), store.ActivityInput{
		ActorID:    &claims.UserID,
		RecordType: domain.RecordFundraiserCreated,
		EntityType: domain.EntityFundraiser,
		EntityID:   f.ID,
	})

	respondJSON(w, http.StatusCreated, map[string]fundraiserView{
		"fundraiser": viewFor(*f, cfg, claims.UserID),
	})
}

type inviteResponse struct {
	VisibilityType string `json:"visibility_type"`
	InviteCode     string `json:"invite_code"`
	ShareURL       string `json:"share_url,omitempty"`
}

// Invite returns the owner's current invite code and share link.
func (h *FundraiserHandler) Invite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	claims := ClaimsFrom(r.Context())

	f, err := h.store.GetFundraiser(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get invite")
		return
	}
	if f == nil {
		respondError(w, http.StatusNotFound, "fundraiser not found")
		return
	}
	if f.OwnerID != claims.UserID {
		respondError(w, http.StatusForbidden, "only the owner may view the invite code")
		return
	}

	cfg, err := h.invites.GetOne(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get invite")
		return
	}

	resp := inviteResponse{VisibilityType: cfg.VisibilityType, InviteCode: cfg.InviteCode}
	if cfg.InviteCode != "" {
		resp.ShareURL = fmt.Sprintf("%s/fundraisers/%s?inviteCode=%s", h.baseURL, id, cfg.InviteCode)
	}
	respondJSON(w, http.StatusOK, resp)
}

// RegenerateInviteCode rotates the invite code, keeping the visibility mode
// untouched. The old code stops granting access once the new record lands.
func (h *FundraiserHandler) RegenerateInviteCode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	claims := ClaimsFrom(r.Context())

	f, err := h.store.GetFundraiser(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to regenerate invite code")
		return
	}
	if f == nil {
		respondError(w, http.StatusNotFound, "fundraiser not found")
		return
	}
	if f.OwnerID != claims.UserID {
		respondError(w, http.StatusForbidden, "only the owner may regenerate the invite code")
		return
	}

	cfg, err := h.invites.GetOne(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to regenerate invite code")
		return
	}

	code, err := h.generator.Generate(r.Context())
	if err != nil {
		h.logger.Error("invite code generation failed", "error", err, "fundraiser_id", id)
		respondError(w, http.StatusInternalServerError, "failed to regenerate invite code")
		return
	}

	cfg.InviteCode = code
	if err := h.invites.Set(r.Context(), &claims.UserID, id, cfg); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to regenerate invite code")
		return
	}

	resp := inviteResponse{
		VisibilityType: cfg.VisibilityType,
		InviteCode:     code,
		ShareURL:       fmt.Sprintf("%s/fundraisers/%s?inviteCode=%s", h.baseURL, id, code),
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *FundraiserHandler) CreateContribution(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	caller := callerID(r.Context())

	if !h.limiter.Allow(r.Context(), "contribution", clientIP(r), h.contributionLimit) {
		respondError(w, http.StatusTooManyRequests, "too many contributions, slow down")
		return
	}

	var req domain.CreateContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.ContributorName = strings.TrimSpace(req.ContributorName)
	if len(req.ContributorName) < 2 {
		respondError(w, http.StatusBadRequest, "contributor_name must be at least 2 characters")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	f, err := h.store.GetFundraiser(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create contribution")
		return
	}
	if f == nil || f.Status != domain.FundraiserActive {
		respondError(w, http.StatusNotFound, "active fundraiser not found")
		return
	}

	cfg, err := h.invites.GetOne(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create contribution")
		return
	}

	// The write path runs the same gate as reads: a pledge to a non-public
	// fundraiser needs the code too.
	if err := access.Check(caller, f.OwnerID, cfg, r.URL.Query().Get("inviteCode")); err != nil {
		respondError(w, http.StatusForbidden, "invite code required or invalid")
		return
	}

	c, err := h.store.CreateContribution(r.Context(), id, req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create contribution")
		return
	}

	amountPayload, _ := json.Marshal(map[string]interface{}{
		"fundraiserId": id,
		"amount":       req.Amount,
	})
	h.recorder.Record(r.Context(), store.ActivityInput{
		ActorID:    actorRef(r.Context()),
		RecordType: domain.RecordContributionCreated,
		EntityType: domain.EntityContribution,
		EntityID:   c.ID,
		Payload:    amountPayload,
	})

	respondJSON(w, http.StatusCreated, map[string]*domain.Contribution{"contribution": c})
}
