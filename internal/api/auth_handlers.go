package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wakati-labs/kwaheri/internal/activity"
	"github.com/wakati-labs/kwaheri/internal/auth"
	"github.com/wakati-labs/kwaheri/internal/domain"
	"github.com/wakati-labs/kwaheri/internal/ratelimit"
	"github.com/wakati-labs/kwaheri/internal/store"
)

type AuthHandler struct {
	store      *store.PostgresStore
	tokens     *auth.TokenManager
	recorder   *activity.Recorder
	limiter    *ratelimit.Limiter
	loginLimit int
}

func NewAuthHandler(s *store.PostgresStore, tokens *auth.TokenManager, rec *activity.Recorder, limiter *ratelimit.Limiter, loginLimit int) *AuthHandler {
	return &AuthHandler{store: s, tokens: tokens, recorder: rec, limiter: limiter, loginLimit: loginLimit}
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FullName == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "full_name and email are required")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	existing, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to register")
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	user, err := h.store.CreateUser(r.Context(), req.FullName, req.Email, hash)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	h.recorder.Record(r.Context(), store.ActivityInput{
		ActorID:    &user.ID,
		RecordType: domain.RecordUserRegistered,
		EntityType: domain.EntityUser,
		EntityID:   user.ID,
	})

	token, err := h.tokens.Sign(user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(r.Context(), "login", clientIP(r), h.loginLimit) {
		respondError(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to log in")
		return
	}
	if user == nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.tokens.Sign(user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())

	user, err := h.store.GetUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]*domain.User{"user": user})
}
