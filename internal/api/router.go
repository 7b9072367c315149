package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wakati-labs/kwaheri/internal/activity"
	"github.com/wakati-labs/kwaheri/internal/auth"
	"github.com/wakati-labs/kwaheri/internal/config"
	"github.com/wakati-labs/kwaheri/internal/invite"
	"github.com/wakati-labs/kwaheri/internal/overlay"
	"github.com/wakati-labs/kwaheri/internal/ratelimit"
	"github.com/wakati-labs/kwaheri/internal/store"
	"github.com/wakati-labs/kwaheri/internal/ws"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(
	cfg *config.Config,
	pgStore *store.PostgresStore,
	tokens *auth.TokenManager,
	limiter *ratelimit.Limiter,
	hub *ws.Hub,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(corsMiddleware)

	// Overlays over the shared activity log
	contacts := overlay.NewListingContacts(pgStore)
	services := overlay.NewServices(pgStore)
	applications := overlay.NewApplications(pgStore, logger)
	invites := overlay.NewInviteConfigs(pgStore)
	generator := invite.NewGenerator(pgStore)
	recorder := activity.NewRecorder(pgStore, logger, hub)

	authMw := NewAuthMiddleware(tokens)

	authHandler := NewAuthHandler(pgStore, tokens, recorder, limiter, cfg.LoginRateLimit)
	fundraiserHandler := NewFundraiserHandler(pgStore, invites, generator, recorder, limiter,
		logger, cfg.PublicBaseURL, cfg.ContributionRateLimit)
	marketplaceHandler := NewMarketplaceHandler(pgStore, contacts, applications, limiter, cfg.ApplicationRateLimit)
	servicesHandler := NewServicesHandler(services)
	activityHandler := NewActivityHandler(pgStore)
	adminHandler := NewAdminHandler(pgStore, contacts, services, applications, recorder)

	// Live activity feed. Open like the other feeds; events never carry
	// payloads.
	r.Get("/ws", hub.HandleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", HealthHandler())

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(authMw.Require).Get("/me", authHandler.Me)
		})

		r.Route("/fundraisers", func(r chi.Router) {
			r.With(authMw.Optional).Get("/", fundraiserHandler.List)
			r.With(authMw.Optional).Get("/{id}", fundraiserHandler.Get)
			r.With(authMw.Require).Post("/", fundraiserHandler.Create)
			r.With(authMw.Require).Get("/{id}/invite", fundraiserHandler.Invite)
			r.With(authMw.Require).Post("/{id}/invite-code/regenerate", fundraiserHandler.RegenerateInviteCode)
			r.With(authMw.Optional).Post("/{id}/contributions", fundraiserHandler.CreateContribution)
		})

		r.Route("/marketplace", func(r chi.Router) {
			r.Get("/categories", marketplaceHandler.ListCategories)
			r.Get("/listings", marketplaceHandler.ListListings)
			r.Post("/vendor-applications", marketplaceHandler.SubmitApplication)
		})

		r.Get("/services", servicesHandler.List)

		r.Route("/activities", func(r chi.Router) {
			r.Get("/feed", activityHandler.Feed)
			r.With(authMw.Require).Get("/me", activityHandler.Mine)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMw.RequireAdmin)
			r.Get("/overview", adminHandler.Overview)
			r.Patch("/fundraisers/{id}/status", adminHandler.UpdateFundraiserStatus)
			r.Post("/listings", adminHandler.CreateListing)
			r.Patch("/listings/{id}/status", adminHandler.UpdateListingStatus)
			r.Patch("/listings/{id}/contact", adminHandler.UpdateListingContact)
			r.Get("/services", adminHandler.ListServices)
			r.Patch("/services/{id}", adminHandler.UpdateService)
			r.Get("/vendor-applications", adminHandler.ListApplications)
			r.Patch("/vendor-applications/{id}/status", adminHandler.ReviewApplication)
		})
	})

	return r
}

// corsMiddleware adds CORS headers for the web client.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
