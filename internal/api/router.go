package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shopcheck/credo/internal/config"
	"github.com/shopcheck/credo/internal/database"
)

// NewRouter creates the HTTP router with all routes and middleware. The
// store may be nil, in which case auth, auditing and the admin surface are
// not mounted.
func NewRouter(cfg *config.Config, handler *Handler, store database.Store) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Public routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)

		// Protected routes
		r.Group(func(r chi.Router) {
			if cfg.Server.RequireAuth && store != nil {
				r.Use(AuthMiddleware(store))
			}
			if store != nil {
				r.Use(AuditMiddleware(store))
			}
			r.Use(RateLimitMiddleware(cfg.RateLimits.RequestsPerMinute))

			r.Post("/analyze", handler.Analyze)
			r.Get("/analyze/stream", handler.StreamAnalyze)
			r.Get("/preview", handler.Preview)
			if store != nil {
				r.Get("/audit", handler.GetAuditLogs)
			}
		})
	})

	// Admin routes for API key management
	if store != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Post("/keys", handler.CreateAPIKey)
			r.Get("/keys", handler.ListAPIKeys)
			r.Delete("/keys/{id}", handler.DeleteAPIKey)
		})
	}

	return r
}
