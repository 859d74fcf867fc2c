// Package api serves the JSON endpoints used by the page scripts.
package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/erazemk/delez/internal/backend"
	"github.com/erazemk/delez/internal/model"
	"github.com/erazemk/delez/internal/session"
)

// Deps are the API router's collaborators.
type Deps struct {
	DB          *sql.DB
	Backend     *backend.Client
	Sessions    *session.Manager
	CORSOrigins []string
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(deps.Sessions.Middleware)

	marketplace := &MarketplaceHandler{Backend: deps.Backend}
	drafts := &DraftsHandler{}
	notifications := &NotificationsHandler{DB: deps.DB, Backend: deps.Backend}

	r.Route("/api", func(r chi.Router) {
		r.Get("/marketplace", marketplace.List)

		r.Group(func(r chi.Router) {
			r.Use(RequireSession)
			r.Get("/notifications", notifications.List)
			r.Post("/notifications/{id}/read", notifications.MarkRead)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireSession, RequireRole(model.RoleAdmin))
			r.Post("/drafts/derive", drafts.Derive)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			jsonError(w, r, http.StatusNotFound, "not found")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			jsonError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		})
	})

	return r
}
