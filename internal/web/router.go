package web

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/erazemk/delez/internal/backend"
	"github.com/erazemk/delez/internal/model"
	"github.com/erazemk/delez/internal/session"
	webembed "github.com/erazemk/delez/web"
)

// Deps are the page router's collaborators.
type Deps struct {
	DB       *sql.DB
	Backend  *backend.Client
	Sessions *session.Manager
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(deps Deps) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        deps.DB,
		Templates: templates,
		Backend:   deps.Backend,
		Sessions:  deps.Sessions,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Static assets.
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	r.Group(func(r chi.Router) {
		r.Use(deps.Sessions.Middleware)

		// Public routes.
		r.Get("/", s.Marketplace)
		r.Get("/properties", s.PropertiesPage)
		r.Get("/property/{id}", s.PropertyDetailPage)
		r.Get("/login", s.LoginPage)
		r.Post("/login", s.LoginSubmit)

		// Signed-in routes.
		r.Group(func(r chi.Router) {
			r.Use(RequireSession)
			r.Post("/logout", s.Logout)
			r.Get("/dashboard", s.Dashboard)
			r.Get("/dashboard/{id}", s.Dashboard)
			r.Get("/notifications/{id}", s.NotificationPage)

			r.Get("/invest/review", s.InvestReviewPage)
			r.Post("/invest/review", s.InvestReviewSubmit)
			r.Get("/invest/payment", s.InvestPaymentPage)
			r.Post("/invest/payment", s.InvestPaymentSubmit)
			r.Get("/invest/checkout", s.InvestCheckoutPage)
			r.Get("/invest/{propertyID}", s.InvestSelectPage)
			r.Post("/invest/{propertyID}", s.InvestSelectSubmit)
		})

		// Admin routes.
		r.Group(func(r chi.Router) {
			r.Use(RequireSession, s.RequireRole(model.RoleAdmin))
			r.Get("/admin/properties/new", s.AdminPropertyPage)
			r.Post("/admin/properties/new", s.AdminPropertySubmit)
		})

		r.NotFound(s.NotFound)
	})

	return r, nil
}
