package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/delez/internal/backend"
	"github.com/erazemk/delez/internal/model"
)

// PropertiesPage handles GET /properties.
func (s *Server) PropertiesPage(w http.ResponseWriter, r *http.Request) {
	pd := s.page(r, "Properties")
	props, err := s.Backend.ListProperties(r.Context())
	if err != nil {
		slog.Error("failed to list properties", "error", err)
		pd.Error = "Failed to load properties. Please try again later."
	}

	s.Templates.Render(w, "properties.html", &struct {
		PageData
		Properties []model.Property
	}{
		PageData:   pd,
		Properties: props,
	})
}

// PropertyDetailPage handles GET /property/{id}.
func (s *Server) PropertyDetailPage(w http.ResponseWriter, r *http.Request) {
	p, err := s.Backend.GetProperty(r.Context(), chi.URLParam(r, "id"))
	if backend.IsKind(err, backend.KindNotFound) {
		s.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to get property", "property", chi.URLParam(r, "id"), "error", err)
		s.errorPage(w, r, http.StatusBadGateway, "Failed to load the property. Please try again later.")
		return
	}

	s.Templates.Render(w, "property_detail.html", &struct {
		PageData
		Property *model.Property
	}{
		PageData: s.page(r, p.Name),
		Property: p,
	})
}
