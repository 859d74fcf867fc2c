package web

import (
	"net/http"
)

// errorPage renders the shared error page.
func (s *Server) errorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	pd := s.page(r, http.StatusText(status))
	pd.Error = message
	s.Templates.RenderStatus(w, status, "error.html", &struct {
		PageData
		Status int
	}{
		PageData: pd,
		Status:   status,
	})
}

// NotFound renders the 404 page.
func (s *Server) NotFound(w http.ResponseWriter, r *http.Request) {
	s.errorPage(w, r, http.StatusNotFound, "The page you are looking for does not exist.")
}
