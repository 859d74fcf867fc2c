package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/erazemk/delez/internal/model"
	"github.com/erazemk/delez/internal/session"
)

// RequireSession redirects anonymous requests to the login page.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session.FromContext(r.Context()) == nil {
			target := "/login"
			if r.Method == http.MethodGet {
				target += "?next=" + url.QueryEscape(r.URL.RequestURI())
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns middleware rendering 403 for users below minimum.
func (s *Server) RequireRole(minimum string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())
			if sess == nil || !model.RoleAtLeast(sess.Role, minimum) {
				s.errorPage(w, r, http.StatusForbidden, "You do not have permission to view this page.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// safeNext returns next if it is a local path, "/" otherwise.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
