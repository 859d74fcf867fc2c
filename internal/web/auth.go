package web

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/delez/internal/backend"
	"github.com/erazemk/delez/internal/session"
)

type loginPage struct {
	PageData
	Email string
	Next  string
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()) != nil {
		http.Redirect(w, r, safeNext(r.URL.Query().Get("next")), http.StatusSeeOther)
		return
	}
	s.Templates.Render(w, "login.html", &loginPage{
		PageData: s.page(r, "Login"),
		Next:     safeNext(r.URL.Query().Get("next")),
	})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	next := safeNext(r.FormValue("next"))

	fail := func(status int, msg string) {
		pd := s.page(r, "Login")
		pd.Error = msg
		s.Templates.RenderStatus(w, status, "login.html", &loginPage{PageData: pd, Email: email, Next: next})
	}

	if email == "" || password == "" {
		fail(http.StatusBadRequest, "Enter your email and password.")
		return
	}

	id, err := s.Backend.Login(r.Context(), email, password)
	if backend.IsKind(err, backend.KindUnauthorized) {
		slog.Warn("login failed", "email", email, "remote", r.RemoteAddr)
		fail(http.StatusUnauthorized, "Invalid email or password.")
		return
	}
	if err != nil {
		slog.Error("login request failed", "error", err)
		fail(http.StatusBadGateway, "Login failed. Please try again.")
		return
	}

	if _, err := s.Sessions.Start(r.Context(), w, id); err != nil {
		slog.Error("failed to start session", "user", id.UserID, "error", err)
		fail(http.StatusInternalServerError, "Login failed. Please try again.")
		return
	}

	slog.Info("user logged in", "user", id.UserID, "role", id.Role)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout handles POST /logout. The backend session is ended first; the
// local identity is removed once the backend has no session for the token.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	// A rejected token means the backend session has already ended.
	err := s.Backend.Logout(r.Context(), sess.Token)
	switch {
	case backend.IsKind(err, backend.KindUnauthorized):
		slog.Warn("backend session already ended", "user", sess.UserID, "error", err)
	case err != nil:
		slog.Error("backend logout failed", "user", sess.UserID, "error", err)
		s.errorPage(w, r, http.StatusBadGateway, "Logout failed. Please try again.")
		return
	}

	if err := s.Sessions.End(r.Context(), w, sess); err != nil {
		slog.Error("failed to end session", "user", sess.UserID, "error", err)
		s.errorPage(w, r, http.StatusInternalServerError, "Logout failed. Please try again.")
		return
	}

	slog.Info("user logged out", "user", sess.UserID)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
