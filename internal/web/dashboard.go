package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/delez/internal/backend"
	"github.com/erazemk/delez/internal/model"
	"github.com/erazemk/delez/internal/session"
)

// Dashboard handles GET /dashboard/{id}. Users only see their own portfolio.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if id := chi.URLParam(r, "id"); id != sess.UserID {
		http.Redirect(w, r, "/dashboard/"+sess.UserID, http.StatusSeeOther)
		return
	}

	pd := s.page(r, "Dashboard")
	investments, err := s.Backend.Investments(r.Context(), sess.Token, sess.UserID)
	switch {
	case backend.IsKind(err, backend.KindUnauthorized):
		if err := s.Sessions.End(r.Context(), w, sess); err != nil {
			slog.Error("failed to end rejected session", "user", sess.UserID, "error", err)
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case err != nil:
		slog.Error("failed to load investments", "user", sess.UserID, "error", err)
		pd.Error = "Failed to load your investments. Please try again later."
	}

	var invested float64
	var shares int
	for _, inv := range investments {
		invested += inv.Amount
		shares += inv.Shares
	}

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		Investments []model.Investment
		Invested    float64
		Shares      int
	}{
		PageData:    pd,
		Investments: investments,
		Invested:    invested,
		Shares:      shares,
	})
}
