package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/delez/internal/model"
	"github.com/erazemk/delez/internal/notify"
	"github.com/erazemk/delez/internal/session"
	"github.com/erazemk/delez/internal/store"
)

// NotificationPage handles GET /notifications/{id}. Viewing a notification
// marks it read for the signed-in user.
func (s *Server) NotificationPage(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	feed, err := s.Backend.Notifications(r.Context(), sess.UserID)
	if err != nil {
		slog.Warn("failed to fetch notifications", "user", sess.UserID, "error", err)
		s.errorPage(w, r, http.StatusBadGateway, "Notifications are unavailable right now.")
		return
	}

	n := notify.Find(feed.Notifications, id)
	if n == nil {
		s.NotFound(w, r)
		return
	}

	if err := store.MarkNotificationRead(r.Context(), s.DB, sess.UserID, id); err != nil {
		slog.Error("failed to mark notification read", "user", sess.UserID, "notification", id, "error", err)
	}
	n.Read = true

	s.Templates.Render(w, "notification.html", &struct {
		PageData
		Notification *model.NotificationWithRead
	}{
		PageData:     s.page(r, n.Notification.Title),
		Notification: n,
	})
}
