package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/delez/internal/backend"
	"github.com/erazemk/delez/internal/model"
	"github.com/erazemk/delez/internal/notify"
	"github.com/erazemk/delez/internal/session"
	"github.com/erazemk/delez/internal/store"
)

// NotificationsHandler serves the navbar notification feed.
type NotificationsHandler struct {
	DB      *sql.DB
	Backend *backend.Client
}

// List handles GET /api/notifications. Unread notifications come first;
// unreadCount is the backend's count.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())

	feed, err := h.Backend.Notifications(r.Context(), s.UserID)
	if err != nil {
		slog.Error("failed to fetch notifications", "user", s.UserID, "error", err)
		jsonError(w, r, http.StatusBadGateway, "notifications unavailable")
		return
	}

	reads, err := store.ReadNotificationIDs(r.Context(), h.DB, s.UserID)
	if err != nil {
		slog.Error("failed to load read marks", "user", s.UserID, "error", err)
		jsonError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	jsonResponse(w, http.StatusOK, model.NotificationFeed{
		Notifications: notify.Partition(notify.Overlay(feed.Notifications, reads)),
		UnreadCount:   feed.UnreadCount,
	})
}

// MarkRead handles POST /api/notifications/{id}/read.
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, r, http.StatusBadRequest, "notification id required")
		return
	}

	if err := store.MarkNotificationRead(r.Context(), h.DB, s.UserID, id); err != nil {
		slog.Error("failed to mark notification read", "user", s.UserID, "notification", id, "error", err)
		jsonError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
