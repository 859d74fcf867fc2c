package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/delez/internal/model"
	"github.com/erazemk/delez/internal/notify"
	"github.com/erazemk/delez/internal/session"
	"github.com/erazemk/delez/internal/store"
)

// Nav is the navbar's notification state.
type Nav struct {
	Unread []model.NotificationWithRead
	Read   []model.NotificationWithRead
	// Badge is the backend's unread count.
	Badge       int
	Unavailable bool
}

// page builds the PageData for r, loading the navbar notifications for a
// signed-in user.
func (s *Server) page(r *http.Request, title string) PageData {
	sess := session.FromContext(r.Context())
	pd := PageData{Title: title, Path: r.URL.Path, Session: sess}
	if sess != nil {
		pd.Nav = s.nav(r, sess)
	}
	return pd
}

func (s *Server) nav(r *http.Request, sess *session.Session) Nav {
	feed, err := s.Backend.Notifications(r.Context(), sess.UserID)
	if err != nil {
		slog.Warn("failed to fetch navbar notifications", "user", sess.UserID, "error", err)
		return Nav{Unavailable: true}
	}

	reads, err := store.ReadNotificationIDs(r.Context(), s.DB, sess.UserID)
	if err != nil {
		slog.Error("failed to load read marks", "user", sess.UserID, "error", err)
	}

	nav := Nav{Badge: feed.UnreadCount}
	for _, n := range notify.Partition(notify.Overlay(feed.Notifications, reads)) {
		if n.Read {
			nav.Read = append(nav.Read, n)
		} else {
			nav.Unread = append(nav.Unread, n)
		}
	}
	return nav
}
