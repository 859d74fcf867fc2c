// Package session keeps the signed-in user's identity between requests.
//
// The browser only holds a signed cookie naming the session; the identity
// and the sealed backend bearer token live in SQLite.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/delez/internal/auth"
	"github.com/erazemk/delez/internal/model"
	"github.com/erazemk/delez/internal/store"
	"github.com/google/uuid"
)

// Cookie names and paths.
const (
	CookieName     = "session"
	CheckoutCookie = "checkout"
	CheckoutPath   = "/invest"
)

// Session is a hydrated, signed-in session.
type Session struct {
	ID         string
	UserID     string
	Name       string
	ProfilePic string
	Role       string
	Token      string
	ExpiresAt  time.Time
}

// IsAdmin reports whether the user may use the admin pages.
func (s *Session) IsAdmin() bool {
	return s != nil && model.RoleAtLeast(s.Role, model.RoleAdmin)
}

// Manager creates, loads and ends sessions.
type Manager struct {
	DB     *sql.DB
	Secret string
	// Secure marks cookies as HTTPS only.
	Secure bool
}

// Start stores a session for id and sets its cookie.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, id *model.Identity) (*Session, error) {
	sealed, err := auth.Seal(m.Secret, []byte(id.Token))
	if err != nil {
		return nil, fmt.Errorf("sealing token: %w", err)
	}

	now := time.Now()
	rec := &store.SessionRecord{
		ID:          uuid.NewString(),
		UserID:      id.UserID,
		Name:        id.Name,
		ProfilePic:  id.ProfilePic,
		Role:        id.Role,
		SealedToken: sealed,
		CreatedAt:   now,
		ExpiresAt:   now.Add(auth.TokenExpiry),
	}
	if err := store.CreateSession(ctx, m.DB, rec); err != nil {
		return nil, err
	}

	signed, err := auth.GenerateToken(m.Secret, rec.ID, rec.UserID, rec.Name, rec.Role)
	if err != nil {
		return nil, fmt.Errorf("signing session cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  rec.ExpiresAt,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return &Session{
		ID:         rec.ID,
		UserID:     rec.UserID,
		Name:       rec.Name,
		ProfilePic: rec.ProfilePic,
		Role:       rec.Role,
		Token:      id.Token,
		ExpiresAt:  rec.ExpiresAt,
	}, nil
}

// Load returns the session named by the request's cookie. It returns nil,
// nil when there is no valid session.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	claims, err := auth.ValidateToken(m.Secret, cookie.Value)
	if err != nil {
		slog.Debug("rejecting session cookie", "error", err)
		return nil, nil
	}

	rec, err := store.GetSession(r.Context(), m.DB, claims.ID)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.UserID != claims.UserID {
		return nil, nil
	}

	token, err := auth.Open(m.Secret, rec.SealedToken)
	if err != nil {
		return nil, fmt.Errorf("opening session %s: %w", rec.ID, err)
	}

	return &Session{
		ID:         rec.ID,
		UserID:     rec.UserID,
		Name:       rec.Name,
		ProfilePic: rec.ProfilePic,
		Role:       rec.Role,
		Token:      string(token),
		ExpiresAt:  rec.ExpiresAt,
	}, nil
}

// End deletes everything stored for s: the session row, the user's
// checkout sessions and both cookies.
func (m *Manager) End(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if err := store.DeleteSession(ctx, m.DB, s.ID); err != nil {
		return err
	}
	if err := store.DeleteUserCheckouts(ctx, m.DB, s.UserID); err != nil {
		return err
	}
	m.Clear(w)
	return nil
}

// Clear expires the session and checkout cookies.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	m.ClearCheckout(w)
}

// SetCheckout points the browser at a checkout session.
func (m *Manager) SetCheckout(w http.ResponseWriter, checkoutID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CheckoutCookie,
		Value:    checkoutID,
		Path:     CheckoutPath,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearCheckout expires the checkout cookie.
func (m *Manager) ClearCheckout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CheckoutCookie,
		Value:    "",
		Path:     CheckoutPath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

type contextKey struct{}

// NewContext returns a context carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by NewContext, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}

// Middleware hydrates the session for every request. Requests without a
// valid session continue anonymously; a stale cookie is cleared.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := m.Load(r)
		if err != nil {
			slog.Error("failed to load session", "error", err)
		}
		if s == nil {
			if _, err := r.Cookie(CookieName); err == nil {
				m.Clear(w)
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), s)))
	})
}
