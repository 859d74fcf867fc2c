package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/erazemk/delez/internal/backend"
	"github.com/erazemk/delez/internal/model"
	"github.com/erazemk/delez/internal/session"
)

// RequireSession rejects requests without a signed-in session.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session.FromContext(r.Context()) == nil {
			jsonError(w, r, http.StatusUnauthorized, "not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns middleware that checks if the user has at least the given role.
func RequireRole(minimum string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := session.FromContext(r.Context())
			if s == nil {
				jsonError(w, r, http.StatusUnauthorized, "not authenticated")
				return
			}
			if !model.RoleAtLeast(s.Role, minimum) {
				jsonError(w, r, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware assigns every request a trace id, forwards it to the
// backend, and logs method, path, status, size and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.NewString()
		}
		w.Header().Set("X-Trace-ID", traceID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(backend.WithTraceID(r.Context(), traceID)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"trace_id", traceID,
		)
	})
}
