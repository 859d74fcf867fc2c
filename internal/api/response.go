package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/erazemk/delez/internal/backend"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// errorBody is the shape of every API error.
type errorBody struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// jsonError writes an error body carrying the request's trace id.
func jsonError(w http.ResponseWriter, r *http.Request, status int, message string) {
	jsonResponse(w, status, errorBody{Error: message, TraceID: backend.TraceID(r.Context())})
}

// decodeJSON decodes a request body of at most maxBodyBytes into target.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(target)
}
