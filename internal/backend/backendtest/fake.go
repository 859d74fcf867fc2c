// Package backendtest provides an in-memory stand-in for the REST backend.
package backendtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/erazemk/delez/internal/model"
)

// Backend is a fake REST backend. Change its fixtures through Update.
type Backend struct {
	URL string

	mu sync.Mutex

	Properties    []model.Property
	Featured      []model.Property
	Trending      []model.Property
	Feeds         map[string]model.NotificationFeed
	Users         map[string]User
	Investments   map[string][]model.Investment
	Added         []json.RawMessage
	Purchases     []Purchase
	LoggedOut     []string
	FailListing   bool
	FailLogout    bool
	// RevokedTokens are bearer tokens the backend answers with 401.
	RevokedTokens map[string]bool
	FailPurchases int
	// RejectPurchases makes every purchase fail with 422.
	RejectPurchases bool
}

// User is a login the fake backend accepts.
type User struct {
	Password string
	Identity model.Identity
}

// Purchase is a recorded POST /api/investments call.
type Purchase struct {
	Token          string
	IdempotencyKey string
	Request        model.InvestmentRequest
}

// New starts a fake backend that is closed when the test ends.
func New(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		Feeds:         make(map[string]model.NotificationFeed),
		Users:         make(map[string]User),
		Investments:   make(map[string][]model.Investment),
		RevokedTokens: make(map[string]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/properties", b.list(func() []model.Property { return b.Properties }))
	mux.HandleFunc("GET /api/properties/featured", b.list(func() []model.Property { return b.Featured }))
	mux.HandleFunc("GET /api/properties/trending", b.list(func() []model.Property { return b.Trending }))
	mux.HandleFunc("GET /api/properties/{id}", b.getProperty)
	mux.HandleFunc("POST /api/properties/admin/add", b.addProperty)
	mux.HandleFunc("POST /api/users/login", b.login)
	mux.HandleFunc("POST /api/users/logout", b.logout)
	// One pattern covers /api/users/notifications/{id} and
	// /api/users/{id}/investments, which ServeMux would reject as overlapping.
	mux.HandleFunc("GET /api/users/{first}/{second}", b.users)
	mux.HandleFunc("POST /api/investments", b.createInvestment)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	b.URL = server.URL
	return b
}

// Update runs fn with the backend locked, for changing fixtures mid-test.
func (b *Backend) Update(fn func(b *Backend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

// AddUser registers a login.
func (b *Backend) AddUser(email, password string, id model.Identity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Users[email] = User{Password: password, Identity: id}
}

// Snapshot returns copies of the recorded calls.
func (b *Backend) Snapshot() (purchases []Purchase, added []json.RawMessage, loggedOut []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Purchase(nil), b.Purchases...),
		append([]json.RawMessage(nil), b.Added...),
		append([]string(nil), b.LoggedOut...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func bearer(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func (b *Backend) list(get func() []model.Property) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.FailListing {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "listing unavailable"})
			return
		}
		props := get()
		if props == nil {
			props = []model.Property{}
		}
		writeJSON(w, http.StatusOK, props)
	}
}

func (b *Backend) getProperty(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.Properties {
		if p.ID == r.PathValue("id") {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "property not found"})
}

func (b *Backend) addProperty(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bearer(r) == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	b.Added = append(b.Added, raw)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "created"})
}

func (b *Backend) users(w http.ResponseWriter, r *http.Request) {
	first, second := r.PathValue("first"), r.PathValue("second")
	switch {
	case first == "notifications":
		b.notifications(w, second)
	case second == "investments":
		b.investments(w, first)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (b *Backend) notifications(w http.ResponseWriter, userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	feed, ok := b.Feeds[userID]
	if !ok {
		feed = model.NotificationFeed{Notifications: []model.NotificationWithRead{}}
	}
	writeJSON(w, http.StatusOK, feed)
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	json.NewDecoder(r.Body).Decode(&req)
	u, ok := b.Users[req.Email]
	if !ok || u.Password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, u.Identity)
}

func (b *Backend) logout(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailLogout {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "logout failed"})
		return
	}
	if b.RevokedTokens[bearer(r)] {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
		return
	}
	b.LoggedOut = append(b.LoggedOut, bearer(r))
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (b *Backend) investments(w http.ResponseWriter, userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.Investments[userID]
	if list == nil {
		list = []model.Investment{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (b *Backend) createInvestment(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailPurchases > 0 {
		b.FailPurchases--
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "payment gateway busy"})
		return
	}
	if b.RejectPurchases {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "payment declined"})
		return
	}
	var req model.InvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	b.Purchases = append(b.Purchases, Purchase{
		Token:          bearer(r),
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
		Request:        req,
	})
	writeJSON(w, http.StatusCreated, model.Investment{
		ID:         fmt.Sprintf("inv-%d", len(b.Purchases)),
		PropertyID: req.PropertyID,
		Shares:     req.Shares,
		Amount:     req.Amount,
		Status:     "confirmed",
	})
}
