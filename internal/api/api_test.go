package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erazemk/delez/internal/backend"
	"github.com/erazemk/delez/internal/backend/backendtest"
	"github.com/erazemk/delez/internal/db"
	"github.com/erazemk/delez/internal/model"
	"github.com/erazemk/delez/internal/session"
	"github.com/erazemk/delez/internal/store"
)

type testEnv struct {
	server   *httptest.Server
	fake     *backendtest.Backend
	sessions *session.Manager
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	database := db.NewTestDB(t)
	fake := backendtest.New(t)
	sessions := &session.Manager{DB: database, Secret: "test-secret"}

	router := NewRouter(Deps{
		DB:          database,
		Backend:     backend.NewClient(fake.URL, time.Second),
		Sessions:    sessions,
		CORSOrigins: []string{"https://app.example.com"},
	})
	server := httptest.NewServer(LoggingMiddleware(router))
	t.Cleanup(server.Close)

	return &testEnv{server: server, fake: fake, sessions: sessions}
}

// signIn starts a session and returns its cookie.
func (e *testEnv) signIn(t *testing.T, id *model.Identity) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if _, err := e.sessions.Start(context.Background(), rec, id); err != nil {
		t.Fatalf("starting session: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func (e *testEnv) do(t *testing.T, method, path string, cookie *http.Cookie, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

var investor = &model.Identity{UserID: "u1", Name: "Ana", Token: "tok-1", Role: model.RoleInvestor}
var admin = &model.Identity{UserID: "a1", Name: "Root", Token: "tok-2", Role: model.RoleAdmin}

func TestMarketplace(t *testing.T) {
	env := setupTestServer(t)
	env.fake.Update(func(b *backendtest.Backend) {
		b.Properties = []model.Property{
			{ID: "p1", Name: "Harbour Lofts", Location: "Koper", Type: "Residential", TotalValue: 900000},
			{ID: "p2", Name: "Castle Offices", Location: "Ljubljana", Type: "Commercial", TotalValue: 2000000},
		}
	})

	resp := env.do(t, http.MethodGet, "/api/marketplace?search=LJUB", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got marketplaceResponse
	json.NewDecoder(resp.Body).Decode(&got)
	if got.Demo || len(got.Properties) != 1 || got.Properties[0].ID != "p2" {
		t.Fatalf("unexpected response: %+v", got)
	}
	if got.Properties[0].PriceLabel != "$2,000,000" || got.Properties[0].Cover != model.PlaceholderImage {
		t.Errorf("unexpected display values: %+v", got.Properties[0])
	}
}

func TestMarketplaceEmptyAndDemo(t *testing.T) {
	env := setupTestServer(t)

	resp := env.do(t, http.MethodGet, "/api/marketplace?search=atlantis", nil, nil)
	var got marketplaceResponse
	json.NewDecoder(resp.Body).Decode(&got)
	if resp.StatusCode != http.StatusOK || len(got.Properties) != 0 || got.Properties == nil {
		t.Errorf("expected empty list, got %d %+v", resp.StatusCode, got)
	}

	env.fake.Update(func(b *backendtest.Backend) { b.FailListing = true })
	resp = env.do(t, http.MethodGet, "/api/marketplace?tab=featured", nil, nil)
	got = marketplaceResponse{}
	json.NewDecoder(resp.Body).Decode(&got)
	if !got.Demo || got.Notice != DemoNotice || len(got.Properties) != 3 {
		t.Errorf("expected demo featured list, got %+v", got)
	}
}

func TestNotifications(t *testing.T) {
	env := setupTestServer(t)
	now := time.Now().UTC()
	env.fake.Update(func(b *backendtest.Backend) {
		b.Feeds["u1"] = model.NotificationFeed{
			UnreadCount: 2,
			Notifications: []model.NotificationWithRead{
				{Notification: model.Notification{ID: "n1", Title: "old read", CreatedAt: now.Add(-3 * time.Hour)}, Read: true},
				{Notification: model.Notification{ID: "n2", Title: "older unread", CreatedAt: now.Add(-2 * time.Hour)}},
				{Notification: model.Notification{ID: "n3", Title: "new unread", CreatedAt: now.Add(-1 * time.Hour)}},
			},
		}
	})

	if resp := env.do(t, http.MethodGet, "/api/notifications", nil, nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without session, got %d", resp.StatusCode)
	}

	cookie := env.signIn(t, investor)
	resp := env.do(t, http.MethodGet, "/api/notifications", cookie, nil)
	var feed model.NotificationFeed
	json.NewDecoder(resp.Body).Decode(&feed)
	if feed.UnreadCount != 2 {
		t.Errorf("expected server unread count 2, got %d", feed.UnreadCount)
	}
	order := []string{"n3", "n2", "n1"}
	for i, id := range order {
		if feed.Notifications[i].Notification.ID != id {
			t.Fatalf("expected order %v, got %+v", order, feed.Notifications)
		}
	}

	if resp := env.do(t, http.MethodPost, "/api/notifications/n3/read", cookie, nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	resp = env.do(t, http.MethodGet, "/api/notifications", cookie, nil)
	feed = model.NotificationFeed{}
	json.NewDecoder(resp.Body).Decode(&feed)
	if feed.Notifications[0].Notification.ID != "n2" || !feed.Notifications[1].Read {
		t.Errorf("local read mark not applied: %+v", feed.Notifications)
	}
	// The badge stays the backend's count.
	if feed.UnreadCount != 2 {
		t.Errorf("unread count should not be recomputed, got %d", feed.UnreadCount)
	}
}

func TestDeriveEndpoint(t *testing.T) {
	env := setupTestServer(t)
	body := map[string]any{
		"totalValue":  1000000,
		"totalShares": 0,
		"financials":  map[string]any{"rentalIncome": 90000, "operatingExpenses": 40000},
	}

	if resp := env.do(t, http.MethodPost, "/api/drafts/derive", env.signIn(t, investor), body); resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for investor, got %d", resp.StatusCode)
	}

	resp := env.do(t, http.MethodPost, "/api/drafts/derive", env.signIn(t, admin), body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got derivedResponse
	json.NewDecoder(resp.Body).Decode(&got)
	if got.PricePerShare != 0 || got.NetOperatingIncome != 50000 || got.CapRate != 5 {
		t.Errorf("unexpected derived values: %+v", got)
	}
}

func TestCORS(t *testing.T) {
	env := setupTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, env.server.URL+"/api/marketplace", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("expected allowed origin, got %q", got)
	}
}

func TestTraceIDHeader(t *testing.T) {
	env := setupTestServer(t)
	resp := env.do(t, http.MethodGet, "/api/marketplace", nil, nil)
	if resp.Header.Get("X-Trace-ID") == "" {
		t.Error("expected a trace id on the response")
	}
}

func TestUnknownEndpoint(t *testing.T) {
	env := setupTestServer(t)
	resp := env.do(t, http.MethodGet, "/api/nope", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	var body errorBody
	json.NewDecoder(resp.Body).Decode(&body)
	if body.Error != "not found" || body.TraceID == "" || body.TraceID != resp.Header.Get("X-Trace-ID") {
		t.Errorf("expected error with trace id, got %+v", body)
	}
}

func TestReadMarksAreLocal(t *testing.T) {
	env := setupTestServer(t)
	cookie := env.signIn(t, investor)
	env.do(t, http.MethodPost, "/api/notifications/n9/read", cookie, nil)

	reads, err := store.ReadNotificationIDs(context.Background(), env.sessions.DB, "u1")
	if err != nil {
		t.Fatalf("ReadNotificationIDs: %v", err)
	}
	if !reads["n9"] {
		t.Error("expected local read mark")
	}
}
