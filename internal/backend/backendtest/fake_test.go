package backendtest

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/erazemk/delez/internal/model"
)

func getJSON(t *testing.T, url string, target any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if target != nil {
		json.NewDecoder(resp.Body).Decode(target)
	}
	return resp.StatusCode
}

func TestUserRoutes(t *testing.T) {
	b := New(t)
	b.Update(func(b *Backend) {
		b.Feeds["u1"] = model.NotificationFeed{UnreadCount: 3}
		b.Investments["u1"] = []model.Investment{{ID: "inv-9", PropertyID: "P1", Shares: 2}}
	})

	var feed model.NotificationFeed
	if code := getJSON(t, b.URL+"/api/users/notifications/u1", &feed); code != http.StatusOK || feed.UnreadCount != 3 {
		t.Errorf("notifications: got %d %+v", code, feed)
	}

	var list []model.Investment
	if code := getJSON(t, b.URL+"/api/users/u1/investments", &list); code != http.StatusOK || len(list) != 1 || list[0].ID != "inv-9" {
		t.Errorf("investments: got %d %+v", code, list)
	}

	if code := getJSON(t, b.URL+"/api/users/u1/unknown", nil); code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown user route, got %d", code)
	}
}

func TestPropertyRoutes(t *testing.T) {
	b := New(t)
	b.Update(func(b *Backend) {
		b.Properties = []model.Property{{ID: "P1", Name: "Harbour Lofts"}}
		b.Featured = []model.Property{{ID: "P2"}}
	})

	var featured []model.Property
	if code := getJSON(t, b.URL+"/api/properties/featured", &featured); code != http.StatusOK || len(featured) != 1 || featured[0].ID != "P2" {
		t.Errorf("featured: got %d %+v", code, featured)
	}

	var p model.Property
	if code := getJSON(t, b.URL+"/api/properties/P1", &p); code != http.StatusOK || p.Name != "Harbour Lofts" {
		t.Errorf("property: got %d %+v", code, p)
	}
}
