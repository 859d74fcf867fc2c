package model

import (
	"testing"
	"time"
)

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role     string
		minimum  string
		expected bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleInvestor, true},
		{RoleInvestor, RoleAdmin, false},
		{RoleInvestor, RoleInvestor, true},
		// Unknown roles fail-closed.
		{"unknown", RoleInvestor, false},
		{RoleAdmin, "unknown", false},
		{"", "", false},
		{"", RoleInvestor, false},
	}

	for _, tt := range tests {
		got := RoleAtLeast(tt.role, tt.minimum)
		if got != tt.expected {
			t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", tt.role, tt.minimum, got, tt.expected)
		}
	}
}

func TestSoldPercent(t *testing.T) {
	tests := []struct {
		total, available int
		want             float64
	}{
		{100, 100, 0},
		{100, 25, 75},
		{100, 0, 100},
		{0, 0, 0},
		{10, 20, 0},
	}

	for _, tt := range tests {
		p := Property{TotalShares: tt.total, AvailableShares: tt.available}
		if got := p.SoldPercent(); got != tt.want {
			t.Errorf("SoldPercent(%d/%d) = %v, want %v", tt.available, tt.total, got, tt.want)
		}
	}
}

func TestCoverImage(t *testing.T) {
	p := Property{}
	if p.CoverImage() != PlaceholderImage {
		t.Errorf("expected placeholder, got %q", p.CoverImage())
	}

	p.Images = []string{"a.jpg", "b.jpg"}
	if p.CoverImage() != "a.jpg" {
		t.Errorf("expected first image, got %q", p.CoverImage())
	}
}

func TestListPrice(t *testing.T) {
	p := Property{TotalValue: 500, CreatedAt: time.Now()}
	if p.ListPrice() != 500 {
		t.Errorf("expected total value fallback, got %v", p.ListPrice())
	}
	p.Price = 700
	if p.ListPrice() != 700 {
		t.Errorf("expected price, got %v", p.ListPrice())
	}
}
