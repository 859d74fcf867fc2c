package model

import "time"

// Property is the backend's listing of a fractionally owned property.
type Property struct {
	ID              string    `json:"_id"`
	Name            string    `json:"name"`
	Title           string    `json:"title,omitempty"`
	Location        string    `json:"location"`
	Description     string    `json:"description,omitempty"`
	Type            string    `json:"type"`
	TotalShares     int       `json:"totalShares"`
	AvailableShares int       `json:"availableShares"`
	PricePerShare   float64   `json:"pricePerShare"`
	TotalValue      float64   `json:"totalValue"`
	Price           float64   `json:"price,omitempty"`
	Yield           float64   `json:"yield,omitempty"`
	Images          []string  `json:"images"`
	Owners          []Owner   `json:"owners"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Owner is a user holding a percentage of a property.
type Owner struct {
	User            OwnerUser `json:"userId"`
	SharePercentage float64   `json:"sharePercentage"`
}

// OwnerUser is the populated user reference inside an Owner.
type OwnerUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Property statuses.
const (
	PropertyStatusActive = "active"
	PropertyStatusSold   = "sold"
)

// PlaceholderImage is shown for properties without images.
const PlaceholderImage = "https://via.placeholder.com/300"

// CoverImage returns the first image, or a placeholder.
func (p *Property) CoverImage() string {
	if len(p.Images) == 0 || p.Images[0] == "" {
		return PlaceholderImage
	}
	return p.Images[0]
}

// ListPrice returns the headline price: Price when set, TotalValue otherwise.
func (p *Property) ListPrice() float64 {
	if p.Price > 0 {
		return p.Price
	}
	return p.TotalValue
}

// SoldPercent returns the share of the property already sold, 0-100.
func (p *Property) SoldPercent() float64 {
	if p.TotalShares <= 0 {
		return 0
	}
	sold := p.TotalShares - p.AvailableShares
	if sold <= 0 {
		return 0
	}
	pct := float64(sold) / float64(p.TotalShares) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// IsActive reports whether shares can currently be bought.
func (p *Property) IsActive() bool {
	return p.Status == PropertyStatusActive && p.AvailableShares > 0
}
