package market

import (
	"strconv"
	"time"

	"github.com/erazemk/delez/internal/model"
)

var demoListedAt = time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

// DemoProperties returns fresh copies of the demo listings.
func DemoProperties() []model.Property {
	demo := []struct {
		name, location, typ, description string
		price, yield, perShare          float64
		shares                          int
	}{
		{"Royal Terrace Residence", "Beverly Hills, CA", "Residential",
			"Exquisite mansion with panoramic views of the city and ocean.", 2500000, 5.8, 25000, 85},
		{"Diamond Tower Office", "Manhattan, NY", "Commercial",
			"Premium office space in the heart of the financial district.", 4200000, 6.2, 35000, 120},
		{"Sapphire Bay Resort", "Miami Beach, FL", "Vacation",
			"Beachfront luxury resort with private access and full amenities.", 3800000, 7.5, 40000, 95},
		{"Emerald Heights Complex", "Seattle, WA", "Residential",
			"Modern apartment complex with sustainable features and city views.", 1800000, 5.2, 30000, 60},
		{"Imperial Business Plaza", "Chicago, IL", "Commercial",
			"Prestigious commercial property in prime business district location.", 5600000, 6.8, 40000, 140},
		{"Golden Sands Villa", "Maui, HI", "Vacation",
			"Exclusive beachfront villa with infinity pool and private gardens.", 4500000, 8.1, 45000, 110},
	}

	props := make([]model.Property, len(demo))
	for i, d := range demo {
		props[i] = model.Property{
			ID:              "demo-" + strconv.Itoa(i+1),
			Name:            d.name,
			Location:        d.location,
			Description:     d.description,
			Type:            d.typ,
			TotalShares:     d.shares,
			AvailableShares: d.shares,
			PricePerShare:   d.perShare,
			TotalValue:      d.price,
			Price:           d.price,
			Yield:           d.yield,
			Status:          model.PropertyStatusActive,
			CreatedAt:       demoListedAt.AddDate(0, 0, i),
		}
	}
	return props
}
