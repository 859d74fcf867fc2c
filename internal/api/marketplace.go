package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/delez/internal/backend"
	"github.com/erazemk/delez/internal/market"
	"github.com/erazemk/delez/internal/model"
)

// MarketplaceHandler serves the filtered marketplace.
type MarketplaceHandler struct {
	Backend *backend.Client
}

// marketplaceProperty is a property with its display values precomputed.
type marketplaceProperty struct {
	model.Property
	Cover          string  `json:"cover"`
	PriceLabel     string  `json:"priceLabel"`
	PerShareLabel  string  `json:"perShareLabel"`
	SoldPercentage float64 `json:"soldPercentage"`
}

type marketplaceResponse struct {
	Tab        string                `json:"tab"`
	Properties []marketplaceProperty `json:"properties"`
	Demo       bool                  `json:"demo"`
	Notice     string                `json:"notice,omitempty"`
}

// List handles GET /api/marketplace.
func (h *MarketplaceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tab := q.Get("tab")
	switch tab {
	case market.TabFeatured, market.TabTrending:
	default:
		tab = market.TabAll
	}

	cat := market.Load(r.Context(), h.Backend)
	if cat.Demo() {
		slog.Warn("marketplace using demo data", "error", cat.Err)
	}

	props := cat.Select(tab, market.Criteria{Search: q.Get("search"), Type: q.Get("type")}, q.Get("sort"))
	resp := marketplaceResponse{
		Tab:        tab,
		Properties: make([]marketplaceProperty, len(props)),
		Demo:       cat.Demo(),
	}
	if cat.Demo() {
		resp.Notice = DemoNotice
	}
	for i := range props {
		p := &props[i]
		resp.Properties[i] = marketplaceProperty{
			Property:       *p,
			Cover:          p.CoverImage(),
			PriceLabel:     market.FormatCurrency(p.ListPrice()),
			PerShareLabel:  market.FormatCurrency(p.PricePerShare),
			SoldPercentage: p.SoldPercent(),
		}
	}
	jsonResponse(w, http.StatusOK, resp)
}

// DemoNotice tells the user the listings are not live.
const DemoNotice = "The property service is unavailable. Showing demo data."
