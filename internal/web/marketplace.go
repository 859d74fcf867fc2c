package web

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/erazemk/delez/internal/market"
	"github.com/erazemk/delez/internal/model"
)

// EmptyMarketplace is shown when no property matches the criteria.
const EmptyMarketplace = "No properties found matching your criteria"

type sortOption struct {
	Value, Label string
}

var sortOptions = []sortOption{
	{"", "Featured order"},
	{market.SortPriceAsc, "Price: Low to High"},
	{market.SortPriceDesc, "Price: High to Low"},
	{market.SortYieldDesc, "Yield: High to Low"},
	{market.SortNewest, "Newest Listings"},
}

// Marketplace handles GET /.
func (s *Server) Marketplace(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tab := q.Get("tab")
	if tab != market.TabFeatured && tab != market.TabTrending {
		tab = market.TabAll
	}
	criteria := market.Criteria{Search: q.Get("search"), Type: q.Get("type")}
	order := q.Get("sort")

	cat := market.Load(r.Context(), s.Backend)
	pd := s.page(r, "Marketplace")
	if cat.Demo() {
		slog.Warn("marketplace using demo data", "error", cat.Err)
		pd.Notice = "The property service is unavailable. Showing demo data."
	}

	props := cat.Select(tab, criteria, order)

	var selected *model.Property
	if id := q.Get("details"); id != "" {
		for _, list := range [][]model.Property{props, cat.All, cat.Featured, cat.Trending} {
			if selected = findProperty(list, id); selected != nil {
				break
			}
		}
	}

	// Query strings for the tab links keep the current filters.
	tabQuery := func(t string) string {
		v := url.Values{}
		v.Set("tab", t)
		if criteria.Search != "" {
			v.Set("search", criteria.Search)
		}
		if criteria.Type != "" {
			v.Set("type", criteria.Type)
		}
		if order != "" {
			v.Set("sort", order)
		}
		return "/?" + v.Encode()
	}

	s.Templates.Render(w, "marketplace.html", &struct {
		PageData
		Tab         string
		Criteria    market.Criteria
		Sort        string
		Types       []string
		SortOptions []sortOption
		Properties  []model.Property
		Selected    *model.Property
		Empty       string
		TabLinks    map[string]string
	}{
		PageData:    pd,
		Tab:         tab,
		Criteria:    criteria,
		Sort:        order,
		Types:       market.Types,
		SortOptions: sortOptions,
		Properties:  props,
		Selected:    selected,
		Empty:       EmptyMarketplace,
		TabLinks: map[string]string{
			market.TabAll:      tabQuery(market.TabAll),
			market.TabFeatured: tabQuery(market.TabFeatured),
			market.TabTrending: tabQuery(market.TabTrending),
		},
	})
}

func findProperty(list []model.Property, id string) *model.Property {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}
