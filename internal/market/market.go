// Package market filters, sorts and loads the property marketplace.
package market

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/erazemk/delez/internal/model"
	"golang.org/x/sync/errgroup"
)

// Tabs.
const (
	TabAll      = "all"
	TabFeatured = "featured"
	TabTrending = "trending"
)

// Sort orders.
const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortYieldDesc = "yield-desc"
	SortNewest    = "newest"
)

// Property types offered by the type filter.
var Types = []string{"Residential", "Commercial", "Vacation"}

// Criteria narrows the "all" tab.
type Criteria struct {
	Search string
	Type   string
}

// Matches reports whether p satisfies the criteria: the search term is a
// case-insensitive substring of the name or location, and the type matches
// exactly when one is set.
func (c Criteria) Matches(p *model.Property, term string) bool {
	if c.Type != "" && p.Type != c.Type {
		return false
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Location), term)
}

// Filter returns the properties matching c, in input order.
func Filter(props []model.Property, c Criteria) []model.Property {
	term := strings.ToLower(c.Search)
	out := make([]model.Property, 0, len(props))
	for i := range props {
		if c.Matches(&props[i], term) {
			out = append(out, props[i])
		}
	}
	return out
}

// Sort orders props in place. Unknown orders leave props untouched.
func Sort(props []model.Property, order string) {
	var less func(a, b model.Property) int
	switch order {
	case SortPriceAsc:
		less = func(a, b model.Property) int { return cmp.Compare(a.ListPrice(), b.ListPrice()) }
	case SortPriceDesc:
		less = func(a, b model.Property) int { return cmp.Compare(b.ListPrice(), a.ListPrice()) }
	case SortYieldDesc:
		less = func(a, b model.Property) int { return cmp.Compare(b.Yield, a.Yield) }
	case SortNewest:
		less = func(a, b model.Property) int { return b.CreatedAt.Compare(a.CreatedAt) }
	default:
		return
	}
	slices.SortStableFunc(props, less)
}

// Catalog is the marketplace's three property lists.
type Catalog struct {
	All      []model.Property
	Featured []model.Property
	Trending []model.Property

	// Err is set when the backend could not be reached and the lists hold
	// demo data instead.
	Err error
}

// Demo reports whether the catalog holds demo data.
func (c *Catalog) Demo() bool {
	return c.Err != nil
}

// Select returns the properties shown for a tab. Only the "all" tab is
// filtered and sorted; featured and trending are shown as returned.
func (c *Catalog) Select(tab string, criteria Criteria, order string) []model.Property {
	switch tab {
	case TabFeatured:
		return c.Featured
	case TabTrending:
		return c.Trending
	default:
		props := Filter(c.All, criteria)
		Sort(props, order)
		return props
	}
}

// Source fetches the marketplace lists.
type Source interface {
	ListProperties(ctx context.Context) ([]model.Property, error)
	FeaturedProperties(ctx context.Context) ([]model.Property, error)
	TrendingProperties(ctx context.Context) ([]model.Property, error)
}

// Load fetches all three lists concurrently. If any fetch fails the catalog
// falls back to demo data and records the failure in Err.
func Load(ctx context.Context, src Source) *Catalog {
	var cat Catalog
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cat.All, err = src.ListProperties(gctx)
		return err
	})
	g.Go(func() (err error) {
		cat.Featured, err = src.FeaturedProperties(gctx)
		return err
	})
	g.Go(func() (err error) {
		cat.Trending, err = src.TrendingProperties(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return DemoCatalog(fmt.Errorf("loading marketplace: %w", err))
	}
	return &cat
}

// DemoCatalog returns the demo catalog: all six demo properties, the first
// three as featured and the next three as trending.
func DemoCatalog(err error) *Catalog {
	all := DemoProperties()
	return &Catalog{
		All:      all,
		Featured: slices.Clone(all[:3]),
		Trending: slices.Clone(all[3:6]),
		Err:      err,
	}
}
