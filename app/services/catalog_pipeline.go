package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/collection"
)

var (
	defaultMaxPrice = decimal.NewFromInt(1000)
	shopMaxPad      = decimal.NewFromInt(100)
)

type Facets struct {
	Colors  []string `json:"colors"`
	Sizes   []string `json:"sizes"`
	Weights []string `json:"weights"`
}

type PriceBounds struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// UniverseSummary is what the shop and search views derive from the whole
// active catalog. It is cacheable between requests.
type UniverseSummary struct {
	Facets Facets      `json:"facets"`
	Bounds PriceBounds `json:"bounds"`
}

type CatalogResult struct {
	Items    []models.Product
	Page     collection.PageMeta
	Facets   Facets
	Bounds   PriceBounds
	Selected PriceBounds
	Sort     SortKey
	// Category is the resolved category filter, if any.
	Category *models.Category
}

// PipelineOptions carries precomputed inputs. A nil Summary is computed
// from the universe.
type PipelineOptions struct {
	Summary *UniverseSummary
}

// Summarize computes the shop-view facets and price bounds of universe.
func Summarize(universe []models.Product) UniverseSummary {
	bounds := priceBounds(universe)
	bounds.Max = bounds.Max.Add(shopMaxPad)
	return UniverseSummary{Facets: facetsOf(universe), Bounds: bounds}
}

// RunPipeline filters, sorts and paginates universe, which must already be
// limited to active products. Steps run in a fixed order, each narrowing
// the output of the previous one; facets come from a separate snapshot.
func RunPipeline(universe []models.Product, tree *CategoryTree, req CatalogRequest, opts PipelineOptions) CatalogResult {
	res := CatalogResult{Sort: req.Sort}
	if res.Sort == "" {
		res.Sort = SortNewest
	}
	products := universe

	// 1. category, descendant inclusive
	if req.CategorySlug != "" && tree != nil {
		if cat, ok := tree.Resolve(req.CategorySlug); ok {
			res.Category = &cat
			scope := tree.Scope(cat.ID)
			products = collection.Filter(products, func(p models.Product) bool { return p.HasCategory(scope) })
		}
	}

	// 2 and 7. default bounds and facets. Category pages scope both to the
	// category; shop and search use the whole active catalog.
	var summary UniverseSummary
	switch {
	case req.View == ViewCategory:
		summary = UniverseSummary{Facets: facetsOf(products), Bounds: priceBounds(products)}
	case opts.Summary != nil:
		summary = *opts.Summary
	default:
		summary = Summarize(universe)
	}
	res.Bounds = summary.Bounds
	res.Facets = summary.Facets

	// clamp
	res.Selected = summary.Bounds
	if req.MinPrice != nil {
		res.Selected.Min = *req.MinPrice
	}
	if req.MaxPrice != nil {
		res.Selected.Max = *req.MaxPrice
	}
	if res.Selected.Max.LessThan(res.Selected.Min) {
		res.Selected.Max = res.Selected.Min
	}

	// 3. price window on regular or sale price
	products = collection.Filter(products, func(p models.Product) bool {
		return inRange(p.RegularPrice, res.Selected) ||
			(p.SalePrice.Valid && inRange(p.SalePrice.Decimal, res.Selected))
	})

	// 4. free text
	if req.Search != "" {
		needle := strings.ToLower(req.Search)
		products = collection.Filter(products, func(p models.Product) bool { return matchesText(p, needle) })
	}

	// 5. variation attributes
	if len(req.Colors) > 0 || len(req.Sizes) > 0 || len(req.Weights) > 0 {
		colors, sizes, weights := toSet(req.Colors), toSet(req.Sizes), toSet(req.Weights)
		products = collection.Filter(products, func(p models.Product) bool {
			return hasVariation(p, colors, func(v models.ProductVariation) string { return v.Color }) &&
				hasVariation(p, sizes, func(v models.ProductVariation) string { return v.Size }) &&
				hasVariation(p, weights, func(v models.ProductVariation) string { return v.Weight })
		})
	}

	// 6. dedupe
	products = collection.UniqueBy(products, func(p models.Product) uint { return p.ID })

	// 8. sort
	sortProducts(products, res.Sort)

	// 9. paginate
	size := req.PageSize
	if size <= 0 {
		size = 50
	}
	res.Items, res.Page = collection.Paginate(products, req.Page, size)
	return res
}

func inRange(v decimal.Decimal, b PriceBounds) bool {
	return v.GreaterThanOrEqual(b.Min) && v.LessThanOrEqual(b.Max)
}

// priceBounds returns the min and max regular price, defaulting to 0 and
// 1000 for an empty set.
func priceBounds(products []models.Product) PriceBounds {
	if len(products) == 0 {
		return PriceBounds{Min: decimal.Zero, Max: defaultMaxPrice}
	}
	b := PriceBounds{Min: products[0].RegularPrice, Max: products[0].RegularPrice}
	for _, p := range products[1:] {
		b.Min = decimal.Min(b.Min, p.RegularPrice)
		b.Max = decimal.Max(b.Max, p.RegularPrice)
	}
	return b
}

func facetsOf(products []models.Product) Facets {
	var colors, sizes, weights []string
	for _, p := range products {
		for _, v := range p.Variations {
			colors = append(colors, strings.TrimSpace(v.Color))
			sizes = append(sizes, strings.TrimSpace(v.Size))
			weights = append(weights, strings.TrimSpace(v.Weight))
		}
	}
	return Facets{
		Colors:  collection.SortedDistinct(colors),
		Sizes:   collection.SortedDistinct(sizes),
		Weights: collection.SortedDistinct(weights),
	}
}

func matchesText(p models.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.ShortDescription), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, c := range p.Categories {
		if strings.Contains(strings.ToLower(c.NameValue()), needle) {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// hasVariation is true when set is empty or some variation's field is in it.
func hasVariation(p models.Product, set map[string]struct{}, field func(models.ProductVariation) string) bool {
	if len(set) == 0 {
		return true
	}
	for _, v := range p.Variations {
		if _, ok := set[field(v)]; ok {
			return true
		}
	}
	return false
}

// sortProducts orders in place. Ties fall back to id, in the same
// direction as the key.
func sortProducts(products []models.Product, key SortKey) {
	var less func(a, b models.Product) bool
	switch key {
	case SortOldest:
		less = func(a, b models.Product) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		}
	case SortNameAsc:
		less = func(a, b models.Product) bool {
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		}
	case SortNameDesc:
		less = func(a, b models.Product) bool {
			if a.Name != b.Name {
				return a.Name > b.Name
			}
			return a.ID > b.ID
		}
	case SortPriceAsc:
		less = func(a, b models.Product) bool {
			if c := a.RegularPrice.Cmp(b.RegularPrice); c != 0 {
				return c < 0
			}
			return a.ID < b.ID
		}
	case SortPriceDesc:
		less = func(a, b models.Product) bool {
			if c := a.RegularPrice.Cmp(b.RegularPrice); c != 0 {
				return c > 0
			}
			return a.ID > b.ID
		}
	default:
		less = func(a, b models.Product) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		}
	}
	collection.SortStableBy(products, less)
}
