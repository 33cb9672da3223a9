package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/collection"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

const relatedLimit = 5

// CatalogService serves the public catalog views over active products.
type CatalogService struct {
	store      Store
	categories *CategoryService
	cache      Cache
	ttl        time.Duration
}

func NewCatalogService(store Store, categories *CategoryService, cache Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{store: store, categories: categories, cache: cacheOrNoop(cache), ttl: ttl}
}

// Query runs the shop or search view. An unknown category filter is ignored.
func (s *CatalogService) Query(ctx context.Context, req CatalogRequest) (*CatalogResult, error) {
	if req.View != ViewSearch {
		req.View = ViewShop
	}
	metrics.CatalogQueries.WithLabelValues(string(req.View)).Inc()

	universe, err := s.store.Products().Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active products: %w", err)
	}
	tree, err := s.categories.Tree(ctx)
	if err != nil {
		return nil, err
	}

	summary := s.summary(ctx, universe)
	res := RunPipeline(universe, tree, req, PipelineOptions{Summary: &summary})
	return &res, nil
}

// CategoryDetail runs the category view for a full slug path. An unknown
// category is ErrNotFound.
func (s *CatalogService) CategoryDetail(ctx context.Context, fullSlug string, req CatalogRequest) (*CatalogResult, error) {
	metrics.CatalogQueries.WithLabelValues(string(ViewCategory)).Inc()

	tree, err := s.categories.Tree(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := tree.Resolve(fullSlug); !ok {
		return nil, fmt.Errorf("%w: category %q", ErrNotFound, fullSlug)
	}

	universe, err := s.store.Products().Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active products: %w", err)
	}

	req.View = ViewCategory
	req.CategorySlug = fullSlug
	res := RunPipeline(universe, tree, req, PipelineOptions{})
	return &res, nil
}

// summary returns the cached shop facets and bounds, computing them from
// universe on a miss.
func (s *CatalogService) summary(ctx context.Context, universe []models.Product) UniverseSummary {
	var cached UniverseSummary
	if s.cache.Get(ctx, cacheKeyShopFacets, &cached) {
		return cached
	}
	sum := Summarize(universe)
	if err := s.cache.Set(ctx, cacheKeyShopFacets, sum, s.ttl); err != nil {
		logger.WithCtx(ctx).Warn("facet cache set failed", "error", err)
	}
	return sum
}

type ProductDetail struct {
	Product models.Product
	Colors  []string
	Sizes   []string
	Weights []string
	Related []models.Product
}

// ProductDetail returns an active product with its variation choices and
// up to five related products sharing a category.
func (s *CatalogService) ProductDetail(ctx context.Context, slug string) (*ProductDetail, error) {
	p, err := s.store.Products().FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, fmt.Errorf("%w: product %q", ErrNotFound, slug)
	}

	facets := facetsOf([]models.Product{*p})
	detail := &ProductDetail{
		Product: *p,
		Colors:  facets.Colors,
		Sizes:   facets.Sizes,
		Weights: facets.Weights,
	}

	if len(p.Categories) == 0 {
		return detail, nil
	}
	scope := make(map[uint]struct{}, len(p.Categories))
	for _, c := range p.Categories {
		scope[c.ID] = struct{}{}
	}

	active, err := s.store.Products().Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("load related products: %w", err)
	}
	related := collection.Filter(active, func(o models.Product) bool {
		return o.ID != p.ID && o.HasCategory(scope)
	})
	sortProducts(related, SortNewest)
	detail.Related = collection.Take(related, relatedLimit)
	return detail, nil
}

// Invalidate drops cached catalog data after a write.
func (s *CatalogService) Invalidate(ctx context.Context) {
	if err := s.cache.Del(ctx, catalogKeys...); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache invalidation failed", "error", err)
	}
}
