package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/services"
)

// memCache records keys so tests can see reads, writes and invalidation.
type memCache struct {
	mu   sync.Mutex
	data map[string]any
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string]any{}} }

func (c *memCache) Get(_ context.Context, key string, dest any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return false
	}
	switch d := dest.(type) {
	case *services.UniverseSummary:
		*d = v.(services.UniverseSummary)
	default:
		return false
	}
	return true
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func TestCatalogQueryCachesSummaryUntilWrite(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	cache := newMemCache()
	cats := services.NewCategoryService(store, cache, time.Minute)
	catalog := services.NewCatalogService(store, cats, cache, time.Minute)
	products := services.NewProductService(store, cache)

	_, err := products.Save(ctx, services.ProductInput{Name: "Kettle", RegularPrice: dec("40"), IsActive: true})
	require.NoError(t, err)

	res, err := catalog.Query(ctx, services.CatalogRequest{View: services.ViewShop})
	require.NoError(t, err)
	assert.True(t, res.Bounds.Max.Equal(dec("140")))
	assert.True(t, cache.has("facets:shop"))

	_, err = products.Save(ctx, services.ProductInput{Name: "Toaster", RegularPrice: dec("90"), IsActive: true})
	require.NoError(t, err)
	assert.False(t, cache.has("facets:shop"), "writes invalidate the summary")

	res, err = catalog.Query(ctx, services.CatalogRequest{View: services.ViewSearch, Search: "toast"})
	require.NoError(t, err)
	assert.True(t, res.Bounds.Max.Equal(dec("190")))
	assert.Len(t, res.Items, 1)
}

func TestCategoryDetail(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	cats := services.NewCategoryService(store, nil, time.Minute)
	catalog := services.NewCatalogService(store, cats, nil, time.Minute)

	kitchen := seedCategory(t, store, "Kitchen", nil)
	pans := seedCategory(t, store, "Pans", &kitchen)
	seedProduct(t, store, services.ProductInput{Name: "Wok", RegularPrice: dec("35"), IsActive: true, CategoryIDs: []uint{pans.ID}})
	seedProduct(t, store, services.ProductInput{Name: "Pot", RegularPrice: dec("55"), IsActive: true, CategoryIDs: []uint{kitchen.ID}})
	seedProduct(t, store, services.ProductInput{Name: "Draft", RegularPrice: dec("5"), CategoryIDs: []uint{kitchen.ID}})

	res, err := catalog.CategoryDetail(ctx, "kitchen", services.CatalogRequest{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2, "descendants included, inactive excluded")
	assert.True(t, res.Bounds.Min.Equal(dec("35")))
	assert.True(t, res.Bounds.Max.Equal(dec("55")))
	require.NotNil(t, res.Category)
	assert.Equal(t, kitchen.ID, res.Category.ID)

	res, err = catalog.CategoryDetail(ctx, "kitchen/pans", services.CatalogRequest{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	_, err = catalog.CategoryDetail(ctx, "garden", services.CatalogRequest{})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestProductDetail(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	cats := services.NewCategoryService(store, nil, time.Minute)
	catalog := services.NewCatalogService(store, cats, nil, time.Minute)

	mugs := seedCategory(t, store, "Mugs", nil)
	big := seedProduct(t, store, services.ProductInput{
		Name: "Big Mug", RegularPrice: dec("9"), IsActive: true, CategoryIDs: []uint{mugs.ID},
		ProductType: "variable",
		Variations: []services.VariationInput{
			{Size: "L", Color: "White", Stock: 1},
			{Size: "M", Color: "Black", Stock: 1},
		},
	})
	for _, name := range []string{"Mug 1", "Mug 2", "Mug 3", "Mug 4", "Mug 5", "Mug 6"} {
		seedProduct(t, store, services.ProductInput{Name: name, RegularPrice: dec("5"), IsActive: true, CategoryIDs: []uint{mugs.ID}})
	}
	hidden := seedProduct(t, store, services.ProductInput{Name: "Hidden", RegularPrice: dec("5")})

	detail, err := catalog.ProductDetail(ctx, big.Slug)
	require.NoError(t, err)
	assert.Equal(t, []string{"Black", "White"}, detail.Colors)
	assert.Equal(t, []string{"L", "M"}, detail.Sizes)
	require.Len(t, detail.Related, 5)
	for _, r := range detail.Related {
		assert.NotEqual(t, big.ID, r.ID)
	}

	_, err = catalog.ProductDetail(ctx, hidden.Slug)
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = catalog.ProductDetail(ctx, "nope")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
