package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
)

func TestProductSaveAssignsUniqueSlugs(t *testing.T) {
	store := newStore()
	a := seedProduct(t, store, services.ProductInput{Name: "Red Shirt", RegularPrice: dec("10"), IsActive: true})
	b := seedProduct(t, store, services.ProductInput{Name: "Red Shirt", RegularPrice: dec("12"), IsActive: true})
	c := seedProduct(t, store, services.ProductInput{Name: "Red  shirt", RegularPrice: dec("12")})

	assert.Equal(t, "red-shirt", a.Slug)
	assert.Equal(t, "red-shirt-1", b.Slug)
	assert.Equal(t, "red-shirt-2", c.Slug)
	assert.Equal(t, models.ProductSimple, a.ProductType)
}

func TestProductSaveReconcilesImages(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := services.NewProductService(store, nil)

	in := services.ProductInput{
		Name:         "Lamp",
		RegularPrice: dec("30"),
		IsActive:     true,
		Images: []services.ImageInput{
			{Path: "products/lamp.jpg", IsFeatured: true},
			{Path: "products/2024/lamp.jpg", Order: 1},
			{Name: "box", Path: "products/box.png", Order: 2},
		},
	}
	p, err := svc.Save(ctx, in)
	require.NoError(t, err)
	require.Len(t, p.Images, 3)

	byName := map[string]models.ProductImage{}
	for _, img := range p.Images {
		byName[img.Name] = img
	}
	require.Contains(t, byName, "lamp")
	require.Contains(t, byName, "lamp-1")
	require.Contains(t, byName, "box")
	lampID := byName["lamp"].ID

	in.ID = p.ID
	in.Images = []services.ImageInput{
		{Name: "lamp", Path: "products/lamp-v2.jpg", AltText: "Lamp"},
	}
	p, err = svc.Save(ctx, in)
	require.NoError(t, err)
	require.Len(t, p.Images, 1)
	assert.Equal(t, lampID, p.Images[0].ID, "matching names update in place")
	assert.Equal(t, "products/lamp-v2.jpg", p.Images[0].Path)

	in.Images = nil
	p, err = svc.Save(ctx, in)
	require.NoError(t, err)
	assert.Len(t, p.Images, 1, "nil images leave stored images alone")
}

func TestProductSaveReconcilesVariations(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := services.NewProductService(store, nil)

	in := services.ProductInput{
		Name:         "Tee",
		ProductType:  models.ProductVariable,
		RegularPrice: dec("20"),
		IsActive:     true,
		Variations: []services.VariationInput{
			{Size: "M", Color: "Red", Stock: 3},
			{Size: "L", Color: "Red", Stock: -2, Price: decimal.NewNullDecimal(dec("-5"))},
			{Size: " M ", Color: "Red", Stock: 9},
		},
	}
	p, err := svc.Save(ctx, in)
	require.NoError(t, err)
	require.Len(t, p.Variations, 2, "duplicate keys collapse")
	assert.Equal(t, 3, p.TotalStock())

	large := p.Variations[1]
	assert.Equal(t, "L", large.Size)
	assert.Equal(t, 0, large.Stock)
	assert.True(t, large.Price.Decimal.IsZero())

	in.ID = p.ID
	in.ProductType = models.ProductSimple
	in.Variations = nil
	p, err = svc.Save(ctx, in)
	require.NoError(t, err)
	assert.Empty(t, p.Variations, "simple products drop their variations")
}

func TestProductSaveValidatesCategories(t *testing.T) {
	store := newStore()
	_, err := services.NewProductService(store, nil).Save(context.Background(), services.ProductInput{
		Name:        "Ghost",
		CategoryIDs: []uint{77},
	})
	assert.ErrorIs(t, err, services.ErrNotFound)

	all, err := store.Products().All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all, "the failed save rolled back")
}

func TestImageName(t *testing.T) {
	taken := map[string]bool{"front": true, "front-1": true}
	assert.Equal(t, "front-2", services.ImageName("a/b/front.jpg", taken))
	assert.Equal(t, "side", services.ImageName("side.png", taken))
	assert.Equal(t, "image", services.ImageName("", nil))
}
