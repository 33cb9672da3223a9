package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories/memstore"
	"github.com/shashiranjanraj/storefront/app/services"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string { return &s }

func uintPtr(v uint) *uint { return &v }

func category(id uint, name, slug string, parent uint) models.Category {
	c := models.Category{ID: id, Name: strPtr(name), Slug: slug}
	if parent != 0 {
		c.ParentID = uintPtr(parent)
	}
	return c
}

// item builds an active simple product created id hours after epoch.
func item(id uint, name, regular string) models.Product {
	return models.Product{
		ID:           id,
		Name:         name,
		Slug:         services.Slugify(name),
		ProductType:  models.ProductSimple,
		RegularPrice: dec(regular),
		IsActive:     true,
		CreatedAt:    epoch.Add(time.Duration(id) * time.Hour),
	}
}

func withSale(p models.Product, sale string) models.Product {
	p.SalePrice = decimal.NewNullDecimal(dec(sale))
	return p
}

func inCategories(p models.Product, cats ...models.Category) models.Product {
	p.Categories = append(p.Categories, cats...)
	return p
}

func withVariations(p models.Product, vs ...models.ProductVariation) models.Product {
	p.ProductType = models.ProductVariable
	p.Variations = append(p.Variations, vs...)
	return p
}

func ids(products []models.Product) []uint {
	out := make([]uint, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

// seedCategory saves a category through the service so it gets a slug.
func seedCategory(t *testing.T, store services.Store, name string, parent *models.Category) models.Category {
	t.Helper()
	c := &models.Category{Name: strPtr(name)}
	if parent != nil {
		c.ParentID = uintPtr(parent.ID)
	}
	require.NoError(t, services.NewCategoryService(store, nil, time.Minute).Save(context.Background(), c))
	return *c
}

func seedProduct(t *testing.T, store services.Store, in services.ProductInput) *models.Product {
	t.Helper()
	p, err := services.NewProductService(store, nil).Save(context.Background(), in)
	require.NoError(t, err)
	return p
}

func seedZone(t *testing.T, store services.Store, zone, charge string) models.DeliveryCharge {
	t.Helper()
	d := &models.DeliveryCharge{Zone: zone, Charge: dec(charge)}
	require.NoError(t, store.DeliveryCharges().Save(context.Background(), d))
	return *d
}

func newStore() *memstore.Store { return memstore.New() }
