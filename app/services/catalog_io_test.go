package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
)

type fileSet map[string]bool

func (f fileSet) Exists(_ context.Context, path string) bool { return f[path] }

const catalogYAML = `
categories:
  - name: Clothing
  - name: Shirts
    parent: Clothing
    group_name: Tops
products:
  - name: Oxford Shirt
    slug: oxford-shirt
    product_type: Variable
    category_names: [Shirts, Sale]
    vendor_username: acme
    regular_price: "45.00"
    sale_price: 39.5
    stock_quantity: 0
    images:
      - path: products/oxford.jpg
        is_featured: true
      - path: products/missing.jpg
    variations:
      - size: M
        color: Blue
        stock: 4
      - size: L
        color: Blue
        price: 49
        stock: 2
  - name: Gift Card
    regular_price: 25
    is_active: false
`

func newCatalogIO(store services.Store, files fileSet) *services.CatalogIOService {
	cats := services.NewCategoryService(store, nil, time.Minute)
	catalog := services.NewCatalogService(store, cats, nil, time.Minute)
	return services.NewCatalogIOService(store, files, catalog)
}

func TestImportYAMLDocument(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	io := newCatalogIO(store, fileSet{"products/oxford.jpg": true})

	doc, err := services.DecodeDocument([]byte(catalogYAML), "catalog.yaml")
	require.NoError(t, err)

	report, err := io.Import(ctx, doc)
	require.NoError(t, err)
	assert.NotEmpty(t, report.BatchID)
	assert.Equal(t, 2, report.CategoriesCreated)
	assert.Equal(t, 2, report.ProductsCreated)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "products/missing.jpg")

	shirt, err := store.Products().FindBySlug(ctx, "oxford-shirt")
	require.NoError(t, err)
	assert.Equal(t, models.ProductVariable, shirt.ProductType)
	assert.True(t, shirt.IsActive)
	assert.True(t, shirt.SalePrice.Decimal.Equal(dec("39.5")))
	require.Len(t, shirt.Images, 1)
	assert.Equal(t, "oxford", shirt.Images[0].Name)
	require.Len(t, shirt.Variations, 2)
	assert.Equal(t, 6, shirt.TotalStock())

	var names []string
	for _, c := range shirt.Categories {
		names = append(names, c.NameValue())
	}
	assert.ElementsMatch(t, []string{"Shirts", "Sale"}, names, "unknown categories are created")

	require.NotNil(t, shirt.VendorID)
	vendor, err := store.Users().FindByID(ctx, *shirt.VendorID)
	require.NoError(t, err)
	assert.Equal(t, "acme", vendor.Username)
	assert.True(t, vendor.IsVendor())

	card, err := store.Products().FindBySlug(ctx, "gift-card")
	require.NoError(t, err)
	assert.False(t, card.IsActive)

	again, err := io.Import(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 2, again.CategoriesUpdated)
	assert.Equal(t, 1, again.ProductsUpdated, "keyed by slug")
	assert.Equal(t, 1, again.ProductsCreated, "no slug means a new product")
}

func TestImportReportsBadRows(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	io := newCatalogIO(store, nil)

	report, err := io.Import(ctx, &services.CatalogDocument{
		Categories: []services.CategoryRecord{{}},
		Products:   []services.ProductRecord{{Name: "Fine", RegularPrice: services.NewPrice(dec("3"))}, {}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.ProductsCreated)
	assert.Len(t, report.Errors, 2)
}

func TestExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	io := newCatalogIO(store, fileSet{"products/oxford.jpg": true, "products/missing.jpg": true})

	doc, err := services.DecodeDocument([]byte(catalogYAML), "catalog.yml")
	require.NoError(t, err)
	_, err = io.Import(ctx, doc)
	require.NoError(t, err)

	out, err := io.Export(ctx)
	require.NoError(t, err)

	var catNames []string
	for _, c := range out.Categories {
		catNames = append(catNames, c.Name)
		if c.Name == "Shirts" {
			assert.Equal(t, "Clothing", c.ParentName)
			assert.Equal(t, "Tops", c.GroupName)
		}
	}
	assert.Equal(t, []string{"Clothing", "Shirts", "Sale"}, catNames, "parents come before children")

	require.Len(t, out.Products, 2)
	shirt := out.Products[0]
	assert.Equal(t, "oxford-shirt", shirt.Slug)
	assert.Equal(t, "acme", shirt.VendorUsername)
	assert.Equal(t, []string{"Sale", "Shirts"}, shirt.CategoryNames)
	require.Len(t, shirt.Images, 2)
	assert.Equal(t, "oxford", shirt.Images[0].Name, "featured image first")
	assert.Len(t, shirt.Variations, 2)

	data, err := services.EncodeDocument(out, "catalog.json")
	require.NoError(t, err)
	back, err := services.DecodeDocument(data, "catalog.json")
	require.NoError(t, err)
	assert.Equal(t, out.Products[0].RegularPrice.Decimal.String(), back.Products[0].RegularPrice.Decimal.String())
	assert.False(t, back.Products[1].SalePrice.Valid)

	yml, err := services.EncodeDocument(out, "catalog.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(yml), "regular_price: \"45.00\"")
}

func TestDecodeDocumentRejectsUnknownJSONFields(t *testing.T) {
	_, err := services.DecodeDocument([]byte(`{"products": [{"name": "x", "colour": "red"}]}`), "catalog.json")
	assert.Error(t, err)
}
