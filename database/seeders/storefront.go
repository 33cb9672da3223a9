package seeders

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/auth"
)

func init() {
	Register("delivery_zones", SeedDeliveryZones)
	Register("demo_vendor", SeedDemoVendor)
	Register("demo_catalog", SeedDemoCatalog)
}

const (
	DemoVendor   = "demo-vendor"
	demoPassword = "password"
)

var zones = []struct {
	zone   string
	charge int64
}{
	{"Inside Dhaka", 60},
	{"Outside Dhaka", 120},
}

func SeedDeliveryZones(ctx context.Context, store services.Store) error {
	repo := store.DeliveryCharges()
	for _, z := range zones {
		_, err := repo.FindByZone(ctx, z.zone)
		if err == nil {
			continue
		}
		if !errors.Is(err, services.ErrNotFound) {
			return err
		}
		if err := repo.Save(ctx, &models.DeliveryCharge{Zone: z.zone, Charge: decimal.NewFromInt(z.charge)}); err != nil {
			return err
		}
	}
	return nil
}

// SeedDemoVendor creates the vendor owning the demo catalog. Its password
// is "password"; never run this seeder against production.
func SeedDemoVendor(ctx context.Context, store services.Store) error {
	_, err := store.Users().FindByUsername(ctx, DemoVendor)
	if err == nil {
		return nil
	}
	if !errors.Is(err, services.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return err
	}
	return store.Users().Create(ctx, &models.User{
		Username: DemoVendor,
		Email:    "vendor@example.com",
		Password: hash,
		Role:     models.RoleVendor,
	})
}

func price(v string) services.Price {
	return services.NewPrice(decimal.RequireFromString(v))
}

func demoDocument() *services.CatalogDocument {
	return &services.CatalogDocument{
		Categories: []services.CategoryRecord{
			{Name: "Clothing", Slug: "clothing"},
			{Name: "Shirts", Slug: "shirts", ParentName: "Clothing", GroupName: "Tops"},
			{Name: "Trousers", Slug: "trousers", ParentName: "Clothing", GroupName: "Bottoms"},
			{Name: "Groceries", Slug: "groceries"},
			{Name: "Tea", Slug: "tea", ParentName: "Groceries", GroupName: "Beverages"},
		},
		Products: []services.ProductRecord{
			{
				Name:             "Oxford Shirt",
				Slug:             "oxford-shirt",
				ShortDescription: "Button-down cotton oxford.",
				ProductType:      string(models.ProductVariable),
				CategoryNames:    []string{"Shirts"},
				RegularPrice:     price("1200"),
				SalePrice:        price("990"),
				IsFeatured:       true,
				VendorUsername:   DemoVendor,
				Variations: []services.VariationRecord{
					{Size: "M", Color: "White", Stock: 10},
					{Size: "L", Color: "White", Stock: 6},
					{Size: "L", Color: "Blue", Stock: 4, Price: price("1250")},
				},
			},
			{
				Name:           "Chino Trousers",
				Slug:           "chino-trousers",
				ProductType:    string(models.ProductVariable),
				CategoryNames:  []string{"Trousers"},
				RegularPrice:   price("1800"),
				VendorUsername: DemoVendor,
				Variations: []services.VariationRecord{
					{Size: "32", Color: "Khaki", Stock: 8},
					{Size: "34", Color: "Navy", Stock: 5},
				},
			},
			{
				Name:           "Assam Black Tea",
				Slug:           "assam-black-tea",
				Description:    "Strong malty leaf tea.",
				ProductType:    string(models.ProductVariable),
				CategoryNames:  []string{"Tea"},
				RegularPrice:   price("350"),
				VendorUsername: DemoVendor,
				Variations: []services.VariationRecord{
					{Weight: "250g", Stock: 40},
					{Weight: "500g", Stock: 25, Price: price("650")},
				},
			},
			{
				Name:           "Linen Shirt",
				Slug:           "linen-shirt",
				ProductType:    string(models.ProductSimple),
				CategoryNames:  []string{"Shirts"},
				RegularPrice:   price("1500"),
				StockQuantity:  12,
				VendorUsername: DemoVendor,
			},
		},
	}
}

// SeedDemoCatalog imports a small catalog through the regular import
// path, so re-running it updates rather than duplicates.
func SeedDemoCatalog(ctx context.Context, store services.Store) error {
	categories := services.NewCategoryService(store, nil, 0)
	catalog := services.NewCatalogService(store, categories, nil, 0)
	report, err := services.NewCatalogIOService(store, nil, catalog).Import(ctx, demoDocument())
	if err != nil {
		return err
	}
	if len(report.Errors) > 0 {
		return errors.New(report.Errors[0])
	}
	return nil
}
