package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_categories_table", &CreateCategoriesTable{})
	migration.Register("20260101000002_create_products_tables", &CreateProductsTables{})
	migration.Register("20260101000003_create_checkout_tables", &CreateCheckoutTables{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.User{})
}

// -------- 0002: categories --------

type CreateCategoriesTable struct{}

func (m *CreateCategoriesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{})
}

func (m *CreateCategoriesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Category{})
}

// -------- 0003: products, images, variations, product_categories --------

type CreateProductsTables struct{}

func (m *CreateProductsTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{}, &models.ProductImage{}, &models.ProductVariation{})
}

func (m *CreateProductsTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("product_categories", &models.ProductVariation{}, &models.ProductImage{}, &models.Product{})
}

// -------- 0004: delivery charges and orders --------

type CreateCheckoutTables struct{}

func (m *CreateCheckoutTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.DeliveryCharge{}, &models.Order{})
}

func (m *CreateCheckoutTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Order{}, &models.DeliveryCharge{})
}
