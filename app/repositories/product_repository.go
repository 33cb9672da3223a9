package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storefront/app/models"
)

// productCategory is the many2many join row between products and
// categories.
type productCategory struct {
	ProductID  uint `gorm:"primaryKey"`
	CategoryID uint `gorm:"primaryKey"`
}

func (productCategory) TableName() string { return "product_categories" }

// ProductRepository handles database operations for Product and its
// images and variations.
type ProductRepository struct {
	db *gorm.DB
}

// hydrated preloads every association read paths expect.
func (r *ProductRepository) hydrated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.id") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Variations", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

func (r *ProductRepository) Active(ctx context.Context) ([]models.Product, error) {
	var ps []models.Product
	err := r.hydrated(ctx).Where("is_active = ?", true).Order("id").Find(&ps).Error
	return ps, err
}

func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	var ps []models.Product
	err := r.hydrated(ctx).Order("id").Find(&ps).Error
	return ps, err
}

func (r *ProductRepository) ByVendor(ctx context.Context, vendorID uint) ([]models.Product, error) {
	var ps []models.Product
	err := r.hydrated(ctx).Where("vendor_id = ?", vendorID).Order("id").Find(&ps).Error
	return ps, err
}

func (r *ProductRepository) ActiveByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var ps []models.Product
	if len(ids) == 0 {
		return ps, nil
	}
	err := r.hydrated(ctx).Where("id IN ? AND is_active = ?", ids, true).Order("id").Find(&ps).Error
	return ps, err
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.hydrated(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err, "product")
	}
	return &p, nil
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	if err := r.hydrated(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, translate(err, "product")
	}
	return &p, nil
}

func (r *ProductRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&n).Error
	return n > 0, err
}

func (r *ProductRepository) Save(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

// SetCategories replaces the product's category links.
func (r *ProductRepository) SetCategories(ctx context.Context, productID uint, categoryIDs []uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("product_id = ?", productID).Delete(&productCategory{}).Error; err != nil {
		return err
	}

	seen := make(map[uint]bool, len(categoryIDs))
	rows := make([]productCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		if !seen[id] {
			seen[id] = true
			rows = append(rows, productCategory{ProductID: productID, CategoryID: id})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return db.Create(&rows).Error
}

func (r *ProductRepository) SaveImage(ctx context.Context, img *models.ProductImage) error {
	return r.db.WithContext(ctx).Save(img).Error
}

func (r *ProductRepository) DeleteImages(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.ProductImage{}, ids).Error
}

func (r *ProductRepository) SaveVariation(ctx context.Context, v *models.ProductVariation) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *ProductRepository) DeleteVariations(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.ProductVariation{}, ids).Error
}

// Delete removes the product with its variations and category links.
// Images stay on disk and in the table, detached.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "product")
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&productCategory{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.ProductImage{}).Where("product_id = ?", id).Update("product_id", nil).Error
	})
}
