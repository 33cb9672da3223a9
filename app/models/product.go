package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type ProductType string

const (
	ProductSimple   ProductType = "simple"
	ProductVariable ProductType = "variable"
)

// Valid reports whether t is a known product type.
func (t ProductType) Valid() bool {
	return t == ProductSimple || t == ProductVariable
}

type Product struct {
	ID               uint                `gorm:"primaryKey" json:"id"`
	VendorID         *uint               `gorm:"index" json:"vendor_id"`
	Vendor           *User               `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Name             string              `gorm:"size:255;not null;index" json:"name"`
	Slug             string              `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	ShortDescription string              `gorm:"type:text" json:"short_description"`
	Description      string              `gorm:"type:text" json:"description"`
	ProductType      ProductType         `gorm:"size:20;not null" json:"product_type"`
	Categories       []Category          `gorm:"many2many:product_categories;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
	RegularPrice     decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"regular_price"`
	SalePrice        decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"sale_price"`
	StockQuantity    int                 `gorm:"not null" json:"stock_quantity"`
	IsActive         bool                `gorm:"not null;index" json:"is_active"`
	IsFeatured       bool                `gorm:"not null" json:"is_featured"`
	MetaTitle        string              `gorm:"size:255" json:"meta_title"`
	MetaDescription  string              `gorm:"type:text" json:"meta_description"`
	MetaKeywords     string              `gorm:"size:255" json:"meta_keywords"`
	Images           []ProductImage      `gorm:"constraint:OnDelete:SET NULL" json:"images,omitempty"`
	Variations       []ProductVariation  `gorm:"constraint:OnDelete:CASCADE" json:"variations,omitempty"`
	CreatedAt        time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// DisplayPrice is the sale price when set, else the regular price.
func (p Product) DisplayPrice() decimal.Decimal {
	if p.SalePrice.Valid {
		return p.SalePrice.Decimal
	}
	return p.RegularPrice
}

// TotalStock is the sum of variation stock for variable products and
// StockQuantity otherwise.
func (p Product) TotalStock() int {
	if p.ProductType != ProductVariable {
		return p.StockQuantity
	}
	total := 0
	for _, v := range p.Variations {
		total += v.Stock
	}
	return total
}

// SortedImages returns the images in display order: position ascending,
// featured first on ties, then id.
func (p Product) SortedImages() []ProductImage {
	out := append([]ProductImage(nil), p.Images...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if a.IsFeatured != b.IsFeatured {
			return a.IsFeatured
		}
		return a.ID < b.ID
	})
	return out
}

// PrimaryImage is the first image in display order, or nil.
func (p Product) PrimaryImage() *ProductImage {
	imgs := p.SortedImages()
	if len(imgs) == 0 {
		return nil
	}
	return &imgs[0]
}

// HasCategory reports whether the product is tagged with any id in set.
func (p Product) HasCategory(set map[uint]struct{}) bool {
	for _, c := range p.Categories {
		if _, ok := set[c.ID]; ok {
			return true
		}
	}
	return false
}

// ProductImage names are unique within a product. Path is relative to the
// storage disk.
type ProductImage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProductID  *uint     `gorm:"uniqueIndex:idx_product_image_name" json:"product_id"`
	Name       string    `gorm:"size:255;uniqueIndex:idx_product_image_name;not null" json:"name"`
	Path       string    `gorm:"size:500;not null" json:"path"`
	AltText    string    `gorm:"size:255" json:"alt_text"`
	IsFeatured bool      `gorm:"not null" json:"is_featured"`
	Order      int       `gorm:"column:position;not null" json:"order"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProductVariation is one purchasable size/weight/color combination.
type ProductVariation struct {
	ID        uint                `gorm:"primaryKey" json:"id"`
	ProductID uint                `gorm:"index;not null" json:"product_id"`
	Size      string              `gorm:"size:50" json:"size"`
	Weight    string              `gorm:"size:50" json:"weight"`
	Color     string              `gorm:"size:50" json:"color"`
	Price     decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price"`
	Stock     int                 `gorm:"not null" json:"stock"`
}

// EffectivePrice falls back to the parent product's display price.
func (v ProductVariation) EffectivePrice(p Product) decimal.Decimal {
	if v.Price.Valid {
		return v.Price.Decimal
	}
	return p.DisplayPrice()
}

// Key identifies a variation by its attributes.
func (v ProductVariation) Key() VariationKey {
	return VariationKey{Size: v.Size, Weight: v.Weight, Color: v.Color}
}

type VariationKey struct {
	Size, Weight, Color string
}
