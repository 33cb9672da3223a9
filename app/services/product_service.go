package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// ProductInput is the full desired state of a product. Nil Images or
// Variations leave the stored children untouched; an empty slice removes
// them all. Simple products never keep variations.
type ProductInput struct {
	ID               uint
	VendorID         *uint
	Name             string
	Slug             string
	ShortDescription string
	Description      string
	ProductType      models.ProductType
	CategoryIDs      []uint
	RegularPrice     decimal.Decimal
	SalePrice        decimal.NullDecimal
	StockQuantity    int
	IsActive         bool
	IsFeatured       bool
	MetaTitle        string
	MetaDescription  string
	MetaKeywords     string
	Images           []ImageInput
	Variations       []VariationInput
}

type ImageInput struct {
	Name       string
	Path       string
	AltText    string
	IsFeatured bool
	Order      int
}

type VariationInput struct {
	Size   string
	Weight string
	Color  string
	Price  decimal.NullDecimal
	Stock  int
}

type ProductService struct {
	store Store
	cache Cache
}

func NewProductService(store Store, cache Cache) *ProductService {
	return &ProductService{store: store, cache: cacheOrNoop(cache)}
}

// Save creates or updates a product and reconciles its categories, images
// and variations in one transaction.
func (s *ProductService) Save(ctx context.Context, in ProductInput) (*models.Product, error) {
	var saved *models.Product
	err := s.store.Transaction(ctx, func(tx Store) error {
		p, err := saveProduct(ctx, tx, in)
		saved = p
		return err
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return saved, nil
}

// Delete removes a product with its variations. Images are detached.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Products().Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if err := s.cache.Del(ctx, catalogKeys...); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache invalidation failed", "error", err)
	}
}

// saveProduct runs the product save path against an open transaction:
// prepare, unique slug, write, categories, then child reconciliation.
func saveProduct(ctx context.Context, tx Store, in ProductInput) (*models.Product, error) {
	repo := tx.Products()

	var prev *models.Product
	p := &models.Product{}
	if in.ID != 0 {
		existing, err := repo.FindByID(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		prev = existing
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		p.Slug = existing.Slug
	}

	p.VendorID = in.VendorID
	p.Name = in.Name
	if in.Slug != "" {
		p.Slug = in.Slug
	}
	p.ShortDescription = in.ShortDescription
	p.Description = in.Description
	p.ProductType = in.ProductType
	p.RegularPrice = in.RegularPrice
	p.SalePrice = in.SalePrice
	p.StockQuantity = in.StockQuantity
	p.IsActive = in.IsActive
	p.IsFeatured = in.IsFeatured
	p.MetaTitle = in.MetaTitle
	p.MetaDescription = in.MetaDescription
	p.MetaKeywords = in.MetaKeywords

	base := PrepareProductForSave(p, prev)
	slug, err := UniqueSlug(ctx, base, p.ID, repo.SlugExists)
	if err != nil {
		return nil, err
	}
	p.Slug = slug
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	if err := repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save product %q: %w", p.Slug, err)
	}

	if in.CategoryIDs != nil {
		for _, id := range in.CategoryIDs {
			if _, err := tx.Categories().FindByID(ctx, id); err != nil {
				return nil, fmt.Errorf("category %d: %w", id, err)
			}
		}
		if err := repo.SetCategories(ctx, p.ID, in.CategoryIDs); err != nil {
			return nil, fmt.Errorf("set categories: %w", err)
		}
	}

	var existingImages []models.ProductImage
	var existingVariations []models.ProductVariation
	if prev != nil {
		existingImages = prev.Images
		existingVariations = prev.Variations
	}

	if in.Images != nil {
		if err := reconcileImages(ctx, repo, p.ID, existingImages, in.Images); err != nil {
			return nil, err
		}
	}

	switch {
	case p.ProductType == models.ProductSimple:
		if err := reconcileVariations(ctx, repo, p.ID, existingVariations, nil); err != nil {
			return nil, err
		}
	case in.Variations != nil:
		if err := reconcileVariations(ctx, repo, p.ID, existingVariations, in.Variations); err != nil {
			return nil, err
		}
	}

	return repo.FindByID(ctx, p.ID)
}

// ImageName derives an image name from its file path: the base name
// without extension, suffixed -1, -2, ... until it is not in taken.
func ImageName(filePath string, taken map[string]bool) string {
	base := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
	if base == "" || base == "." || base == "/" {
		base = "image"
	}
	name := base
	for n := 1; taken[name]; n++ {
		name = fmt.Sprintf("%s-%d", base, n)
	}
	return name
}

// reconcileImages diffs desired against existing by name: matches are
// updated, new names created and missing names deleted.
func reconcileImages(ctx context.Context, repo ProductRepository, productID uint, existing []models.ProductImage, desired []ImageInput) error {
	byName := make(map[string]models.ProductImage, len(existing))
	for _, img := range existing {
		byName[img.Name] = img
	}

	taken := make(map[string]bool, len(desired))
	for _, in := range desired {
		if n := strings.TrimSpace(in.Name); n != "" {
			taken[n] = true
		}
	}

	keep := make(map[string]bool, len(desired))
	for _, in := range desired {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			name = ImageName(in.Path, taken)
			taken[name] = true
		}
		if keep[name] {
			continue
		}
		keep[name] = true

		pid := productID
		img := models.ProductImage{ProductID: &pid, Name: name}
		if cur, ok := byName[name]; ok {
			img = cur
		}
		img.Path = in.Path
		img.AltText = in.AltText
		img.IsFeatured = in.IsFeatured
		img.Order = max(in.Order, 0)
		if err := repo.SaveImage(ctx, &img); err != nil {
			return fmt.Errorf("save image %q: %w", name, err)
		}
	}

	var drop []uint
	for _, img := range existing {
		if !keep[img.Name] {
			drop = append(drop, img.ID)
		}
	}
	if len(drop) > 0 {
		if err := repo.DeleteImages(ctx, drop); err != nil {
			return fmt.Errorf("delete images: %w", err)
		}
	}
	return nil
}

// reconcileVariations diffs desired against existing by (size, weight,
// color). A nil desired list deletes every variation.
func reconcileVariations(ctx context.Context, repo ProductRepository, productID uint, existing []models.ProductVariation, desired []VariationInput) error {
	byKey := make(map[models.VariationKey]models.ProductVariation, len(existing))
	for _, v := range existing {
		byKey[v.Key()] = v
	}

	keep := make(map[models.VariationKey]bool, len(desired))
	for _, in := range desired {
		v := models.ProductVariation{
			ProductID: productID,
			Size:      strings.TrimSpace(in.Size),
			Weight:    strings.TrimSpace(in.Weight),
			Color:     strings.TrimSpace(in.Color),
		}
		key := v.Key()
		if keep[key] {
			continue
		}
		keep[key] = true

		if cur, ok := byKey[key]; ok {
			v = cur
		}
		v.Price = in.Price
		if v.Price.Valid && v.Price.Decimal.IsNegative() {
			v.Price.Decimal = decimal.Zero
		}
		v.Stock = max(in.Stock, 0)
		if err := repo.SaveVariation(ctx, &v); err != nil {
			return fmt.Errorf("save variation %+v: %w", key, err)
		}
	}

	var drop []uint
	for _, v := range existing {
		if !keep[v.Key()] {
			drop = append(drop, v.ID)
		}
	}
	if len(drop) > 0 {
		if err := repo.DeleteVariations(ctx, drop); err != nil {
			return fmt.Errorf("delete variations: %w", err)
		}
	}
	return nil
}
