package services

import (
	"context"
	"errors"
	"time"

	"github.com/shashiranjanraj/storefront/app/models"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// CategoryRepository persists categories.
type CategoryRepository interface {
	All(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uint) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	// Save inserts when ID is zero and updates every column otherwise.
	Save(ctx context.Context, c *models.Category) error
	// Delete removes the category and detaches its children.
	Delete(ctx context.Context, id uint) error
}

// ProductRepository returns products hydrated with categories, images and
// variations.
type ProductRepository interface {
	Active(ctx context.Context) ([]models.Product, error)
	All(ctx context.Context) ([]models.Product, error)
	ByVendor(ctx context.Context, vendorID uint) ([]models.Product, error)
	ActiveByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)

	// Save writes the product row only. Associations go through the
	// methods below.
	Save(ctx context.Context, p *models.Product) error
	SetCategories(ctx context.Context, productID uint, categoryIDs []uint) error
	SaveImage(ctx context.Context, img *models.ProductImage) error
	DeleteImages(ctx context.Context, ids []uint) error
	SaveVariation(ctx context.Context, v *models.ProductVariation) error
	DeleteVariations(ctx context.Context, ids []uint) error
	Delete(ctx context.Context, id uint) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	// ByPhone returns orders for the phone number, newest first.
	ByPhone(ctx context.Context, phone string) ([]models.Order, error)
}

type DeliveryChargeRepository interface {
	// All returns every zone ordered by zone name.
	All(ctx context.Context) ([]models.DeliveryCharge, error)
	FindByZone(ctx context.Context, zone string) (*models.DeliveryCharge, error)
	Save(ctx context.Context, d *models.DeliveryCharge) error
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}

// Store groups the repositories. Transaction runs fn against a Store whose
// writes commit together, or not at all when fn returns an error.
type Store interface {
	Categories() CategoryRepository
	Products() ProductRepository
	Orders() OrderRepository
	DeliveryCharges() DeliveryChargeRepository
	Users() UserRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// Cache is the read-through cache used for facets and the category tree.
// *cache.Redis satisfies it, including as a nil pointer.
type Cache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type noCache struct{}

func (noCache) Get(context.Context, string, any) bool                 { return false }
func (noCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (noCache) Del(context.Context, ...string) error                  { return nil }

func cacheOrNoop(c Cache) Cache {
	if c == nil {
		return noCache{}
	}
	return c
}

// Cache keys shared by readers and the write paths that invalidate them.
const (
	cacheKeyCategories = "categories:all"
	cacheKeyShopFacets = "facets:shop"
)

// catalogKeys are dropped on every catalog write.
var catalogKeys = []string{cacheKeyCategories, cacheKeyShopFacets}

// MediaURL turns a stored image path into a public URL.
type MediaURL func(path string) string
