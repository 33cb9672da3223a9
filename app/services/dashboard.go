package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/collection"
)

// DashboardQuery filters a vendor's own listing.
type DashboardQuery struct {
	VendorID   uint
	Search     string
	CategoryID uint
	Page       int
	PageSize   int
}

type DashboardResult struct {
	Items      []models.Product
	Page       collection.PageMeta
	Categories []models.Category
}

// DashboardService manages a vendor's products, active or not.
type DashboardService struct {
	store    Store
	products *ProductService
}

func NewDashboardService(store Store, products *ProductService) *DashboardService {
	return &DashboardService{store: store, products: products}
}

func (s *DashboardService) List(ctx context.Context, q DashboardQuery) (*DashboardResult, error) {
	products, err := s.store.Products().ByVendor(ctx, q.VendorID)
	if err != nil {
		return nil, fmt.Errorf("vendor products: %w", err)
	}

	if needle := strings.ToLower(strings.TrimSpace(q.Search)); needle != "" {
		products = collection.Filter(products, func(p models.Product) bool {
			return strings.Contains(strings.ToLower(p.Name), needle)
		})
	}
	if q.CategoryID != 0 {
		scope := map[uint]struct{}{q.CategoryID: {}}
		products = collection.Filter(products, func(p models.Product) bool { return p.HasCategory(scope) })
	}
	products = collection.UniqueBy(products, func(p models.Product) uint { return p.ID })
	sortProducts(products, SortNewest)

	cats, err := s.store.Categories().All(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}

	res := &DashboardResult{Categories: cats}
	res.Items, res.Page = collection.Paginate(products, q.Page, q.PageSize)
	return res, nil
}

func (s *DashboardService) Create(ctx context.Context, vendorID uint, in ProductInput) (*models.Product, error) {
	in.ID = 0
	in.VendorID = &vendorID
	return s.products.Save(ctx, in)
}

// Update saves in over the vendor's product id. Products owned by someone
// else are ErrForbidden.
func (s *DashboardService) Update(ctx context.Context, vendorID, id uint, in ProductInput) (*models.Product, error) {
	if _, err := s.owned(ctx, vendorID, id); err != nil {
		return nil, err
	}
	in.ID = id
	in.VendorID = &vendorID
	return s.products.Save(ctx, in)
}

func (s *DashboardService) Delete(ctx context.Context, vendorID, id uint) error {
	if _, err := s.owned(ctx, vendorID, id); err != nil {
		return err
	}
	return s.products.Delete(ctx, id)
}

func (s *DashboardService) owned(ctx context.Context, vendorID, id uint) (*models.Product, error) {
	p, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.VendorID == nil || *p.VendorID != vendorID {
		return nil, fmt.Errorf("%w: product %d belongs to another vendor", ErrForbidden, id)
	}
	return p, nil
}
