package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// FileChecker reports whether an image path exists on storage.
// storage.Disk satisfies it.
type FileChecker interface {
	Exists(ctx context.Context, path string) bool
}

type ImportReport struct {
	BatchID           string   `json:"batch_id"`
	CategoriesCreated int      `json:"categories_created"`
	CategoriesUpdated int      `json:"categories_updated"`
	ProductsCreated   int      `json:"products_created"`
	ProductsUpdated   int      `json:"products_updated"`
	Errors            []string `json:"errors"`
}

func (r *ImportReport) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

type CatalogIOService struct {
	store   Store
	files   FileChecker
	catalog *CatalogService
}

func NewCatalogIOService(store Store, files FileChecker, catalog *CatalogService) *CatalogIOService {
	return &CatalogIOService{store: store, files: files, catalog: catalog}
}

// Import reconciles doc into the store. Each record commits on its own;
// a failing record is reported and the rest continue.
func (s *CatalogIOService) Import(ctx context.Context, doc *CatalogDocument) (*ImportReport, error) {
	report := &ImportReport{BatchID: uuid.NewString(), Errors: []string{}}
	log := logger.WithCtx(ctx).With("batch_id", report.BatchID)

	for i, rec := range doc.Categories {
		created, err := s.importCategory(ctx, rec)
		switch {
		case err != nil:
			metrics.ImportRows.WithLabelValues("category", "failed").Inc()
			report.errorf("category %d (%s): %v", i+1, rec.Name, err)
		case created:
			metrics.ImportRows.WithLabelValues("category", "created").Inc()
			report.CategoriesCreated++
		default:
			metrics.ImportRows.WithLabelValues("category", "updated").Inc()
			report.CategoriesUpdated++
		}
	}

	for i, rec := range doc.Products {
		created, err := s.importProduct(ctx, rec, report)
		switch {
		case err != nil:
			metrics.ImportRows.WithLabelValues("product", "failed").Inc()
			report.errorf("product %d (%s): %v", i+1, rec.Name, err)
		case created:
			metrics.ImportRows.WithLabelValues("product", "created").Inc()
			report.ProductsCreated++
		default:
			metrics.ImportRows.WithLabelValues("product", "updated").Inc()
			report.ProductsUpdated++
		}
	}

	if s.catalog != nil {
		s.catalog.Invalidate(ctx)
	}
	log.Info("catalog import finished",
		"categories_created", report.CategoriesCreated,
		"categories_updated", report.CategoriesUpdated,
		"products_created", report.ProductsCreated,
		"products_updated", report.ProductsUpdated,
		"errors", len(report.Errors),
	)
	return report, nil
}

func (s *CatalogIOService) importCategory(ctx context.Context, rec CategoryRecord) (created bool, err error) {
	name := strings.TrimSpace(rec.Name)
	if name == "" && strings.TrimSpace(rec.Slug) == "" {
		return false, fmt.Errorf("%w: name or slug is required", ErrInvalidInput)
	}

	err = s.store.Transaction(ctx, func(tx Store) error {
		repo := tx.Categories()
		c, err := lookupCategory(ctx, repo, rec.Slug, name)
		if err != nil {
			return err
		}
		if c == nil {
			c = &models.Category{Slug: rec.Slug}
			created = true
		}

		if name != "" {
			c.Name = &name
		}
		c.GroupName = strings.TrimSpace(rec.GroupName)
		c.Image = strings.TrimSpace(rec.Image)

		c.ParentID = nil
		if parent := strings.TrimSpace(rec.ParentName); parent != "" {
			p, err := getOrCreateCategory(ctx, tx, parent)
			if err != nil {
				return fmt.Errorf("parent %q: %w", parent, err)
			}
			c.ParentID = &p.ID
		}
		return saveCategory(ctx, tx, c)
	})
	return created, err
}

// lookupCategory finds a category by slug, then by name. A miss is nil.
func lookupCategory(ctx context.Context, repo CategoryRepository, slug, name string) (*models.Category, error) {
	if slug = strings.TrimSpace(slug); slug != "" {
		c, err := repo.FindBySlug(ctx, slug)
		if err == nil || !errors.Is(err, ErrNotFound) {
			return c, err
		}
	}
	if name != "" {
		c, err := repo.FindByName(ctx, name)
		if err == nil || !errors.Is(err, ErrNotFound) {
			return c, err
		}
	}
	return nil, nil
}

func getOrCreateCategory(ctx context.Context, tx Store, name string) (*models.Category, error) {
	c, err := tx.Categories().FindByName(ctx, name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	c = &models.Category{Name: &name}
	if err := saveCategory(ctx, tx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func getOrCreateVendor(ctx context.Context, tx Store, username string) (*models.User, error) {
	u, err := tx.Users().FindByUsername(ctx, username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// Imported vendors get a random password and must reset it to log in.
	hash, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		return nil, err
	}
	u = &models.User{Username: username, Password: hash, Role: models.RoleVendor}
	if err := tx.Users().Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *CatalogIOService) importProduct(ctx context.Context, rec ProductRecord, report *ImportReport) (created bool, err error) {
	if strings.TrimSpace(rec.Name) == "" && strings.TrimSpace(rec.Slug) == "" {
		return false, fmt.Errorf("%w: name or slug is required", ErrInvalidInput)
	}

	var images []ImageInput
	if rec.Images != nil {
		images = []ImageInput{}
		for _, img := range rec.Images {
			p := strings.TrimSpace(img.Path)
			if p == "" || (s.files != nil && !s.files.Exists(ctx, p)) {
				report.errorf("image %q for product %q not found on storage; skipped", p, rec.Slug)
				continue
			}
			images = append(images, ImageInput{
				Name:       img.Name,
				Path:       p,
				AltText:    img.AltText,
				IsFeatured: img.IsFeatured,
				Order:      img.Order,
			})
		}
	}

	err = s.store.Transaction(ctx, func(tx Store) error {
		in := ProductInput{
			Name:             rec.Name,
			Slug:             rec.Slug,
			ShortDescription: rec.ShortDescription,
			Description:      rec.Description,
			ProductType:      models.ProductType(strings.ToLower(strings.TrimSpace(rec.ProductType))),
			RegularPrice:     rec.RegularPrice.Decimal,
			SalePrice:        rec.SalePrice.NullDecimal,
			StockQuantity:    rec.StockQuantity,
			IsActive:         rec.IsActive == nil || *rec.IsActive,
			IsFeatured:       rec.IsFeatured,
			MetaTitle:        rec.MetaTitle,
			MetaDescription:  rec.MetaDescription,
			MetaKeywords:     rec.MetaKeywords,
			Images:           images,
		}

		if slug := strings.TrimSpace(rec.Slug); slug != "" {
			existing, err := tx.Products().FindBySlug(ctx, slug)
			switch {
			case err == nil:
				in.ID = existing.ID
				in.VendorID = existing.VendorID
			case !errors.Is(err, ErrNotFound):
				return err
			}
		}
		created = in.ID == 0

		if rec.CategoryNames != nil {
			in.CategoryIDs = []uint{}
			for _, name := range rec.CategoryNames {
				if name = strings.TrimSpace(name); name == "" {
					continue
				}
				c, err := getOrCreateCategory(ctx, tx, name)
				if err != nil {
					return fmt.Errorf("category %q: %w", name, err)
				}
				in.CategoryIDs = append(in.CategoryIDs, c.ID)
			}
		}

		if username := strings.TrimSpace(rec.VendorUsername); username != "" {
			u, err := getOrCreateVendor(ctx, tx, username)
			if err != nil {
				return fmt.Errorf("vendor %q: %w", username, err)
			}
			in.VendorID = &u.ID
		}

		if rec.Variations != nil {
			in.Variations = make([]VariationInput, 0, len(rec.Variations))
			for _, v := range rec.Variations {
				in.Variations = append(in.Variations, VariationInput{
					Size:   v.Size,
					Weight: v.Weight,
					Color:  v.Color,
					Price:  v.Price.NullDecimal,
					Stock:  v.Stock,
				})
			}
		}

		_, err := saveProduct(ctx, tx, in)
		return err
	})
	return created, err
}

// Export builds a document from the whole catalog, categories parents
// first.
func (s *CatalogIOService) Export(ctx context.Context) (*CatalogDocument, error) {
	cats, err := s.store.Categories().All(ctx)
	if err != nil {
		return nil, fmt.Errorf("export categories: %w", err)
	}
	tree := NewCategoryTree(cats)

	doc := &CatalogDocument{Categories: []CategoryRecord{}, Products: []ProductRecord{}}
	var walk func(nodes []CategoryNode)
	walk = func(nodes []CategoryNode) {
		for _, n := range nodes {
			rec := CategoryRecord{
				Name:      n.Category.NameValue(),
				Slug:      n.Category.Slug,
				GroupName: n.Category.GroupName,
				Image:     n.Category.Image,
			}
			if n.Category.ParentID != nil {
				if parent, ok := tree.Get(*n.Category.ParentID); ok {
					rec.ParentName = parent.NameValue()
				}
			}
			doc.Categories = append(doc.Categories, rec)
			walk(n.Children)
		}
	}
	walk(tree.Forest())

	products, err := s.store.Products().All(ctx)
	if err != nil {
		return nil, fmt.Errorf("export products: %w", err)
	}
	sort.SliceStable(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	vendors := make(map[uint]string)
	for _, p := range products {
		rec := ProductRecord{
			Name:             p.Name,
			Slug:             p.Slug,
			ShortDescription: p.ShortDescription,
			Description:      p.Description,
			ProductType:      string(p.ProductType),
			RegularPrice:     NewPrice(p.RegularPrice),
			SalePrice:        Price{p.SalePrice},
			StockQuantity:    p.StockQuantity,
			IsActive:         &p.IsActive,
			IsFeatured:       p.IsFeatured,
			MetaTitle:        p.MetaTitle,
			MetaDescription:  p.MetaDescription,
			MetaKeywords:     p.MetaKeywords,
			CategoryNames:    []string{},
			Images:           []ImageRecord{},
		}
		for _, c := range p.Categories {
			if c.Name != nil {
				rec.CategoryNames = append(rec.CategoryNames, *c.Name)
			}
		}
		sort.Strings(rec.CategoryNames)

		if p.VendorID != nil {
			name, ok := vendors[*p.VendorID]
			if !ok {
				if u, err := s.store.Users().FindByID(ctx, *p.VendorID); err == nil {
					name = u.Username
				}
				vendors[*p.VendorID] = name
			}
			rec.VendorUsername = name
		}

		for _, img := range p.SortedImages() {
			rec.Images = append(rec.Images, ImageRecord{
				Name:       img.Name,
				Path:       img.Path,
				AltText:    img.AltText,
				IsFeatured: img.IsFeatured,
				Order:      img.Order,
			})
		}
		if p.ProductType == models.ProductVariable {
			rec.Variations = []VariationRecord{}
			for _, v := range p.Variations {
				rec.Variations = append(rec.Variations, VariationRecord{
					Size:   v.Size,
					Weight: v.Weight,
					Color:  v.Color,
					Price:  Price{v.Price},
					Stock:  v.Stock,
				})
			}
		}
		doc.Products = append(doc.Products, rec)
	}
	return doc, nil
}
