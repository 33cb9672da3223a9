package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/shashiranjanraj/storefront/app/models"
)

type categoryRepo struct{ s *Store }

func (r categoryRepo) All(_ context.Context) ([]models.Category, error) {
	defer r.s.lock()()
	out := []models.Category{}
	for _, id := range sortedIDs(r.s.db.categories, nil) {
		out = append(out, copyCategory(r.s.db.categories[id]))
	}
	return out, nil
}

func (r categoryRepo) FindByID(_ context.Context, id uint) (*models.Category, error) {
	defer r.s.lock()()
	c, ok := r.s.db.categories[id]
	if !ok {
		return nil, notFound("category")
	}
	c = copyCategory(c)
	return &c, nil
}

func (r categoryRepo) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	defer r.s.lock()()
	for _, id := range sortedIDs(r.s.db.categories, nil) {
		if c := r.s.db.categories[id]; c.Slug == slug {
			c = copyCategory(c)
			return &c, nil
		}
	}
	return nil, notFound("category")
}

func (r categoryRepo) FindByName(_ context.Context, name string) (*models.Category, error) {
	defer r.s.lock()()
	for _, id := range sortedIDs(r.s.db.categories, nil) {
		if c := r.s.db.categories[id]; c.Name != nil && *c.Name == name {
			c = copyCategory(c)
			return &c, nil
		}
	}
	return nil, notFound("category")
}

func (r categoryRepo) SlugExists(_ context.Context, slug string, excludeID uint) (bool, error) {
	defer r.s.lock()()
	for id, c := range r.s.db.categories {
		if id != excludeID && c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r categoryRepo) Save(_ context.Context, c *models.Category) error {
	defer r.s.lock()()
	for id, other := range r.s.db.categories {
		if id == c.ID {
			continue
		}
		if other.Slug == c.Slug {
			return ErrDuplicate
		}
		if c.Name != nil && other.Name != nil && *other.Name == *c.Name {
			return ErrDuplicate
		}
	}

	if c.ID == 0 {
		c.ID = r.s.db.nextID("categories")
	} else if _, ok := r.s.db.categories[c.ID]; !ok {
		return notFound("category")
	}
	touch(&c.CreatedAt, &c.UpdatedAt)
	r.s.db.categories[c.ID] = copyCategory(*c)
	return nil
}

func (r categoryRepo) Delete(_ context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.db.categories[id]; !ok {
		return notFound("category")
	}
	delete(r.s.db.categories, id)
	for cid, c := range r.s.db.categories {
		if c.ParentID != nil && *c.ParentID == id {
			c.ParentID = nil
			r.s.db.categories[cid] = c
		}
	}
	for pid, ids := range r.s.db.productCats {
		r.s.db.productCats[pid] = slices.DeleteFunc(ids, func(cid uint) bool { return cid == id })
	}
	return nil
}

type productRepo struct{ s *Store }

// hydrate attaches categories, images and variations. Callers hold the lock.
func (r productRepo) hydrate(p models.Product) models.Product {
	db := r.s.db
	p.Categories = []models.Category{}
	for _, cid := range db.productCats[p.ID] {
		if c, ok := db.categories[cid]; ok {
			p.Categories = append(p.Categories, copyCategory(c))
		}
	}
	slices.SortFunc(p.Categories, func(a, b models.Category) int { return cmp.Compare(a.ID, b.ID) })

	p.Images = []models.ProductImage{}
	for _, id := range sortedIDs(db.images, func(img models.ProductImage) bool {
		return img.ProductID != nil && *img.ProductID == p.ID
	}) {
		img := db.images[id]
		img.ProductID = copyUint(img.ProductID)
		p.Images = append(p.Images, img)
	}

	p.Variations = []models.ProductVariation{}
	for _, id := range sortedIDs(db.variations, func(v models.ProductVariation) bool { return v.ProductID == p.ID }) {
		p.Variations = append(p.Variations, db.variations[id])
	}
	p.VendorID = copyUint(p.VendorID)
	return p
}

func (r productRepo) list(keep func(models.Product) bool) []models.Product {
	out := []models.Product{}
	for _, id := range sortedIDs(r.s.db.products, keep) {
		out = append(out, r.hydrate(r.s.db.products[id]))
	}
	return out
}

func (r productRepo) Active(_ context.Context) ([]models.Product, error) {
	defer r.s.lock()()
	return r.list(func(p models.Product) bool { return p.IsActive }), nil
}

func (r productRepo) All(_ context.Context) ([]models.Product, error) {
	defer r.s.lock()()
	return r.list(nil), nil
}

func (r productRepo) ByVendor(_ context.Context, vendorID uint) ([]models.Product, error) {
	defer r.s.lock()()
	return r.list(func(p models.Product) bool { return p.VendorID != nil && *p.VendorID == vendorID }), nil
}

func (r productRepo) ActiveByIDs(_ context.Context, ids []uint) ([]models.Product, error) {
	defer r.s.lock()()
	return r.list(func(p models.Product) bool { return p.IsActive && slices.Contains(ids, p.ID) }), nil
}

func (r productRepo) FindByID(_ context.Context, id uint) (*models.Product, error) {
	defer r.s.lock()()
	p, ok := r.s.db.products[id]
	if !ok {
		return nil, notFound("product")
	}
	p = r.hydrate(p)
	return &p, nil
}

func (r productRepo) FindBySlug(_ context.Context, slug string) (*models.Product, error) {
	defer r.s.lock()()
	for _, p := range r.s.db.products {
		if p.Slug == slug {
			p = r.hydrate(p)
			return &p, nil
		}
	}
	return nil, notFound("product")
}

func (r productRepo) SlugExists(_ context.Context, slug string, excludeID uint) (bool, error) {
	defer r.s.lock()()
	for id, p := range r.s.db.products {
		if id != excludeID && p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r productRepo) Save(_ context.Context, p *models.Product) error {
	defer r.s.lock()()
	for id, other := range r.s.db.products {
		if id != p.ID && other.Slug == p.Slug {
			return ErrDuplicate
		}
	}
	if p.ID == 0 {
		p.ID = r.s.db.nextID("products")
	} else if _, ok := r.s.db.products[p.ID]; !ok {
		return notFound("product")
	}
	touch(&p.CreatedAt, &p.UpdatedAt)

	row := *p
	row.VendorID = copyUint(p.VendorID)
	row.Vendor = nil
	row.Categories = nil
	row.Images = nil
	row.Variations = nil
	r.s.db.products[p.ID] = row
	return nil
}

func (r productRepo) SetCategories(_ context.Context, productID uint, categoryIDs []uint) error {
	defer r.s.lock()()
	ids := slices.Clone(categoryIDs)
	slices.Sort(ids)
	r.s.db.productCats[productID] = slices.Compact(ids)
	return nil
}

func (r productRepo) SaveImage(_ context.Context, img *models.ProductImage) error {
	defer r.s.lock()()
	for id, other := range r.s.db.images {
		if id == img.ID || other.ProductID == nil || img.ProductID == nil {
			continue
		}
		if *other.ProductID == *img.ProductID && other.Name == img.Name {
			return ErrDuplicate
		}
	}
	if img.ID == 0 {
		img.ID = r.s.db.nextID("images")
	}
	touch(&img.CreatedAt, nil)
	row := *img
	row.ProductID = copyUint(img.ProductID)
	r.s.db.images[img.ID] = row
	return nil
}

func (r productRepo) DeleteImages(_ context.Context, ids []uint) error {
	defer r.s.lock()()
	for _, id := range ids {
		delete(r.s.db.images, id)
	}
	return nil
}

func (r productRepo) SaveVariation(_ context.Context, v *models.ProductVariation) error {
	defer r.s.lock()()
	if v.ID == 0 {
		v.ID = r.s.db.nextID("variations")
	}
	r.s.db.variations[v.ID] = *v
	return nil
}

func (r productRepo) DeleteVariations(_ context.Context, ids []uint) error {
	defer r.s.lock()()
	for _, id := range ids {
		delete(r.s.db.variations, id)
	}
	return nil
}

// Delete removes the product and its variations; images are detached.
func (r productRepo) Delete(_ context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.db.products[id]; !ok {
		return notFound("product")
	}
	delete(r.s.db.products, id)
	delete(r.s.db.productCats, id)
	for vid, v := range r.s.db.variations {
		if v.ProductID == id {
			delete(r.s.db.variations, vid)
		}
	}
	for iid, img := range r.s.db.images {
		if img.ProductID != nil && *img.ProductID == id {
			img.ProductID = nil
			r.s.db.images[iid] = img
		}
	}
	return nil
}
