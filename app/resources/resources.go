// Package resources holds the API shapes of the storefront models.
package resources

import (
	"encoding/json"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/resource"
)

// Presenter renders models whose output depends on where media is served.
type Presenter struct {
	Media       services.MediaURL
	Placeholder string
}

func (p Presenter) url(path string) string {
	if path == "" {
		return ""
	}
	if p.Media == nil {
		return path
	}
	return p.Media(path)
}

func (p Presenter) Image(img models.ProductImage) resource.Map {
	return resource.Map{
		"id":          img.ID,
		"name":        img.Name,
		"url":         p.url(img.Path),
		"alt_text":    img.AltText,
		"is_featured": img.IsFeatured,
		"order":       img.Order,
	}
}

// primaryImage is the first image URL in display order, or the placeholder.
func (p Presenter) primaryImage(prod models.Product) string {
	if img := prod.PrimaryImage(); img != nil && img.Path != "" {
		return p.url(img.Path)
	}
	return p.Placeholder
}

// ProductCard is the listing shape used by shop, search and category views.
func (p Presenter) ProductCard(prod models.Product) resource.Map {
	return resource.Map{
		"id":            prod.ID,
		"name":          prod.Name,
		"slug":          prod.Slug,
		"product_type":  prod.ProductType,
		"regular_price": resource.Money(prod.RegularPrice),
		"sale_price":    resource.NullMoney(prod.SalePrice),
		"display_price": resource.Money(prod.DisplayPrice()),
		"is_featured":   prod.IsFeatured,
		"total_stock":   prod.TotalStock(),
		"image":         p.primaryImage(prod),
		"created_at":    prod.CreatedAt,
	}
}

// Product is the full shape, used by product detail and the dashboard.
func (p Presenter) Product(prod models.Product) resource.Map {
	out := p.ProductCard(prod)
	out["vendor_id"] = prod.VendorID
	out["short_description"] = prod.ShortDescription
	out["description"] = prod.Description
	out["stock_quantity"] = prod.StockQuantity
	out["is_active"] = prod.IsActive
	out["meta_title"] = prod.MetaTitle
	out["meta_description"] = prod.MetaDescription
	out["meta_keywords"] = prod.MetaKeywords
	out["updated_at"] = prod.UpdatedAt
	out["categories"] = resource.Collection(prod.Categories, CategoryRef)
	out["images"] = resource.Collection(prod.SortedImages(), p.Image)
	out["variations"] = resource.Collection(prod.Variations, func(v models.ProductVariation) resource.Map {
		return resource.Map{
			"id":              v.ID,
			"size":            v.Size,
			"weight":          v.Weight,
			"color":           v.Color,
			"price":           resource.NullMoney(v.Price),
			"effective_price": resource.Money(v.EffectivePrice(prod)),
			"stock":           v.Stock,
		}
	})
	return out
}

// ProductDetail adds the variation choices and related products.
func (p Presenter) ProductDetail(d *services.ProductDetail) resource.Map {
	out := p.Product(d.Product)
	out["colors"] = nonNil(d.Colors)
	out["sizes"] = nonNil(d.Sizes)
	out["weights"] = nonNil(d.Weights)
	out["related"] = resource.Collection(d.Related, p.ProductCard)
	return out
}

// Catalog renders a pipeline result for the shop, search and category views.
func (p Presenter) Catalog(res *services.CatalogResult, wishlist []string) resource.Map {
	out := resource.Map{
		"items":       resource.Collection(res.Items, p.ProductCard),
		"pagination":  res.Page,
		"total_count": res.Page.Total,
		"page":        res.Page.Page,
		"page_size":   res.Page.PageSize,
		"facets": resource.Map{
			"colors":  nonNil(res.Facets.Colors),
			"sizes":   nonNil(res.Facets.Sizes),
			"weights": nonNil(res.Facets.Weights),
		},
		"price_bounds": resource.Map{
			"min": resource.Money(res.Bounds.Min),
			"max": resource.Money(res.Bounds.Max),
		},
		"selected_price": resource.Map{
			"min": resource.Money(res.Selected.Min),
			"max": resource.Money(res.Selected.Max),
		},
		"sort_by":      res.Sort,
		"sort_options": sortOptions(),
		"wishlist_ids": nonNil(wishlist),
		"category":     nil,
	}
	if res.Category != nil {
		out["category"] = CategoryRef(*res.Category)
	}
	return out
}

func sortOptions() []resource.Map {
	out := make([]resource.Map, 0, len(services.SortOptions))
	for _, o := range services.SortOptions {
		out = append(out, resource.Map{"key": o.Key, "label": o.Label})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func CategoryRef(c models.Category) resource.Map {
	return resource.Map{
		"id":   c.ID,
		"name": c.DisplayName(),
		"slug": c.Slug,
	}
}

// CategoryNode renders a node with its subtree.
func (p Presenter) CategoryNode(n services.CategoryNode) resource.Map {
	return resource.Map{
		"id":         n.Category.ID,
		"name":       n.Category.DisplayName(),
		"slug":       n.Category.Slug,
		"full_slug":  n.FullSlug,
		"group_name": n.Category.GroupName,
		"image":      p.url(n.Category.Image),
		"children":   resource.Collection(n.Children, p.CategoryNode),
	}
}

func (p Presenter) MenuEntry(e services.MenuEntry) resource.Map {
	return resource.Map{
		"id":        e.Category.ID,
		"name":      e.Category.DisplayName(),
		"slug":      e.Category.Slug,
		"full_slug": e.FullSlug,
		"image":     p.url(e.Category.Image),
		"groups": resource.Collection(e.Groups, func(g services.MenuGroup) resource.Map {
			return resource.Map{"name": g.Name, "items": resource.Collection(g.Items, p.CategoryNode)}
		}),
	}
}

func DeliveryZone(d models.DeliveryCharge) resource.Map {
	return resource.Map{
		"id":     d.ID,
		"zone":   d.Zone,
		"charge": resource.Money(d.Charge),
	}
}

// Order renders a placed order with its item snapshot as submitted.
func Order(o models.Order) resource.Map {
	items := json.RawMessage(o.ItemsJSON)
	if len(items) == 0 {
		items = json.RawMessage("[]")
	}
	out := resource.Map{
		"id":               o.ID,
		"items":            items,
		"customer_name":    o.CustomerName,
		"customer_phone":   o.CustomerPhone,
		"customer_address": o.CustomerAddress,
		"delivery_zone":    o.DeliveryCharge.Zone,
		"delivery_charge":  resource.Money(o.DeliveryCharge.Charge),
		"total_amount":     o.TotalAmount,
		"status":           o.Status,
		"payment_method":   o.PaymentMethod,
		"created_at":       o.CreatedAt,
	}
	if o.BkashTrxID != nil {
		out["bkash_trx_id"] = *o.BkashTrxID
	}
	return out
}

func User(u models.User) resource.Map {
	return resource.Map{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"role":     u.Role,
	}
}
