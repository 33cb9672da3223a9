package controllers

import (
	"strings"

	"github.com/shashiranjanraj/storefront/app/resources"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/resource"
)

const wishlistCookie = "wishlist_ids"

// CatalogController serves the public browsing views.
type CatalogController struct {
	catalog          *services.CatalogService
	categories       *services.CategoryService
	present          resources.Presenter
	shopPageSize     int
	categoryPageSize int
}

func NewCatalogController(
	catalog *services.CatalogService,
	categories *services.CategoryService,
	present resources.Presenter,
	shopPageSize, categoryPageSize int,
) *CatalogController {
	return &CatalogController{
		catalog:          catalog,
		categories:       categories,
		present:          present,
		shopPageSize:     shopPageSize,
		categoryPageSize: categoryPageSize,
	}
}

func (c *CatalogController) Shop(cx *ctx.Context) { c.list(cx, services.ViewShop) }

func (c *CatalogController) Search(cx *ctx.Context) { c.list(cx, services.ViewSearch) }

func (c *CatalogController) list(cx *ctx.Context, view services.View) {
	req := services.ParseCatalogQuery(cx.Queries(), view, c.shopPageSize)
	res, err := c.catalog.Query(cx.Context(), req)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success(c.present.Catalog(res, services.ParseWishlistCookie(cx.Cookie(wishlistCookie))))
}

// Category serves /api/category/<full slug path>.
func (c *CatalogController) Category(cx *ctx.Context) {
	path := strings.Trim(cx.Param("*"), "/")
	if path == "" {
		cx.NotFound("Category not found")
		return
	}

	req := services.ParseCatalogQuery(cx.Queries(), services.ViewCategory, c.categoryPageSize)
	res, err := c.catalog.CategoryDetail(cx.Context(), path, req)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success(c.present.Catalog(res, services.ParseWishlistCookie(cx.Cookie(wishlistCookie))))
}

func (c *CatalogController) Categories(cx *ctx.Context) {
	forest, err := c.categories.Forest(cx.Context())
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success(resource.Collection(forest, c.present.CategoryNode))
}

func (c *CatalogController) Menu(cx *ctx.Context) {
	menu, err := c.categories.Menu(cx.Context())
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success(resource.Collection(menu, c.present.MenuEntry))
}

func (c *CatalogController) Product(cx *ctx.Context) {
	detail, err := c.catalog.ProductDetail(cx.Context(), cx.Param("slug"))
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success(c.present.ProductDetail(detail))
}
