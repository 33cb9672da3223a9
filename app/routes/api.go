// Package routes declares every storefront endpoint on the named router.
package routes

import (
	"github.com/shashiranjanraj/storefront/app/controllers"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/rbac"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// Controllers is everything RegisterAPI mounts.
type Controllers struct {
	Auth      *controllers.AuthController
	Catalog   *controllers.CatalogController
	Wishlist  *controllers.WishlistController
	Checkout  *controllers.CheckoutController
	Orders    *controllers.OrderController
	Dashboard *controllers.DashboardController
}

func RegisterAPI(r *router.Router, c Controllers) {
	// Storefront pages that keep their original URLs.
	r.Post("/checkout_ecommerce/", "checkout.place", ctx.Wrap(c.Checkout.Place))
	r.Get("/order_success/", "orders.success", ctx.Wrap(c.Orders.Success))

	api := r.Group("/api")
	api.Post("/login", "auth.login", ctx.Wrap(c.Auth.Login))

	api.Get("/shop", "catalog.shop", ctx.Wrap(c.Catalog.Shop))
	api.Get("/search", "catalog.search", ctx.Wrap(c.Catalog.Search))
	api.Get("/categories", "categories.index", ctx.Wrap(c.Catalog.Categories))
	api.Get("/categories/menu", "categories.menu", ctx.Wrap(c.Catalog.Menu))
	api.Get("/category/*", "categories.show", ctx.Wrap(c.Catalog.Category))
	api.Get("/products/{slug}", "products.show", ctx.Wrap(c.Catalog.Product))

	api.Post("/wishlist-products/", "wishlist.products", ctx.Wrap(c.Wishlist.Products))

	api.Get("/orders/{id}", "orders.show", ctx.Wrap(c.Orders.Show))
	api.Get("/track-order", "orders.track", ctx.Wrap(c.Orders.Track))
	api.Post("/track-order", "orders.track.submit", ctx.Wrap(c.Orders.Track))
	api.Get("/delivery-zones", "orders.zones", ctx.Wrap(c.Orders.Zones))

	protected := api.Group("", middleware.Authenticate)
	protected.Get("/me", "auth.me", ctx.Wrap(c.Auth.Me))

	dashboard := protected.Group("/dashboard", rbac.HasRole(models.RoleVendor))
	dashboard.Get("/products", "dashboard.products.index", ctx.Wrap(c.Dashboard.Index))
	dashboard.Post("/products", "dashboard.products.store", ctx.Wrap(c.Dashboard.Store))
	dashboard.Put("/products/{id}", "dashboard.products.update", ctx.Wrap(c.Dashboard.Update))
	dashboard.Delete("/products/{id}", "dashboard.products.destroy", ctx.Wrap(c.Dashboard.Destroy))
}
