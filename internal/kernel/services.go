package kernel

import (
	"time"

	"github.com/shashiranjanraj/storefront/app/resources"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/storage"
)

// Deps are the infrastructure handles the service layer is built on.
type Deps struct {
	Store       services.Store
	Cache       services.Cache
	Disks       *storage.Manager
	CacheTTL    time.Duration
	Placeholder string
	// Events receives domain events; nil builds a synchronous bus.
	Events *event.Bus
}

// Services is the wired service layer, shared by the HTTP kernel and the
// CLI commands.
type Services struct {
	Auth       *services.AuthService
	Categories *services.CategoryService
	Catalog    *services.CatalogService
	Products   *services.ProductService
	Dashboard  *services.DashboardService
	Wishlist   *services.WishlistService
	Checkout   *services.CheckoutService
	Orders     *services.OrderService
	CatalogIO  *services.CatalogIOService
	Present    resources.Presenter
	Events     *event.Bus
}

func NewServices(d Deps) *Services {
	var media services.MediaURL
	var files services.FileChecker
	if d.Disks != nil {
		disk := d.Disks.Default()
		media = disk.URL
		files = disk
	}

	bus := d.Events
	if bus == nil {
		bus = event.New(nil)
	}
	registerListeners(bus)

	s := &Services{
		Auth:       services.NewAuthService(d.Store),
		Categories: services.NewCategoryService(d.Store, d.Cache, d.CacheTTL),
		Products:   services.NewProductService(d.Store, d.Cache),
		Wishlist:   services.NewWishlistService(d.Store, media, d.Placeholder),
		Checkout:   services.NewCheckoutService(d.Store).WithEvents(bus),
		Orders:     services.NewOrderService(d.Store),
		Present:    resources.Presenter{Media: media, Placeholder: d.Placeholder},
		Events:     bus,
	}
	s.Catalog = services.NewCatalogService(d.Store, s.Categories, d.Cache, d.CacheTTL)
	s.Dashboard = services.NewDashboardService(d.Store, s.Products)
	s.CatalogIO = services.NewCatalogIOService(d.Store, files, s.Catalog)
	return s
}
