// Package kernel assembles the storefront: services from infrastructure
// handles, then the HTTP handler with its global middleware and routes.
package kernel

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shashiranjanraj/storefront/app/controllers"
	appgraphql "github.com/shashiranjanraj/storefront/app/graphql"
	"github.com/shashiranjanraj/storefront/app/routes"
	"github.com/shashiranjanraj/storefront/pkg/graphql"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/router"
	"github.com/shashiranjanraj/storefront/pkg/storage"
)

// Options tune the HTTP kernel. Zero values fall back to the defaults.
type Options struct {
	ShopPageSize       int
	CategoryPageSize   int
	DashboardPageSize  int
	RateLimitPerMinute int
	// MediaPrefix is where the local disk is served, e.g. "/media".
	MediaPrefix string
}

func (o Options) withDefaults() Options {
	if o.ShopPageSize <= 0 {
		o.ShopPageSize = 50
	}
	if o.CategoryPageSize <= 0 {
		o.CategoryPageSize = 50
	}
	if o.DashboardPageSize <= 0 {
		o.DashboardPageSize = 15
	}
	if o.RateLimitPerMinute <= 0 {
		o.RateLimitPerMinute = 200
	}
	return o
}

type HTTP struct {
	router  *router.Router
	limiter *middleware.RateLimiter
}

// NewHTTP builds the router. Global middleware, outermost first:
//
//  1. Prometheus metrics, so latency covers everything below
//  2. Recovery
//  3. Request ID, injected before anything logs
//  4. Logger
//  5. CORS
//  6. Rate limiter
func NewHTTP(s *Services, disks *storage.Manager, opts Options) (*HTTP, error) {
	opts = opts.withDefaults()
	limiter := middleware.NewRateLimiter(opts.RateLimitPerMinute, time.Minute)

	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(limiter.Middleware)

	r.Handle("/metrics", "metrics", metrics.Handler())
	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})

	schema, err := appgraphql.NewSchema(appgraphql.Resolvers{
		Catalog:    s.Catalog,
		Categories: s.Categories,
		Orders:     s.Orders,
		Present:    s.Present,
		PageSize:   opts.ShopPageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("kernel: graphql schema: %w", err)
	}
	r.Handle("/graphql", "graphql", graphql.Handler(schema))

	if disks != nil && opts.MediaPrefix != "" {
		if local, ok := disks.Default().(*storage.Local); ok {
			prefix := "/" + strings.Trim(opts.MediaPrefix, "/")
			r.Handle(prefix+"/*", "media", http.StripPrefix(prefix, http.FileServer(http.Dir(local.Root()))))
		}
	}

	routes.RegisterAPI(r, routes.Controllers{
		Auth:      controllers.NewAuthController(s.Auth),
		Catalog:   controllers.NewCatalogController(s.Catalog, s.Categories, s.Present, opts.ShopPageSize, opts.CategoryPageSize),
		Wishlist:  controllers.NewWishlistController(s.Wishlist),
		Checkout:  controllers.NewCheckoutController(s.Checkout),
		Orders:    controllers.NewOrderController(s.Orders),
		Dashboard: controllers.NewDashboardController(s.Dashboard, s.Present, opts.DashboardPageSize),
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w)
	})

	return &HTTP{router: r, limiter: limiter}, nil
}

func (k *HTTP) Handler() http.Handler { return k.router.Handler() }

func (k *HTTP) Routes() []router.RouteInfo { return k.router.Routes() }

// Limiter is exposed so the server can sweep expired buckets.
func (k *HTTP) Limiter() *middleware.RateLimiter { return k.limiter }
