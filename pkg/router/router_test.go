package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestGroupRoutesAndURL(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	api.Get("/products/{slug}", "products.show", ok)
	api.Group("dashboard").Delete("/products/{id}", "dashboard.products.delete", ok)
	r.Get("/order_success/", "orders.success", ok)

	u, err := r.URL("products.show", map[string]string{"slug": "red-shirt"})
	require.NoError(t, err)
	assert.Equal(t, "/api/products/red-shirt", u)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err)

	path, found := r.Path("orders.success")
	require.True(t, found)
	assert.Equal(t, "/order_success/", path)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, router.RouteInfo{Method: http.MethodDelete, Path: "/api/dashboard/products/{id}", Name: "dashboard.products.delete"}, routes[0])

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/dashboard/products/3", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGroupMiddlewareOrder(t *testing.T) {
	var trail []string
	mw := func(tag string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trail = append(trail, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := router.New()
	g := r.Group("/api", mw("group"))
	g.Get("/ping", "ping", func(w http.ResponseWriter, _ *http.Request) {
		trail = append(trail, "handler")
	}, mw("route"))

	r.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, []string{"group", "route", "handler"}, trail)
}
