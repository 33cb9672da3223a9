package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories/memstore"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/pkg/auth"
)

const placeholder = "/static/icons/default-image.webp"

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type card struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	DisplayPrice float64 `json:"display_price"`
	Image        string  `json:"image"`
}

type catalogPage struct {
	Items      []card `json:"items"`
	TotalCount int    `json:"total_count"`
	Page       int    `json:"page"`
	Facets     struct {
		Colors []string `json:"colors"`
		Sizes  []string `json:"sizes"`
	} `json:"facets"`
	PriceBounds struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"price_bounds"`
	SortBy      string   `json:"sort_by"`
	WishlistIDs []string `json:"wishlist_ids"`
	Category    *struct {
		Slug string `json:"slug"`
	} `json:"category"`
}

type fixture struct {
	store   *memstore.Store
	handler http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	s := kernel.NewServices(kernel.Deps{Store: store, CacheTTL: time.Minute, Placeholder: placeholder})
	k, err := kernel.NewHTTP(s, nil, kernel.Options{RateLimitPerMinute: 10000})
	require.NoError(t, err)
	return &fixture{store: store, handler: k.Handler()}
}

// seedCatalog builds Clothing > Shirts with two shirts in it, an
// uncategorized mug and an inactive product.
func (f *fixture) seedCatalog(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	cats := services.NewCategoryService(f.store, nil, time.Minute)
	clothing := &models.Category{Name: strPtr("Clothing")}
	require.NoError(t, cats.Save(ctx, clothing))
	shirts := &models.Category{Name: strPtr("Shirts"), ParentID: &clothing.ID, GroupName: "Tops"}
	require.NoError(t, cats.Save(ctx, shirts))

	products := services.NewProductService(f.store, nil)
	inputs := []services.ProductInput{
		{
			Name: "Red Shirt", ProductType: models.ProductVariable, RegularPrice: dec("60"),
			IsActive: true, CategoryIDs: []uint{shirts.ID},
			Variations: []services.VariationInput{{Color: "Red", Size: "M", Stock: 3}},
		},
		{
			Name: "Blue Shirt", ProductType: models.ProductVariable, RegularPrice: dec("40"),
			SalePrice: decimal.NewNullDecimal(dec("35")), IsActive: true, CategoryIDs: []uint{shirts.ID},
			Description: "Soft cotton weave",
			Variations:  []services.VariationInput{{Color: "Blue", Size: "L", Stock: 2}},
		},
		{Name: "Coffee Mug", ProductType: models.ProductSimple, RegularPrice: dec("12"), IsActive: true},
		{Name: "Hidden Lamp", ProductType: models.ProductSimple, RegularPrice: dec("5")},
	}
	for _, in := range inputs {
		_, err := products.Save(ctx, in)
		require.NoError(t, err)
	}
}

func (f *fixture) seedZone(t *testing.T, zone, charge string) {
	t.Helper()
	require.NoError(t, f.store.DeliveryCharges().Save(context.Background(), &models.DeliveryCharge{Zone: zone, Charge: dec(charge)}))
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) get(target string) *httptest.ResponseRecorder {
	return f.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}

func names(items []card) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

func TestShopFiltersSortsAndReportsFacets(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	req := httptest.NewRequest(http.MethodGet, "/api/shop?sort_by=name&color=Red&color=Blue", nil)
	req.AddCookie(&http.Cookie{Name: "wishlist_ids", Value: "1,2"})
	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var page catalogPage
	decodeEnvelope(t, rec, &page)
	assert.Equal(t, []string{"Blue Shirt", "Red Shirt"}, names(page.Items))
	assert.InDelta(t, 35, page.Items[0].DisplayPrice, 0.001)
	assert.Equal(t, placeholder, page.Items[0].Image)
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, []string{"Blue", "Red"}, page.Facets.Colors)
	assert.Equal(t, []string{"L", "M"}, page.Facets.Sizes)
	assert.InDelta(t, 12, page.PriceBounds.Min, 0.001)
	assert.InDelta(t, 160, page.PriceBounds.Max, 0.001)
	assert.Equal(t, "name", page.SortBy)
	assert.Equal(t, []string{"1", "2"}, page.WishlistIDs)
	assert.Nil(t, page.Category)
}

func TestShopIgnoresMalformedParameters(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	rec := f.get("/api/shop?min_price=abc&page=zz&sort_by=bogus")
	require.Equal(t, http.StatusOK, rec.Code)

	var page catalogPage
	decodeEnvelope(t, rec, &page)
	assert.Equal(t, "-created_at", page.SortBy)
	assert.Equal(t, []string{"Coffee Mug", "Blue Shirt", "Red Shirt"}, names(page.Items))
	assert.Empty(t, page.WishlistIDs)
}

func TestSearchMatchesDescription(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	var page catalogPage
	decodeEnvelope(t, f.get("/api/search?search=COTTON"), &page)
	assert.Equal(t, []string{"Blue Shirt"}, names(page.Items))
}

func TestCategoryViewIncludesDescendants(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	var page catalogPage
	rec := f.get("/api/category/clothing/?sort_by=regular_price")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeEnvelope(t, rec, &page)
	assert.Equal(t, []string{"Blue Shirt", "Red Shirt"}, names(page.Items))
	require.NotNil(t, page.Category)
	assert.Equal(t, "clothing", page.Category.Slug)
	assert.InDelta(t, 40, page.PriceBounds.Min, 0.001)
	assert.InDelta(t, 60, page.PriceBounds.Max, 0.001)

	decodeEnvelope(t, f.get("/api/category/clothing/shirts"), &page)
	require.NotNil(t, page.Category)
	assert.Equal(t, "shirts", page.Category.Slug)
	assert.Len(t, page.Items, 2)

	rec = f.get("/api/category/clothing/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoriesAndMenu(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	var forest []struct {
		Name     string `json:"name"`
		FullSlug string `json:"full_slug"`
		Children []struct {
			FullSlug string `json:"full_slug"`
		} `json:"children"`
	}
	decodeEnvelope(t, f.get("/api/categories"), &forest)
	require.Len(t, forest, 1)
	assert.Equal(t, "Clothing", forest[0].Name)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, "clothing/shirts", forest[0].Children[0].FullSlug)

	var menu []struct {
		Groups []struct {
			Name  string `json:"name"`
			Items []struct {
				FullSlug string `json:"full_slug"`
			} `json:"items"`
		} `json:"groups"`
	}
	decodeEnvelope(t, f.get("/api/categories/menu"), &menu)
	require.Len(t, menu, 1)
	require.Len(t, menu[0].Groups, 1)
	assert.Equal(t, "Tops", menu[0].Groups[0].Name)
	assert.Equal(t, "clothing/shirts", menu[0].Groups[0].Items[0].FullSlug)
}

func TestProductShow(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	var detail struct {
		Name    string   `json:"name"`
		Colors  []string `json:"colors"`
		Related []card   `json:"related"`
	}
	rec := f.get("/api/products/red-shirt")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeEnvelope(t, rec, &detail)
	assert.Equal(t, "Red Shirt", detail.Name)
	assert.Equal(t, []string{"Red"}, detail.Colors)
	assert.Equal(t, []string{"Blue Shirt"}, names(detail.Related))

	assert.Equal(t, http.StatusNotFound, f.get("/api/products/missing").Code)
	assert.Equal(t, http.StatusNotFound, f.get("/api/products/hidden-lamp").Code)
}

func TestWishlistProducts(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	plain := httptest.NewRequest(http.MethodPost, "/api/wishlist-products/", strings.NewReader(`{}`))
	plain.Header.Set("Content-Type", "text/plain")
	rec := f.do(plain)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = f.do(jsonRequest(http.MethodPost, "/api/wishlist-products/", `{"product_ids":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON in request body.", decodeEnvelope(t, rec, nil).Message)

	rec = f.do(jsonRequest(http.MethodPost, "/api/wishlist-products/", `{"product_ids": "1"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "product_ids must be a list.", decodeEnvelope(t, rec, nil).Message)

	rec = f.do(jsonRequest(http.MethodPost, "/api/wishlist-products/", `{"product_ids": ["2", 1, "x", 4, {}]}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var items []services.WishlistItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Blue Shirt", items[0].Name)
	assert.Equal(t, "2", items[0].ID)
	require.NotNil(t, items[0].SalePrice)
	assert.InDelta(t, 35, *items[0].SalePrice, 0.001)
	assert.Equal(t, "Red Shirt", items[1].Name)
	assert.Equal(t, placeholder, items[1].Image)

	rec = f.do(jsonRequest(http.MethodPost, "/api/wishlist-products/", `{}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func checkoutForm(cart, zone, phone string) url.Values {
	return url.Values{
		"cart_items":            {cart},
		"delivery_zone":         {zone},
		"customer_name":         {"Rahim"},
		"customer_phone_number": {phone},
		"customer_address":      {"House 1, Road 2"},
	}
}

const cart = `[{"id": 1, "name": "Tee", "price": 100, "quantity": 2}]`

func TestCheckoutPlacesOrderAndRedirects(t *testing.T) {
	f := newFixture(t)
	f.seedZone(t, "Dhaka", "60")

	req := formRequest("/checkout_ecommerce/", checkoutForm(cart, "Dhaka", "01711 000000"))
	req.Header.Set("Idempotency-Key", "abc-123")
	rec := f.do(req)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	location := rec.Header().Get("Location")
	assert.Equal(t, "/order_success/?orderid=1", location)

	replay := formRequest("/checkout_ecommerce/", checkoutForm(cart, "Dhaka", "01711 000000"))
	replay.Header.Set("Idempotency-Key", "abc-123")
	rec = f.do(replay)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, location, rec.Header().Get("Location"))

	var order struct {
		ID           uint    `json:"id"`
		DeliveryZone string  `json:"delivery_zone"`
		TotalAmount  float64 `json:"total_amount"`
		Status       string  `json:"status"`
		Items        []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	rec = f.get(location)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeEnvelope(t, rec, &order)
	assert.Equal(t, uint(1), order.ID)
	assert.Equal(t, "Dhaka", order.DeliveryZone)
	assert.InDelta(t, 260, order.TotalAmount, 0.001)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Tee", order.Items[0].Name)

	var tracked []json.RawMessage
	decodeEnvelope(t, f.get("/api/track-order?phone_number=01711000000"), &tracked)
	assert.Len(t, tracked, 1)
}

func TestCheckoutRejections(t *testing.T) {
	f := newFixture(t)
	f.seedZone(t, "Dhaka", "60")

	rec := f.do(formRequest("/checkout_ecommerce/", checkoutForm("", "Dhaka", "01711000000")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cart items are missing", decodeEnvelope(t, rec, nil).Message)

	rec = f.do(formRequest("/checkout_ecommerce/", checkoutForm(cart, "Mars", "01711000000")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid delivery zone", decodeEnvelope(t, rec, nil).Message)

	rec = f.do(formRequest("/checkout_ecommerce/", checkoutForm(cart, "Dhaka", "not a phone")))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec, nil).Errors, "customer_phone_number")
}

func TestOrderLookups(t *testing.T) {
	f := newFixture(t)
	f.seedZone(t, "Inside Dhaka", "60")
	f.seedZone(t, "Outside Dhaka", "120")

	rec := f.get("/order_success/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = f.get("/api/orders/99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", decodeEnvelope(t, rec, nil).Message)

	rec = f.get("/api/track-order")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please enter a mobile number.", decodeEnvelope(t, rec, nil).Message)

	rec = f.do(formRequest("/api/track-order", url.Values{"phone_number": {"01800 000000"}}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No orders found for mobile number: 01800000000", decodeEnvelope(t, rec, nil).Message)

	var zones []struct {
		Zone   string  `json:"zone"`
		Charge float64 `json:"charge"`
	}
	decodeEnvelope(t, f.get("/api/delivery-zones"), &zones)
	require.Len(t, zones, 2)
	assert.Equal(t, "Inside Dhaka", zones[0].Zone)
	assert.InDelta(t, 60, zones[0].Charge, 0.001)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	_, err := services.NewAuthService(f.store).Register(context.Background(), "vendor", "v@example.com", "secret", models.RoleVendor)
	require.NoError(t, err)

	rec := f.do(jsonRequest(http.MethodPost, "/api/login", `{"username": "vendor", "password": "wrong"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decodeEnvelope(t, rec, nil).Message)

	rec = f.do(jsonRequest(http.MethodPost, "/api/login", `{"username": ""}`))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var out struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	rec = f.do(jsonRequest(http.MethodPost, "/api/login", `{"username": "vendor", "password": "secret"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeEnvelope(t, rec, &out)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, models.RoleVendor, out.User.Role)

	me := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	me.Header.Set("Authorization", "Bearer "+out.Token)
	assert.Equal(t, http.StatusOK, f.do(me).Code)
}

func withToken(t *testing.T, req *http.Request, id uint, role string) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken(id, "user", role)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestDashboardProducts(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)
	ctx := context.Background()

	otherVendor := uint(42)
	foreign, err := services.NewProductService(f.store, nil).Save(ctx, services.ProductInput{
		VendorID: &otherVendor, Name: "Foreign Chair", ProductType: models.ProductSimple,
		RegularPrice: dec("80"), IsActive: true,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, f.get("/api/dashboard/products").Code)

	customer := withToken(t, httptest.NewRequest(http.MethodGet, "/api/dashboard/products", nil), 3, models.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, f.do(customer).Code)

	const vendor = uint(7)
	rec := f.do(withToken(t, jsonRequest(http.MethodPost, "/api/dashboard/products",
		`{"name": "Desk Lamp", "product_type": "simple", "regular_price": "25.50", "stock_quantity": 3}`), vendor, models.RoleVendor))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID       uint   `json:"id"`
		Slug     string `json:"slug"`
		IsActive bool   `json:"is_active"`
	}
	decodeEnvelope(t, rec, &created)
	assert.Equal(t, "desk-lamp", created.Slug)
	assert.True(t, created.IsActive)

	rec = f.do(withToken(t, jsonRequest(http.MethodPost, "/api/dashboard/products",
		`{"name": "", "product_type": "bundle"}`), vendor, models.RoleVendor))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	assert.Contains(t, env.Errors, "name")
	assert.Contains(t, env.Errors, "product_type")

	var list struct {
		Items []card `json:"items"`
	}
	rec = f.do(withToken(t, httptest.NewRequest(http.MethodGet, "/api/dashboard/products", nil), vendor, models.RoleVendor))
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &list)
	assert.Equal(t, []string{"Desk Lamp"}, names(list.Items))

	target := "/api/dashboard/products/" + strconv.FormatUint(uint64(foreign.ID), 10)
	rec = f.do(withToken(t, jsonRequest(http.MethodPut, target,
		`{"name": "Mine Now", "product_type": "simple", "regular_price": 1}`), vendor, models.RoleVendor))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	own := "/api/dashboard/products/" + strconv.FormatUint(uint64(created.ID), 10)
	rec = f.do(withToken(t, jsonRequest(http.MethodPut, own,
		`{"name": "Desk Lamp XL", "product_type": "simple", "regular_price": 30, "is_active": false}`), vendor, models.RoleVendor))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated struct {
		Name     string `json:"name"`
		IsActive bool   `json:"is_active"`
	}
	decodeEnvelope(t, rec, &updated)
	assert.Equal(t, "Desk Lamp XL", updated.Name)
	assert.False(t, updated.IsActive)

	rec = f.do(withToken(t, httptest.NewRequest(http.MethodDelete, own, nil), vendor, models.RoleVendor))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(withToken(t, httptest.NewRequest(http.MethodGet, "/api/dashboard/products", nil), vendor, models.RoleVendor))
	decodeEnvelope(t, rec, &list)
	assert.Empty(t, list.Items)
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusOK, f.get("/health").Code)
	assert.Equal(t, http.StatusOK, f.get("/metrics").Code)
	assert.Equal(t, http.StatusNotFound, f.get("/api/nowhere").Code)
}
