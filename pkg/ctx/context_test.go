package ctx_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	appctx "github.com/shashiranjanraj/storefront/pkg/ctx"
)

func TestWrapAndSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.Success(map[string]any{"ok": true})
	})(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"data":{"ok":true}`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestQueryArray(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/shop?color=Red&color=Blue&page=2", nil)
	appctx.Wrap(func(c *appctx.Context) {
		colors := c.QueryArray("color")
		if len(colors) != 2 || colors[0] != "Red" || colors[1] != "Blue" {
			t.Errorf("unexpected colors %v", colors)
		}
		if c.DefaultQuery("sort_by", "-created_at") != "-created_at" {
			t.Error("expected default sort")
		}
		if c.Query("page") != "2" {
			t.Errorf("expected page 2, got %q", c.Query("page"))
		}
	})(rec, req)
}

func TestPostFormAndContentType(t *testing.T) {
	form := url.Values{"delivery_zone": {"Dhaka"}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")

	appctx.Wrap(func(c *appctx.Context) {
		if c.ContentType() != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type %q", c.ContentType())
		}
		if c.PostForm("delivery_zone") != "Dhaka" {
			t.Errorf("unexpected zone %q", c.PostForm("delivery_zone"))
		}
		if !c.HasPostForm("delivery_zone") || c.HasPostForm("cart_items") {
			t.Error("HasPostForm mismatch")
		}
	})(rec, req)
}

func TestBindJSONInvalid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":""}`))
	req.Header.Set("Content-Type", "application/json")

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Username string `json:"username" validate:"required"`
		}
		if c.BindJSON(&input) {
			t.Error("expected BindJSON to fail")
		}
	})(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestBindJSONMalformed(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":`))

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Username string `json:"username"`
		}
		c.BindJSON(&input)
	})(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCookieAndRedirect(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "wishlist_ids", Value: "1,2"})

	appctx.Wrap(func(c *appctx.Context) {
		if c.Cookie("wishlist_ids") != "1,2" {
			t.Errorf("unexpected cookie %q", c.Cookie("wishlist_ids"))
		}
		if c.Cookie("missing") != "" {
			t.Error("expected empty value for a missing cookie")
		}
		c.Redirect(http.StatusSeeOther, "/order_success/?orderid=5")
	})(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/order_success/?orderid=5" {
		t.Errorf("unexpected redirect %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestClientIP(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")

	appctx.Wrap(func(c *appctx.Context) {
		if ip := c.ClientIP(); ip != "1.2.3.4" {
			t.Errorf("expected 1.2.3.4, got %s", ip)
		}
	})(rec, req)
}
