package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type WishlistController struct {
	wishlist *services.WishlistService
}

func NewWishlistController(wishlist *services.WishlistService) *WishlistController {
	return &WishlistController{wishlist: wishlist}
}

// Products resolves {"product_ids": [...]} into product summaries. The
// response is a bare JSON array, not the envelope.
func (c *WishlistController) Products(cx *ctx.Context) {
	if cx.ContentType() != "application/json" {
		cx.Error(http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var body map[string]any
	if err := bind.Decode(cx.R, &body); err != nil {
		cx.Error(http.StatusBadRequest, "Invalid JSON in request body.")
		return
	}

	var ids []any
	if raw, ok := body["product_ids"]; ok {
		list, isList := raw.([]any)
		if !isList {
			cx.Error(http.StatusBadRequest, "product_ids must be a list.")
			return
		}
		ids = list
	}

	items, err := c.wishlist.Resolve(cx.Context(), ids)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.JSON(http.StatusOK, items)
}
