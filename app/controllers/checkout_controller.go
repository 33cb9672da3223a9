package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type CheckoutController struct {
	checkout *services.CheckoutService
}

func NewCheckoutController(checkout *services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

// Place takes the form-encoded checkout and redirects to the order
// confirmation on success.
func (c *CheckoutController) Place(cx *ctx.Context) {
	key := cx.Header("Idempotency-Key")
	if key == "" {
		key = cx.PostForm("idempotency_key")
	}

	res, err := c.checkout.Place(cx.Context(), services.CheckoutRequest{
		CartItems:       cx.PostForm("cart_items"),
		DeliveryZone:    cx.PostForm("delivery_zone"),
		CustomerName:    cx.PostForm("customer_name"),
		CustomerPhone:   cx.PostForm("customer_phone_number"),
		CustomerAddress: cx.PostForm("customer_address"),
		IdempotencyKey:  key,
	})

	var rejected *services.CheckoutError
	var invalid services.ValidationErrors
	switch {
	case err == nil:
		cx.Redirect(http.StatusSeeOther, fmt.Sprintf("/order_success/?orderid=%d", res.OrderID))
	case errors.As(err, &rejected):
		cx.Error(http.StatusBadRequest, rejected.Message)
	case errors.As(err, &invalid):
		cx.ValidationError(invalid)
	default:
		fail(cx, err)
	}
}
