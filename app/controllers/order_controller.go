package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/storefront/app/resources"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/resource"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Success is the confirmation view the checkout redirects to. Without an
// order id it sends the buyer home.
func (c *OrderController) Success(cx *ctx.Context) {
	if cx.Query("orderid") == "" {
		cx.Redirect(http.StatusFound, "/")
		return
	}
	c.show(cx, services.UintOr(cx.Query("orderid"), 0))
}

func (c *OrderController) Show(cx *ctx.Context) {
	c.show(cx, services.UintOr(cx.Param("id"), 0))
}

func (c *OrderController) show(cx *ctx.Context, id uint) {
	order, err := c.orders.Find(cx.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		cx.NotFound("Order not found")
		return
	}
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success(resources.Order(*order))
}

// Track lists the orders for phone_number, read from the form on POST and
// from the query string otherwise.
func (c *OrderController) Track(cx *ctx.Context) {
	phone := cx.Query("phone_number")
	if cx.R.Method == http.MethodPost {
		phone = cx.PostForm("phone_number")
	}

	orders, err := c.orders.Track(cx.Context(), phone)
	switch {
	case errors.Is(err, services.ErrPhoneMissing):
		cx.Error(http.StatusBadRequest, "Please enter a mobile number.")
	case errors.Is(err, services.ErrNotFound):
		cx.NotFound("No orders found for mobile number: " + services.NormalizePhone(phone))
	case err != nil:
		fail(cx, err)
	default:
		cx.Success(resource.Collection(orders, resources.Order))
	}
}

func (c *OrderController) Zones(cx *ctx.Context) {
	zones, err := c.orders.Zones(cx.Context())
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success(resource.Collection(zones, resources.DeliveryZone))
}
