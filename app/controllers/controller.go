// Package controllers holds the HTTP handlers of the storefront API. Each
// controller wraps one or more services and renders through app/resources.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// fail maps a service error onto the response envelope. Anything the
// services did not classify is logged and reported as a bare 500.
func fail(cx *ctx.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		cx.NotFound()
	case errors.Is(err, services.ErrForbidden):
		cx.Error(http.StatusForbidden, "Forbidden")
	case errors.Is(err, services.ErrInvalidInput):
		cx.Error(http.StatusBadRequest, err.Error())
	default:
		logger.WithCtx(cx.Context()).Error("request failed",
			"method", cx.R.Method,
			"path", cx.R.URL.Path,
			"error", err,
		)
		cx.Error(http.StatusInternalServerError, "Internal server error")
	}
}
