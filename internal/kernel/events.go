package kernel

import (
	"context"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

func registerListeners(bus *event.Bus) {
	bus.Listen(services.EventOrderPlaced, recordOrder)
}

// recordOrder feeds the revenue counter and writes the order notification
// line picked up by the log sinks.
func recordOrder(ctx context.Context, payload any) {
	o, ok := payload.(services.OrderPlaced)
	if !ok {
		return
	}
	metrics.OrderRevenue.WithLabelValues(o.Zone).Add(float64(o.Total))
	logger.WithCtx(ctx).Info("order notification",
		"order_id", o.OrderID,
		"zone", o.Zone,
		"total", o.Total,
		"phone", o.Phone,
	)
}
