package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

// CheckoutError is a rejected checkout. Message is safe to show the buyer.
type CheckoutError struct {
	Reason  string
	Message string
}

func (e *CheckoutError) Error() string { return e.Message }

// ValidationErrors carries field errors for the customer contact fields.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string { return "validation failed" }

var (
	errCartMissing = &CheckoutError{Reason: "cart_missing", Message: "Cart items are missing"}
	errCartJSON    = &CheckoutError{Reason: "cart_json", Message: "Invalid JSON data"}
	errCartFormat  = &CheckoutError{Reason: "cart_format", Message: "Invalid cart items format"}
	errItemFormat  = &CheckoutError{Reason: "item_format", Message: "Invalid item format in cart"}
	errZoneMissing = &CheckoutError{Reason: "zone_missing", Message: "Delivery zone is missing"}
	errZoneUnknown = &CheckoutError{Reason: "zone_unknown", Message: "Invalid delivery zone"}
)

const rejectCustomerFields = "customer_fields"

// CheckoutRequest is the submitted checkout form. CartItems is the raw JSON
// cart as posted.
type CheckoutRequest struct {
	CartItems       string
	DeliveryZone    string
	CustomerName    string `json:"customer_name" validate:"required,max=255"`
	CustomerPhone   string `json:"customer_phone_number" validate:"required,phone"`
	CustomerAddress string `json:"customer_address" validate:"required,max=1000"`
	IdempotencyKey  string `json:"idempotency_key" validate:"nullable,max=100"`
}

type CheckoutResult struct {
	OrderID uint
	Total   int64
	// Replayed is set when the idempotency key matched an existing order.
	Replayed bool
}

// EventOrderPlaced fires after a new order is persisted, with an
// OrderPlaced payload. Replays do not fire it.
const EventOrderPlaced = "order.placed"

type OrderPlaced struct {
	OrderID uint
	Total   int64
	Zone    string
	Phone   string
}

type CheckoutService struct {
	store  Store
	events *event.Bus
}

func NewCheckoutService(store Store) *CheckoutService {
	return &CheckoutService{store: store}
}

// WithEvents makes Place publish EventOrderPlaced on bus.
func (s *CheckoutService) WithEvents(bus *event.Bus) *CheckoutService {
	s.events = bus
	return s
}

// NormalizePhone trims a phone number and removes inner spaces.
func NormalizePhone(phone string) string {
	return strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
}

// ParseCart validates the raw cart and returns its compacted form with the
// item subtotal. Every item must be an object with numeric price and
// quantity; one bad item rejects the whole cart.
func ParseCart(raw string) (snapshot []byte, subtotal decimal.Decimal, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, decimal.Zero, errCartMissing
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, decimal.Zero, errCartJSON
	}
	if dec.More() {
		return nil, decimal.Zero, errCartJSON
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, decimal.Zero, errCartFormat
	}
	if len(items) == 0 {
		return nil, decimal.Zero, errCartMissing
	}

	subtotal = decimal.Zero
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			return nil, decimal.Zero, errItemFormat
		}
		price, ok := jsonDecimal(obj["price"])
		if !ok || price.IsNegative() {
			return nil, decimal.Zero, errItemFormat
		}
		qty, ok := jsonDecimal(obj["quantity"])
		if !ok || !qty.IsInteger() || !qty.IsPositive() {
			return nil, decimal.Zero, errItemFormat
		}
		subtotal = subtotal.Add(price.Mul(qty))
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err != nil {
		return nil, decimal.Zero, errCartJSON
	}
	return buf.Bytes(), subtotal, nil
}

func jsonDecimal(v any) (decimal.Decimal, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(n.String())
	return d, err == nil
}

// OrderTotal rounds subtotal plus charge to whole currency units, half away
// from zero.
func OrderTotal(subtotal, charge decimal.Decimal) int64 {
	return subtotal.Add(charge).Round(0).IntPart()
}

// Place validates and persists an order. A request carrying a known
// idempotency key returns the existing order instead of a new one.
func (s *CheckoutService) Place(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	res, err := s.place(ctx, req)
	if err != nil {
		var ce *CheckoutError
		var ve ValidationErrors
		switch {
		case errors.As(err, &ce):
			metrics.CheckoutRejected.WithLabelValues(ce.Reason).Inc()
		case errors.As(err, &ve):
			metrics.CheckoutRejected.WithLabelValues(rejectCustomerFields).Inc()
		}
		return nil, err
	}
	if !res.Replayed {
		metrics.OrdersPlaced.Inc()
		logger.WithCtx(ctx).Info("order placed", "order_id", res.OrderID, "total", res.Total)
		s.events.FireAsync(ctx, EventOrderPlaced, OrderPlaced{
			OrderID: res.OrderID,
			Total:   res.Total,
			Zone:    strings.TrimSpace(req.DeliveryZone),
			Phone:   NormalizePhone(req.CustomerPhone),
		})
	}
	return res, nil
}

func (s *CheckoutService) place(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	snapshot, subtotal, err := ParseCart(req.CartItems)
	if err != nil {
		return nil, err
	}

	zone := strings.TrimSpace(req.DeliveryZone)
	if zone == "" {
		return nil, errZoneMissing
	}

	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = NormalizePhone(req.CustomerPhone)
	req.CustomerAddress = strings.TrimSpace(req.CustomerAddress)
	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)

	key := req.IdempotencyKey
	if key != "" {
		if existing, err := s.store.Orders().FindByIdempotencyKey(ctx, key); err == nil {
			return &CheckoutResult{OrderID: existing.ID, Total: existing.TotalAmount, Replayed: true}, nil
		} else if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("lookup idempotency key: %w", err)
		}
	}

	var result CheckoutResult
	err = s.store.Transaction(ctx, func(tx Store) error {
		charge, err := tx.DeliveryCharges().FindByZone(ctx, zone)
		if errors.Is(err, ErrNotFound) {
			return errZoneUnknown
		}
		if err != nil {
			return fmt.Errorf("lookup delivery zone: %w", err)
		}

		if errs := validate.Struct(req); validate.HasErrors(errs) {
			return ValidationErrors(errs)
		}

		order := &models.Order{
			ItemsJSON:        datatypes.JSON(snapshot),
			CustomerName:     req.CustomerName,
			CustomerPhone:    req.CustomerPhone,
			CustomerAddress:  req.CustomerAddress,
			DeliveryChargeID: charge.ID,
			TotalAmount:      OrderTotal(subtotal, charge.Charge),
			Status:           models.OrderProcessing,
			PaymentMethod:    models.DefaultPaymentMethod,
		}
		if key != "" {
			order.IdempotencyKey = &key
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		result = CheckoutResult{OrderID: order.ID, Total: order.TotalAmount}
		return nil
	})
	if err != nil {
		// A concurrent request with the same key may have won the unique index.
		if key != "" && !isCheckoutRejection(err) {
			if existing, lookupErr := s.store.Orders().FindByIdempotencyKey(ctx, key); lookupErr == nil {
				return &CheckoutResult{OrderID: existing.ID, Total: existing.TotalAmount, Replayed: true}, nil
			}
		}
		return nil, err
	}
	return &result, nil
}

func isCheckoutRejection(err error) bool {
	var ce *CheckoutError
	var ve ValidationErrors
	return errors.As(err, &ce) || errors.As(err, &ve)
}
