package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/storefront/app/models"
)

// ErrPhoneMissing is returned by Track for a blank phone number.
var ErrPhoneMissing = errors.New("phone number is required")

type OrderService struct {
	store Store
}

func NewOrderService(store Store) *OrderService {
	return &OrderService{store: store}
}

func (s *OrderService) Find(ctx context.Context, id uint) (*models.Order, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: order", ErrNotFound)
	}
	return s.store.Orders().FindByID(ctx, id)
}

// Track returns the orders placed with phone, newest first.
func (s *OrderService) Track(ctx context.Context, phone string) ([]models.Order, error) {
	phone = NormalizePhone(phone)
	if phone == "" {
		return nil, ErrPhoneMissing
	}

	orders, err := s.store.Orders().ByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("orders by phone: %w", err)
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: orders for %s", ErrNotFound, phone)
	}
	return orders, nil
}

// Zones lists the delivery zones offered at checkout.
func (s *OrderService) Zones(ctx context.Context) ([]models.DeliveryCharge, error) {
	return s.store.DeliveryCharges().All(ctx)
}
