package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	db *gorm.DB
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Omit("DeliveryCharge").Create(o).Error
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).Preload("DeliveryCharge").First(&o, id).Error; err != nil {
		return nil, translate(err, "order")
	}
	return &o, nil
}

func (r *OrderRepository) FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&o).Error; err != nil {
		return nil, translate(err, "order")
	}
	return &o, nil
}

func (r *OrderRepository) ByPhone(ctx context.Context, phone string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("DeliveryCharge").
		Where("customer_phone = ?", phone).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

// DeliveryChargeRepository handles database operations for DeliveryCharge.
type DeliveryChargeRepository struct {
	db *gorm.DB
}

func (r *DeliveryChargeRepository) All(ctx context.Context) ([]models.DeliveryCharge, error) {
	var zones []models.DeliveryCharge
	err := r.db.WithContext(ctx).Order("zone").Find(&zones).Error
	return zones, err
}

func (r *DeliveryChargeRepository) FindByZone(ctx context.Context, zone string) (*models.DeliveryCharge, error) {
	var d models.DeliveryCharge
	if err := r.db.WithContext(ctx).Where("zone = ?", zone).First(&d).Error; err != nil {
		return nil, translate(err, "delivery zone")
	}
	return &d, nil
}

func (r *DeliveryChargeRepository) Save(ctx context.Context, d *models.DeliveryCharge) error {
	return r.db.WithContext(ctx).Save(d).Error
}
