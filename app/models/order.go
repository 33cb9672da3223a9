package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DeliveryCharge is a named shipping zone with a flat charge.
type DeliveryCharge struct {
	ID     uint            `gorm:"primaryKey" json:"id"`
	Zone   string          `gorm:"size:100;uniqueIndex;not null" json:"zone"`
	Charge decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"charge"`
}

type OrderStatus string

const (
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

const DefaultPaymentMethod = "Cash on Delivery"

// Order is a placed checkout. ItemsJSON is the cart exactly as submitted
// and never changes with the catalog.
type Order struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	ItemsJSON        datatypes.JSON `gorm:"column:items_json;not null" json:"items_json"`
	CustomerName     string         `gorm:"size:255;not null" json:"customer_name"`
	CustomerPhone    string         `gorm:"size:20;not null;index" json:"customer_phone"`
	CustomerAddress  string         `gorm:"type:text;not null" json:"customer_address"`
	DeliveryChargeID uint           `gorm:"not null;index" json:"delivery_charge_id"`
	DeliveryCharge   DeliveryCharge `gorm:"constraint:OnDelete:CASCADE" json:"delivery_charge"`
	TotalAmount      int64          `gorm:"not null" json:"total_amount"`
	Status           OrderStatus    `gorm:"size:20;not null;index" json:"status"`
	PaymentMethod    string         `gorm:"size:50;not null" json:"payment_method"`
	BkashTrxID       *string        `gorm:"size:100;uniqueIndex" json:"bkash_trx_id"`
	IdempotencyKey   *string        `gorm:"size:100;uniqueIndex" json:"-"`
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (Order) TableName() string { return "ecommerce_checkouts" }
