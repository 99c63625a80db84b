package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
	"github.com/doctorpiscinas/storefront-backend/pkg/types"
)

// Order is a placed storefront order. Items, totals and coupon are frozen at placement.
type Order struct {
	ID              string            `gorm:"column:id;primaryKey"`
	CustomerName    string            `gorm:"column:customer_name;not null"`
	CustomerPhone   string            `gorm:"column:customer_phone;not null;index:idx_orders_customer_phone_created_at,priority:1"`
	CustomerAddress string            `gorm:"column:customer_address;not null;default:''"`
	Notes           *string           `gorm:"column:notes"`
	Items           types.OrderItems  `gorm:"column:items;type:text;not null;serializer:json"`
	CouponCode      *string           `gorm:"column:coupon_code"`
	Subtotal        decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DiscountAmount  decimal.Decimal   `gorm:"column:discount_amount;type:numeric(12,2);not null;default:0"`
	Total           decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Status          enums.OrderStatus `gorm:"column:status;not null"`
	IdempotencyKey  *string           `gorm:"column:idempotency_key;uniqueIndex:idx_orders_idempotency_key"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime;index:idx_orders_customer_phone_created_at,priority:2"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }
