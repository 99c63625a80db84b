package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
)

// Coupon is an admin-defined discount rule keyed by its upper-cased code.
type Coupon struct {
	Code      string           `gorm:"column:code;primaryKey"`
	Type      enums.CouponType `gorm:"column:type;not null"`
	Discount  decimal.Decimal  `gorm:"column:discount;type:numeric(12,2);not null"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
}

func (Coupon) TableName() string { return "coupons" }
