package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Price is the regular price; SalePrice applies while IsOnSale.
type Product struct {
	ID            string              `gorm:"column:id;primaryKey"`
	Name          string              `gorm:"column:name;not null"`
	Description   string              `gorm:"column:description;not null;default:''"`
	Category      string              `gorm:"column:category;not null;index:idx_products_category"`
	Brand         *string             `gorm:"column:brand"`
	SKU           *string             `gorm:"column:sku;uniqueIndex:idx_products_sku"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	SalePrice     decimal.NullDecimal `gorm:"column:sale_price;type:numeric(12,2)"`
	IsOnSale      bool                `gorm:"column:is_on_sale;not null;default:false"`
	Cost          decimal.NullDecimal `gorm:"column:cost;type:numeric(12,2)"`
	StockQuantity int                 `gorm:"column:stock_quantity;not null;default:0"`
	Images        []string            `gorm:"column:images;type:text;not null;serializer:json"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

// EffectivePrice is the unit price a shopper pays right now.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.IsOnSale && p.SalePrice.Valid && p.SalePrice.Decimal.IsPositive() {
		return p.SalePrice.Decimal
	}
	return p.Price
}
