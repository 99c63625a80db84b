package product

import (
	"time"

	"github.com/doctorpiscinas/storefront-backend/pkg/db/models"
)

// ProductDTO is the catalog payload returned to clients. Cost is only set for
// admin responses.
type ProductDTO struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Brand          *string   `json:"brand,omitempty"`
	SKU            *string   `json:"sku,omitempty"`
	Price          string    `json:"price"`
	SalePrice      *string   `json:"sale_price,omitempty"`
	IsOnSale       bool      `json:"is_on_sale"`
	EffectivePrice string    `json:"effective_price"`
	Cost           *string   `json:"cost,omitempty"`
	StockQuantity  int       `json:"stock_quantity"`
	Images         []string  `json:"images"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProductListResult is one page of products.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// NewProductDTO maps a product row; includeCost exposes the unit cost.
func NewProductDTO(p *models.Product, includeCost bool) *ProductDTO {
	if p == nil {
		return nil
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}
	dto := &ProductDTO{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		Brand:          p.Brand,
		SKU:            p.SKU,
		Price:          p.Price.StringFixed(2),
		IsOnSale:       p.IsOnSale,
		EffectivePrice: p.EffectivePrice().StringFixed(2),
		StockQuantity:  p.StockQuantity,
		Images:         images,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.SalePrice.Valid {
		sale := p.SalePrice.Decimal.StringFixed(2)
		dto.SalePrice = &sale
	}
	if includeCost && p.Cost.Valid {
		cost := p.Cost.Decimal.StringFixed(2)
		dto.Cost = &cost
	}
	return dto
}
