package types

import "github.com/shopspring/decimal"

// OrderItem is the persisted copy of a cart line item at placement time.
type OrderItem struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	UnitPrice decimal.Decimal  `json:"price"`
	UnitCost  *decimal.Decimal `json:"cost,omitempty"`
	Image     string           `json:"image,omitempty"`
	Quantity  int              `json:"quantity"`
}

// LineTotal returns unit price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineCost returns unit cost times quantity, zero when the cost is unknown.
func (i OrderItem) LineCost() decimal.Decimal {
	if i.UnitCost == nil {
		return decimal.Zero
	}
	return i.UnitCost.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderItems is stored as a JSON column.
type OrderItems []OrderItem

// Units sums the quantities of every item.
func (items OrderItems) Units() int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
