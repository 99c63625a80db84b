package orders

import (
	"time"

	"github.com/doctorpiscinas/storefront-backend/pkg/db/models"
	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
	"github.com/doctorpiscinas/storefront-backend/pkg/pagination"
)

// CustomerData is the contact block captured at checkout.
type CustomerData struct {
	Name    string
	Phone   string
	Address string
	Notes   string
}

// OrderItemDTO is one frozen line of a placed order.
type OrderItemDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image,omitempty"`
	LineTotal string `json:"line_total"`
}

// OrderDTO is the API representation of an order.
type OrderDTO struct {
	ID              string            `json:"id"`
	CustomerName    string            `json:"customer_name"`
	CustomerPhone   string            `json:"customer_phone"`
	CustomerAddress string            `json:"customer_address"`
	Notes           *string           `json:"notes,omitempty"`
	Items           []OrderItemDTO    `json:"items"`
	CouponCode      *string           `json:"coupon_code,omitempty"`
	Subtotal        string            `json:"subtotal"`
	DiscountAmount  string            `json:"discount_amount"`
	Total           string            `json:"total"`
	Status          enums.OrderStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// OrderList wraps a page of orders plus the next cursor.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// ListOrdersInput captures the admin list filters.
type ListOrdersInput struct {
	Status     *enums.OrderStatus
	Pagination pagination.Params
}

// DashboardStats summarises sales for the back office.
type DashboardStats struct {
	OrderCount   int64  `json:"order_count"`
	TotalRevenue string `json:"total_revenue"`
	TotalCost    string `json:"total_cost"`
	Profit       string `json:"profit"`
	ProfitMargin string `json:"profit_margin"`
	UnitsInStock int64  `json:"units_in_stock"`
}

// NewOrderDTO maps an order row.
func NewOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	items := make([]OrderItemDTO, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemDTO{
			ID:        item.ID,
			Name:      item.Name,
			Price:     item.UnitPrice.StringFixed(2),
			Quantity:  item.Quantity,
			Image:     item.Image,
			LineTotal: item.LineTotal().StringFixed(2),
		}
	}
	return &OrderDTO{
		ID:              order.ID,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		CustomerAddress: order.CustomerAddress,
		Notes:           order.Notes,
		Items:           items,
		CouponCode:      order.CouponCode,
		Subtotal:        order.Subtotal.StringFixed(2),
		DiscountAmount:  order.DiscountAmount.StringFixed(2),
		Total:           order.Total.StringFixed(2),
		Status:          order.Status,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}
