package cart

import "github.com/shopspring/decimal"

// View is the JSON representation of a session cart.
type View struct {
	SessionID      string         `json:"session_id"`
	Items          []LineItemView `json:"items"`
	Coupon         *CouponView    `json:"coupon,omitempty"`
	Subtotal       string         `json:"subtotal"`
	DiscountAmount string         `json:"discount_amount"`
	Total          string         `json:"total"`
	ItemCount      int            `json:"item_count"`
}

// LineItemView renders one cart line.
type LineItemView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

// CouponView renders the applied coupon.
type CouponView struct {
	Code     string `json:"code"`
	Type     string `json:"type"`
	Discount string `json:"discount"`
}

// NewView renders the cart's current state.
func NewView(sessionID string, c *Cart) *View {
	snap := c.Snapshot()
	items := snap.Items()
	view := &View{
		SessionID:      sessionID,
		Items:          make([]LineItemView, 0, len(items)),
		Subtotal:       money(snap.Subtotal()),
		DiscountAmount: money(snap.DiscountAmount()),
		Total:          money(snap.Total()),
		ItemCount:      snap.ItemCount(),
	}
	for _, item := range items {
		view.Items = append(view.Items, LineItemView{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: money(item.UnitPrice),
			Image:     item.Image,
			Quantity:  item.Quantity,
			LineTotal: money(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))),
		})
	}
	if coupon, ok := c.AppliedCoupon(); ok {
		view.Coupon = &CouponView{
			Code:     coupon.Code,
			Type:     coupon.Type.String(),
			Discount: coupon.Discount.String(),
		}
	}
	return view
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
