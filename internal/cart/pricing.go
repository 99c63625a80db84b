package cart

import (
	"github.com/shopspring/decimal"

	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
)

var (
	hundred = decimal.NewFromInt(100)
)

// DiscountFor computes the discount a coupon grants on subtotal.
//
// Percentage coupons are clamped to [0,100] and rounded to cents; fixed
// coupons are capped at the subtotal. The result always satisfies
// 0 <= discount <= subtotal.
func DiscountFor(subtotal decimal.Decimal, coupon *Coupon) decimal.Decimal {
	if coupon == nil || !subtotal.IsPositive() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch coupon.Type {
	case enums.CouponTypePercentage:
		pct := decimal.Min(decimal.Max(coupon.Discount, decimal.Zero), hundred)
		discount = subtotal.Mul(pct).Div(hundred).Round(2)
	case enums.CouponTypeFixed:
		discount = decimal.Max(coupon.Discount, decimal.Zero)
	default:
		return decimal.Zero
	}
	return decimal.Min(discount, subtotal)
}

func subtotalOf(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func countOf(items []LineItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// PricingSnapshot is an immutable copy of the cart's contents and totals. It
// can only be produced by Cart.Snapshot, so every priced order carries totals
// computed by DiscountFor.
type PricingSnapshot struct {
	items          []LineItem
	couponCode     string
	subtotal       decimal.Decimal
	discountAmount decimal.Decimal
	total          decimal.Decimal
	itemCount      int
}

// Snapshot captures the current cart state. Later cart mutations never affect it.
func (c *Cart) Snapshot() PricingSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	subtotal := subtotalOf(c.items)
	discount := DiscountFor(subtotal, c.coupon)
	snap := PricingSnapshot{
		items:          cloneItems(c.items),
		subtotal:       subtotal,
		discountAmount: discount,
		total:          subtotal.Sub(discount),
		itemCount:      countOf(c.items),
	}
	if c.coupon != nil {
		snap.couponCode = c.coupon.Code
	}
	return snap
}

// Items returns a fresh copy of the snapshotted line items.
func (s PricingSnapshot) Items() []LineItem { return cloneItems(s.items) }

// CouponCode is the applied coupon code, empty when none.
func (s PricingSnapshot) CouponCode() string { return s.couponCode }

func (s PricingSnapshot) Subtotal() decimal.Decimal       { return s.subtotal }
func (s PricingSnapshot) DiscountAmount() decimal.Decimal { return s.discountAmount }
func (s PricingSnapshot) Total() decimal.Decimal          { return s.total }
func (s PricingSnapshot) ItemCount() int                  { return s.itemCount }

// IsEmpty reports whether the snapshot has no line items.
func (s PricingSnapshot) IsEmpty() bool { return len(s.items) == 0 }
