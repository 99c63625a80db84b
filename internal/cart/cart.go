package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
)

const (
	// StorageKeyItems holds the JSON encoded line items.
	StorageKeyItems = "cart"
	// StorageKeyCoupon holds the JSON encoded applied coupon, absent when none.
	StorageKeyCoupon = "coupon"
)

// Item describes a product being added to the cart. UnitPrice must already be
// the effective (sale-adjusted) price.
type Item struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
	UnitCost  *decimal.Decimal
	Image     string
}

// LineItem is one distinct entry in the cart.
type LineItem struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	UnitPrice decimal.Decimal  `json:"price"`
	UnitCost  *decimal.Decimal `json:"cost,omitempty"`
	Image     string           `json:"image,omitempty"`
	Quantity  int              `json:"quantity"`
}

func (li LineItem) clone() LineItem {
	out := li
	if li.UnitCost != nil {
		cost := *li.UnitCost
		out.UnitCost = &cost
	}
	return out
}

// Coupon is a discount rule resolved by a CouponLookup.
type Coupon struct {
	Code     string           `json:"code"`
	Type     enums.CouponType `json:"type"`
	Discount decimal.Decimal  `json:"discount"`
}

// CouponLookup resolves coupons by canonical (upper-case) code. A miss reports
// found=false with a nil error; err is reserved for lookup failures.
type CouponLookup interface {
	LookupCoupon(ctx context.Context, code string) (coupon Coupon, found bool, err error)
}

// Storage is the key-value surface the cart snapshots itself into.
type Storage interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Cart holds a shopper's line items and applied coupon. Every mutation is
// written through to Storage; the in-memory state is updated even if that
// write fails, in which case the storage error is returned.
type Cart struct {
	mu      sync.Mutex
	items   []LineItem
	coupon  *Coupon
	storage Storage
	lookup  CouponLookup
}

// New returns an empty cart bound to the given collaborators.
func New(storage Storage, lookup CouponLookup) *Cart {
	return &Cart{storage: storage, lookup: lookup}
}

// Load restores a cart from storage. Undecodable snapshots are discarded.
func Load(ctx context.Context, storage Storage, lookup CouponLookup) (*Cart, error) {
	c := New(storage, lookup)
	if storage == nil {
		return c, nil
	}

	raw, found, err := storage.Get(ctx, StorageKeyItems)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if found && raw != "" {
		var items []LineItem
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			c.items = sanitizeItems(items)
		}
	}

	raw, found, err = storage.Get(ctx, StorageKeyCoupon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	if found && raw != "" {
		var coupon Coupon
		if err := json.Unmarshal([]byte(raw), &coupon); err == nil && coupon.Type.IsValid() {
			c.coupon = &coupon
		}
	}
	return c, nil
}

// sanitizeItems drops entries that would break the one-line-per-id and
// quantity >= 1 invariants.
func sanitizeItems(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.ID == "" || item.Quantity < 1 {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

// AddItem inserts the item with quantity 1, or increments the quantity of an
// existing line with the same id.
func (c *Cart) AddItem(ctx context.Context, item Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if idx := c.indexOf(item.ID); idx >= 0 {
		c.items[idx].Quantity++
	} else {
		line := LineItem{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Image:     item.Image,
			Quantity:  1,
		}
		if item.UnitCost != nil {
			cost := *item.UnitCost
			line.UnitCost = &cost
		}
		c.items = append(c.items, line)
	}
	return c.saveItems(ctx)
}

// RemoveItem drops the line with the given id. Absent ids are a no-op.
func (c *Cart) RemoveItem(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return nil
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return c.saveItems(ctx)
}

// SetQuantity replaces the quantity of an existing line. A quantity <= 0
// removes the line.
func (c *Cart) SetQuantity(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(ctx, id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return nil
	}
	c.items[idx].Quantity = quantity
	return c.saveItems(ctx)
}

// Clear empties the cart and removes any applied coupon.
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.coupon = nil
	if err := c.saveItems(ctx); err != nil {
		return err
	}
	return c.saveCoupon(ctx)
}

// ApplyCoupon looks up code and makes it the applied coupon. An unknown code
// clears the applied coupon and returns a not-found error with the message
// "invalid coupon". Lookup failures leave the cart untouched.
func (c *Cart) ApplyCoupon(ctx context.Context, code string) error {
	canonical := CanonicalCouponCode(code)

	var (
		coupon Coupon
		found  bool
	)
	if canonical != "" {
		if c.lookup == nil {
			return pkgerrors.New(pkgerrors.CodeDependency, "coupon lookup unavailable")
		}
		var err error
		coupon, found, err = c.lookup.LookupCoupon(ctx, canonical)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "coupon lookup timed out")
			}
			if pkgerrors.As(err) != nil {
				return err
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "coupon lookup failed")
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !found || !coupon.Type.IsValid() {
		c.coupon = nil
		if err := c.saveCoupon(ctx); err != nil {
			return err
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "invalid coupon")
	}

	coupon.Code = CanonicalCouponCode(coupon.Code)
	if coupon.Code == "" {
		coupon.Code = canonical
	}
	c.coupon = &coupon
	return c.saveCoupon(ctx)
}

// RemoveCoupon clears the applied coupon.
func (c *Cart) RemoveCoupon(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.coupon = nil
	return c.saveCoupon(ctx)
}

// Items returns a copy of the current line items in insertion order.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneItems(c.items)
}

// AppliedCoupon returns a copy of the applied coupon, if any.
func (c *Cart) AppliedCoupon() (Coupon, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.coupon == nil {
		return Coupon{}, false
	}
	return *c.coupon, true
}

// Subtotal is the sum of unit price times quantity over every line.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return subtotalOf(c.items)
}

// DiscountAmount is the discount the applied coupon grants on the current subtotal.
func (c *Cart) DiscountAmount() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return DiscountFor(subtotalOf(c.items), c.coupon)
}

// Total is subtotal minus discount, never negative.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	subtotal := subtotalOf(c.items)
	return subtotal.Sub(DiscountFor(subtotal, c.coupon))
}

// ItemCount is the sum of quantities over every line.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return countOf(c.items)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

// CanonicalCouponCode trims and upper-cases a coupon code.
func CanonicalCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c *Cart) indexOf(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) saveItems(ctx context.Context) error {
	if c.storage == nil {
		return nil
	}
	items := c.items
	if items == nil {
		items = []LineItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart items: %w", err)
	}
	if err := c.storage.Set(ctx, StorageKeyItems, string(payload)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (c *Cart) saveCoupon(ctx context.Context) error {
	if c.storage == nil {
		return nil
	}
	if c.coupon == nil {
		if err := c.storage.Delete(ctx, StorageKeyCoupon); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear coupon")
		}
		return nil
	}
	payload, err := json.Marshal(c.coupon)
	if err != nil {
		return fmt.Errorf("encode coupon: %w", err)
	}
	if err := c.storage.Set(ctx, StorageKeyCoupon, string(payload)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save coupon")
	}
	return nil
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, item := range items {
		out[i] = item.clone()
	}
	return out
}
