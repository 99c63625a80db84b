package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
	"github.com/doctorpiscinas/storefront-backend/pkg/metrics"
	"github.com/doctorpiscinas/storefront-backend/pkg/security"
)

const sessionIDLength = 24

// StorageFactory returns the Storage scoped to one shopper session.
type StorageFactory func(sessionID string) Storage

// ItemResolver turns a catalog id into a cart Item priced at its effective price.
type ItemResolver interface {
	ResolveCartItem(ctx context.Context, productID string) (Item, error)
}

// Service runs cart operations for server-side shopper sessions.
type Service interface {
	Get(ctx context.Context, sessionID string) (*View, error)
	AddItem(ctx context.Context, sessionID, productID string, quantity int) (*View, error)
	SetQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*View, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (*View, error)
	Clear(ctx context.Context, sessionID string) error
	ApplyCoupon(ctx context.Context, sessionID, code string) (*View, error)
	RemoveCoupon(ctx context.Context, sessionID string) (*View, error)
	Snapshot(ctx context.Context, sessionID string) (PricingSnapshot, error)
}

type service struct {
	storage       StorageFactory
	items         ItemResolver
	lookup        CouponLookup
	metrics       *metrics.CheckoutMetrics
	couponTimeout time.Duration
}

// ServiceParams groups the collaborators of the cart service.
type ServiceParams struct {
	Storage       StorageFactory
	Items         ItemResolver
	Coupons       CouponLookup
	Metrics       *metrics.CheckoutMetrics
	CouponTimeout time.Duration
}

// NewService builds a cart service backed by the provided stack.
func NewService(params ServiceParams) (Service, error) {
	if params.Storage == nil {
		return nil, fmt.Errorf("cart storage factory required")
	}
	if params.Items == nil {
		return nil, fmt.Errorf("item resolver required")
	}
	if params.Coupons == nil {
		return nil, fmt.Errorf("coupon lookup required")
	}
	return &service{
		storage:       params.Storage,
		items:         params.Items,
		lookup:        params.Coupons,
		metrics:       params.Metrics,
		couponTimeout: params.CouponTimeout,
	}, nil
}

// NewSessionID mints an opaque cart session identifier.
func NewSessionID() (string, error) {
	return security.RandomToken(sessionIDLength)
}

func (s *service) load(ctx context.Context, sessionID string) (*Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	return Load(ctx, s.storage(sessionID), s.lookup)
}

func (s *service) Get(ctx context.Context, sessionID string) (*View, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return NewView(sessionID, c), nil
}

func (s *service) AddItem(ctx context.Context, sessionID, productID string, quantity int) (*View, error) {
	if quantity <= 0 {
		quantity = 1
	}
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	item, err := s.items.ResolveCartItem(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := c.AddItem(ctx, item); err != nil {
		return nil, err
	}
	if quantity > 1 {
		current := quantityOf(c, item.ID)
		if err := c.SetQuantity(ctx, item.ID, current+quantity-1); err != nil {
			return nil, err
		}
	}
	return NewView(sessionID, c), nil
}

func (s *service) SetQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*View, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := c.SetQuantity(ctx, itemID, quantity); err != nil {
		return nil, err
	}
	return NewView(sessionID, c), nil
}

func (s *service) RemoveItem(ctx context.Context, sessionID, itemID string) (*View, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveItem(ctx, itemID); err != nil {
		return nil, err
	}
	return NewView(sessionID, c), nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	return c.Clear(ctx)
}

func (s *service) ApplyCoupon(ctx context.Context, sessionID, code string) (*View, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	lookupCtx := ctx
	if s.couponTimeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, s.couponTimeout)
		defer cancel()
	}

	if err := c.ApplyCoupon(lookupCtx, code); err != nil {
		s.metrics.IncCouponApplication(couponOutcome(err))
		return nil, err
	}
	s.metrics.IncCouponApplication("applied")
	return NewView(sessionID, c), nil
}

func (s *service) RemoveCoupon(ctx context.Context, sessionID string) (*View, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveCoupon(ctx); err != nil {
		return nil, err
	}
	return NewView(sessionID, c), nil
}

func (s *service) Snapshot(ctx context.Context, sessionID string) (PricingSnapshot, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return PricingSnapshot{}, err
	}
	return c.Snapshot(), nil
}

func quantityOf(c *Cart, id string) int {
	for _, item := range c.Items() {
		if item.ID == id {
			return item.Quantity
		}
	}
	return 0
}

func couponOutcome(err error) string {
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return "invalid"
	}
	return "error"
}
