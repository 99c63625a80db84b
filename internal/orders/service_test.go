package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/doctorpiscinas/storefront-backend/internal/cart"
	"github.com/doctorpiscinas/storefront-backend/pkg/db/models"
	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
)

type couponTable map[string]cart.Coupon

func (t couponTable) LookupCoupon(_ context.Context, code string) (cart.Coupon, bool, error) {
	coupon, ok := t[cart.CanonicalCouponCode(code)]
	return coupon, ok, nil
}

var testCoupons = couponTable{
	"SAVE10":  {Code: "SAVE10", Type: enums.CouponTypePercentage, Discount: decimal.NewFromInt(10)},
	"MINUS30": {Code: "MINUS30", Type: enums.CouponTypeFixed, Discount: decimal.NewFromInt(30)},
}

// spyRepo records every call and stores orders in memory.
type spyRepo struct {
	calls  int
	orders map[string]*models.Order
	create func(ctx context.Context, order *models.Order) (*models.Order, error)
}

func newSpyRepo() *spyRepo {
	return &spyRepo{orders: map[string]*models.Order{}}
}

func (s *spyRepo) WithTx(*gorm.DB) Repository { return s }

func (s *spyRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	s.calls++
	if s.create != nil {
		return s.create(ctx, order)
	}
	copied := *order
	s.orders[order.ID] = &copied
	return order, nil
}

func (s *spyRepo) FindByID(_ context.Context, id string) (*models.Order, error) {
	s.calls++
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *spyRepo) FindByIdempotencyKey(_ context.Context, key string) (*models.Order, error) {
	s.calls++
	for _, order := range s.orders {
		if order.IdempotencyKey != nil && *order.IdempotencyKey == key {
			copied := *order
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *spyRepo) FindByPhone(_ context.Context, phone string) ([]models.Order, error) {
	s.calls++
	var out []models.Order
	for _, order := range s.orders {
		if order.CustomerPhone == phone {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *spyRepo) List(context.Context, ListQuery) ([]models.Order, error) {
	s.calls++
	return nil, nil
}

func (s *spyRepo) UpdateStatus(_ context.Context, id string, status enums.OrderStatus) (bool, error) {
	s.calls++
	order, ok := s.orders[id]
	if !ok {
		return false, nil
	}
	order.Status = status
	return true, nil
}

func (s *spyRepo) Totals(context.Context) (*Totals, error) {
	s.calls++
	return &Totals{Revenue: decimal.Zero, Cost: decimal.Zero}, nil
}

type directTx struct{}

func (directTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type stubStock struct {
	units int64
	err   error
}

func (s stubStock) StockUnits(context.Context) (int64, error) { return s.units, s.err }

func newSpyService(t *testing.T, repo Repository) *service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Tx: directTx{}, Stock: stubStock{}})
	require.NoError(t, err)
	return svc.(*service)
}

func validCustomer() CustomerData {
	return CustomerData{
		Name:    "Juan Perez",
		Phone:   "2645551234",
		Address: "Av. Libertador 123",
	}
}

func snapshotWith(t *testing.T, coupon string, items ...cart.Item) cart.PricingSnapshot {
	t.Helper()
	ctx := context.Background()
	c := cart.New(cart.NewMemoryStorage(), testCoupons)
	for _, item := range items {
		require.NoError(t, c.AddItem(ctx, item))
	}
	if coupon != "" {
		require.NoError(t, c.ApplyCoupon(ctx, coupon))
	}
	return c.Snapshot()
}

func p1() cart.Item {
	return cart.Item{ID: "p1", Name: "Cloro", UnitPrice: decimal.NewFromInt(100)}
}

func TestPlaceOrderEmptyCartTouchesNoStore(t *testing.T) {
	repo := newSpyRepo()
	svc := newSpyService(t, repo)

	empty := cart.New(cart.NewMemoryStorage(), testCoupons).Snapshot()
	result := svc.PlaceOrder(context.Background(), PlaceOrderInput{Customer: validCustomer(), Cart: empty})

	assert.False(t, result.Success)
	assert.Empty(t, result.OrderID)
	require.Error(t, result.Error)
	assert.True(t, pkgerrors.IsCode(result.Error, pkgerrors.CodeValidation))
	assert.Equal(t, "cannot place an order with no items", pkgerrors.As(result.Error).Message())
	assert.Zero(t, repo.calls)
}

func TestPlaceOrderFixedCouponPersistsTotal(t *testing.T) {
	repo := newSpyRepo()
	svc := newSpyService(t, repo)

	snap := snapshotWith(t, "minus30", p1())
	result := svc.PlaceOrder(context.Background(), PlaceOrderInput{Customer: validCustomer(), Cart: snap})

	require.True(t, result.Success, "error: %v", result.Error)
	stored := repo.orders[result.OrderID]
	require.NotNil(t, stored)
	assert.True(t, stored.Subtotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, stored.DiscountAmount.Equal(decimal.NewFromInt(30)))
	assert.True(t, stored.Total.Equal(decimal.NewFromInt(70)))
	assert.Len(t, stored.Items, 1)
	assert.Equal(t, enums.OrderStatusPending, stored.Status)
	require.NotNil(t, stored.CouponCode)
	assert.Equal(t, "MINUS30", *stored.CouponCode)
	assert.Regexp(t, `^ord_[0-9A-Za-z]{12}$`, result.OrderID)
}

func TestPlaceOrderCopiesItems(t *testing.T) {
	repo := newSpyRepo()
	svc := newSpyService(t, repo)

	cost := decimal.NewFromInt(60)
	item := p1()
	item.UnitCost = &cost
	snap := snapshotWith(t, "", item)

	result := svc.PlaceOrder(context.Background(), PlaceOrderInput{Customer: validCustomer(), Cart: snap})
	require.True(t, result.Success)

	*result.Order.Items[0].UnitCost = decimal.NewFromInt(1)
	assert.True(t, snap.Items()[0].UnitCost.Equal(decimal.NewFromInt(60)))
}

func TestPlaceOrderValidatesCustomer(t *testing.T) {
	repo := newSpyRepo()
	svc := newSpyService(t, repo)
	snap := snapshotWith(t, "", p1())

	cases := map[string]CustomerData{
		"short name":    {Name: " J ", Phone: "2645551234", Address: "Calle 12345"},
		"short phone":   {Name: "Juan", Phone: "264555", Address: "Calle 12345"},
		"short address": {Name: "Juan", Phone: "2645551234", Address: "Ca"},
	}
	for name, customer := range cases {
		t.Run(name, func(t *testing.T) {
			result := svc.PlaceOrder(context.Background(), PlaceOrderInput{Customer: customer, Cart: snap})
			assert.False(t, result.Success)
			assert.True(t, pkgerrors.IsCode(result.Error, pkgerrors.CodeValidation))
		})
	}
	assert.Zero(t, repo.calls)
}

func TestPlaceOrderIdempotencyReplaysOriginal(t *testing.T) {
	repo := newSpyRepo()
	svc := newSpyService(t, repo)
	snap := snapshotWith(t, "", p1())

	first := svc.PlaceOrder(context.Background(), PlaceOrderInput{Customer: validCustomer(), Cart: snap, IdempotencyKey: "checkout-1"})
	require.True(t, first.Success)
	assert.False(t, first.Replayed)

	second := svc.PlaceOrder(context.Background(), PlaceOrderInput{Customer: validCustomer(), Cart: snap, IdempotencyKey: "checkout-1"})
	require.True(t, second.Success)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Len(t, repo.orders, 1)
}

func TestPlaceOrderReplaysKeyAfterCartCleared(t *testing.T) {
	repo := newSpyRepo()
	svc := newSpyService(t, repo)

	first := svc.PlaceOrder(context.Background(), PlaceOrderInput{Customer: validCustomer(), Cart: snapshotWith(t, "", p1()), IdempotencyKey: "checkout-2"})
	require.True(t, first.Success)

	cleared := cart.New(cart.NewMemoryStorage(), testCoupons).Snapshot()
	retry := svc.PlaceOrder(context.Background(), PlaceOrderInput{Customer: validCustomer(), Cart: cleared, IdempotencyKey: "checkout-2"})
	require.True(t, retry.Success, "error: %v", retry.Error)
	assert.True(t, retry.Replayed)
	assert.Equal(t, first.OrderID, retry.OrderID)
	assert.Len(t, repo.orders, 1)
}

func TestPlaceOrderEmptyCartWithUnknownKeyWritesNothing(t *testing.T) {
	repo := newSpyRepo()
	svc := newSpyService(t, repo)

	empty := cart.New(cart.NewMemoryStorage(), testCoupons).Snapshot()
	result := svc.PlaceOrder(context.Background(), PlaceOrderInput{Customer: validCustomer(), Cart: empty, IdempotencyKey: "k1"})

	assert.False(t, result.Success)
	assert.True(t, pkgerrors.IsCode(result.Error, pkgerrors.CodeValidation))
	assert.Empty(t, repo.orders)
}

func TestPlaceOrderRetriesIDCollision(t *testing.T) {
	repo := newSpyRepo()
	svc := newSpyService(t, repo)

	attempts := 0
	repo.create = func(_ context.Context, order *models.Order) (*models.Order, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("UNIQUE constraint failed: orders.id")
		}
		repo.orders[order.ID] = order
		return order, nil
	}
	ids := []string{"ord_AAAAAAAAAAAA", "ord_BBBBBBBBBBBB"}
	svc.newID = func() (string, error) {
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}

	result := svc.PlaceOrder(context.Background(), PlaceOrderInput{Customer: validCustomer(), Cart: snapshotWith(t, "", p1())})
	require.True(t, result.Success)
	assert.Equal(t, "ord_BBBBBBBBBBBB", result.OrderID)
	assert.Equal(t, 2, attempts)
}

func TestPlaceOrderStoreFailureIsDependencyError(t *testing.T) {
	repo := newSpyRepo()
	repo.create = func(context.Context, *models.Order) (*models.Order, error) {
		return nil, errors.New("connection refused")
	}
	svc := newSpyService(t, repo)

	result := svc.PlaceOrder(context.Background(), PlaceOrderInput{Customer: validCustomer(), Cart: snapshotWith(t, "", p1())})
	assert.False(t, result.Success)
	assert.True(t, pkgerrors.IsCode(result.Error, pkgerrors.CodeDependency))
	assert.True(t, pkgerrors.Retryable(result.Error))
	assert.Empty(t, repo.orders)
}

func TestPlaceOrderTimeout(t *testing.T) {
	repo := newSpyRepo()
	repo.create = func(ctx context.Context, _ *models.Order) (*models.Order, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	svc := newSpyService(t, repo)
	svc.placementTimeout = 20 * time.Millisecond

	result := svc.PlaceOrder(context.Background(), PlaceOrderInput{Customer: validCustomer(), Cart: snapshotWith(t, "", p1())})
	assert.False(t, result.Success)
	assert.True(t, pkgerrors.IsCode(result.Error, pkgerrors.CodeDependency))
	assert.True(t, pkgerrors.Retryable(result.Error))
	assert.ErrorIs(t, result.Error, context.DeadlineExceeded)
}

func TestFindOrdersByPhoneEmptyInput(t *testing.T) {
	repo := newSpyRepo()
	svc := newSpyService(t, repo)

	orders, err := svc.FindOrdersByPhone(context.Background(), "   ")
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
	assert.Zero(t, repo.calls)

	orders, err = svc.FindOrdersByPhone(context.Background(), "0000000000")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestUpdateOrderStatusStateMachine(t *testing.T) {
	repo := newSpyRepo()
	svc := newSpyService(t, repo)
	ctx := context.Background()

	result := svc.PlaceOrder(ctx, PlaceOrderInput{Customer: validCustomer(), Cart: snapshotWith(t, "", p1())})
	require.True(t, result.Success)
	id := result.OrderID

	dto, err := svc.UpdateOrderStatus(ctx, id, enums.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, dto.Status)

	dto, err = svc.UpdateOrderStatus(ctx, id, enums.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, dto.Status)

	_, err = svc.UpdateOrderStatus(ctx, id, enums.OrderStatusPending)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	for _, next := range []enums.OrderStatus{enums.OrderStatusShipped, enums.OrderStatusDelivered} {
		_, err = svc.UpdateOrderStatus(ctx, id, next)
		require.NoError(t, err)
	}
	_, err = svc.UpdateOrderStatus(ctx, id, enums.OrderStatusCancelled)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = svc.UpdateOrderStatus(ctx, "ord_missing", enums.OrderStatusProcessing)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.UpdateOrderStatus(ctx, id, enums.OrderStatus("Lost"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

type failingTotalsRepo struct{ *spyRepo }

func (failingTotalsRepo) Totals(context.Context) (*Totals, error) {
	return nil, errors.New("totals failed")
}

func TestDashboardStatsCombinesFailures(t *testing.T) {
	svc, err := NewService(ServiceParams{
		Repo:  failingTotalsRepo{newSpyRepo()},
		Tx:    directTx{},
		Stock: stubStock{err: errors.New("stock failed")},
	})
	require.NoError(t, err)

	_, err = svc.DashboardStats(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Contains(t, errors.Unwrap(err).Error(), "totals failed")
	assert.Contains(t, errors.Unwrap(err).Error(), "stock failed")
}

func TestNewServiceRequiresCollaborators(t *testing.T) {
	_, err := NewService(ServiceParams{Tx: directTx{}, Stock: stubStock{}})
	assert.Error(t, err)
	_, err = NewService(ServiceParams{Repo: newSpyRepo(), Stock: stubStock{}})
	assert.Error(t, err)
	_, err = NewService(ServiceParams{Repo: newSpyRepo(), Tx: directTx{}})
	assert.Error(t, err)
}
