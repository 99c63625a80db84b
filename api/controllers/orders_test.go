package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorpiscinas/storefront-backend/api/middleware"
	"github.com/doctorpiscinas/storefront-backend/internal/cart"
	"github.com/doctorpiscinas/storefront-backend/internal/notify"
	"github.com/doctorpiscinas/storefront-backend/internal/orders"
	"github.com/doctorpiscinas/storefront-backend/pkg/db/models"
	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
	"github.com/doctorpiscinas/storefront-backend/pkg/types"
)

type stubOrders struct {
	placeFn  func(ctx context.Context, input orders.PlaceOrderInput) orders.PlaceOrderResult
	phoneFn  func(ctx context.Context, phone string) ([]orders.OrderDTO, error)
	statusFn func(ctx context.Context, id string, status enums.OrderStatus) (*orders.OrderDTO, error)
	getFn    func(ctx context.Context, id string) (*orders.OrderDTO, error)
	listFn   func(ctx context.Context, input orders.ListOrdersInput) (*orders.OrderList, error)
	statsFn  func(ctx context.Context) (*orders.DashboardStats, error)
}

func (s *stubOrders) PlaceOrder(ctx context.Context, input orders.PlaceOrderInput) orders.PlaceOrderResult {
	return s.placeFn(ctx, input)
}

func (s *stubOrders) FindOrdersByPhone(ctx context.Context, phone string) ([]orders.OrderDTO, error) {
	return s.phoneFn(ctx, phone)
}

func (s *stubOrders) UpdateOrderStatus(ctx context.Context, id string, status enums.OrderStatus) (*orders.OrderDTO, error) {
	return s.statusFn(ctx, id, status)
}

func (s *stubOrders) GetOrder(ctx context.Context, id string) (*orders.OrderDTO, error) {
	return s.getFn(ctx, id)
}

func (s *stubOrders) ListOrders(ctx context.Context, input orders.ListOrdersInput) (*orders.OrderList, error) {
	return s.listFn(ctx, input)
}

func (s *stubOrders) DashboardStats(ctx context.Context) (*orders.DashboardStats, error) {
	return s.statsFn(ctx)
}

func orderFromSnapshot(id string, input orders.PlaceOrderInput) *models.Order {
	snap := input.Cart
	items := make(types.OrderItems, 0, len(snap.Items()))
	for _, li := range snap.Items() {
		items = append(items, types.OrderItem{ID: li.ID, Name: li.Name, UnitPrice: li.UnitPrice, Quantity: li.Quantity})
	}
	order := &models.Order{
		ID:              id,
		CustomerName:    input.Customer.Name,
		CustomerPhone:   input.Customer.Phone,
		CustomerAddress: input.Customer.Address,
		Items:           items,
		Subtotal:        snap.Subtotal(),
		DiscountAmount:  snap.DiscountAmount(),
		Total:           snap.Total(),
		Status:          enums.OrderStatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	if code := snap.CouponCode(); code != "" {
		order.CouponCode = &code
	}
	return order
}

func checkoutRouter(t *testing.T, cartSvc cart.Service, orderSvc orders.Service) http.Handler {
	t.Helper()
	composer, err := notify.NewWhatsAppComposer("+54 9 264 555-0000")
	require.NoError(t, err)
	r := chi.NewRouter()
	r.Use(middleware.CartSession(cart.NewSessionID, nil))
	r.Post("/cart/items", CartAddItem(cartSvc, nil))
	r.Post("/cart/coupon", CartApplyCoupon(cartSvc, nil))
	r.Get("/cart", CartGet(cartSvc, nil))
	r.Post("/orders", Checkout(cartSvc, orderSvc, composer, nil))
	return r
}

const validCheckoutBody = `{"name":"Ana Pérez","phone":"2645550000","address":"Av. Libertador 123","notes":"timbre 2"}`

func TestCheckoutPlacesOrderAndClearsCart(t *testing.T) {
	cartSvc := newCartService(t)
	var captured orders.PlaceOrderInput
	orderSvc := &stubOrders{placeFn: func(_ context.Context, input orders.PlaceOrderInput) orders.PlaceOrderResult {
		captured = input
		order := orderFromSnapshot("ord_ABCDEFGHIJKL", input)
		return orders.PlaceOrderResult{Success: true, OrderID: order.ID, Order: order}
	}}
	h := checkoutRouter(t, cartSvc, orderSvc)
	session := "checkout1"

	doCart(t, h, session, jsonRequest(http.MethodPost, "/cart/items", `{"product_id":"p1","quantity":2}`))
	doCart(t, h, session, jsonRequest(http.MethodPost, "/cart/coupon", `{"code":"SAVE10"}`))

	req := jsonRequest(http.MethodPost, "/orders", validCheckoutBody)
	req.Header.Set(middleware.IdempotencyHeader, "attempt-1")
	rec := doCart(t, h, session, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, "attempt-1", captured.IdempotencyKey)
	assert.Equal(t, "Ana Pérez", captured.Customer.Name)
	assert.Equal(t, "90.00", captured.Cart.Total().StringFixed(2))
	assert.Equal(t, "SAVE10", captured.Cart.CouponCode())

	payload := decodeData[checkoutResponse](t, rec)
	assert.True(t, payload.Success)
	assert.Equal(t, "ord_ABCDEFGHIJKL", payload.OrderID)
	assert.True(t, strings.HasPrefix(payload.WhatsAppURL, "https://wa.me/5492645550000?text="))
	assert.Contains(t, payload.WhatsAppMessage, "SAVE10")
	require.NotNil(t, payload.Order)
	assert.Equal(t, "90.00", payload.Order.Total)

	rec = doCart(t, h, session, httptest.NewRequest(http.MethodGet, "/cart", nil))
	view := decodeData[cart.View](t, rec)
	assert.Empty(t, view.Items)
	assert.Nil(t, view.Coupon)
}

func TestCheckoutFailureKeepsCart(t *testing.T) {
	cartSvc := newCartService(t)
	orderSvc := &stubOrders{placeFn: func(context.Context, orders.PlaceOrderInput) orders.PlaceOrderResult {
		return orders.PlaceOrderResult{Error: pkgerrors.New(pkgerrors.CodeDependency, "order store unavailable")}
	}}
	h := checkoutRouter(t, cartSvc, orderSvc)
	session := "checkout2"
	doCart(t, h, session, jsonRequest(http.MethodPost, "/cart/items", `{"product_id":"p2"}`))

	rec := doCart(t, h, session, jsonRequest(http.MethodPost, "/orders", validCheckoutBody))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doCart(t, h, session, httptest.NewRequest(http.MethodGet, "/cart", nil))
	view := decodeData[cart.View](t, rec)
	assert.Len(t, view.Items, 1)
}

func TestCheckoutReplayAnswers200(t *testing.T) {
	cartSvc := newCartService(t)
	orderSvc := &stubOrders{placeFn: func(_ context.Context, input orders.PlaceOrderInput) orders.PlaceOrderResult {
		order := orderFromSnapshot("ord_REPLAYED0001", input)
		return orders.PlaceOrderResult{Success: true, OrderID: order.ID, Order: order, Replayed: true}
	}}
	h := checkoutRouter(t, cartSvc, orderSvc)
	session := "checkout3"
	doCart(t, h, session, jsonRequest(http.MethodPost, "/cart/items", `{"product_id":"p2"}`))

	rec := doCart(t, h, session, jsonRequest(http.MethodPost, "/orders", validCheckoutBody))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckoutValidatesCustomer(t *testing.T) {
	orderSvc := &stubOrders{placeFn: func(context.Context, orders.PlaceOrderInput) orders.PlaceOrderResult {
		t.Fatal("order service should not be called for an invalid body")
		return orders.PlaceOrderResult{}
	}}
	h := checkoutRouter(t, newCartService(t), orderSvc)

	rec := doCart(t, h, "checkout4", jsonRequest(http.MethodPost, "/orders", `{"name":"A","phone":"123","address":"x"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), decodeErrorCode(t, rec))
}

func TestTrackOrdersBlankPhoneReturnsEmptyList(t *testing.T) {
	for _, target := range []string{"/orders", "/orders?phone=", "/orders?phone=%20%20"} {
		t.Run(target, func(t *testing.T) {
			var got []string
			handler := TrackOrders(&stubOrders{phoneFn: func(_ context.Context, phone string) ([]orders.OrderDTO, error) {
				got = append(got, phone)
				return []orders.OrderDTO{}, nil
			}}, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, []string{""}, got)
			assert.JSONEq(t, `{"orders":[]}`, string(decodeData[json.RawMessage](t, rec)))
		})
	}
}

func TestTrackOrdersReturnsList(t *testing.T) {
	handler := TrackOrders(&stubOrders{phoneFn: func(_ context.Context, phone string) ([]orders.OrderDTO, error) {
		assert.Equal(t, "2645550000", phone)
		return []orders.OrderDTO{{ID: "ord_b"}, {ID: "ord_a"}}, nil
	}}, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders?phone=2645550000", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData[struct {
		Orders []orders.OrderDTO `json:"orders"`
	}](t, rec)
	require.Len(t, data.Orders, 2)
	assert.Equal(t, "ord_b", data.Orders[0].ID)
}

func TestGetOrderNotFound(t *testing.T) {
	handler := GetOrder(&stubOrders{getFn: func(_ context.Context, id string) (*orders.OrderDTO, error) {
		assert.Equal(t, "ord_missing", id)
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}}, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"orderId": "ord_missing"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
