package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/doctorpiscinas/storefront-backend/internal/cart"
	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
)

type catalogStub map[string]cart.Item

func (c catalogStub) ResolveCartItem(_ context.Context, productID string) (cart.Item, error) {
	item, ok := c[productID]
	if !ok {
		return cart.Item{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return item, nil
}

type couponStub map[string]cart.Coupon

func (c couponStub) LookupCoupon(_ context.Context, code string) (cart.Coupon, bool, error) {
	coupon, ok := c[code]
	return coupon, ok, nil
}

type memoryCarts struct {
	mu       sync.Mutex
	sessions map[string]*cart.MemoryStorage
}

func (m *memoryCarts) storage(sessionID string) cart.Storage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		return s
	}
	s := cart.NewMemoryStorage()
	m.sessions[sessionID] = s
	return s
}

func newCartService(t *testing.T) cart.Service {
	t.Helper()
	carts := &memoryCarts{sessions: map[string]*cart.MemoryStorage{}}
	cost := decimal.RequireFromString("30")
	svc, err := cart.NewService(cart.ServiceParams{
		Storage: carts.storage,
		Items: catalogStub{
			"p1": {ID: "p1", Name: "Cloro granulado", UnitPrice: decimal.RequireFromString("50"), UnitCost: &cost},
			"p2": {ID: "p2", Name: "Alguicida", UnitPrice: decimal.RequireFromString("25.50")},
		},
		Coupons: couponStub{
			"SAVE10":  {Code: "SAVE10", Type: enums.CouponTypePercentage, Discount: decimal.NewFromInt(10)},
			"MINUS30": {Code: "MINUS30", Type: enums.CouponTypeFixed, Discount: decimal.NewFromInt(30)},
		},
	})
	require.NoError(t, err)
	return svc
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope.Data
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope.Error.Code
}
