package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorpiscinas/storefront-backend/api/middleware"
	"github.com/doctorpiscinas/storefront-backend/internal/cart"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
)

func cartRouter(svc cart.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.CartSession(cart.NewSessionID, nil))
	r.Get("/cart", CartGet(svc, nil))
	r.Delete("/cart", CartClear(svc, nil))
	r.Post("/cart/items", CartAddItem(svc, nil))
	r.Patch("/cart/items/{itemId}", CartSetQuantity(svc, nil))
	r.Delete("/cart/items/{itemId}", CartRemoveItem(svc, nil))
	r.Post("/cart/coupon", CartApplyCoupon(svc, nil))
	r.Delete("/cart/coupon", CartRemoveCoupon(svc, nil))
	return r
}

func doCart(t *testing.T, h http.Handler, session string, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	if session != "" {
		req.Header.Set(middleware.CartSessionHeader, session)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCartFlowOverHTTP(t *testing.T) {
	h := cartRouter(newCartService(t))

	rec := doCart(t, h, "", httptest.NewRequest(http.MethodGet, "/cart", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	session := rec.Header().Get(middleware.CartSessionHeader)
	require.NotEmpty(t, session)

	rec = doCart(t, h, session, jsonRequest(http.MethodPost, "/cart/items", `{"product_id":"p1","quantity":2}`))
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeData[cart.View](t, rec)
	assert.Equal(t, "100.00", view.Subtotal)
	assert.Equal(t, 2, view.ItemCount)

	rec = doCart(t, h, session, jsonRequest(http.MethodPost, "/cart/coupon", `{"code":"save10"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeData[cart.View](t, rec)
	require.NotNil(t, view.Coupon)
	assert.Equal(t, "SAVE10", view.Coupon.Code)
	assert.Equal(t, "10.00", view.DiscountAmount)
	assert.Equal(t, "90.00", view.Total)

	rec = doCart(t, h, session, jsonRequest(http.MethodPatch, "/cart/items/p1", `{"quantity":0}`))
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeData[cart.View](t, rec)
	assert.Empty(t, view.Items)
	assert.Equal(t, "0.00", view.Total)
}

func TestCartUnknownCouponIs404AndClearsCoupon(t *testing.T) {
	h := cartRouter(newCartService(t))
	session := "shopper1"

	doCart(t, h, session, jsonRequest(http.MethodPost, "/cart/items", `{"product_id":"p1"}`))
	doCart(t, h, session, jsonRequest(http.MethodPost, "/cart/coupon", `{"code":"MINUS30"}`))

	rec := doCart(t, h, session, jsonRequest(http.MethodPost, "/cart/coupon", `{"code":"NOPE"}`))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeNotFound), decodeErrorCode(t, rec))

	rec = doCart(t, h, session, httptest.NewRequest(http.MethodGet, "/cart", nil))
	view := decodeData[cart.View](t, rec)
	assert.Nil(t, view.Coupon)
	assert.Equal(t, "50.00", view.Total)
}

func TestCartAddUnknownProduct(t *testing.T) {
	h := cartRouter(newCartService(t))
	rec := doCart(t, h, "s1", jsonRequest(http.MethodPost, "/cart/items", `{"product_id":"missing"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartAddItemValidatesBody(t *testing.T) {
	h := cartRouter(newCartService(t))
	rec := doCart(t, h, "s1", jsonRequest(http.MethodPost, "/cart/items", `{"quantity":1}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartRemoveItemAndCoupon(t *testing.T) {
	h := cartRouter(newCartService(t))
	session := "s2"
	doCart(t, h, session, jsonRequest(http.MethodPost, "/cart/items", `{"product_id":"p1"}`))
	doCart(t, h, session, jsonRequest(http.MethodPost, "/cart/items", `{"product_id":"p2"}`))
	doCart(t, h, session, jsonRequest(http.MethodPost, "/cart/coupon", `{"code":"MINUS30"}`))

	rec := doCart(t, h, session, httptest.NewRequest(http.MethodDelete, "/cart/coupon", nil))
	view := decodeData[cart.View](t, rec)
	assert.Nil(t, view.Coupon)
	assert.Equal(t, "75.50", view.Total)

	rec = doCart(t, h, session, httptest.NewRequest(http.MethodDelete, "/cart/items/p2", nil))
	view = decodeData[cart.View](t, rec)
	assert.Len(t, view.Items, 1)
	assert.Equal(t, "50.00", view.Subtotal)

	rec = doCart(t, h, session, httptest.NewRequest(http.MethodDelete, "/cart", nil))
	view = decodeData[cart.View](t, rec)
	assert.Empty(t, view.Items)
}
