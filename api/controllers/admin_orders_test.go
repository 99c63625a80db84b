package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/doctorpiscinas/storefront-backend/internal/orders"
	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
)

func TestAdminListOrdersPassesFilters(t *testing.T) {
	svc := &stubOrders{listFn: func(_ context.Context, input orders.ListOrdersInput) (*orders.OrderList, error) {
		if input.Pagination.Limit != 5 {
			t.Fatalf("unexpected limit %d", input.Pagination.Limit)
		}
		if input.Pagination.Cursor != "abc" {
			t.Fatalf("unexpected cursor %q", input.Pagination.Cursor)
		}
		if input.Status == nil || *input.Status != enums.OrderStatusShipped {
			t.Fatalf("expected shipped filter, got %v", input.Status)
		}
		return &orders.OrderList{Orders: []orders.OrderDTO{{ID: "ord_1"}}, NextCursor: "next"}, nil
	}}

	rec := httptest.NewRecorder()
	AdminListOrders(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?limit=5&cursor=abc&status=Shipped", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data orders.OrderList `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Orders) != 1 || envelope.Data.NextCursor != "next" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestAdminListOrdersRejectsUnknownStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	AdminListOrders(&stubOrders{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?status=Lost", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	svc := &stubOrders{statusFn: func(_ context.Context, id string, status enums.OrderStatus) (*orders.OrderDTO, error) {
		if id != "ord_1" || status != enums.OrderStatusProcessing {
			t.Fatalf("unexpected args %s %s", id, status)
		}
		return &orders.OrderDTO{ID: id, Status: status}, nil
	}}

	req := withURLParams(jsonRequest(http.MethodPatch, "/", `{"status":"Processing"}`), map[string]string{"orderId": "ord_1"})
	rec := httptest.NewRecorder()
	AdminUpdateOrderStatus(svc, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminUpdateOrderStatusErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"unknown status", `{"status":"Lost"}`, nil, http.StatusBadRequest},
		{"illegal transition", `{"status":"Pending"}`, pkgerrors.New(pkgerrors.CodeStateConflict, "invalid status transition"), http.StatusConflict},
		{"missing order", `{"status":"Shipped"}`, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubOrders{statusFn: func(context.Context, string, enums.OrderStatus) (*orders.OrderDTO, error) {
				return nil, tt.err
			}}
			req := withURLParams(jsonRequest(http.MethodPatch, "/", tt.body), map[string]string{"orderId": "ord_1"})
			rec := httptest.NewRecorder()
			AdminUpdateOrderStatus(svc, nil).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("expected %d got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestAdminDashboard(t *testing.T) {
	svc := &stubOrders{statsFn: func(context.Context) (*orders.DashboardStats, error) {
		return &orders.DashboardStats{OrderCount: 2, TotalRevenue: "400.00", TotalCost: "240.00", Profit: "160.00", ProfitMargin: "40.00", UnitsInStock: 42}, nil
	}}
	rec := httptest.NewRecorder()
	AdminDashboard(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data orders.DashboardStats `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.ProfitMargin != "40.00" || envelope.Data.UnitsInStock != 42 {
		t.Fatalf("unexpected stats %+v", envelope.Data)
	}
}
