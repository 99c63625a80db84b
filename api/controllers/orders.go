package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/doctorpiscinas/storefront-backend/api/middleware"
	"github.com/doctorpiscinas/storefront-backend/api/responses"
	"github.com/doctorpiscinas/storefront-backend/api/validators"
	"github.com/doctorpiscinas/storefront-backend/internal/cart"
	"github.com/doctorpiscinas/storefront-backend/internal/notify"
	"github.com/doctorpiscinas/storefront-backend/internal/orders"
	"github.com/doctorpiscinas/storefront-backend/pkg/db/models"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
	"github.com/doctorpiscinas/storefront-backend/pkg/logger"
)

type orderNotifier interface {
	Compose(order *models.Order) notify.Message
}

type checkoutRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Phone   string `json:"phone" validate:"required,min=10,max=32"`
	Address string `json:"address" validate:"required,min=5,max=300"`
	Notes   string `json:"notes" validate:"max=1000"`
}

type checkoutResponse struct {
	Success         bool             `json:"success"`
	OrderID         string           `json:"order_id"`
	WhatsAppURL     string           `json:"whatsapp_url"`
	WhatsAppMessage string           `json:"whatsapp_message"`
	Order           *orders.OrderDTO `json:"order"`
}

// Checkout places an order from the session cart, clears the cart and returns
// the WhatsApp hand-off for the shopper.
func Checkout(cartSvc cart.Service, orderSvc orders.Service, notifier orderNotifier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cartSvc == nil || orderSvc == nil || notifier == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		sessionID := middleware.CartSessionFromContext(ctx)
		snapshot, err := cartSvc.Snapshot(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result := orderSvc.PlaceOrder(ctx, orders.PlaceOrderInput{
			Customer: orders.CustomerData{
				Name:    body.Name,
				Phone:   body.Phone,
				Address: body.Address,
				Notes:   body.Notes,
			},
			Cart:           snapshot,
			IdempotencyKey: r.Header.Get(middleware.IdempotencyHeader),
		})
		if !result.Success {
			responses.WriteError(ctx, logg, w, result.Error)
			return
		}

		if logg != nil {
			ctx = logg.WithOrderID(ctx, result.OrderID)
		}
		if err := cartSvc.Clear(ctx, sessionID); err != nil && logg != nil {
			logg.Error(ctx, "checkout.cart_clear_failed", err)
		}

		msg := notifier.Compose(result.Order)
		payload := checkoutResponse{
			Success:         true,
			OrderID:         result.OrderID,
			WhatsAppURL:     msg.URL,
			WhatsAppMessage: msg.Text,
			Order:           orders.NewOrderDTO(result.Order),
		}

		status := http.StatusCreated
		if result.Replayed {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(w, status, payload)
	}
}

// TrackOrders lists the orders placed with a phone number, newest first.
func TrackOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		phone := validators.QueryString(r, "phone", 32)
		list, err := svc.FindOrdersByPhone(r.Context(), phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"orders": list})
	}
}

// GetOrder returns a single order for the confirmation page.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		order, err := svc.GetOrder(r.Context(), strings.TrimSpace(chi.URLParam(r, "orderId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
