package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/doctorpiscinas/storefront-backend/internal/cart"
	"github.com/doctorpiscinas/storefront-backend/pkg/db"
	"github.com/doctorpiscinas/storefront-backend/pkg/db/models"
	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
	"github.com/doctorpiscinas/storefront-backend/pkg/metrics"
	"github.com/doctorpiscinas/storefront-backend/pkg/pagination"
	"github.com/doctorpiscinas/storefront-backend/pkg/security"
	"github.com/doctorpiscinas/storefront-backend/pkg/types"
)

const (
	orderIDPrefix     = "ord_"
	orderIDLength     = 12
	maxIDAttempts     = 3
	maxIdempotencyLen = 128

	minNameLen    = 2
	minPhoneLen   = 10
	minAddressLen = 5
)

var hundred = decimal.NewFromInt(100)

// Service is the order placement workflow plus the admin order operations.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) PlaceOrderResult
	FindOrdersByPhone(ctx context.Context, phone string) ([]OrderDTO, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status enums.OrderStatus) (*OrderDTO, error)
	GetOrder(ctx context.Context, orderID string) (*OrderDTO, error)
	ListOrders(ctx context.Context, input ListOrdersInput) (*OrderList, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

// PlaceOrderInput carries everything needed to place one order. Cart must come
// from cart.Cart.Snapshot; its totals are persisted as-is.
type PlaceOrderInput struct {
	Customer       CustomerData
	Cart           cart.PricingSnapshot
	IdempotencyKey string
}

// PlaceOrderResult is the structured outcome of PlaceOrder. Error is a
// *pkgerrors.Error whenever Success is false.
type PlaceOrderResult struct {
	Success  bool
	OrderID  string
	Error    error
	Order    *models.Order
	Replayed bool
}

// ServiceParams groups the collaborators of the orders service.
type ServiceParams struct {
	Repo             Repository
	Tx               txRunner
	Stock            StockCounter
	Metrics          *metrics.CheckoutMetrics
	PlacementTimeout time.Duration
}

type service struct {
	repo             Repository
	tx               txRunner
	stock            StockCounter
	metrics          *metrics.CheckoutMetrics
	placementTimeout time.Duration
	newID            func() (string, error)
	now              func() time.Time
}

// NewService builds the orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock counter required")
	}
	return &service{
		repo:             params.Repo,
		tx:               params.Tx,
		stock:            params.Stock,
		metrics:          params.Metrics,
		placementTimeout: params.PlacementTimeout,
		newID:            NewOrderID,
		now:              func() time.Time { return time.Now().UTC() },
	}, nil
}

// NewOrderID returns "ord_" followed by 12 random base62 characters.
func NewOrderID() (string, error) {
	token, err := security.RandomToken(orderIDLength)
	if err != nil {
		return "", err
	}
	return orderIDPrefix + token, nil
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) PlaceOrderResult {
	start := time.Now()
	order, replayed, err := s.placeOrder(ctx, input)
	if err != nil {
		s.metrics.ObservePlacement(placementOutcome(err), time.Since(start))
		return PlaceOrderResult{Error: err}
	}

	outcome := "placed"
	if replayed {
		outcome = "replayed"
	}
	s.metrics.ObservePlacement(outcome, time.Since(start))
	return PlaceOrderResult{Success: true, OrderID: order.ID, Order: order, Replayed: replayed}
}

func (s *service) placeOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, bool, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	if len(key) > maxIdempotencyLen {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "idempotency key is too long")
	}

	if s.placementTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.placementTimeout)
		defer cancel()
	}

	// A retried key replays the stored order even when the cart was already cleared.
	if key != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, key)
		if err != nil {
			return nil, false, storeError(err, "lookup idempotency key")
		}
		if existing != nil {
			return existing, true, nil
		}
	}

	if input.Cart.IsEmpty() {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "cannot place an order with no items")
	}
	customer, err := normalizeCustomer(input.Customer)
	if err != nil {
		return nil, false, err
	}

	order := buildOrder(customer, input.Cart, key, s.now())
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := s.newID()
		if err != nil {
			return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order id")
		}
		order.ID = id

		created, err := s.repo.Create(ctx, order)
		if err == nil {
			return created, false, nil
		}
		if key != "" && db.IsUniqueViolation(err, "idempotency_key") {
			existing, findErr := s.repo.FindByIdempotencyKey(ctx, key)
			if findErr != nil {
				return nil, false, storeError(findErr, "lookup idempotency key")
			}
			if existing != nil {
				return existing, true, nil
			}
		}
		if isOrderIDCollision(err) {
			continue
		}
		return nil, false, storeError(err, "create order")
	}
	return nil, false, pkgerrors.New(pkgerrors.CodeDependency, "could not allocate a unique order id")
}

func (s *service) FindOrdersByPhone(ctx context.Context, phone string) ([]OrderDTO, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return []OrderDTO{}, nil
	}
	rows, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, storeError(err, "find orders by phone")
	}
	return toDTOs(rows), nil
}

// UpdateOrderStatus moves an order along its lifecycle. Re-applying the
// current status succeeds without a write.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID string, status enums.OrderStatus) (*OrderDTO, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return storeError(err, "load order")
		}
		if order.Status == status {
			updated = order
			return nil
		}
		if !order.Status.CanTransitionTo(status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "invalid status transition").
				WithDetails(map[string]any{"from": order.Status, "to": status})
		}

		found, err := repo.UpdateStatus(ctx, orderID, status)
		if err != nil {
			return storeError(err, "update order status")
		}
		if !found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		updated, err = repo.FindByID(ctx, orderID)
		if err != nil {
			return storeError(err, "reload order")
		}
		s.metrics.IncStatusChange(status.String())
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, storeError(err, "update order status")
	}
	return NewOrderDTO(updated), nil
}

func (s *service) GetOrder(ctx context.Context, orderID string) (*OrderDTO, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, storeError(err, "load order")
	}
	return NewOrderDTO(order), nil
}

func (s *service) ListOrders(ctx context.Context, input ListOrdersInput) (*OrderList, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	window, err := input.Pagination.Window()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, ListQuery{
		Status: input.Status,
		Limit:  window.Fetch,
		Cursor: window.After,
	})
	if err != nil {
		return nil, storeError(err, "list orders")
	}

	list := &OrderList{}
	rows, list.NextCursor = pagination.Trim(window, rows, func(o models.Order) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})
	list.Orders = toDTOs(rows)
	return list, nil
}

// DashboardStats reports revenue, cost, profit and margin over non-cancelled
// orders plus the units currently in stock.
func (s *service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var errs error
	totals, err := s.repo.Totals(ctx)
	errs = multierr.Append(errs, err)
	units, err := s.stock.StockUnits(ctx)
	errs = multierr.Append(errs, err)
	if errs != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "load dashboard stats")
	}

	profit := totals.Revenue.Sub(totals.Cost)
	margin := decimal.Zero
	if totals.Revenue.IsPositive() {
		margin = profit.Div(totals.Revenue).Mul(hundred).Round(2)
	}
	return &DashboardStats{
		OrderCount:   totals.OrderCount,
		TotalRevenue: totals.Revenue.StringFixed(2),
		TotalCost:    totals.Cost.StringFixed(2),
		Profit:       profit.StringFixed(2),
		ProfitMargin: margin.StringFixed(2),
		UnitsInStock: units,
	}, nil
}

func normalizeCustomer(in CustomerData) (CustomerData, error) {
	out := CustomerData{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
		Notes:   strings.TrimSpace(in.Notes),
	}
	fields := map[string]string{}
	if utf8.RuneCountInString(out.Name) < minNameLen {
		fields["name"] = fmt.Sprintf("must be at least %d characters", minNameLen)
	}
	if utf8.RuneCountInString(out.Phone) < minPhoneLen {
		fields["phone"] = fmt.Sprintf("must be at least %d characters", minPhoneLen)
	}
	if utf8.RuneCountInString(out.Address) < minAddressLen {
		fields["address"] = fmt.Sprintf("must be at least %d characters", minAddressLen)
	}
	if len(fields) > 0 {
		return out, pkgerrors.New(pkgerrors.CodeValidation, "invalid customer data").WithDetails(fields)
	}
	return out, nil
}

func buildOrder(customer CustomerData, snap cart.PricingSnapshot, key string, now time.Time) *models.Order {
	lines := snap.Items()
	items := make(types.OrderItems, len(lines))
	for i, line := range lines {
		items[i] = types.OrderItem{
			ID:        line.ID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Image:     line.Image,
			Quantity:  line.Quantity,
		}
		if line.UnitCost != nil {
			cost := *line.UnitCost
			items[i].UnitCost = &cost
		}
	}

	order := &models.Order{
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		CustomerAddress: customer.Address,
		Items:           items,
		Subtotal:        snap.Subtotal(),
		DiscountAmount:  snap.DiscountAmount(),
		Total:           snap.Total(),
		Status:          enums.OrderStatusPending,
		CreatedAt:       now,
	}
	if customer.Notes != "" {
		notes := customer.Notes
		order.Notes = &notes
	}
	if code := snap.CouponCode(); code != "" {
		order.CouponCode = &code
	}
	if key != "" {
		order.IdempotencyKey = &key
	}
	return order
}

func isOrderIDCollision(err error) bool {
	return db.IsUniqueViolation(err, "orders.id") || db.IsUniqueViolation(err, "orders_pkey")
}

func storeError(err error, action string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order store timed out")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

func placementOutcome(err error) string {
	switch {
	case pkgerrors.IsCode(err, pkgerrors.CodeValidation):
		return "invalid"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

func toDTOs(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewOrderDTO(&rows[i]))
	}
	return out
}
