package orders

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/doctorpiscinas/storefront-backend/pkg/db/models"
	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
)

const totalsBatchSize = 500

// Totals aggregates non-cancelled orders for the dashboard.
type Totals struct {
	OrderCount int64
	Revenue    decimal.Decimal
	Cost       decimal.Decimal
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	order.UpdatedAt = order.CreatedAt
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads one order; a miss surfaces gorm.ErrRecordNotFound.
func (r *repository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIdempotencyKey returns nil, nil when no order carries the key.
func (r *repository) FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindByPhone returns every order for the exact phone, newest first.
func (r *repository) FindByPhone(ctx context.Context, phone string) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Where("customer_phone = ?", phone).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]models.Order, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}
	if query.Cursor != nil {
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			query.Cursor.CreatedAt, query.Cursor.CreatedAt, query.Cursor.ID)
	}
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}

	var rows []models.Order
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus overwrites the status; the bool reports whether the order exists.
func (r *repository) UpdateStatus(ctx context.Context, id string, status enums.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Totals walks non-cancelled orders in batches. Item costs live in the JSON
// items column, so the cost sum is computed here rather than in SQL.
func (r *repository) Totals(ctx context.Context) (*Totals, error) {
	totals := &Totals{Revenue: decimal.Zero, Cost: decimal.Zero}

	var batch []models.Order
	res := r.db.WithContext(ctx).
		Select("id", "total", "items").
		Where("status <> ?", enums.OrderStatusCancelled).
		FindInBatches(&batch, totalsBatchSize, func(_ *gorm.DB, _ int) error {
			for _, order := range batch {
				totals.OrderCount++
				totals.Revenue = totals.Revenue.Add(order.Total)
				for _, item := range order.Items {
					totals.Cost = totals.Cost.Add(item.LineCost())
				}
			}
			return nil
		})
	if res.Error != nil {
		return nil, res.Error
	}
	return totals, nil
}
