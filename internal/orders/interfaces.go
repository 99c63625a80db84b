package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/doctorpiscinas/storefront-backend/pkg/db/models"
	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
	"github.com/doctorpiscinas/storefront-backend/pkg/pagination"
)

// Repository is the order store.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	FindByPhone(ctx context.Context, phone string) ([]models.Order, error)
	List(ctx context.Context, query ListQuery) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status enums.OrderStatus) (bool, error)
	Totals(ctx context.Context) (*Totals, error)
}

// ListQuery is the repository-level admin listing filter. Limit already
// includes the look-ahead row.
type ListQuery struct {
	Status *enums.OrderStatus
	Limit  int
	Cursor *pagination.Cursor
}

// StockCounter reports units in stock across the catalog.
type StockCounter interface {
	StockUnits(ctx context.Context) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
