package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/doctorpiscinas/storefront-backend/internal/cart"
	"github.com/doctorpiscinas/storefront-backend/pkg/db"
	"github.com/doctorpiscinas/storefront-backend/pkg/db/models"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
	"github.com/doctorpiscinas/storefront-backend/pkg/pagination"
)

// Service exposes catalog reads for shoppers and CRUD for the admin.
type Service interface {
	cart.ItemResolver
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	GetProduct(ctx context.Context, id string, includeCost bool) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id string) error
	StockUnits(ctx context.Context) (int64, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string
	Description   string
	Category      string
	Brand         *string
	SKU           *string
	Price         decimal.Decimal
	SalePrice     *decimal.Decimal
	IsOnSale      bool
	Cost          *decimal.Decimal
	StockQuantity int
	Images        []string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Category      *string
	Brand         *string
	SKU           *string
	Price         *decimal.Decimal
	SalePrice     *decimal.Decimal
	ClearSale     bool
	IsOnSale      *bool
	Cost          *decimal.Decimal
	StockQuantity *int
	Images        *[]string
}

type service struct {
	repo Repository
}

// NewService constructs a catalog service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	window, err := input.Pagination.Window()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, ListQuery{
		Category: normalizeCategory(input.Category),
		Limit:    window.Fetch,
		Cursor:   window.After,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	result := &ProductListResult{}
	rows, result.NextCursor = pagination.Trim(window, rows, func(p models.Product) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})
	result.Products = make([]ProductDTO, 0, len(rows))
	for i := range rows {
		result.Products = append(result.Products, *NewProductDTO(&rows[i], input.IncludeCost))
	}
	return result, nil
}

func (s *service) GetProduct(ctx context.Context, id string, includeCost bool) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product, includeCost), nil
}

// ResolveCartItem prices a product for the cart at its effective price.
func (s *service) ResolveCartItem(ctx context.Context, productID string) (cart.Item, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return cart.Item{}, err
	}
	item := cart.Item{
		ID:        product.ID,
		Name:      product.Name,
		UnitPrice: product.EffectivePrice(),
	}
	if product.Cost.Valid {
		cost := product.Cost.Decimal
		item.UnitCost = &cost
	}
	if len(product.Images) > 0 {
		item.Image = product.Images[0]
	}
	return item, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	product := &models.Product{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(input.Name),
		Description:   strings.TrimSpace(input.Description),
		Category:      normalizeCategory(input.Category),
		Brand:         trimmedOrNil(input.Brand),
		SKU:           trimmedOrNil(input.SKU),
		Price:         input.Price,
		IsOnSale:      input.IsOnSale,
		StockQuantity: input.StockQuantity,
		Images:        input.Images,
	}
	if input.SalePrice != nil {
		product.SalePrice = decimal.NewNullDecimal(*input.SalePrice)
	}
	if input.Cost != nil {
		product.Cost = decimal.NewNullDecimal(*input.Cost)
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, mapWriteError(err, "create product")
	}
	return NewProductDTO(created, true), nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdateToProduct(product, input)
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, mapWriteError(err, "update product")
	}
	return NewProductDTO(updated, true), nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) StockUnits(ctx context.Context) (int64, error) {
	units, err := s.repo.SumStock(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum stock")
	}
	return units, nil
}

func (s *service) load(ctx context.Context, id string) (*models.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		product.Category = normalizeCategory(*input.Category)
	}
	if input.Brand != nil {
		product.Brand = trimmedOrNil(input.Brand)
	}
	if input.SKU != nil {
		product.SKU = trimmedOrNil(input.SKU)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.ClearSale {
		product.SalePrice = decimal.NullDecimal{}
		product.IsOnSale = false
	}
	if input.SalePrice != nil {
		product.SalePrice = decimal.NewNullDecimal(*input.SalePrice)
	}
	if input.IsOnSale != nil {
		product.IsOnSale = *input.IsOnSale
	}
	if input.Cost != nil {
		product.Cost = decimal.NewNullDecimal(*input.Cost)
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.Images != nil {
		product.Images = *input.Images
	}
}

func validateProduct(p *models.Product) error {
	switch {
	case len(p.Name) < 2:
		return pkgerrors.New(pkgerrors.CodeValidation, "name must be at least 2 characters")
	case p.Category == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	case !p.Price.IsPositive():
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than 0")
	case p.StockQuantity < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "stock_quantity cannot be negative")
	case p.Cost.Valid && p.Cost.Decimal.IsNegative():
		return pkgerrors.New(pkgerrors.CodeValidation, "cost cannot be negative")
	}
	if p.SalePrice.Valid && !p.SalePrice.Decimal.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale_price must be greater than 0")
	}
	if p.IsOnSale {
		if !p.SalePrice.Valid {
			return pkgerrors.New(pkgerrors.CodeValidation, "sale_price is required while on sale")
		}
		if p.SalePrice.Decimal.GreaterThanOrEqual(p.Price) {
			return pkgerrors.New(pkgerrors.CodeValidation, "sale_price must be lower than price")
		}
	}
	return nil
}

func mapWriteError(err error, action string) error {
	if db.IsUniqueViolation(err, "sku") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "sku already in use")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
