package coupons

import (
	"context"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/doctorpiscinas/storefront-backend/internal/cart"
	"github.com/doctorpiscinas/storefront-backend/pkg/db"
	"github.com/doctorpiscinas/storefront-backend/pkg/db/models"
	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9_-]{3,32}$`)

var hundred = decimal.NewFromInt(100)

// Service manages coupons and resolves them for carts.
type Service interface {
	cart.CouponLookup
	Create(ctx context.Context, input CreateInput) (*CouponDTO, error)
	List(ctx context.Context) ([]CouponDTO, error)
	Delete(ctx context.Context, code string) error
}

// CreateInput holds a validated admin coupon payload.
type CreateInput struct {
	Code     string
	Type     enums.CouponType
	Discount decimal.Decimal
}

// CouponDTO is the API representation of a coupon.
type CouponDTO struct {
	Code     string `json:"code"`
	Type     string `json:"type"`
	Discount string `json:"discount"`
}

type service struct {
	repo Repository
}

// NewService builds the coupon service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{repo: repo}, nil
}

// LookupCoupon resolves a coupon by code, case-insensitively.
func (s *service) LookupCoupon(ctx context.Context, code string) (cart.Coupon, bool, error) {
	canonical := cart.CanonicalCouponCode(code)
	if canonical == "" {
		return cart.Coupon{}, false, nil
	}
	row, err := s.repo.FindByCode(ctx, canonical)
	if err != nil {
		return cart.Coupon{}, false, err
	}
	if row == nil {
		return cart.Coupon{}, false, nil
	}
	return cart.Coupon{Code: row.Code, Type: row.Type, Discount: row.Discount}, true, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CouponDTO, error) {
	code := cart.CanonicalCouponCode(input.Code)
	if !codePattern.MatchString(code) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code must be 3-32 letters, digits, '-' or '_'")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon type must be percentage or fixed")
	}
	if input.Discount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative")
	}
	if input.Type == enums.CouponTypePercentage && input.Discount.GreaterThan(hundred) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage discount must be between 0 and 100")
	}

	row, err := s.repo.Create(ctx, &models.Coupon{Code: code, Type: input.Type, Discount: input.Discount})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "coupon code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create coupon")
	}
	dto := toDTO(*row)
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]CouponDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	out := make([]CouponDTO, len(rows))
	for i, row := range rows {
		out[i] = toDTO(row)
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, code string) error {
	canonical := cart.CanonicalCouponCode(code)
	if canonical == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	deleted, err := s.repo.Delete(ctx, canonical)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete coupon")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	return nil
}

func toDTO(row models.Coupon) CouponDTO {
	return CouponDTO{
		Code:     row.Code,
		Type:     row.Type.String(),
		Discount: row.Discount.String(),
	}
}
