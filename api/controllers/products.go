package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/doctorpiscinas/storefront-backend/api/responses"
	"github.com/doctorpiscinas/storefront-backend/api/validators"
	product "github.com/doctorpiscinas/storefront-backend/internal/products"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
	"github.com/doctorpiscinas/storefront-backend/pkg/logger"
)

type createProductRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=200"`
	Description   string   `json:"description" validate:"max=5000"`
	Category      string   `json:"category" validate:"required,max=64"`
	Brand         *string  `json:"brand,omitempty" validate:"omitempty,max=120"`
	SKU           *string  `json:"sku,omitempty" validate:"omitempty,max=64"`
	Price         string   `json:"price" validate:"required,decimal"`
	SalePrice     *string  `json:"sale_price,omitempty" validate:"omitempty,decimal"`
	IsOnSale      bool     `json:"is_on_sale"`
	Cost          *string  `json:"cost,omitempty" validate:"omitempty,decimal"`
	StockQuantity int      `json:"stock_quantity" validate:"gte=0"`
	Images        []string `json:"images" validate:"omitempty,max=20,dive,required,url"`
}

func (req createProductRequest) toInput() (product.CreateProductInput, error) {
	price, err := parseMoney("price", req.Price)
	if err != nil {
		return product.CreateProductInput{}, err
	}
	salePrice, err := parseOptionalMoney("sale_price", req.SalePrice)
	if err != nil {
		return product.CreateProductInput{}, err
	}
	cost, err := parseOptionalMoney("cost", req.Cost)
	if err != nil {
		return product.CreateProductInput{}, err
	}
	return product.CreateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Brand:         req.Brand,
		SKU:           req.SKU,
		Price:         price,
		SalePrice:     salePrice,
		IsOnSale:      req.IsOnSale,
		Cost:          cost,
		StockQuantity: req.StockQuantity,
		Images:        req.Images,
	}, nil
}

type updateProductRequest struct {
	Name          *string   `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description   *string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category      *string   `json:"category,omitempty" validate:"omitempty,max=64"`
	Brand         *string   `json:"brand,omitempty" validate:"omitempty,max=120"`
	SKU           *string   `json:"sku,omitempty" validate:"omitempty,max=64"`
	Price         *string   `json:"price,omitempty" validate:"omitempty,decimal"`
	SalePrice     *string   `json:"sale_price,omitempty" validate:"omitempty,decimal"`
	ClearSale     bool      `json:"clear_sale_price"`
	IsOnSale      *bool     `json:"is_on_sale,omitempty"`
	Cost          *string   `json:"cost,omitempty" validate:"omitempty,decimal"`
	StockQuantity *int      `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	Images        *[]string `json:"images,omitempty" validate:"omitempty,max=20,dive,required,url"`
}

func (req updateProductRequest) toInput() (product.UpdateProductInput, error) {
	price, err := parseOptionalMoney("price", req.Price)
	if err != nil {
		return product.UpdateProductInput{}, err
	}
	salePrice, err := parseOptionalMoney("sale_price", req.SalePrice)
	if err != nil {
		return product.UpdateProductInput{}, err
	}
	cost, err := parseOptionalMoney("cost", req.Cost)
	if err != nil {
		return product.UpdateProductInput{}, err
	}
	return product.UpdateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Brand:         req.Brand,
		SKU:           req.SKU,
		Price:         price,
		SalePrice:     salePrice,
		ClearSale:     req.ClearSale,
		IsOnSale:      req.IsOnSale,
		Cost:          cost,
		StockQuantity: req.StockQuantity,
		Images:        req.Images,
	}, nil
}

// ListProducts serves the public catalog, optionally filtered by category.
func ListProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return listProducts(svc, logg, false)
}

// AdminListProducts is ListProducts with unit costs included.
func AdminListProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return listProducts(svc, logg, true)
}

func listProducts(svc product.Service, logg *logger.Logger, includeCost bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), product.ListProductsInput{
			Category:    validators.QueryString(r, "category", 64),
			IncludeCost: includeCost,
			Pagination:  page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return getProduct(svc, logg, false)
}

func AdminGetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return getProduct(svc, logg, true)
}

func getProduct(svc product.Service, logg *logger.Logger, includeCost bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		dto, err := svc.GetProduct(r.Context(), chi.URLParam(r, "productId"), includeCost)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func AdminCreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func AdminUpdateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateProduct(r.Context(), chi.URLParam(r, "productId"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func AdminDeleteProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		if err := svc.DeleteProduct(r.Context(), chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func parseMoney(field, raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount").
			WithDetails(map[string]string{field: "must be a decimal amount"})
	}
	return value, nil
}

func parseOptionalMoney(field string, raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	value, err := parseMoney(field, *raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
