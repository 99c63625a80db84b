package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/doctorpiscinas/storefront-backend/api/responses"
	"github.com/doctorpiscinas/storefront-backend/api/validators"
	"github.com/doctorpiscinas/storefront-backend/internal/services"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
	"github.com/doctorpiscinas/storefront-backend/pkg/logger"
)

type serviceRequest struct {
	Name            string   `json:"name" validate:"required,min=2,max=200"`
	Description     string   `json:"description" validate:"max=5000"`
	PriceDisplay    string   `json:"price_display" validate:"max=120"`
	CategorySlug    string   `json:"category_slug" validate:"required,max=80"`
	Images          []string `json:"images" validate:"omitempty,max=20,dive,url"`
	MetaTitle       *string  `json:"meta_title,omitempty" validate:"omitempty,max=160"`
	MetaDescription *string  `json:"meta_description,omitempty" validate:"omitempty,max=320"`
	MetaKeywords    *string  `json:"meta_keywords,omitempty" validate:"omitempty,max=320"`
}

type updateServiceRequest struct {
	Name            *string   `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description     *string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	PriceDisplay    *string   `json:"price_display,omitempty" validate:"omitempty,max=120"`
	CategorySlug    *string   `json:"category_slug,omitempty" validate:"omitempty,max=80"`
	Images          *[]string `json:"images,omitempty" validate:"omitempty,max=20,dive,url"`
	MetaTitle       *string   `json:"meta_title,omitempty" validate:"omitempty,max=160"`
	MetaDescription *string   `json:"meta_description,omitempty" validate:"omitempty,max=320"`
	MetaKeywords    *string   `json:"meta_keywords,omitempty" validate:"omitempty,max=320"`
}

type serviceCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Slug        string  `json:"slug" validate:"max=80"`
	Description string  `json:"description" validate:"max=2000"`
	Image       *string `json:"image,omitempty" validate:"omitempty,url"`
}

// ListServices serves the public services catalog, optionally for one category.
func ListServices(svc services.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "services catalog unavailable"))
			return
		}
		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ListServices(r.Context(), services.ListServicesInput{
			CategorySlug: validators.QueryString(r, "category", 80),
			Pagination:   page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GetService(svc services.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "services catalog unavailable"))
			return
		}
		dto, err := svc.GetService(r.Context(), chi.URLParam(r, "serviceId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func ListServiceCategories(svc services.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "services catalog unavailable"))
			return
		}
		list, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": list})
	}
}

func AdminCreateService(svc services.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "services catalog unavailable"))
			return
		}
		var payload serviceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.CreateService(r.Context(), services.ServiceInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func AdminUpdateService(svc services.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "services catalog unavailable"))
			return
		}
		var payload updateServiceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.UpdateService(r.Context(), chi.URLParam(r, "serviceId"), services.UpdateServiceInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func AdminDeleteService(svc services.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "services catalog unavailable"))
			return
		}
		if err := svc.DeleteService(r.Context(), chi.URLParam(r, "serviceId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func AdminCreateServiceCategory(svc services.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "services catalog unavailable"))
			return
		}
		var payload serviceCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.CreateCategory(r.Context(), services.CategoryInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func AdminDeleteServiceCategory(svc services.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "services catalog unavailable"))
			return
		}
		if err := svc.DeleteCategory(r.Context(), chi.URLParam(r, "slug")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
