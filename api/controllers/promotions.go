package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/doctorpiscinas/storefront-backend/api/responses"
	"github.com/doctorpiscinas/storefront-backend/api/validators"
	"github.com/doctorpiscinas/storefront-backend/internal/promotions"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
	"github.com/doctorpiscinas/storefront-backend/pkg/logger"
)

type bannerRequest struct {
	Title           string  `json:"title" validate:"required,min=2,max=160"`
	Description     string  `json:"description" validate:"max=1000"`
	CTA             string  `json:"cta" validate:"max=80"`
	CTALink         string  `json:"cta_link" validate:"max=500"`
	Image           string  `json:"image" validate:"required,url"`
	IsActive        *bool   `json:"is_active,omitempty"`
	Position        string  `json:"position" validate:"max=32"`
	MetaTitle       *string `json:"meta_title,omitempty" validate:"omitempty,max=160"`
	MetaDescription *string `json:"meta_description,omitempty" validate:"omitempty,max=320"`
}

type updateBannerRequest struct {
	Title           *string `json:"title,omitempty" validate:"omitempty,min=2,max=160"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	CTA             *string `json:"cta,omitempty" validate:"omitempty,max=80"`
	CTALink         *string `json:"cta_link,omitempty" validate:"omitempty,max=500"`
	Image           *string `json:"image,omitempty" validate:"omitempty,url"`
	IsActive        *bool   `json:"is_active,omitempty"`
	Position        *string `json:"position,omitempty" validate:"omitempty,max=32"`
	MetaTitle       *string `json:"meta_title,omitempty" validate:"omitempty,max=160"`
	MetaDescription *string `json:"meta_description,omitempty" validate:"omitempty,max=320"`
}

// Dates are RFC 3339; ordering is checked by the service.
type spotRequest struct {
	Title           string    `json:"title" validate:"required,min=2,max=160"`
	Description     string    `json:"description" validate:"max=2000"`
	Type            string    `json:"type" validate:"required,max=32"`
	Value           string    `json:"value" validate:"max=120"`
	IsActive        *bool     `json:"is_active,omitempty"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Image           *string   `json:"image,omitempty" validate:"omitempty,url"`
	Details         *string   `json:"details,omitempty" validate:"omitempty,max=5000"`
	MetaTitle       *string   `json:"meta_title,omitempty" validate:"omitempty,max=160"`
	MetaDescription *string   `json:"meta_description,omitempty" validate:"omitempty,max=320"`
}

type updateSpotRequest struct {
	Title           *string    `json:"title,omitempty" validate:"omitempty,min=2,max=160"`
	Description     *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Type            *string    `json:"type,omitempty" validate:"omitempty,max=32"`
	Value           *string    `json:"value,omitempty" validate:"omitempty,max=120"`
	IsActive        *bool      `json:"is_active,omitempty"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	Image           *string    `json:"image,omitempty" validate:"omitempty,url"`
	Details         *string    `json:"details,omitempty" validate:"omitempty,max=5000"`
	MetaTitle       *string    `json:"meta_title,omitempty" validate:"omitempty,max=160"`
	MetaDescription *string    `json:"meta_description,omitempty" validate:"omitempty,max=320"`
}

// ListBanners serves active banners, optionally narrowed by ?position=.
func ListBanners(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return listBanners(svc, logg, true)
}

// AdminListBanners includes inactive banners.
func AdminListBanners(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return listBanners(svc, logg, false)
}

func listBanners(svc promotions.Service, logg *logger.Logger, activeOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
			return
		}
		list, err := svc.ListBanners(r.Context(), validators.QueryString(r, "position", 32), activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"banners": list})
	}
}

func AdminGetBanner(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
			return
		}
		dto, err := svc.GetBanner(r.Context(), chi.URLParam(r, "bannerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func AdminCreateBanner(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
			return
		}
		var payload bannerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.CreateBanner(r.Context(), promotions.BannerInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func AdminUpdateBanner(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
			return
		}
		var payload updateBannerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.UpdateBanner(r.Context(), chi.URLParam(r, "bannerId"), promotions.UpdateBannerInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func AdminDeleteBanner(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
			return
		}
		if err := svc.DeleteBanner(r.Context(), chi.URLParam(r, "bannerId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// ListPromotionalSpots serves the spots live right now.
func ListPromotionalSpots(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return listSpots(svc, logg, true)
}

func AdminListPromotionalSpots(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return listSpots(svc, logg, false)
}

func listSpots(svc promotions.Service, logg *logger.Logger, liveOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
			return
		}
		list, err := svc.ListSpots(r.Context(), liveOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"spots": list})
	}
}

func AdminGetPromotionalSpot(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
			return
		}
		dto, err := svc.GetSpot(r.Context(), chi.URLParam(r, "spotId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func AdminCreatePromotionalSpot(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
			return
		}
		var payload spotRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.CreateSpot(r.Context(), promotions.SpotInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func AdminUpdatePromotionalSpot(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
			return
		}
		var payload updateSpotRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.UpdateSpot(r.Context(), chi.URLParam(r, "spotId"), promotions.UpdateSpotInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func AdminDeletePromotionalSpot(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
			return
		}
		if err := svc.DeleteSpot(r.Context(), chi.URLParam(r, "spotId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
