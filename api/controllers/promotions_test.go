package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorpiscinas/storefront-backend/internal/promotions"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
)

type stubPromotions struct {
	promotions.Service
	position    string
	activeOnly  bool
	liveOnly    bool
	bannerInput promotions.BannerInput
	spotInput   promotions.SpotInput
	spotUpdate  promotions.UpdateSpotInput
}

func (s *stubPromotions) ListBanners(_ context.Context, position string, activeOnly bool) ([]promotions.BannerDTO, error) {
	s.position, s.activeOnly = position, activeOnly
	return []promotions.BannerDTO{{ID: "b1", Position: "hero"}}, nil
}

func (s *stubPromotions) GetBanner(_ context.Context, id string) (*promotions.BannerDTO, error) {
	if id != "b1" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
	}
	return &promotions.BannerDTO{ID: id}, nil
}

func (s *stubPromotions) CreateBanner(_ context.Context, input promotions.BannerInput) (*promotions.BannerDTO, error) {
	s.bannerInput = input
	return &promotions.BannerDTO{ID: "b2", Title: input.Title}, nil
}

func (s *stubPromotions) DeleteBanner(context.Context, string) error {
	return nil
}

func (s *stubPromotions) ListSpots(_ context.Context, liveOnly bool) ([]promotions.SpotDTO, error) {
	s.liveOnly = liveOnly
	return []promotions.SpotDTO{{ID: "sp1", Status: "live"}}, nil
}

func (s *stubPromotions) CreateSpot(_ context.Context, input promotions.SpotInput) (*promotions.SpotDTO, error) {
	s.spotInput = input
	if !input.EndDate.After(input.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_date must be after start_date")
	}
	return &promotions.SpotDTO{ID: "sp2"}, nil
}

func (s *stubPromotions) UpdateSpot(_ context.Context, id string, input promotions.UpdateSpotInput) (*promotions.SpotDTO, error) {
	s.spotUpdate = input
	return &promotions.SpotDTO{ID: id}, nil
}

func TestListBannersPublicIsActiveOnly(t *testing.T) {
	svc := &stubPromotions{}
	rec := httptest.NewRecorder()
	ListBanners(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?position=hero", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.activeOnly)
	assert.Equal(t, "hero", svc.position)
	body := decodeData[struct {
		Banners []promotions.BannerDTO `json:"banners"`
	}](t, rec)
	require.Len(t, body.Banners, 1)

	rec = httptest.NewRecorder()
	AdminListBanners(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, svc.activeOnly)
	assert.Empty(t, svc.position)
}

func TestAdminBannerRoutes(t *testing.T) {
	svc := &stubPromotions{}
	rec := httptest.NewRecorder()
	AdminCreateBanner(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/", `{"title":"Verano","cta_link":"/productos"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	AdminCreateBanner(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/", `{
		"title":"Verano",
		"cta":"Ver ofertas",
		"cta_link":"/productos",
		"image":"https://cdn.example.com/verano.jpg",
		"is_active":false,
		"position":"sidebar"
	}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "sidebar", svc.bannerInput.Position)
	require.NotNil(t, svc.bannerInput.IsActive)
	assert.False(t, *svc.bannerInput.IsActive)

	rec = httptest.NewRecorder()
	AdminGetBanner(svc, nil).ServeHTTP(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"bannerId": "missing"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	AdminDeleteBanner(svc, nil).ServeHTTP(rec, withURLParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"bannerId": "b1"}))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestListPromotionalSpotsPublicIsLiveOnly(t *testing.T) {
	svc := &stubPromotions{}
	rec := httptest.NewRecorder()
	ListPromotionalSpots(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.liveOnly)

	rec = httptest.NewRecorder()
	AdminListPromotionalSpots(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, svc.liveOnly)
}

func TestAdminCreatePromotionalSpotParsesDates(t *testing.T) {
	svc := &stubPromotions{}
	rec := httptest.NewRecorder()
	AdminCreatePromotionalSpot(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/", `{
		"title":"2x1 en cloro",
		"type":"discount",
		"value":"50%",
		"start_date":"2025-07-01T00:00:00Z",
		"end_date":"2025-07-31T23:59:59-06:00"
	}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, svc.spotInput.StartDate.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, svc.spotInput.EndDate.Equal(time.Date(2025, 8, 1, 5, 59, 59, 0, time.UTC)))

	rec = httptest.NewRecorder()
	AdminCreatePromotionalSpot(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/", `{"title":"Mal","type":"discount","start_date":"julio"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	AdminCreatePromotionalSpot(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/", `{
		"title":"Al reves",
		"type":"discount",
		"start_date":"2025-07-31T00:00:00Z",
		"end_date":"2025-07-01T00:00:00Z"
	}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), decodeErrorCode(t, rec))
}

func TestAdminUpdatePromotionalSpotPartial(t *testing.T) {
	svc := &stubPromotions{}
	rec := httptest.NewRecorder()
	req := withURLParams(jsonRequest(http.MethodPatch, "/", `{"end_date":"2025-09-01T00:00:00Z"}`), map[string]string{"spotId": "sp1"})
	AdminUpdatePromotionalSpot(svc, nil).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.spotUpdate.EndDate)
	assert.Nil(t, svc.spotUpdate.StartDate)
	assert.Nil(t, svc.spotUpdate.Title)
}
