package promotions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorpiscinas/storefront-backend/pkg/db/dbtest"
	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *service {
	t.Helper()
	svc, err := NewService(NewRepository(dbtest.OpenSQLite(t)))
	require.NoError(t, err)
	impl := svc.(*service)
	impl.now = func() time.Time { return testNow }
	return impl
}

func ptr[T any](v T) *T { return &v }

func days(n int) time.Time { return testNow.AddDate(0, 0, n) }

func TestCreateBannerDefaults(t *testing.T) {
	svc := newTestService(t)

	banner, err := svc.CreateBanner(context.Background(), BannerInput{
		Title:   "Temporada 2025",
		CTA:     "Ver ofertas",
		CTALink: "/products?category=quimicos",
		Image:   "https://cdn.example/hero.jpg",
	})
	require.NoError(t, err)
	assert.True(t, banner.IsActive)
	assert.Equal(t, "hero", banner.Position)
	assert.False(t, banner.External)
}

func TestCreateBannerValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := map[string]BannerInput{
		"short title":       {Title: "X", Image: "https://cdn.example/a.jpg"},
		"missing image":     {Title: "Oferta"},
		"unknown position":  {Title: "Oferta", Image: "https://cdn.example/a.jpg", Position: "popup"},
		"relative link":     {Title: "Oferta", Image: "https://cdn.example/a.jpg", CTALink: "products"},
		"scheme-less host":  {Title: "Oferta", Image: "https://cdn.example/a.jpg", CTALink: "//evil.example"},
		"non-http protocol": {Title: "Oferta", Image: "https://cdn.example/a.jpg", CTALink: "javascript:alert(1)"},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateBanner(ctx, input)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}
}

func TestListBannersFiltersByPositionAndActive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	hero, err := svc.CreateBanner(ctx, BannerInput{Title: "Hero", Image: "https://cdn.example/h.jpg"})
	require.NoError(t, err)
	_, err = svc.CreateBanner(ctx, BannerInput{Title: "Lateral", Image: "https://cdn.example/s.jpg", Position: "sidebar", CTALink: "https://wa.me/5492645550000"})
	require.NoError(t, err)
	_, err = svc.CreateBanner(ctx, BannerInput{Title: "Apagado", Image: "https://cdn.example/o.jpg", IsActive: ptr(false)})
	require.NoError(t, err)

	public, err := svc.ListBanners(ctx, "HERO", true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, hero.ID, public[0].ID)

	all, err := svc.ListBanners(ctx, "", false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.ListBanners(ctx, "popup", true)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateAndDeleteBanner(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	banner, err := svc.CreateBanner(ctx, BannerInput{Title: "Hero", Image: "https://cdn.example/h.jpg"})
	require.NoError(t, err)

	updated, err := svc.UpdateBanner(ctx, banner.ID, UpdateBannerInput{
		Position: ptr("footer"),
		IsActive: ptr(false),
		CTALink:  ptr("https://example.com/promo"),
	})
	require.NoError(t, err)
	assert.Equal(t, "footer", updated.Position)
	assert.False(t, updated.IsActive)
	assert.True(t, updated.External)
	assert.Equal(t, "Hero", updated.Title)

	_, err = svc.UpdateBanner(ctx, banner.ID, UpdateBannerInput{Title: ptr("")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	require.NoError(t, svc.DeleteBanner(ctx, banner.ID))
	_, err = svc.GetBanner(ctx, banner.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.IsCode(svc.DeleteBanner(ctx, banner.ID), pkgerrors.CodeNotFound))
}

func TestCreateSpotRequiresOrderedWindow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateSpot(ctx, SpotInput{Title: "Promo", Type: "discount", StartDate: days(2), EndDate: days(1)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.CreateSpot(ctx, SpotInput{Title: "Promo", Type: "flash", StartDate: days(1), EndDate: days(2)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.CreateSpot(ctx, SpotInput{Title: "Promo", Type: "discount"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListSpotsLiveOnlyAndOrdering(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	older, err := svc.CreateSpot(ctx, SpotInput{Title: "Invierno", Type: "discount", Value: "15%", StartDate: days(-30), EndDate: days(10)})
	require.NoError(t, err)
	newer, err := svc.CreateSpot(ctx, SpotInput{Title: "Mantenimiento", Type: "service", StartDate: days(-2), EndDate: days(5)})
	require.NoError(t, err)
	scheduled, err := svc.CreateSpot(ctx, SpotInput{Title: "Verano", Type: "announcement", StartDate: days(20), EndDate: days(40)})
	require.NoError(t, err)
	_, err = svc.CreateSpot(ctx, SpotInput{Title: "Pasada", Type: "discount", StartDate: days(-40), EndDate: days(-10)})
	require.NoError(t, err)
	_, err = svc.CreateSpot(ctx, SpotInput{Title: "Pausada", Type: "discount", IsActive: ptr(false), StartDate: days(-1), EndDate: days(1)})
	require.NoError(t, err)

	live, err := svc.ListSpots(ctx, true)
	require.NoError(t, err)
	require.Len(t, live, 2)
	assert.Equal(t, newer.ID, live[0].ID)
	assert.Equal(t, older.ID, live[1].ID)
	assert.Equal(t, string(enums.SpotStatusLive), live[0].Status)

	all, err := svc.ListSpots(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, newer.ID, all[0].ID)
	assert.Equal(t, older.ID, all[1].ID)
	assert.Equal(t, scheduled.ID, all[2].ID)
	assert.Equal(t, string(enums.SpotStatusScheduled), all[2].Status)

	statuses := map[string]string{}
	for _, spot := range all {
		statuses[spot.Title] = spot.Status
	}
	assert.Equal(t, string(enums.SpotStatusExpired), statuses["Pasada"])
	assert.Equal(t, string(enums.SpotStatusInactive), statuses["Pausada"])
}

func TestUpdateSpotRevalidatesWindow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	spot, err := svc.CreateSpot(ctx, SpotInput{Title: "Invierno", Type: "discount", StartDate: days(-1), EndDate: days(3)})
	require.NoError(t, err)

	_, err = svc.UpdateSpot(ctx, spot.ID, UpdateSpotInput{EndDate: ptr(days(-2))})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	updated, err := svc.UpdateSpot(ctx, spot.ID, UpdateSpotInput{EndDate: ptr(days(9)), Details: ptr("Solo efectivo")})
	require.NoError(t, err)
	assert.True(t, updated.EndDate.Equal(days(9)))
	require.NotNil(t, updated.Details)
	assert.Equal(t, "Solo efectivo", *updated.Details)

	require.NoError(t, svc.DeleteSpot(ctx, spot.ID))
	_, err = svc.GetSpot(ctx, spot.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
