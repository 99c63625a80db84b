package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorpiscinas/storefront-backend/pkg/db/dbtest"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
	"github.com/doctorpiscinas/storefront-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, Repository) {
	t.Helper()
	repo := NewRepository(dbtest.OpenSQLite(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func strPtr(v string) *string { return &v }

func seedCategory(t *testing.T, svc Service, name string) *CategoryDTO {
	t.Helper()
	category, err := svc.CreateCategory(context.Background(), CategoryInput{Name: name})
	require.NoError(t, err)
	return category
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Limpieza de Piscinas":     "limpieza-de-piscinas",
		"  Reparación   y Montaje": "reparacion-y-montaje",
		"Año 2025!":                "ano-2025",
		"---":                      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestCreateCategoryDerivesSlugAndRejectsDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	category := seedCategory(t, svc, "Mantenimiento Mensual")
	assert.Equal(t, "mantenimiento-mensual", category.Slug)

	_, err := svc.CreateCategory(ctx, CategoryInput{Name: "Otro nombre", Slug: "Mantenimiento mensual"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)

	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "X"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	list, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestCreateServiceRequiresExistingCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateService(ctx, ServiceInput{Name: "Limpieza", CategorySlug: "limpieza"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
	assert.Equal(t, "category does not exist", pkgerrors.As(err).Message())

	seedCategory(t, svc, "Limpieza")
	created, err := svc.CreateService(ctx, ServiceInput{
		Name:         "Limpieza profunda",
		PriceDisplay: " desde $15.000 ",
		CategorySlug: " LIMPIEZA ",
		Images:       []string{"https://cdn.example/a.jpg", "  "},
		MetaTitle:    strPtr("  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "limpieza", created.CategorySlug)
	assert.Equal(t, "desde $15.000", created.PriceDisplay)
	assert.Equal(t, []string{"https://cdn.example/a.jpg"}, created.Images)
	assert.Nil(t, created.MetaTitle)
}

func TestUpdateAndDeleteService(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedCategory(t, svc, "Limpieza")
	seedCategory(t, svc, "Reparaciones")

	created, err := svc.CreateService(ctx, ServiceInput{Name: "Cambio de arena", CategorySlug: "limpieza"})
	require.NoError(t, err)

	updated, err := svc.UpdateService(ctx, created.ID, UpdateServiceInput{
		CategorySlug: strPtr("reparaciones"),
		PriceDisplay: strPtr("Consultar"),
	})
	require.NoError(t, err)
	assert.Equal(t, "reparaciones", updated.CategorySlug)
	assert.Equal(t, "Cambio de arena", updated.Name)

	_, err = svc.UpdateService(ctx, created.ID, UpdateServiceInput{CategorySlug: strPtr("inexistente")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	require.NoError(t, svc.DeleteService(ctx, created.ID))
	assert.True(t, pkgerrors.IsCode(svc.DeleteService(ctx, created.ID), pkgerrors.CodeNotFound))
	_, err = svc.GetService(ctx, created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteCategoryInUseIsConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedCategory(t, svc, "Limpieza")

	created, err := svc.CreateService(ctx, ServiceInput{Name: "Aspirado", CategorySlug: "limpieza"})
	require.NoError(t, err)

	assert.True(t, pkgerrors.IsCode(svc.DeleteCategory(ctx, "limpieza"), pkgerrors.CodeConflict))

	require.NoError(t, svc.DeleteService(ctx, created.ID))
	require.NoError(t, svc.DeleteCategory(ctx, "limpieza"))
	assert.True(t, pkgerrors.IsCode(svc.DeleteCategory(ctx, "limpieza"), pkgerrors.CodeNotFound))
}

func TestListServicesByCategoryPaginates(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	seedCategory(t, svc, "Limpieza")
	seedCategory(t, svc, "Reparaciones")

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, name := range []string{"Aspirado", "Cepillado", "Clorado"} {
		created, err := svc.CreateService(ctx, ServiceInput{Name: name, CategorySlug: "limpieza"})
		require.NoError(t, err)
		row, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		row.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		_, err = repo.Update(ctx, row)
		require.NoError(t, err)
	}
	_, err := svc.CreateService(ctx, ServiceInput{Name: "Soldadura", CategorySlug: "reparaciones"})
	require.NoError(t, err)

	first, err := svc.ListServices(ctx, ListServicesInput{CategorySlug: "Limpieza", Pagination: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	require.NotNil(t, first.Category)
	assert.Equal(t, "Limpieza", first.Category.Name)
	require.Len(t, first.Services, 2)
	assert.Equal(t, "Clorado", first.Services[0].Name)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.ListServices(ctx, ListServicesInput{CategorySlug: "limpieza", Pagination: pagination.Params{Limit: 2, Cursor: first.NextCursor}})
	require.NoError(t, err)
	require.Len(t, second.Services, 1)
	assert.Equal(t, "Aspirado", second.Services[0].Name)
	assert.Empty(t, second.NextCursor)

	all, err := svc.ListServices(ctx, ListServicesInput{})
	require.NoError(t, err)
	assert.Nil(t, all.Category)
	assert.Len(t, all.Services, 4)

	_, err = svc.ListServices(ctx, ListServicesInput{CategorySlug: "piletas"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
