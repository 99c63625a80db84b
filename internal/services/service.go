package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doctorpiscinas/storefront-backend/pkg/db"
	"github.com/doctorpiscinas/storefront-backend/pkg/db/models"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
	"github.com/doctorpiscinas/storefront-backend/pkg/pagination"
)

// Service exposes the pool services catalog for shoppers and CRUD for the admin.
type Service interface {
	ListServices(ctx context.Context, input ListServicesInput) (*ServiceListResult, error)
	GetService(ctx context.Context, id string) (*ServiceDTO, error)
	CreateService(ctx context.Context, input ServiceInput) (*ServiceDTO, error)
	UpdateService(ctx context.Context, id string, input UpdateServiceInput) (*ServiceDTO, error)
	DeleteService(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, slug string) error
}

// ListServicesInput filters the catalog by category slug.
type ListServicesInput struct {
	CategorySlug string
	Pagination   pagination.Params
}

type ServiceInput struct {
	Name            string
	Description     string
	PriceDisplay    string
	CategorySlug    string
	Images          []string
	MetaTitle       *string
	MetaDescription *string
	MetaKeywords    *string
}

// UpdateServiceInput carries optional changes; nil fields stay as stored.
type UpdateServiceInput struct {
	Name            *string
	Description     *string
	PriceDisplay    *string
	CategorySlug    *string
	Images          *[]string
	MetaTitle       *string
	MetaDescription *string
	MetaKeywords    *string
}

// CategoryInput creates a category. Slug defaults to Slugify(Name).
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	Image       *string
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("services repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListServices(ctx context.Context, input ListServicesInput) (*ServiceListResult, error) {
	window, err := input.Pagination.Window()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	result := &ServiceListResult{}
	slug := strings.ToLower(strings.TrimSpace(input.CategorySlug))
	if slug != "" {
		category, err := s.category(ctx, slug)
		if err != nil {
			return nil, err
		}
		result.Category = newCategoryDTO(category)
	}

	rows, err := s.repo.List(ctx, ListQuery{CategorySlug: slug, Limit: window.Fetch, Cursor: window.After})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list services")
	}
	rows, result.NextCursor = pagination.Trim(window, rows, func(row models.Service) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
	})
	result.Services = make([]ServiceDTO, 0, len(rows))
	for i := range rows {
		result.Services = append(result.Services, *NewServiceDTO(&rows[i]))
	}
	return result, nil
}

func (s *service) GetService(ctx context.Context, id string) (*ServiceDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewServiceDTO(row), nil
}

func (s *service) CreateService(ctx context.Context, input ServiceInput) (*ServiceDTO, error) {
	row := &models.Service{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(input.Name),
		Description:     strings.TrimSpace(input.Description),
		PriceDisplay:    strings.TrimSpace(input.PriceDisplay),
		CategorySlug:    strings.ToLower(strings.TrimSpace(input.CategorySlug)),
		Images:          cleanImages(input.Images),
		MetaTitle:       trimmedOrNil(input.MetaTitle),
		MetaDescription: trimmedOrNil(input.MetaDescription),
		MetaKeywords:    trimmedOrNil(input.MetaKeywords),
	}
	if err := s.validate(ctx, row); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create service")
	}
	return NewServiceDTO(created), nil
}

func (s *service) UpdateService(ctx context.Context, id string, input UpdateServiceInput) (*ServiceDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	applyUpdate(row, input)
	if err := s.validate(ctx, row); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update service")
	}
	return NewServiceDTO(updated), nil
}

func (s *service) DeleteService(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete service")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
	}
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list service categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *newCategoryDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must be at least 2 characters")
	}
	slug := Slugify(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug must contain letters or digits")
	}

	created, err := s.repo.CreateCategory(ctx, &models.ServiceCategory{
		Slug:        slug,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Image:       trimmedOrNil(input.Image),
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "category slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create service category")
	}
	return newCategoryDTO(created), nil
}

// DeleteCategory refuses to remove a category that still has services.
func (s *service) DeleteCategory(ctx context.Context, slug string) error {
	slug = strings.ToLower(strings.TrimSpace(slug))
	count, err := s.repo.CountInCategory(ctx, slug)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count services in category")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has services").
			WithDetails(map[string]any{"services": count})
	}
	deleted, err := s.repo.DeleteCategory(ctx, slug)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete service category")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "service category not found")
	}
	return nil
}

func (s *service) load(ctx context.Context, id string) (*models.Service, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service")
	}
	return row, nil
}

func (s *service) category(ctx context.Context, slug string) (*models.ServiceCategory, error) {
	category, err := s.repo.FindCategory(ctx, slug)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service category")
	}
	if category == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service category not found")
	}
	return category, nil
}

func (s *service) validate(ctx context.Context, row *models.Service) error {
	switch {
	case len(row.Name) < 2:
		return pkgerrors.New(pkgerrors.CodeValidation, "name must be at least 2 characters")
	case row.CategorySlug == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if _, err := s.category(ctx, row.CategorySlug); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist").
				WithDetails(map[string]string{"category_slug": row.CategorySlug})
		}
		return err
	}
	return nil
}

func applyUpdate(row *models.Service, input UpdateServiceInput) {
	if input.Name != nil {
		row.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		row.Description = strings.TrimSpace(*input.Description)
	}
	if input.PriceDisplay != nil {
		row.PriceDisplay = strings.TrimSpace(*input.PriceDisplay)
	}
	if input.CategorySlug != nil {
		row.CategorySlug = strings.ToLower(strings.TrimSpace(*input.CategorySlug))
	}
	if input.Images != nil {
		row.Images = cleanImages(*input.Images)
	}
	if input.MetaTitle != nil {
		row.MetaTitle = trimmedOrNil(input.MetaTitle)
	}
	if input.MetaDescription != nil {
		row.MetaDescription = trimmedOrNil(input.MetaDescription)
	}
	if input.MetaKeywords != nil {
		row.MetaKeywords = trimmedOrNil(input.MetaKeywords)
	}
}

// cleanImages drops blank entries.
func cleanImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			out = append(out, img)
		}
	}
	return out
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
