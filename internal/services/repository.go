package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/doctorpiscinas/storefront-backend/pkg/db/models"
	"github.com/doctorpiscinas/storefront-backend/pkg/pagination"
)

// Repository persists services and their categories.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id string) (*models.Service, error)
	List(ctx context.Context, query ListQuery) ([]models.Service, error)
	Create(ctx context.Context, svc *models.Service) (*models.Service, error)
	Update(ctx context.Context, svc *models.Service) (*models.Service, error)
	Delete(ctx context.Context, id string) (bool, error)

	FindCategory(ctx context.Context, slug string) (*models.ServiceCategory, error)
	ListCategories(ctx context.Context) ([]models.ServiceCategory, error)
	CreateCategory(ctx context.Context, category *models.ServiceCategory) (*models.ServiceCategory, error)
	DeleteCategory(ctx context.Context, slug string) (bool, error)
	CountInCategory(ctx context.Context, slug string) (int64, error)
}

// ListQuery filters the service listing. Limit already includes the
// look-ahead row.
type ListQuery struct {
	CategorySlug string
	Limit        int
	Cursor       *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindByID loads one service; a miss surfaces gorm.ErrRecordNotFound.
func (r *repository) FindByID(ctx context.Context, id string) (*models.Service, error) {
	var row models.Service
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns services newest first.
func (r *repository) List(ctx context.Context, query ListQuery) ([]models.Service, error) {
	q := r.db.WithContext(ctx).Model(&models.Service{})
	if query.CategorySlug != "" {
		q = q.Where("category_slug = ?", query.CategorySlug)
	}
	if query.Cursor != nil {
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			query.Cursor.CreatedAt, query.Cursor.CreatedAt, query.Cursor.ID)
	}
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}

	var rows []models.Service
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Create(ctx context.Context, svc *models.Service) (*models.Service, error) {
	now := time.Now().UTC()
	if svc.CreatedAt.IsZero() {
		svc.CreatedAt = now
	}
	svc.UpdatedAt = now
	if svc.Images == nil {
		svc.Images = []string{}
	}
	if err := r.db.WithContext(ctx).Create(svc).Error; err != nil {
		return nil, err
	}
	return svc, nil
}

func (r *repository) Update(ctx context.Context, svc *models.Service) (*models.Service, error) {
	svc.UpdatedAt = time.Now().UTC()
	if svc.Images == nil {
		svc.Images = []string{}
	}
	if err := r.db.WithContext(ctx).Save(svc).Error; err != nil {
		return nil, err
	}
	return svc, nil
}

func (r *repository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Service{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindCategory returns nil, nil when the slug is unknown.
func (r *repository) FindCategory(ctx context.Context, slug string) (*models.ServiceCategory, error) {
	var rows []models.ServiceCategory
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ListCategories returns categories alphabetically by name.
func (r *repository) ListCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	var rows []models.ServiceCategory
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CreateCategory(ctx context.Context, category *models.ServiceCategory) (*models.ServiceCategory, error) {
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *repository) DeleteCategory(ctx context.Context, slug string) (bool, error) {
	res := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.ServiceCategory{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) CountInCategory(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Service{}).Where("category_slug = ?", slug).Count(&count).Error
	return count, err
}
