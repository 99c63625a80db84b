package promotions

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/doctorpiscinas/storefront-backend/pkg/db/models"
	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
)

// Repository persists banners and promotional spots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListBanners(ctx context.Context, query BannerQuery) ([]models.Banner, error)
	FindBanner(ctx context.Context, id string) (*models.Banner, error)
	SaveBanner(ctx context.Context, banner *models.Banner) (*models.Banner, error)
	DeleteBanner(ctx context.Context, id string) (bool, error)

	ListSpots(ctx context.Context, query SpotQuery) ([]models.PromotionalSpot, error)
	FindSpot(ctx context.Context, id string) (*models.PromotionalSpot, error)
	SaveSpot(ctx context.Context, spot *models.PromotionalSpot) (*models.PromotionalSpot, error)
	DeleteSpot(ctx context.Context, id string) (bool, error)
}

// BannerQuery filters banners; zero values match everything.
type BannerQuery struct {
	Position   enums.BannerPosition
	ActiveOnly bool
}

// SpotQuery filters spots. LiveAt keeps only active spots whose window covers it.
type SpotQuery struct {
	LiveAt *time.Time
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// ListBanners returns banners newest first.
func (r *repository) ListBanners(ctx context.Context, query BannerQuery) ([]models.Banner, error) {
	q := r.db.WithContext(ctx).Model(&models.Banner{})
	if query.Position != "" {
		q = q.Where("position = ?", query.Position)
	}
	if query.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	var rows []models.Banner
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindBanner(ctx context.Context, id string) (*models.Banner, error) {
	var row models.Banner
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// SaveBanner inserts or updates depending on whether the row has a CreatedAt.
func (r *repository) SaveBanner(ctx context.Context, banner *models.Banner) (*models.Banner, error) {
	now := time.Now().UTC()
	banner.UpdatedAt = now
	if banner.CreatedAt.IsZero() {
		banner.CreatedAt = now
		if err := r.db.WithContext(ctx).Create(banner).Error; err != nil {
			return nil, err
		}
		return banner, nil
	}
	if err := r.db.WithContext(ctx).Save(banner).Error; err != nil {
		return nil, err
	}
	return banner, nil
}

func (r *repository) DeleteBanner(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Banner{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListSpots returns spots newest first.
func (r *repository) ListSpots(ctx context.Context, query SpotQuery) ([]models.PromotionalSpot, error) {
	q := r.db.WithContext(ctx).Model(&models.PromotionalSpot{})
	if query.LiveAt != nil {
		q = q.Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, *query.LiveAt, *query.LiveAt)
	}
	var rows []models.PromotionalSpot
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindSpot(ctx context.Context, id string) (*models.PromotionalSpot, error) {
	var row models.PromotionalSpot
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) SaveSpot(ctx context.Context, spot *models.PromotionalSpot) (*models.PromotionalSpot, error) {
	now := time.Now().UTC()
	spot.UpdatedAt = now
	if spot.CreatedAt.IsZero() {
		spot.CreatedAt = now
		if err := r.db.WithContext(ctx).Create(spot).Error; err != nil {
			return nil, err
		}
		return spot, nil
	}
	if err := r.db.WithContext(ctx).Save(spot).Error; err != nil {
		return nil, err
	}
	return spot, nil
}

func (r *repository) DeleteSpot(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PromotionalSpot{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
