package models

import (
	"time"

	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
)

// Banner is marketing content shown in a fixed storefront slot.
type Banner struct {
	ID              string               `gorm:"column:id;primaryKey"`
	Title           string               `gorm:"column:title;not null"`
	Description     string               `gorm:"column:description;not null;default:''"`
	CTA             string               `gorm:"column:cta;not null;default:''"`
	CTALink         string               `gorm:"column:cta_link;not null;default:''"`
	Image           string               `gorm:"column:image;not null"`
	IsActive        bool                 `gorm:"column:is_active;not null;default:true"`
	Position        enums.BannerPosition `gorm:"column:position;type:text;not null;index:idx_banners_position"`
	MetaTitle       *string              `gorm:"column:meta_title"`
	MetaDescription *string              `gorm:"column:meta_description"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (Banner) TableName() string { return "banners" }

// PromotionalSpot is a dated promotion. It is live while active and inside
// [StartDate, EndDate].
type PromotionalSpot struct {
	ID              string         `gorm:"column:id;primaryKey"`
	Title           string         `gorm:"column:title;not null"`
	Description     string         `gorm:"column:description;not null;default:''"`
	Type            enums.SpotType `gorm:"column:type;type:text;not null"`
	Value           string         `gorm:"column:value;not null;default:''"`
	IsActive        bool           `gorm:"column:is_active;not null;default:true"`
	StartDate       time.Time      `gorm:"column:start_date;not null"`
	EndDate         time.Time      `gorm:"column:end_date;not null"`
	Image           *string        `gorm:"column:image"`
	Details         *string        `gorm:"column:details"`
	MetaTitle       *string        `gorm:"column:meta_title"`
	MetaDescription *string        `gorm:"column:meta_description"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (PromotionalSpot) TableName() string { return "promotional_spots" }

// StatusAt reports the schedule state of the spot at now.
func (s PromotionalSpot) StatusAt(now time.Time) enums.SpotStatus {
	switch {
	case !s.IsActive:
		return enums.SpotStatusInactive
	case now.Before(s.StartDate):
		return enums.SpotStatusScheduled
	case now.After(s.EndDate):
		return enums.SpotStatusExpired
	default:
		return enums.SpotStatusLive
	}
}
