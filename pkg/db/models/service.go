package models

import "time"

// ServiceCategory groups pool services under a public slug.
type ServiceCategory struct {
	Slug        string    `gorm:"column:slug;primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description;not null;default:''"`
	Image       *string   `gorm:"column:image"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ServiceCategory) TableName() string { return "service_categories" }

// Service is a bookable pool service. PriceDisplay is free text ("desde $15.000")
// and never enters the cart.
type Service struct {
	ID              string    `gorm:"column:id;primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	Description     string    `gorm:"column:description;not null;default:''"`
	PriceDisplay    string    `gorm:"column:price_display;not null;default:''"`
	CategorySlug    string    `gorm:"column:category_slug;not null;index:idx_services_category"`
	Images          []string  `gorm:"column:images;type:text;not null;serializer:json"`
	MetaTitle       *string   `gorm:"column:meta_title"`
	MetaDescription *string   `gorm:"column:meta_description"`
	MetaKeywords    *string   `gorm:"column:meta_keywords"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Service) TableName() string { return "services" }
