package services

import (
	"time"

	"github.com/doctorpiscinas/storefront-backend/pkg/db/models"
)

// ServiceDTO is the service payload returned to clients.
type ServiceDTO struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	PriceDisplay    string    `json:"price_display"`
	CategorySlug    string    `json:"category_slug"`
	Images          []string  `json:"images"`
	MetaTitle       *string   `json:"meta_title,omitempty"`
	MetaDescription *string   `json:"meta_description,omitempty"`
	MetaKeywords    *string   `json:"meta_keywords,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ServiceListResult is one page of services. Category is set when the list
// was filtered by one.
type ServiceListResult struct {
	Category   *CategoryDTO `json:"category,omitempty"`
	Services   []ServiceDTO `json:"services"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

type CategoryDTO struct {
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       *string `json:"image,omitempty"`
}

func NewServiceDTO(row *models.Service) *ServiceDTO {
	if row == nil {
		return nil
	}
	images := row.Images
	if images == nil {
		images = []string{}
	}
	return &ServiceDTO{
		ID:              row.ID,
		Name:            row.Name,
		Description:     row.Description,
		PriceDisplay:    row.PriceDisplay,
		CategorySlug:    row.CategorySlug,
		Images:          images,
		MetaTitle:       row.MetaTitle,
		MetaDescription: row.MetaDescription,
		MetaKeywords:    row.MetaKeywords,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func newCategoryDTO(row *models.ServiceCategory) *CategoryDTO {
	if row == nil {
		return nil
	}
	return &CategoryDTO{
		Slug:        row.Slug,
		Name:        row.Name,
		Description: row.Description,
		Image:       row.Image,
	}
}
