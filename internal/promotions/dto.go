package promotions

import (
	"slices"
	"time"

	"github.com/doctorpiscinas/storefront-backend/pkg/db/models"
	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
)

type BannerDTO struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CTA             string    `json:"cta"`
	CTALink         string    `json:"cta_link"`
	External        bool      `json:"external"`
	Image           string    `json:"image"`
	IsActive        bool      `json:"is_active"`
	Position        string    `json:"position"`
	MetaTitle       *string   `json:"meta_title,omitempty"`
	MetaDescription *string   `json:"meta_description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SpotDTO carries the spot plus its schedule status at response time.
type SpotDTO struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Type            string    `json:"type"`
	Value           string    `json:"value"`
	IsActive        bool      `json:"is_active"`
	Status          string    `json:"status"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Image           *string   `json:"image,omitempty"`
	Details         *string   `json:"details,omitempty"`
	MetaTitle       *string   `json:"meta_title,omitempty"`
	MetaDescription *string   `json:"meta_description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewBannerDTO(row *models.Banner) *BannerDTO {
	if row == nil {
		return nil
	}
	return &BannerDTO{
		ID:              row.ID,
		Title:           row.Title,
		Description:     row.Description,
		CTA:             row.CTA,
		CTALink:         row.CTALink,
		External:        isExternalLink(row.CTALink),
		Image:           row.Image,
		IsActive:        row.IsActive,
		Position:        row.Position.String(),
		MetaTitle:       row.MetaTitle,
		MetaDescription: row.MetaDescription,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func NewSpotDTO(row *models.PromotionalSpot, now time.Time) *SpotDTO {
	if row == nil {
		return nil
	}
	return &SpotDTO{
		ID:              row.ID,
		Title:           row.Title,
		Description:     row.Description,
		Type:            row.Type.String(),
		Value:           row.Value,
		IsActive:        row.IsActive,
		Status:          string(row.StatusAt(now)),
		StartDate:       row.StartDate,
		EndDate:         row.EndDate,
		Image:           row.Image,
		Details:         row.Details,
		MetaTitle:       row.MetaTitle,
		MetaDescription: row.MetaDescription,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

// sortSpots puts live spots first, then the most recent start date.
func sortSpots(rows []models.PromotionalSpot, now time.Time) {
	slices.SortStableFunc(rows, func(a, b models.PromotionalSpot) int {
		aLive := a.StatusAt(now) == enums.SpotStatusLive
		bLive := b.StatusAt(now) == enums.SpotStatusLive
		if aLive != bLive {
			if aLive {
				return -1
			}
			return 1
		}
		return b.StartDate.Compare(a.StartDate)
	})
}
