package promotions

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doctorpiscinas/storefront-backend/pkg/db/models"
	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
)

// Service manages storefront marketing content: positioned banners and
// dated promotional spots.
type Service interface {
	ListBanners(ctx context.Context, position string, activeOnly bool) ([]BannerDTO, error)
	GetBanner(ctx context.Context, id string) (*BannerDTO, error)
	CreateBanner(ctx context.Context, input BannerInput) (*BannerDTO, error)
	UpdateBanner(ctx context.Context, id string, input UpdateBannerInput) (*BannerDTO, error)
	DeleteBanner(ctx context.Context, id string) error

	ListSpots(ctx context.Context, liveOnly bool) ([]SpotDTO, error)
	GetSpot(ctx context.Context, id string) (*SpotDTO, error)
	CreateSpot(ctx context.Context, input SpotInput) (*SpotDTO, error)
	UpdateSpot(ctx context.Context, id string, input UpdateSpotInput) (*SpotDTO, error)
	DeleteSpot(ctx context.Context, id string) error
}

// BannerInput creates a banner. IsActive defaults to true and Position to hero.
type BannerInput struct {
	Title           string
	Description     string
	CTA             string
	CTALink         string
	Image           string
	IsActive        *bool
	Position        string
	MetaTitle       *string
	MetaDescription *string
}

type UpdateBannerInput struct {
	Title           *string
	Description     *string
	CTA             *string
	CTALink         *string
	Image           *string
	IsActive        *bool
	Position        *string
	MetaTitle       *string
	MetaDescription *string
}

// SpotInput creates a promotional spot. IsActive defaults to true.
type SpotInput struct {
	Title           string
	Description     string
	Type            string
	Value           string
	IsActive        *bool
	StartDate       time.Time
	EndDate         time.Time
	Image           *string
	Details         *string
	MetaTitle       *string
	MetaDescription *string
}

type UpdateSpotInput struct {
	Title           *string
	Description     *string
	Type            *string
	Value           *string
	IsActive        *bool
	StartDate       *time.Time
	EndDate         *time.Time
	Image           *string
	Details         *string
	MetaTitle       *string
	MetaDescription *string
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotions repository required")
	}
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) ListBanners(ctx context.Context, position string, activeOnly bool) ([]BannerDTO, error) {
	query := BannerQuery{ActiveOnly: activeOnly}
	if position = strings.ToLower(strings.TrimSpace(position)); position != "" {
		parsed, err := enums.ParseBannerPosition(position)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid banner position")
		}
		query.Position = parsed
	}

	rows, err := s.repo.ListBanners(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list banners")
	}
	out := make([]BannerDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewBannerDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) GetBanner(ctx context.Context, id string) (*BannerDTO, error) {
	row, err := s.loadBanner(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewBannerDTO(row), nil
}

func (s *service) CreateBanner(ctx context.Context, input BannerInput) (*BannerDTO, error) {
	position := enums.BannerPositionHero
	if raw := strings.ToLower(strings.TrimSpace(input.Position)); raw != "" {
		parsed, err := enums.ParseBannerPosition(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid banner position")
		}
		position = parsed
	}
	row := &models.Banner{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		CTA:             strings.TrimSpace(input.CTA),
		CTALink:         strings.TrimSpace(input.CTALink),
		Image:           strings.TrimSpace(input.Image),
		IsActive:        input.IsActive == nil || *input.IsActive,
		Position:        position,
		MetaTitle:       trimmedOrNil(input.MetaTitle),
		MetaDescription: trimmedOrNil(input.MetaDescription),
	}
	if err := validateBanner(row); err != nil {
		return nil, err
	}
	saved, err := s.repo.SaveBanner(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create banner")
	}
	return NewBannerDTO(saved), nil
}

func (s *service) UpdateBanner(ctx context.Context, id string, input UpdateBannerInput) (*BannerDTO, error) {
	row, err := s.loadBanner(ctx, id)
	if err != nil {
		return nil, err
	}
	setTrimmed(&row.Title, input.Title)
	setTrimmed(&row.Description, input.Description)
	setTrimmed(&row.CTA, input.CTA)
	setTrimmed(&row.CTALink, input.CTALink)
	setTrimmed(&row.Image, input.Image)
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}
	if input.Position != nil {
		parsed, err := enums.ParseBannerPosition(strings.ToLower(strings.TrimSpace(*input.Position)))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid banner position")
		}
		row.Position = parsed
	}
	if input.MetaTitle != nil {
		row.MetaTitle = trimmedOrNil(input.MetaTitle)
	}
	if input.MetaDescription != nil {
		row.MetaDescription = trimmedOrNil(input.MetaDescription)
	}
	if err := validateBanner(row); err != nil {
		return nil, err
	}
	saved, err := s.repo.SaveBanner(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update banner")
	}
	return NewBannerDTO(saved), nil
}

func (s *service) DeleteBanner(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteBanner(ctx, strings.TrimSpace(id))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete banner")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
	}
	return nil
}

// ListSpots returns every spot for the admin, or only live ones for shoppers.
// Live spots sort first, then by most recent start date.
func (s *service) ListSpots(ctx context.Context, liveOnly bool) ([]SpotDTO, error) {
	now := s.now()
	query := SpotQuery{}
	if liveOnly {
		query.LiveAt = &now
	}
	rows, err := s.repo.ListSpots(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promotional spots")
	}
	sortSpots(rows, now)
	out := make([]SpotDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewSpotDTO(&rows[i], now))
	}
	return out, nil
}

func (s *service) GetSpot(ctx context.Context, id string) (*SpotDTO, error) {
	row, err := s.loadSpot(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewSpotDTO(row, s.now()), nil
}

func (s *service) CreateSpot(ctx context.Context, input SpotInput) (*SpotDTO, error) {
	spotType, err := enums.ParseSpotType(strings.ToLower(strings.TrimSpace(input.Type)))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid spot type")
	}
	row := &models.PromotionalSpot{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		Type:            spotType,
		Value:           strings.TrimSpace(input.Value),
		IsActive:        input.IsActive == nil || *input.IsActive,
		StartDate:       input.StartDate.UTC(),
		EndDate:         input.EndDate.UTC(),
		Image:           trimmedOrNil(input.Image),
		Details:         trimmedOrNil(input.Details),
		MetaTitle:       trimmedOrNil(input.MetaTitle),
		MetaDescription: trimmedOrNil(input.MetaDescription),
	}
	if err := validateSpot(row); err != nil {
		return nil, err
	}
	saved, err := s.repo.SaveSpot(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promotional spot")
	}
	return NewSpotDTO(saved, s.now()), nil
}

func (s *service) UpdateSpot(ctx context.Context, id string, input UpdateSpotInput) (*SpotDTO, error) {
	row, err := s.loadSpot(ctx, id)
	if err != nil {
		return nil, err
	}
	setTrimmed(&row.Title, input.Title)
	setTrimmed(&row.Description, input.Description)
	setTrimmed(&row.Value, input.Value)
	if input.Type != nil {
		parsed, err := enums.ParseSpotType(strings.ToLower(strings.TrimSpace(*input.Type)))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid spot type")
		}
		row.Type = parsed
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}
	if input.StartDate != nil {
		row.StartDate = input.StartDate.UTC()
	}
	if input.EndDate != nil {
		row.EndDate = input.EndDate.UTC()
	}
	if input.Image != nil {
		row.Image = trimmedOrNil(input.Image)
	}
	if input.Details != nil {
		row.Details = trimmedOrNil(input.Details)
	}
	if input.MetaTitle != nil {
		row.MetaTitle = trimmedOrNil(input.MetaTitle)
	}
	if input.MetaDescription != nil {
		row.MetaDescription = trimmedOrNil(input.MetaDescription)
	}
	if err := validateSpot(row); err != nil {
		return nil, err
	}
	saved, err := s.repo.SaveSpot(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update promotional spot")
	}
	return NewSpotDTO(saved, s.now()), nil
}

func (s *service) DeleteSpot(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteSpot(ctx, strings.TrimSpace(id))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete promotional spot")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "promotional spot not found")
	}
	return nil
}

func (s *service) loadBanner(ctx context.Context, id string) (*models.Banner, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "banner id is required")
	}
	row, err := s.repo.FindBanner(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load banner")
	}
	return row, nil
}

func (s *service) loadSpot(ctx context.Context, id string) (*models.PromotionalSpot, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotional spot id is required")
	}
	row, err := s.repo.FindSpot(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotional spot not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotional spot")
	}
	return row, nil
}

func validateBanner(row *models.Banner) error {
	switch {
	case len(row.Title) < 2:
		return pkgerrors.New(pkgerrors.CodeValidation, "title must be at least 2 characters")
	case row.Image == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "image is required")
	case row.CTALink != "" && !validLink(row.CTALink):
		return pkgerrors.New(pkgerrors.CodeValidation, "cta_link must be a site path or an absolute URL").
			WithDetails(map[string]string{"cta_link": row.CTALink})
	}
	return nil
}

func validateSpot(row *models.PromotionalSpot) error {
	switch {
	case len(row.Title) < 2:
		return pkgerrors.New(pkgerrors.CodeValidation, "title must be at least 2 characters")
	case row.StartDate.IsZero() || row.EndDate.IsZero():
		return pkgerrors.New(pkgerrors.CodeValidation, "start_date and end_date are required")
	case !row.EndDate.After(row.StartDate):
		return pkgerrors.New(pkgerrors.CodeValidation, "end_date must be after start_date")
	}
	return nil
}

// validLink accepts site-relative paths and absolute http(s) URLs.
func validLink(link string) bool {
	if strings.HasPrefix(link, "/") {
		return !strings.HasPrefix(link, "//")
	}
	parsed, err := url.Parse(link)
	return err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func isExternalLink(link string) bool {
	return strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://")
}

func setTrimmed(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
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
