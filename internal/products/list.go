package product

import (
	"strings"

	"github.com/doctorpiscinas/storefront-backend/pkg/pagination"
)

// ListProductsInput captures catalog browse filters.
type ListProductsInput struct {
	Category    string
	IncludeCost bool
	Pagination  pagination.Params
}

func normalizeCategory(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
