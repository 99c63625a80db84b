package enums

import "fmt"

// BannerPosition is the storefront slot a banner renders in.
type BannerPosition string

const (
	BannerPositionHero    BannerPosition = "hero"
	BannerPositionSidebar BannerPosition = "sidebar"
	BannerPositionFooter  BannerPosition = "footer"
	BannerPositionContent BannerPosition = "content"
)

var validBannerPositions = []BannerPosition{
	BannerPositionHero,
	BannerPositionSidebar,
	BannerPositionFooter,
	BannerPositionContent,
}

func (p BannerPosition) String() string {
	return string(p)
}

// IsValid reports whether the value is a known BannerPosition.
func (p BannerPosition) IsValid() bool {
	for _, candidate := range validBannerPositions {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseBannerPosition converts raw input into a BannerPosition.
func ParseBannerPosition(value string) (BannerPosition, error) {
	for _, candidate := range validBannerPositions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid banner position %q", value)
}
