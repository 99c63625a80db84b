package enums

import "fmt"

// SpotType classifies a promotional spot.
type SpotType string

const (
	SpotTypeDiscount     SpotType = "discount"
	SpotTypeService      SpotType = "service"
	SpotTypeAnnouncement SpotType = "announcement"
)

var validSpotTypes = []SpotType{SpotTypeDiscount, SpotTypeService, SpotTypeAnnouncement}

func (t SpotType) String() string {
	return string(t)
}

func (t SpotType) IsValid() bool {
	for _, candidate := range validSpotTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseSpotType converts raw input into a SpotType.
func ParseSpotType(value string) (SpotType, error) {
	for _, candidate := range validSpotTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid spot type %q", value)
}

// SpotStatus is the schedule state of a promotional spot at a given instant.
type SpotStatus string

const (
	SpotStatusInactive  SpotStatus = "inactive"
	SpotStatusScheduled SpotStatus = "scheduled"
	SpotStatusLive      SpotStatus = "live"
	SpotStatusExpired   SpotStatus = "expired"
)
