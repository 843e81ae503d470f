package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// HazardCategory tags a hazard as natural, technological or human-related
type HazardCategory string

const (
	HazardCategoryNatural       HazardCategory = "natural"
	HazardCategoryTechnological HazardCategory = "technological"
	HazardCategoryHuman         HazardCategory = "human"
)

var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// AllHazardCategories returns the categories in display order
func AllHazardCategories() []HazardCategory {
	return []HazardCategory{
		HazardCategoryNatural,
		HazardCategoryTechnological,
		HazardCategoryHuman,
	}
}

// Validate checks if the HazardCategory is one of the known categories
func (c HazardCategory) Validate() error {
	if c == "" {
		return goerr.New("hazard category cannot be empty")
	}
	if !idPattern.MatchString(string(c)) {
		return goerr.New("hazard category must be lowercase alphanumeric with hyphens", goerr.V("category", c))
	}
	for _, known := range AllHazardCategories() {
		if c == known {
			return nil
		}
	}
	return goerr.New("unknown hazard category", goerr.V("category", c))
}

// Label returns the display name of the category
func (c HazardCategory) Label() string {
	switch c {
	case HazardCategoryNatural:
		return "Natural Hazards"
	case HazardCategoryTechnological:
		return "Technological Hazards"
	case HazardCategoryHuman:
		return "Human-Related Hazards"
	default:
		return "Other Hazards"
	}
}

// String returns the string representation of HazardCategory
func (c HazardCategory) String() string {
	return string(c)
}
