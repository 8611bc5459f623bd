package model

import (
	"strings"
	"time"
	"unicode"

	"gorm.io/gorm"
)

// Location is the geocoded place a restaurant lives at. It is always derived
// from the free-text address given on create/update, never set by clients.
type Location struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formattedAddress"`
	Street           string  `json:"street"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	Zipcode          string  `json:"zipcode"`
	Country          string  `json:"country"`
}

type Restaurant struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"uniqueIndex" json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Website     string `json:"website,omitempty"`

	// Address is input only. It is geocoded into Location before the record
	// is persisted and never stored verbatim.
	Address string `gorm:"-" json:"address,omitempty"`

	CuisineTypes  []string          `gorm:"serializer:json" json:"cuisineTypes,omitempty"`
	OpeningHours  map[string]string `gorm:"serializer:json" json:"openingHours,omitempty"`
	Location      Location          `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	AverageRating *float64          `json:"averageRating,omitempty"`
	AverageCost   float64           `json:"averageCost"`
	Photo         string            `gorm:"default:no-photo.jpg" json:"photo"`

	Foods []Food `gorm:"constraint:OnDelete:CASCADE" json:"foods,omitempty"`
}

// Cuisines a restaurant may be tagged with.
var CuisineTypes = []string{
	"African", "Asian", "Australian", "Ethiopian", "French",
	"Hawaiian", "Indian", "Italian", "Japanese",
}

func IsValidCuisine(cuisine string) bool {
	for _, known := range CuisineTypes {
		if cuisine == known {
			return true
		}
	}

	return false
}

// Slugify turns a display name into its lowercased, hyphen-joined form,
// e.g. "Joe's Diner" -> "joes-diner".
func Slugify(name string) string {
	var builder strings.Builder

	lastHyphen := true // suppress leading hyphens

	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			builder.WriteRune(r)

			lastHyphen = false
		case !lastHyphen && (unicode.IsSpace(r) || r == '-' || r == '_'):
			builder.WriteRune('-')

			lastHyphen = true
		}
	}

	return strings.TrimSuffix(builder.String(), "-")
}
