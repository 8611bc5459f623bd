// Package geocoder resolves free-text addresses and postal codes into
// normalized locations via an external provider.
package geocoder

import (
	"context"
	"errors"
)

// Location is a normalized geocoding result.
type Location struct {
	Lat              float64
	Lng              float64
	FormattedAddress string
	Street           string
	City             string
	State            string
	Zipcode          string
	Country          string
}

type Geocoder interface {
	Geocode(ctx context.Context, query string) (*Location, error)
}

var ErrNoResult = errors.New("no geocoding result")
