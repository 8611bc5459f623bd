package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"tablescout.dev/TableScout/configs"
)

// NominatimClient geocodes against a Nominatim-compatible search endpoint.
type NominatimClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *zap.Logger
}

func NewNominatimClient(conf *configs.Config, logger *zap.Logger) *NominatimClient {
	return &NominatimClient{
		baseURL:   conf.Geocoder.BaseURL,
		userAgent: conf.Geocoder.UserAgent,
		client:    &http.Client{Timeout: time.Duration(conf.Geocoder.TimeoutSeconds) * time.Second},
		logger:    logger,
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		HouseNumber string `json:"house_number"`
		Road        string `json:"road"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		State       string `json:"state"`
		Postcode    string `json:"postcode"`
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

func (n *NominatimClient) Geocode(ctx context.Context, query string) (*Location, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")

	requestURL := n.baseURL + "/search?" + params.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	request.Header.Set("User-Agent", n.userAgent)

	response, err := n.client.Do(request)
	if err != nil {
		n.logger.Error("geocoding request failed", zap.String("query", query), zap.Error(err))

		return nil, err
	}
	defer response.Body.Close() //nolint:errcheck // nothing to do about close errors on a read body

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", response.StatusCode)
	}

	var results []nominatimResult
	if err = json.NewDecoder(response.Body).Decode(&results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, ErrNoResult
	}

	return n.toLocation(results[0])
}

func (n *NominatimClient) toLocation(result nominatimResult) (*Location, error) {
	lat, err := strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude %q: %w", result.Lat, err)
	}

	lng, err := strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude %q: %w", result.Lon, err)
	}

	street := result.Address.Road
	if result.Address.HouseNumber != "" {
		street = result.Address.HouseNumber + " " + result.Address.Road
	}

	city := result.Address.City
	if city == "" {
		city = result.Address.Town
	}

	if city == "" {
		city = result.Address.Village
	}

	return &Location{
		Lat:              lat,
		Lng:              lng,
		FormattedAddress: result.DisplayName,
		Street:           street,
		City:             city,
		State:            result.Address.State,
		Zipcode:          result.Address.Postcode,
		Country:          result.Address.CountryCode,
	}, nil
}
