package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"tablescout.dev/TableScout/configs"
	"tablescout.dev/TableScout/pkg/geocoder"
	"tablescout.dev/TableScout/pkg/model"
	"tablescout.dev/TableScout/pkg/repository"
)

// Linear distances on the radius endpoint are kilometers; dividing by the
// Earth radius gives the angular radius for the spherical containment query.
const earthRadiusKM = 6371.0

type RestaurantServer struct {
	repo     repository.RestaurantRepository
	geocoder geocoder.Geocoder
	config   *configs.Config
	logger   *zap.Logger
}

func NewRestaurantServer(repo repository.RestaurantRepository, geo geocoder.Geocoder, config *configs.Config, logger *zap.Logger) *RestaurantServer {
	return &RestaurantServer{repo: repo, geocoder: geo, config: config, logger: logger}
}

// parseID reads a numeric path parameter. A value that is not id-shaped is
// reported the same way as a missing record.
func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		abortWithError(c, NotFound("Resource", raw))

		return 0, false
	}

	return uint(id), true
}

type createRestaurantRequest struct {
	Name          string            `json:"name" binding:"required"`
	Description   string            `json:"description" binding:"required,max=500"`
	Phone         string            `json:"phone" binding:"omitempty,max=20"`
	Email         string            `json:"email" binding:"omitempty,email"`
	Website       string            `json:"website" binding:"omitempty,url"`
	Address       string            `json:"address" binding:"required"`
	CuisineTypes  []string          `json:"cuisineTypes"`
	OpeningHours  map[string]string `json:"openingHours"`
	AverageRating *float64          `json:"averageRating"`
}

type updateRestaurantRequest struct {
	Name          *string           `json:"name"`
	Description   *string           `json:"description" binding:"omitempty,max=500"`
	Phone         *string           `json:"phone" binding:"omitempty,max=20"`
	Email         *string           `json:"email" binding:"omitempty,email"`
	Website       *string           `json:"website" binding:"omitempty,url"`
	Address       *string           `json:"address"`
	CuisineTypes  []string          `json:"cuisineTypes"`
	OpeningHours  map[string]string `json:"openingHours"`
	AverageRating *float64          `json:"averageRating"`
}

func validateCuisines(cuisines []string) error {
	var errs error

	for _, cuisine := range cuisines {
		if !model.IsValidCuisine(cuisine) {
			errs = multierr.Append(errs, fmt.Errorf("unknown cuisine type %q", cuisine))
		}
	}

	if errs != nil {
		return ValidationFailed(errs.Error())
	}

	return nil
}

func (s *RestaurantServer) geocodeAddress(c *gin.Context, address string) (*geocoder.Location, bool) {
	location, err := s.geocoder.Geocode(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, geocoder.ErrNoResult) {
			abortWithError(c, ValidationFailed(fmt.Sprintf("address %q could not be geocoded", address)))
		} else {
			abortWithError(c, err)
		}

		return nil, false
	}

	return location, true
}

func locationFromGeocode(geocoded *geocoder.Location) model.Location {
	return model.Location{
		Lat:              geocoded.Lat,
		Lng:              geocoded.Lng,
		FormattedAddress: geocoded.FormattedAddress,
		Street:           geocoded.Street,
		City:             geocoded.City,
		State:            geocoded.State,
		Zipcode:          geocoded.Zipcode,
		Country:          geocoded.Country,
	}
}

func (s *RestaurantServer) ListRestaurants(c *gin.Context) {
	query, err := ParseListQuery(c.Request.URL.Query(), RestaurantFields)
	if err != nil {
		abortWithError(c, err)

		return
	}

	restaurants, total, err := s.repo.ListRestaurants(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, listEnvelope(restaurants, len(restaurants), BuildPagination(query, total)))
}

func (s *RestaurantServer) GetRestaurant(c *gin.Context) {
	restaurantID, ok := parseID(c, "id")
	if !ok {
		return
	}

	restaurant, err := s.repo.GetRestaurantByID(c.Request.Context(), restaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			err = NotFound("Restaurant", c.Param("id"))
		}

		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, dataEnvelope(restaurant))
}

func (s *RestaurantServer) CreateRestaurant(c *gin.Context) {
	var request createRestaurantRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		abortWithError(c, err)

		return
	}

	if err := validateCuisines(request.CuisineTypes); err != nil {
		abortWithError(c, err)

		return
	}

	geocoded, ok := s.geocodeAddress(c, request.Address)
	if !ok {
		return
	}

	// The free-text address is replaced by the geocoded location and never
	// persisted verbatim.
	restaurant := &model.Restaurant{
		Name:          request.Name,
		Slug:          model.Slugify(request.Name),
		Description:   request.Description,
		Phone:         request.Phone,
		Email:         request.Email,
		Website:       request.Website,
		CuisineTypes:  request.CuisineTypes,
		OpeningHours:  request.OpeningHours,
		Location:      locationFromGeocode(geocoded),
		AverageRating: request.AverageRating,
	}

	if err := s.repo.CreateRestaurant(c.Request.Context(), restaurant); err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusCreated, dataEnvelope(restaurant))
}

func (s *RestaurantServer) UpdateRestaurant(c *gin.Context) {
	restaurantID, ok := parseID(c, "id")
	if !ok {
		return
	}

	restaurant, err := s.repo.GetRestaurantByID(c.Request.Context(), restaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			err = NotFound("Restaurant", c.Param("id"))
		}

		abortWithError(c, err)

		return
	}

	var request updateRestaurantRequest
	if err = c.ShouldBindJSON(&request); err != nil {
		abortWithError(c, err)

		return
	}

	if err = validateCuisines(request.CuisineTypes); err != nil {
		abortWithError(c, err)

		return
	}

	if request.Name != nil {
		restaurant.Name = *request.Name
		restaurant.Slug = model.Slugify(*request.Name)
	}

	if request.Description != nil {
		restaurant.Description = *request.Description
	}

	if request.Phone != nil {
		restaurant.Phone = *request.Phone
	}

	if request.Email != nil {
		restaurant.Email = *request.Email
	}

	if request.Website != nil {
		restaurant.Website = *request.Website
	}

	if request.CuisineTypes != nil {
		restaurant.CuisineTypes = request.CuisineTypes
	}

	if request.OpeningHours != nil {
		restaurant.OpeningHours = request.OpeningHours
	}

	if request.AverageRating != nil {
		restaurant.AverageRating = request.AverageRating
	}

	if request.Address != nil {
		geocoded, geocodeOK := s.geocodeAddress(c, *request.Address)
		if !geocodeOK {
			return
		}

		restaurant.Location = locationFromGeocode(geocoded)
	}

	restaurant.Foods = nil // associations are not written back on update

	if err = s.repo.UpdateRestaurant(c.Request.Context(), restaurant); err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, dataEnvelope(restaurant))
}

func (s *RestaurantServer) DeleteRestaurant(c *gin.Context) {
	restaurantID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := s.repo.DeleteRestaurant(c.Request.Context(), restaurantID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			err = NotFound("Restaurant", c.Param("id"))
		}

		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, Envelope{Success: true})
}

func (s *RestaurantServer) RestaurantsInRadius(c *gin.Context) {
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil || distance <= 0 {
		abortWithError(c, ValidationFailed("distance must be a positive number of kilometers"))

		return
	}

	zipcode := c.Param("zipcode")

	geocoded, ok := s.geocodeAddress(c, zipcode)
	if !ok {
		return
	}

	restaurants, err := s.repo.RestaurantsWithinRadius(c.Request.Context(), geocoded.Lat, geocoded.Lng, distance/earthRadiusKM)
	if err != nil {
		abortWithError(c, err)

		return
	}

	count := len(restaurants)
	c.JSON(http.StatusOK, Envelope{Success: true, Count: &count, Data: restaurants})
}

func (s *RestaurantServer) UploadPhoto(c *gin.Context) {
	restaurantID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := s.repo.GetRestaurantByID(c.Request.Context(), restaurantID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			err = NotFound("Restaurant", c.Param("id"))
		}

		abortWithError(c, err)

		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, UploadRejected("Please upload a file"))

		return
	}

	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		abortWithError(c, UploadRejected("Please upload an image file"))

		return
	}

	if file.Size > s.config.Uploads.MaxFileSize {
		abortWithError(c, UploadRejected(fmt.Sprintf("Please upload an image smaller than %d bytes", s.config.Uploads.MaxFileSize)))

		return
	}

	filename := fmt.Sprintf("photo-%d%s", restaurantID, strings.ToLower(filepath.Ext(file.Filename)))

	if err = c.SaveUploadedFile(file, filepath.Join(s.config.Uploads.Directory, filename)); err != nil {
		s.logger.Error("failed to store uploaded photo", zap.String("filename", filename), zap.Error(err))
		abortWithError(c, UploadRejected("Problem with file upload"))

		return
	}

	if err = s.repo.UpdateRestaurantPhoto(c.Request.Context(), restaurantID, filename); err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, dataEnvelope(filename))
}
