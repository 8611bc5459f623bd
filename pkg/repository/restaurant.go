package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tablescout.dev/TableScout/pkg/model"
)

var ErrRestaurantNotFound = errors.New("restaurant not found")

type RestaurantRepository interface {
	CreateRestaurant(ctx context.Context, restaurant *model.Restaurant) error
	GetRestaurantByID(ctx context.Context, restaurantID uint) (*model.Restaurant, error)
	UpdateRestaurant(ctx context.Context, restaurant *model.Restaurant) error
	DeleteRestaurant(ctx context.Context, restaurantID uint) error
	ListRestaurants(ctx context.Context, query ListQuery) ([]*model.Restaurant, int64, error)
	RestaurantsWithinRadius(ctx context.Context, lat float64, lng float64, radians float64) ([]*model.Restaurant, error)
	UpdateRestaurantPhoto(ctx context.Context, restaurantID uint, filename string) error
	SetAverageCost(ctx context.Context, restaurantID uint, cost float64) error
}

func (r *Repository) CreateRestaurant(ctx context.Context, restaurant *model.Restaurant) error {
	return r.DB.WithContext(ctx).Create(restaurant).Error
}

func (r *Repository) GetRestaurantByID(ctx context.Context, restaurantID uint) (*model.Restaurant, error) {
	var restaurant model.Restaurant

	result := r.DB.WithContext(ctx).
		Preload("Foods").
		First(&restaurant, restaurantID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}

		return nil, result.Error
	}

	return &restaurant, nil
}

func (r *Repository) UpdateRestaurant(ctx context.Context, restaurant *model.Restaurant) error {
	return r.DB.WithContext(ctx).Save(restaurant).Error
}

// DeleteRestaurant removes a restaurant and every food item that references
// it. The food delete runs first so a failure never leaves foods pointing at
// a missing parent.
func (r *Repository) DeleteRestaurant(ctx context.Context, restaurantID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", restaurantID).Delete(&model.Food{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Restaurant{}, restaurantID)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrRestaurantNotFound
		}

		return nil
	})
}

func (r *Repository) ListRestaurants(ctx context.Context, query ListQuery) ([]*model.Restaurant, int64, error) {
	filtered, err := query.applyFilters(r.DB.WithContext(ctx).Model(&model.Restaurant{}))
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if result := filtered.Session(&gorm.Session{}).Count(&total); result.Error != nil {
		return nil, 0, result.Error
	}

	var restaurants []*model.Restaurant

	result := query.applyWindow(filtered.Session(&gorm.Session{}), "id").
		Preload("Foods").
		Find(&restaurants)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return restaurants, total, nil
}

// RestaurantsWithinRadius returns restaurants whose location lies within the
// spherical cap of the given angular radius around (lat, lng). Containment
// compares the great-circle central angle against the radius in radians.
func (r *Repository) RestaurantsWithinRadius(ctx context.Context, lat float64, lng float64, radians float64) ([]*model.Restaurant, error) {
	var restaurants []*model.Restaurant

	result := r.DB.WithContext(ctx).
		Where(`acos(least(1.0, greatest(-1.0,
			sin(radians(location_lat)) * sin(radians(?)) +
			cos(radians(location_lat)) * cos(radians(?)) * cos(radians(location_lng) - radians(?))
		))) <= ?`, lat, lat, lng, radians).
		Find(&restaurants)
	if result.Error != nil {
		return nil, result.Error
	}

	return restaurants, nil
}

func (r *Repository) UpdateRestaurantPhoto(ctx context.Context, restaurantID uint, filename string) error {
	result := r.DB.WithContext(ctx).
		Model(&model.Restaurant{}).
		Where("id = ?", restaurantID).
		Update("photo", filename)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrRestaurantNotFound
	}

	return nil
}

func (r *Repository) SetAverageCost(ctx context.Context, restaurantID uint, cost float64) error {
	return r.DB.WithContext(ctx).
		Model(&model.Restaurant{}).
		Where("id = ?", restaurantID).
		Update("average_cost", cost).
		Error
}
