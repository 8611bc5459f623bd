package server_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tablescout.dev/TableScout/pkg/geocoder"
	"tablescout.dev/TableScout/pkg/model"
	"tablescout.dev/TableScout/pkg/repository"
)

type mockRestaurantRepo struct {
	mock.Mock
}

func (m *mockRestaurantRepo) CreateRestaurant(ctx context.Context, restaurant *model.Restaurant) error {
	return m.Called(ctx, restaurant).Error(0)
}

func (m *mockRestaurantRepo) GetRestaurantByID(ctx context.Context, restaurantID uint) (*model.Restaurant, error) {
	args := m.Called(ctx, restaurantID)
	if restaurant := args.Get(0); restaurant != nil {
		return restaurant.(*model.Restaurant), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockRestaurantRepo) UpdateRestaurant(ctx context.Context, restaurant *model.Restaurant) error {
	return m.Called(ctx, restaurant).Error(0)
}

func (m *mockRestaurantRepo) DeleteRestaurant(ctx context.Context, restaurantID uint) error {
	return m.Called(ctx, restaurantID).Error(0)
}

func (m *mockRestaurantRepo) ListRestaurants(ctx context.Context, query repository.ListQuery) ([]*model.Restaurant, int64, error) {
	args := m.Called(ctx, query)
	restaurants, _ := args.Get(0).([]*model.Restaurant)

	return restaurants, args.Get(1).(int64), args.Error(2)
}

func (m *mockRestaurantRepo) RestaurantsWithinRadius(ctx context.Context, lat float64, lng float64, radians float64) ([]*model.Restaurant, error) {
	args := m.Called(ctx, lat, lng, radians)
	restaurants, _ := args.Get(0).([]*model.Restaurant)

	return restaurants, args.Error(1)
}

func (m *mockRestaurantRepo) UpdateRestaurantPhoto(ctx context.Context, restaurantID uint, filename string) error {
	return m.Called(ctx, restaurantID, filename).Error(0)
}

func (m *mockRestaurantRepo) SetAverageCost(ctx context.Context, restaurantID uint, cost float64) error {
	return m.Called(ctx, restaurantID, cost).Error(0)
}

type mockFoodRepo struct {
	mock.Mock
}

func (m *mockFoodRepo) CreateFood(ctx context.Context, food *model.Food) error {
	return m.Called(ctx, food).Error(0)
}

func (m *mockFoodRepo) GetFoodByID(ctx context.Context, foodID uint) (*model.Food, error) {
	args := m.Called(ctx, foodID)
	if food := args.Get(0); food != nil {
		return food.(*model.Food), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockFoodRepo) UpdateFood(ctx context.Context, food *model.Food) error {
	return m.Called(ctx, food).Error(0)
}

func (m *mockFoodRepo) DeleteFood(ctx context.Context, foodID uint) error {
	return m.Called(ctx, foodID).Error(0)
}

func (m *mockFoodRepo) ListFoods(ctx context.Context, query repository.ListQuery) ([]*model.Food, int64, error) {
	args := m.Called(ctx, query)
	foods, _ := args.Get(0).([]*model.Food)

	return foods, args.Get(1).(int64), args.Error(2)
}

type mockAverageStore struct {
	mock.Mock
}

func (m *mockAverageStore) AverageFoodPrice(ctx context.Context, restaurantID uint) (float64, int64, error) {
	args := m.Called(ctx, restaurantID)

	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

func (m *mockAverageStore) SetAverageCost(ctx context.Context, restaurantID uint, cost float64) error {
	return m.Called(ctx, restaurantID, cost).Error(0)
}

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Geocode(ctx context.Context, query string) (*geocoder.Location, error) {
	args := m.Called(ctx, query)
	if location := args.Get(0); location != nil {
		return location.(*geocoder.Location), args.Error(1)
	}

	return nil, args.Error(1)
}
