package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tablescout.dev/TableScout/pkg/model"
)

var ErrFoodNotFound = errors.New("food not found")

type FoodRepository interface {
	CreateFood(ctx context.Context, food *model.Food) error
	GetFoodByID(ctx context.Context, foodID uint) (*model.Food, error)
	UpdateFood(ctx context.Context, food *model.Food) error
	DeleteFood(ctx context.Context, foodID uint) error
	ListFoods(ctx context.Context, query ListQuery) ([]*model.Food, int64, error)
}

// AverageCostStore is the slice of the store the derived-field maintainer
// needs: read the price aggregate, write it back onto the restaurant.
type AverageCostStore interface {
	AverageFoodPrice(ctx context.Context, restaurantID uint) (float64, int64, error)
	SetAverageCost(ctx context.Context, restaurantID uint, cost float64) error
}

// restaurantSummary restricts a populated restaurant reference to its
// identifying fields, mirroring what food listings expose.
func restaurantSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "description")
}

func (r *Repository) CreateFood(ctx context.Context, food *model.Food) error {
	return r.DB.WithContext(ctx).Create(food).Error
}

func (r *Repository) GetFoodByID(ctx context.Context, foodID uint) (*model.Food, error) {
	var food model.Food

	result := r.DB.WithContext(ctx).
		Preload("Restaurant", restaurantSummary).
		First(&food, foodID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrFoodNotFound
		}

		return nil, result.Error
	}

	return &food, nil
}

func (r *Repository) UpdateFood(ctx context.Context, food *model.Food) error {
	return r.DB.WithContext(ctx).Save(food).Error
}

func (r *Repository) DeleteFood(ctx context.Context, foodID uint) error {
	result := r.DB.WithContext(ctx).Delete(&model.Food{}, foodID)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrFoodNotFound
	}

	return nil
}

func (r *Repository) ListFoods(ctx context.Context, query ListQuery) ([]*model.Food, int64, error) {
	filtered, err := query.applyFilters(r.DB.WithContext(ctx).Model(&model.Food{}))
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if result := filtered.Session(&gorm.Session{}).Count(&total); result.Error != nil {
		return nil, 0, result.Error
	}

	var foods []*model.Food

	result := query.applyWindow(filtered.Session(&gorm.Session{}), "id", "restaurant_id").
		Preload("Restaurant", restaurantSummary).
		Find(&foods)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return foods, total, nil
}

func (r *Repository) AverageFoodPrice(ctx context.Context, restaurantID uint) (float64, int64, error) {
	var aggregate struct {
		AveragePrice float64
		FoodCount    int64
	}

	result := r.DB.WithContext(ctx).
		Model(&model.Food{}).
		Select("coalesce(avg(price), 0) as average_price, count(*) as food_count").
		Where("restaurant_id = ?", restaurantID).
		Scan(&aggregate)
	if result.Error != nil {
		return 0, 0, result.Error
	}

	return aggregate.AveragePrice, aggregate.FoodCount, nil
}
