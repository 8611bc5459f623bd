package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tablescout.dev/TableScout/pkg/model"
	"tablescout.dev/TableScout/pkg/repository"
)

type FoodServer struct {
	foods       repository.FoodRepository
	restaurants repository.RestaurantRepository
	maintainer  *AverageCostMaintainer
	logger      *zap.Logger
}

func NewFoodServer(foods repository.FoodRepository, restaurants repository.RestaurantRepository, maintainer *AverageCostMaintainer, logger *zap.Logger) *FoodServer {
	return &FoodServer{foods: foods, restaurants: restaurants, maintainer: maintainer, logger: logger}
}

type createFoodRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

type updateFoodRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
}

// requireRestaurant resolves the parent path parameter and confirms the
// restaurant exists before any nested food operation proceeds.
func (s *FoodServer) requireRestaurant(c *gin.Context) (uint, bool) {
	restaurantID, ok := parseID(c, "id")
	if !ok {
		return 0, false
	}

	if _, err := s.restaurants.GetRestaurantByID(c.Request.Context(), restaurantID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			err = NotFound("Restaurant", c.Param("id"))
		}

		abortWithError(c, err)

		return 0, false
	}

	return restaurantID, true
}

// ListFoods serves both the global food listing and the listing nested under
// a restaurant; the nested form pins an equality filter on the parent id.
func (s *FoodServer) ListFoods(c *gin.Context) {
	query, err := ParseListQuery(c.Request.URL.Query(), FoodFields)
	if err != nil {
		abortWithError(c, err)

		return
	}

	if c.Param("id") != "" {
		restaurantID, ok := s.requireRestaurant(c)
		if !ok {
			return
		}

		query.Filters = append(query.Filters, repository.Filter{Field: "restaurant_id", Op: repository.OpEq, Value: restaurantID})
	}

	foods, total, err := s.foods.ListFoods(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, listEnvelope(foods, len(foods), BuildPagination(query, total)))
}

func (s *FoodServer) GetFood(c *gin.Context) {
	foodID, ok := parseID(c, "id")
	if !ok {
		return
	}

	food, err := s.foods.GetFoodByID(c.Request.Context(), foodID)
	if err != nil {
		if errors.Is(err, repository.ErrFoodNotFound) {
			err = NotFound("Food", c.Param("id"))
		}

		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, dataEnvelope(food))
}

func (s *FoodServer) CreateFood(c *gin.Context) {
	restaurantID, ok := s.requireRestaurant(c)
	if !ok {
		return
	}

	var request createFoodRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		abortWithError(c, err)

		return
	}

	food := &model.Food{
		Name:         request.Name,
		Description:  request.Description,
		Price:        request.Price,
		RestaurantID: restaurantID,
	}

	if err := s.foods.CreateFood(c.Request.Context(), food); err != nil {
		abortWithError(c, err)

		return
	}

	s.maintainer.Recompute(c.Request.Context(), restaurantID)

	c.JSON(http.StatusCreated, dataEnvelope(food))
}

func (s *FoodServer) UpdateFood(c *gin.Context) {
	foodID, ok := parseID(c, "id")
	if !ok {
		return
	}

	food, err := s.foods.GetFoodByID(c.Request.Context(), foodID)
	if err != nil {
		if errors.Is(err, repository.ErrFoodNotFound) {
			err = NotFound("Food", c.Param("id"))
		}

		abortWithError(c, err)

		return
	}

	var request updateFoodRequest
	if err = c.ShouldBindJSON(&request); err != nil {
		abortWithError(c, err)

		return
	}

	if request.Name != nil {
		food.Name = *request.Name
	}

	if request.Description != nil {
		food.Description = *request.Description
	}

	if request.Price != nil {
		food.Price = *request.Price
	}

	food.Restaurant = nil // the populated reference is not written back

	if err = s.foods.UpdateFood(c.Request.Context(), food); err != nil {
		abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, dataEnvelope(food))
}

func (s *FoodServer) DeleteFood(c *gin.Context) {
	foodID, ok := parseID(c, "id")
	if !ok {
		return
	}

	food, err := s.foods.GetFoodByID(c.Request.Context(), foodID)
	if err != nil {
		if errors.Is(err, repository.ErrFoodNotFound) {
			err = NotFound("Food", c.Param("id"))
		}

		abortWithError(c, err)

		return
	}

	if err = s.foods.DeleteFood(c.Request.Context(), foodID); err != nil {
		abortWithError(c, err)

		return
	}

	s.maintainer.Recompute(c.Request.Context(), food.RestaurantID)

	c.JSON(http.StatusOK, Envelope{Success: true})
}
