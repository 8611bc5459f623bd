package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLogger tags every request with an id and logs its outcome.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request_id", requestID)

		c.Next()

		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

func NewRouter(restaurants *RestaurantServer, foods *FoodServer, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(logger), gin.Recovery(), ErrorFormatter(logger))

	v1 := router.Group("/api/v1")

	v1.GET("/restaurants", restaurants.ListRestaurants)
	v1.POST("/restaurants", restaurants.CreateRestaurant)
	v1.GET("/restaurants/radius/:zipcode/:distance", restaurants.RestaurantsInRadius)
	v1.GET("/restaurants/:id", restaurants.GetRestaurant)
	v1.PUT("/restaurants/:id", restaurants.UpdateRestaurant)
	v1.DELETE("/restaurants/:id", restaurants.DeleteRestaurant)
	v1.PUT("/restaurants/:id/photo", restaurants.UploadPhoto)

	v1.GET("/restaurants/:id/food", foods.ListFoods)
	v1.POST("/restaurants/:id/food", foods.CreateFood)
	v1.GET("/food", foods.ListFoods)
	v1.GET("/food/:id", foods.GetFood)
	v1.PUT("/food/:id", foods.UpdateFood)
	v1.DELETE("/food/:id", foods.DeleteFood)

	return router
}
