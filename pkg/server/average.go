package server

import (
	"context"
	"math"

	"go.uber.org/zap"

	"tablescout.dev/TableScout/pkg/repository"
)

// Average cost is displayed in coarse steps, so the mean food price is
// rounded up to the next multiple of this.
const costStep = 10

// AverageCostMaintainer keeps a restaurant's cached average cost in sync
// with its food items. It runs after a food create or delete has already
// succeeded, so failures are logged and never surfaced to the request.
type AverageCostMaintainer struct {
	store  repository.AverageCostStore
	logger *zap.Logger
}

func NewAverageCostMaintainer(store repository.AverageCostStore, logger *zap.Logger) *AverageCostMaintainer {
	return &AverageCostMaintainer{store: store, logger: logger}
}

func (m *AverageCostMaintainer) Recompute(ctx context.Context, restaurantID uint) {
	average, count, err := m.store.AverageFoodPrice(ctx, restaurantID)
	if err != nil {
		m.logger.Error("failed to read food price aggregate", zap.Uint("restaurant_id", restaurantID), zap.Error(err))

		return
	}

	// No food items left: reset rather than keep a stale value.
	cost := 0.0
	if count > 0 {
		cost = math.Ceil(average/costStep) * costStep
	}

	if err = m.store.SetAverageCost(ctx, restaurantID, cost); err != nil {
		m.logger.Error("failed to update average cost", zap.Uint("restaurant_id", restaurantID), zap.Error(err))
	}
}
