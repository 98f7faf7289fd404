package kafka

import (
	"context"

	"github.com/bagaskara/tripnusa/internal/domain"
	"github.com/bagaskara/tripnusa/internal/usecase"
)

// DirectDispatcher awards points synchronously, for deployments that
// run without a broker (EVENT_DRIVEN_ENABLED=false).
type DirectDispatcher struct {
	loyalty *usecase.LoyaltyService
}

func NewDirectDispatcher(loyalty *usecase.LoyaltyService) usecase.AccrualDispatcher {
	return &DirectDispatcher{loyalty: loyalty}
}

func (d *DirectDispatcher) DispatchAccrual(ctx context.Context, b domain.Booking) error {
	return d.loyalty.AwardPoints(ctx, b.ID, b.UserID, b.PointsEarned)
}
