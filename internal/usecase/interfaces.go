package usecase

import (
	"context"

	"github.com/bagaskara/tripnusa/internal/domain"
)

// AccrualDispatcher delivers a confirmed booking to the loyalty accrual
// pipeline. The Kafka dispatcher publishes a confirmation event; the
// direct dispatcher awards points synchronously in-process. Either way
// the award itself is idempotent per booking.
type AccrualDispatcher interface {
	DispatchAccrual(ctx context.Context, b domain.Booking) error
}
