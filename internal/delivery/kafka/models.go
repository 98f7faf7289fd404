package kafka

import (
	"time"

	"github.com/google/uuid"
)

// BookingConfirmedEvent is published once per committed booking. The
// accrual consumer treats it as at-least-once: the award keyed on
// BookingID is idempotent, so redelivery is harmless.
type BookingConfirmedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	BookingID     uuid.UUID `json:"booking_id"`
	UserID        string    `json:"user_id"`
	PointsEarned  int64     `json:"points_earned"`
	ChargeTotal   int64     `json:"charge_total"`
	OccurredAt    time.Time `json:"occurred_at"`
}
