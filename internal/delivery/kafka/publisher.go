package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/bagaskara/tripnusa/internal/domain"
	"github.com/bagaskara/tripnusa/internal/usecase"
)

// Publisher dispatches booking confirmations to Kafka. Records are
// keyed by user id so one user's accruals stay ordered within a
// partition.
type Publisher struct {
	client *kgo.Client
}

func NewPublisher(client *kgo.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) DispatchAccrual(ctx context.Context, b domain.Booking) error {
	event := BookingConfirmedEvent{
		SchemaVersion: 1,
		BookingID:     b.ID,
		UserID:        b.UserID,
		PointsEarned:  b.PointsEarned,
		ChargeTotal:   b.Charge.Total,
		OccurredAt:    time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking confirmed event: %w", err)
	}

	record := &kgo.Record{
		Topic: TopicBookingConfirmed,
		Key:   []byte(b.UserID),
		Value: payload,
	}

	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce booking confirmed event: %w", err)
	}

	return nil
}

var _ usecase.AccrualDispatcher = (*Publisher)(nil)
