package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
)

// PointsAwarder applies a loyalty accrual. Implementations must be
// idempotent per booking id, because records can be redelivered.
type PointsAwarder interface {
	AwardPoints(ctx context.Context, bookingID uuid.UUID, userID string, points int64) error
}

type recordProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Consumer awards loyalty points for confirmed bookings. Delivery is
// at-least-once; the per-booking accrual record in the store makes the
// award itself exactly-once. Undecodable records are parked on the DLQ;
// award failures are treated as transient and the record's offset is
// left uncommitted so redelivery retries it.
type Consumer struct {
	client   *kgo.Client
	producer recordProducer
	awarder  PointsAwarder
}

func NewConsumer(client *kgo.Client, awarder PointsAwarder) *Consumer {
	return &Consumer{
		client:   client,
		producer: client,
		awarder:  awarder,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			log.Printf("Consumer poll errors: %v", errs)
		}

		// Commit only the prefix of records that reached a final state.
		// Stopping at the first transient failure keeps its offset, and
		// everything after it, uncommitted for redelivery.
		var done []*kgo.Record
		iter := fetches.RecordIter()
		for !iter.Done() {
			record := iter.Next()
			if !c.processRecord(ctx, record) {
				break
			}
			done = append(done, record)
		}

		if len(done) > 0 {
			if err := c.client.CommitRecords(ctx, done...); err != nil {
				log.Printf("Failed to commit records: %v", err)
			}
		}
	}
}

// processRecord reports whether the record reached a final state: the
// points were awarded, or the record was poison and landed on the DLQ.
func (c *Consumer) processRecord(ctx context.Context, record *kgo.Record) bool {
	var event BookingConfirmedEvent
	if err := json.Unmarshal(record.Value, &event); err != nil {
		log.Printf("Failed to decode booking confirmed event: %v", err)
		return c.sendToDLQ(ctx, record, err)
	}

	if err := c.awarder.AwardPoints(ctx, event.BookingID, event.UserID, event.PointsEarned); err != nil {
		log.Printf("Failed to award points for booking %s, will retry: %v", event.BookingID, err)
		return false
	}

	return true
}

func (c *Consumer) sendToDLQ(ctx context.Context, record *kgo.Record, cause error) bool {
	dlqRecord := &kgo.Record{
		Topic: record.Topic + TopicDLQSuffix,
		Key:   record.Key,
		Value: record.Value,
		Headers: append(record.Headers, kgo.RecordHeader{
			Key:   ErrorHeaderKey,
			Value: []byte(cause.Error()),
		}),
	}

	if err := c.producer.ProduceSync(ctx, dlqRecord).FirstErr(); err != nil {
		log.Printf("Failed to produce DLQ record: %v", err)
		return false
	}
	return true
}
