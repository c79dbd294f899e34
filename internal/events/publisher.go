package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/gourmet-ledger/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher emits OrderPlaced envelopes keyed by order id. A circuit
// breaker stops calls to the broker after repeated failures.
type KafkaPublisher struct {
	w        messageWriter
	breaker  *gobreaker.CircuitBreaker[struct{}]
	producer string
	now      func() time.Time
}

func NewKafkaPublisher(brokers []string, topic, producer string) *KafkaPublisher {
	return newPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}, producer)
}

func newPublisher(w messageWriter, producer string) *KafkaPublisher {
	return &KafkaPublisher{
		w: w,
		breaker: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:        "kafka-order-placed",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		producer: producer,
		now:      time.Now,
	}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, record domain.OrderRecord) error {
	payload, err := json.Marshal(mapOrderPlaced(record))
	if err != nil {
		return fmt.Errorf("json.Marshal payload: %w", err)
	}

	envelope, err := json.Marshal(Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    p.now().UTC(),
		Producer:      p.producer,
		CorrelationID: record.ID.String(),
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("json.Marshal envelope: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(record.ID.String()),
		Value: envelope,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(EventOrderPlaced)},
			{Key: "x-event-version", Value: []byte("1")},
		},
	}

	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.w.WriteMessages(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("w.WriteMessages: %w", err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

func mapOrderPlaced(record domain.OrderRecord) OrderPlacedPayload {
	items := make([]OrderPlacedItem, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, OrderPlacedItem{
			ItemID:    item.ID,
			Name:      item.Name,
			Variant:   item.Variant,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Amount.StringFixed(2),
		})
	}

	return OrderPlacedPayload{
		OrderID:    record.ID.String(),
		OwnerID:    record.OwnerID,
		Restaurant: record.Restaurant,
		Currency:   record.Total.Currency.String(),
		Total:      record.Total.Amount.StringFixed(2),
		Items:      items,
		PlacedAt:   record.CreatedAt.UTC(),
	}
}
