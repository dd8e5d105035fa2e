package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/carlosmoliv/shopping-cart/internal/domain"
)

const Topic = "cart-events"

// messageWriter is the slice of kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	writer messageWriter
	log    *zap.Logger
}

func NewKafkaPublisher(log *zap.Logger, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w, log: log}
}

// envelope wraps every event with its identity so consumers can deduplicate
// without knowing the payload shape.
type envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredOn   string          `json:"occurred_on"`
	Payload      json.RawMessage `json:"payload"`
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	value, err := json.Marshal(envelope{
		EventID:      event.EventID(),
		EventType:    event.EventName(),
		EventVersion: event.EventVersion(),
		OccurredOn:   event.OccurredOn().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Payload:      payload,
	})
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.AggregateID()), // cart id for per-cart ordering
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventName())},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write event to kafka: %w", err)
	}

	p.log.Info("published event",
		zap.String("event_id", event.EventID()),
		zap.String("event_type", event.EventName()),
		zap.String("cart_id", event.AggregateID()))
	return nil
}

func (p *KafkaPublisher) Close() error {
	if w, ok := p.writer.(*kafka.Writer); ok {
		return w.Close()
	}
	return nil
}
