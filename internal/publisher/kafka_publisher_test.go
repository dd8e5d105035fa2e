package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carlosmoliv/shopping-cart/internal/domain"
)

type capturingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *capturingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

// itemAddedEvent drives a real aggregate so the test publishes the same event
// value the application layer would.
func itemAddedEvent(t *testing.T) domain.DomainEvent {
	t.Helper()

	qty, err := domain.NewQuantity(decimal.NewFromInt(2))
	require.NoError(t, err)

	cart := domain.NewCart("user-1")
	cart.AddItem("p1", "Coffee", domain.NewMoney(decimal.NewFromInt(10), domain.USD), qty)

	events := cart.DomainEvents()
	require.Len(t, events, 1)
	return events[0]
}

func TestPublish_WritesEnvelope(t *testing.T) {
	writer := &capturingWriter{}
	pub := &KafkaPublisher{writer: writer, log: zap.NewNop()}

	event := itemAddedEvent(t)
	require.NoError(t, pub.Publish(context.Background(), event))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]

	// Key is the cart id so one cart's events share a partition.
	assert.Equal(t, event.AggregateID(), string(msg.Key))

	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "cart.item_added", string(msg.Headers[0].Value))

	var env envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, event.EventID(), env.EventID)
	assert.Equal(t, "cart.item_added", env.EventType)
	assert.Equal(t, 1, env.EventVersion)
	assert.NotEmpty(t, env.OccurredOn)

	var payload struct {
		CartID    string          `json:"cart_id"`
		ProductID string          `json:"product_id"`
		Quantity  decimal.Decimal `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, event.AggregateID(), payload.CartID)
	assert.Equal(t, "p1", payload.ProductID)
	assert.True(t, payload.Quantity.Equal(decimal.NewFromInt(2)))
}

func TestPublish_WriterError(t *testing.T) {
	writer := &capturingWriter{err: errors.New("broker down")}
	pub := &KafkaPublisher{writer: writer, log: zap.NewNop()}

	err := pub.Publish(context.Background(), itemAddedEvent(t))
	require.ErrorContains(t, err, "write event to kafka")
}

func TestPublish_DistinctEventIDs(t *testing.T) {
	writer := &capturingWriter{}
	pub := &KafkaPublisher{writer: writer, log: zap.NewNop()}

	require.NoError(t, pub.Publish(context.Background(), itemAddedEvent(t)))
	require.NoError(t, pub.Publish(context.Background(), itemAddedEvent(t)))

	var first, second envelope
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &first))
	require.NoError(t, json.Unmarshal(writer.messages[1].Value, &second))
	assert.NotEqual(t, first.EventID, second.EventID)
}

func TestClose_NonKafkaWriter(t *testing.T) {
	pub := &KafkaPublisher{writer: &capturingWriter{}, log: zap.NewNop()}
	assert.NoError(t, pub.Close())
}
