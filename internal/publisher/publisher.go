package publisher

import (
	"context"

	"github.com/carlosmoliv/shopping-cart/internal/domain"
)

// EventPublisher hands drained domain events to the message transport.
// Fire-and-forget from the orchestration's point of view: a publish failure
// after a successful persist is logged and left to redelivery, never rolled
// back. Consumers must be idempotent per event id.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.DomainEvent) error
}
