package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DomainEvent is an immutable fact recorded by the Cart aggregate. Events are
// buffered on the aggregate and drained by the application layer after a
// successful persist; downstream consumers deduplicate by EventID.
type DomainEvent interface {
	EventID() string
	EventName() string
	AggregateID() string
	OccurredOn() time.Time
	EventVersion() int
}

type baseEvent struct {
	eventID    string
	occurredOn time.Time
}

func newBaseEvent() baseEvent {
	return baseEvent{
		eventID:    uuid.NewString(),
		occurredOn: time.Now(),
	}
}

func (e baseEvent) EventID() string       { return e.eventID }
func (e baseEvent) OccurredOn() time.Time { return e.occurredOn }
func (e baseEvent) EventVersion() int     { return 1 }

// ItemAddedToCartEvent is emitted once per AddItem call, for merges and
// inserts alike.
type ItemAddedToCartEvent struct {
	baseEvent
	CartID    CartID    `json:"cart_id"`
	ProductID ProductID `json:"product_id"`
	Quantity  Quantity  `json:"quantity"`
}

func newItemAddedToCartEvent(cartID CartID, productID ProductID, quantity Quantity) ItemAddedToCartEvent {
	return ItemAddedToCartEvent{
		baseEvent: newBaseEvent(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	}
}

func (e ItemAddedToCartEvent) EventName() string   { return "cart.item_added" }
func (e ItemAddedToCartEvent) AggregateID() string { return string(e.CartID) }

type CartItemQuantityUpdatedEvent struct {
	baseEvent
	CartID           CartID          `json:"cart_id"`
	UserID           UserID          `json:"user_id"`
	ProductID        ProductID       `json:"product_id"`
	PreviousQuantity Quantity        `json:"previous_quantity"`
	NewQuantity      Quantity        `json:"new_quantity"`
	Difference       decimal.Decimal `json:"difference"`
}

func newCartItemQuantityUpdatedEvent(cartID CartID, userID UserID, productID ProductID, previous, next Quantity) CartItemQuantityUpdatedEvent {
	return CartItemQuantityUpdatedEvent{
		baseEvent:        newBaseEvent(),
		CartID:           cartID,
		UserID:           userID,
		ProductID:        productID,
		PreviousQuantity: previous,
		NewQuantity:      next,
		Difference:       next.Value().Sub(previous.Value()),
	}
}

func (e CartItemQuantityUpdatedEvent) EventName() string   { return "cart.item_quantity_updated" }
func (e CartItemQuantityUpdatedEvent) AggregateID() string { return string(e.CartID) }

type ItemRemovedFromCartEvent struct {
	baseEvent
	CartID    CartID    `json:"cart_id"`
	ProductID ProductID `json:"product_id"`
}

func newItemRemovedFromCartEvent(cartID CartID, productID ProductID) ItemRemovedFromCartEvent {
	return ItemRemovedFromCartEvent{
		baseEvent: newBaseEvent(),
		CartID:    cartID,
		ProductID: productID,
	}
}

func (e ItemRemovedFromCartEvent) EventName() string   { return "cart.item_removed" }
func (e ItemRemovedFromCartEvent) AggregateID() string { return string(e.CartID) }

type CartClearedEvent struct {
	baseEvent
	CartID CartID `json:"cart_id"`
	UserID UserID `json:"user_id"`
}

func newCartClearedEvent(cartID CartID, userID UserID) CartClearedEvent {
	return CartClearedEvent{
		baseEvent: newBaseEvent(),
		CartID:    cartID,
		UserID:    userID,
	}
}

func (e CartClearedEvent) EventName() string   { return "cart.cleared" }
func (e CartClearedEvent) AggregateID() string { return string(e.CartID) }
