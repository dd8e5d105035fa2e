package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrItemNotFound = errors.New("item not found in cart")

// Cart is the consistency boundary around a user's line items. All mutation
// goes through aggregate methods; collaborators never splice into the item
// collection directly. Carts are always active in this core — there is no
// abandoned or expired state to guard against.
type Cart struct {
	id        CartID
	userID    UserID
	items     []*CartItem
	version   int64
	createdAt time.Time
	updatedAt time.Time
	events    []DomainEvent
}

func NewCart(userID UserID) *Cart {
	now := time.Now()
	return &Cart{
		id:        NewCartID(),
		userID:    userID,
		createdAt: now,
		updatedAt: now,
	}
}

// RehydrateCart rebuilds a cart from its persisted shape. Used by
// repositories only; no events are replayed.
func RehydrateCart(id CartID, userID UserID, items []*CartItem, version int64, createdAt, updatedAt time.Time) *Cart {
	return &Cart{
		id:        id,
		userID:    userID,
		items:     items,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (c *Cart) ID() CartID           { return c.id }
func (c *Cart) UserID() UserID       { return c.userID }
func (c *Cart) Version() int64       { return c.version }
func (c *Cart) CreatedAt() time.Time { return c.createdAt }
func (c *Cart) UpdatedAt() time.Time { return c.updatedAt }

// AddItem puts quantity of a product into the cart. When the product is
// already present its quantity is REPLACED with the supplied one, not summed.
// Exactly one ItemAddedToCartEvent is recorded per call, merge or insert.
func (c *Cart) AddItem(productID ProductID, productName string, price Money, quantity Quantity) {
	if existing := c.findItem(productID); existing != nil {
		existing.UpdateQuantity(quantity)
	} else {
		c.items = append(c.items, NewCartItem(productID, productName, price, quantity))
	}
	c.touch()
	c.record(newItemAddedToCartEvent(c.id, productID, quantity))
}

// UpdateItemQuantity sets the quantity of an existing item. Setting the same
// quantity again is a no-op and records no event.
func (c *Cart) UpdateItemQuantity(productID ProductID, quantity Quantity) error {
	item := c.findItem(productID)
	if item == nil {
		return fmt.Errorf("%w: product %s", ErrItemNotFound, productID)
	}

	previous := item.Quantity()
	if previous.Equals(quantity) {
		return nil
	}

	item.UpdateQuantity(quantity)
	c.touch()
	c.record(newCartItemQuantityUpdatedEvent(c.id, c.userID, productID, previous, quantity))
	return nil
}

func (c *Cart) RemoveItem(productID ProductID) error {
	for i, item := range c.items {
		if item.ProductID() == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.touch()
			c.record(newItemRemovedFromCartEvent(c.id, productID))
			return nil
		}
	}
	return fmt.Errorf("%w: product %s", ErrItemNotFound, productID)
}

func (c *Cart) Clear() {
	c.items = nil
	c.touch()
	c.record(newCartClearedEvent(c.id, c.userID))
}

// Items returns a copy of the item collection so callers cannot reorder or
// splice the aggregate's internal slice.
func (c *Cart) Items() []*CartItem {
	out := make([]*CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) ItemCount() int { return len(c.items) }

func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }

// Total sums the item subtotals. An empty cart totals to zero USD.
func (c *Cart) Total() (Money, error) {
	if len(c.items) == 0 {
		return ZeroMoney(USD), nil
	}
	total := ZeroMoney(c.items[0].Price().Currency())
	for _, item := range c.items {
		sum, err := total.Add(item.Subtotal())
		if err != nil {
			return Money{}, err
		}
		total = sum
	}
	return total, nil
}

// DomainEvents returns a snapshot of the buffered events.
func (c *Cart) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(c.events))
	copy(out, c.events)
	return out
}

// ClearDomainEvents drains the buffer. Idempotent.
func (c *Cart) ClearDomainEvents() {
	c.events = nil
}

func (c *Cart) findItem(productID ProductID) *CartItem {
	// Linear scan; carts are small.
	for _, item := range c.items {
		if item.ProductID() == productID {
			return item
		}
	}
	return nil
}

func (c *Cart) touch() {
	c.updatedAt = time.Now()
}

func (c *Cart) record(event DomainEvent) {
	c.events = append(c.events, event)
}
