package domain

import "time"

// CartItem is one line item inside a Cart. It is owned exclusively by its
// parent aggregate; id, productID and addedAt never change after creation,
// price and quantity are replaced by new value objects.
type CartItem struct {
	id          CartItemID
	productID   ProductID
	productName string
	price       Money
	quantity    Quantity
	addedAt     time.Time
}

func NewCartItem(productID ProductID, productName string, price Money, quantity Quantity) *CartItem {
	return &CartItem{
		id:          NewCartItemID(),
		productID:   productID,
		productName: productName,
		price:       price,
		quantity:    quantity,
		addedAt:     time.Now(),
	}
}

// RehydrateCartItem rebuilds an item from its persisted shape. Used by
// repositories only.
func RehydrateCartItem(id CartItemID, productID ProductID, productName string, price Money, quantity Quantity, addedAt time.Time) *CartItem {
	return &CartItem{
		id:          id,
		productID:   productID,
		productName: productName,
		price:       price,
		quantity:    quantity,
		addedAt:     addedAt,
	}
}

func (i *CartItem) ID() CartItemID       { return i.id }
func (i *CartItem) ProductID() ProductID { return i.productID }
func (i *CartItem) ProductName() string  { return i.productName }
func (i *CartItem) Price() Money         { return i.price }
func (i *CartItem) Quantity() Quantity   { return i.quantity }
func (i *CartItem) AddedAt() time.Time   { return i.addedAt }

// UpdateQuantity replaces the stored quantity. This is a set, not an add;
// the Cart decides whether to replace or accumulate.
func (i *CartItem) UpdateQuantity(quantity Quantity) {
	i.quantity = quantity
}

func (i *CartItem) UpdatePrice(price Money) {
	i.price = price
}

// Subtotal is price times quantity. Fractional quantities produce fractional
// subtotals; no rounding here.
func (i *CartItem) Subtotal() Money {
	return i.price.Multiply(i.quantity.Value())
}
