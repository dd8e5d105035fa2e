package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartSnapshotItem struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	AddedAt     time.Time       `json:"added_at"`
}

// CartSnapshot is the read-side projection of a cart: what the HTTP layer
// returns and what the cache stores. It carries no behaviour.
type CartSnapshot struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id"`
	Items       []CartSnapshotItem `json:"items"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Currency    string             `json:"currency"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Snapshot projects the cart's current state. Mixed currencies cannot be
// produced through aggregate methods, so the error path only guards bad
// rehydrated data.
func (c *Cart) Snapshot() (*CartSnapshot, error) {
	total, err := c.Total()
	if err != nil {
		return nil, err
	}

	items := make([]CartSnapshotItem, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, CartSnapshotItem{
			ID:          string(item.ID()),
			ProductID:   string(item.ProductID()),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity().Value(),
			UnitPrice:   item.Price().Amount(),
			Subtotal:    item.Subtotal().Amount(),
			AddedAt:     item.AddedAt(),
		})
	}

	return &CartSnapshot{
		ID:          string(c.id),
		UserID:      string(c.userID),
		Items:       items,
		TotalAmount: total.Amount(),
		Currency:    string(total.Currency()),
		CreatedAt:   c.createdAt,
		UpdatedAt:   c.updatedAt,
	}, nil
}

// EmptyCartSnapshot is what a user without a cart sees.
func EmptyCartSnapshot(userID UserID) *CartSnapshot {
	now := time.Now()
	return &CartSnapshot{
		UserID:      string(userID),
		Items:       []CartSnapshotItem{},
		TotalAmount: decimal.Zero,
		Currency:    string(USD),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
