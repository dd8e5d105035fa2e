package repository

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carlosmoliv/shopping-cart/internal/domain"
)

// Persisted shape of a cart. Decimal amounts are stored as strings to avoid
// float drift in BSON.
type cartDocument struct {
	ID        string             `bson:"_id"`
	UserID    string             `bson:"user_id"`
	Items     []cartItemDocument `bson:"items"`
	Version   int64              `bson:"version"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type cartItemDocument struct {
	ID            string    `bson:"_id"`
	ProductID     string    `bson:"product_id"`
	ProductName   string    `bson:"product_name"`
	PriceAmount   string    `bson:"price_amount"`
	PriceCurrency string    `bson:"price_currency"`
	Quantity      string    `bson:"quantity"`
	AddedAt       time.Time `bson:"added_at"`
}

func toDocument(cart *domain.Cart) cartDocument {
	items := cart.Items()
	docs := make([]cartItemDocument, 0, len(items))
	for _, item := range items {
		docs = append(docs, cartItemDocument{
			ID:            string(item.ID()),
			ProductID:     string(item.ProductID()),
			ProductName:   item.ProductName(),
			PriceAmount:   item.Price().Amount().String(),
			PriceCurrency: string(item.Price().Currency()),
			Quantity:      item.Quantity().Value().String(),
			AddedAt:       item.AddedAt(),
		})
	}
	return cartDocument{
		ID:        string(cart.ID()),
		UserID:    string(cart.UserID()),
		Items:     docs,
		Version:   cart.Version(),
		CreatedAt: cart.CreatedAt(),
		UpdatedAt: cart.UpdatedAt(),
	}
}

func toDomain(doc cartDocument) (*domain.Cart, error) {
	items := make([]*domain.CartItem, 0, len(doc.Items))
	for _, item := range doc.Items {
		amount, err := decimal.NewFromString(item.PriceAmount)
		if err != nil {
			return nil, fmt.Errorf("parse price amount %q: %w", item.PriceAmount, err)
		}
		cur, err := domain.ParseCurrency(item.PriceCurrency)
		if err != nil {
			return nil, fmt.Errorf("parse price currency: %w", err)
		}
		qtyValue, err := decimal.NewFromString(item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("parse quantity %q: %w", item.Quantity, err)
		}
		qty, err := domain.NewQuantity(qtyValue)
		if err != nil {
			return nil, fmt.Errorf("rehydrate quantity: %w", err)
		}
		items = append(items, domain.RehydrateCartItem(
			domain.CartItemID(item.ID),
			domain.ProductID(item.ProductID),
			item.ProductName,
			domain.NewMoney(amount, cur),
			qty,
			item.AddedAt,
		))
	}
	return domain.RehydrateCart(
		domain.CartID(doc.ID),
		domain.UserID(doc.UserID),
		items,
		doc.Version,
		doc.CreatedAt,
		doc.UpdatedAt,
	), nil
}
