package inventory

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrProductNotFound means the catalog has no such product. Not retryable.
	ErrProductNotFound = errors.New("product not found")

	// ErrUnavailable covers transport failures and timeouts talking to the
	// inventory service. Retryable with backoff, unlike insufficient stock.
	ErrUnavailable = errors.New("inventory service unavailable")
)

type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	PriceAmount   decimal.Decimal `json:"price_amount"`
	PriceCurrency string          `json:"price_currency"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	Version       int64           `json:"version"`
}

// StockCheck is the inventory service's answer for one product at check time.
// Stock is not reserved: the answer is authoritative at check time only.
type StockCheck struct {
	Product           Product         `json:"product"`
	HasStock          bool            `json:"has_stock"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
}

// Client is the synchronous stock-check collaborator. Consumers define this
// interface, not the HTTP implementation.
type Client interface {
	CheckStock(ctx context.Context, productID string, requiredQuantity decimal.Decimal) (StockCheck, error)
}
