package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultTimeout = 3 * time.Second

// HTTPClient talks to the inventory service over HTTP/JSON. Every call is
// bounded by the configured timeout so a hung inventory service surfaces as
// ErrUnavailable instead of blocking the add-item workflow.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        *zap.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, log *zap.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
		log:        log,
	}
}

type stockCheckRequest struct {
	ProductID        string          `json:"product_id"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
}

func (c *HTTPClient) CheckStock(ctx context.Context, productID string, requiredQuantity decimal.Decimal) (StockCheck, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(stockCheckRequest{
		ProductID:        productID,
		RequiredQuantity: requiredQuantity,
	})
	if err != nil {
		return StockCheck{}, fmt.Errorf("marshal stock check request: %w", err)
	}

	url := c.baseURL + "/api/products/stock-check"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return StockCheck{}, fmt.Errorf("build stock check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("inventory call failed", zap.String("product_id", productID), zap.Error(err))
		return StockCheck{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return StockCheck{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	case resp.StatusCode != http.StatusOK:
		c.log.Warn("inventory returned unexpected status",
			zap.String("product_id", productID), zap.Int("status", resp.StatusCode))
		return StockCheck{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var check StockCheck
	if err := json.NewDecoder(resp.Body).Decode(&check); err != nil {
		return StockCheck{}, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	return check, nil
}
