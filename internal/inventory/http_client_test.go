package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheckStock_Success(t *testing.T) {
	var gotReq stockCheckRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/products/stock-check", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(StockCheck{
			Product: Product{
				ID:            "p1",
				Name:          "Coffee",
				PriceAmount:   decimal.RequireFromString("10.50"),
				PriceCurrency: "USD",
				StockQuantity: decimal.NewFromInt(100),
			},
			HasStock:          true,
			AvailableQuantity: decimal.NewFromInt(100),
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second, zap.NewNop())

	check, err := client.CheckStock(context.Background(), "p1", decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.Equal(t, "p1", gotReq.ProductID)
	assert.True(t, gotReq.RequiredQuantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, check.HasStock)
	assert.Equal(t, "Coffee", check.Product.Name)
	assert.True(t, check.Product.PriceAmount.Equal(decimal.RequireFromString("10.50")))
}

func TestCheckStock_ProductNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second, zap.NewNop())

	_, err := client.CheckStock(context.Background(), "missing", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCheckStock_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second, zap.NewNop())

	_, err := client.CheckStock(context.Background(), "p1", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCheckStock_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, 50*time.Millisecond, zap.NewNop())

	_, err := client.CheckStock(context.Background(), "p1", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCheckStock_ConnectionRefused(t *testing.T) {
	// Point at a server that is already down.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewHTTPClient(url, time.Second, zap.NewNop())

	_, err := client.CheckStock(context.Background(), "p1", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCheckStock_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"product": `))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second, zap.NewNop())

	_, err := client.CheckStock(context.Background(), "p1", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrUnavailable)
}
