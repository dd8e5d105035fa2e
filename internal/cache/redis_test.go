package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosmoliv/shopping-cart/internal/domain"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func sampleSnapshot(userID string) *domain.CartSnapshot {
	now := time.Now()
	return &domain.CartSnapshot{
		ID:     "cart-1",
		UserID: userID,
		Items: []domain.CartSnapshotItem{
			{
				ID:          "item-1",
				ProductID:   "p1",
				ProductName: "Coffee",
				Quantity:    decimal.NewFromInt(2),
				UnitPrice:   decimal.RequireFromString("10.50"),
				Subtotal:    decimal.RequireFromString("21.00"),
				AddedAt:     now,
			},
		},
		TotalAmount: decimal.RequireFromString("21.00"),
		Currency:    "USD",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestGet_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	userID := domain.UserID("user123")

	snapshot := sampleSnapshot(string(userID))
	data, err := json.Marshal(snapshot)
	require.NoError(t, err)
	require.NoError(t, mr.Set(cacheKey(userID), string(data)))

	result, err := cache.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, string(userID), result.UserID)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "p1", result.Items[0].ProductID)
	assert.True(t, result.TotalAmount.Equal(decimal.RequireFromString("21.00")))
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := cache.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_InvalidJSON(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	userID := domain.UserID("user123")
	require.NoError(t, mr.Set(cacheKey(userID), `{"id": "cart-1", "items`))

	_, err := cache.Get(context.Background(), userID)
	require.ErrorContains(t, err, "unmarshal cart snapshot failed")
}

func TestSet_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	userID := domain.UserID("user456")

	err := cache.Set(ctx, userID, sampleSnapshot(string(userID)))
	require.NoError(t, err)

	stored, err := mr.Get(cacheKey(userID))
	require.NoError(t, err)
	require.NotEmpty(t, stored)

	var storedSnapshot domain.CartSnapshot
	require.NoError(t, json.Unmarshal([]byte(stored), &storedSnapshot))
	assert.Equal(t, string(userID), storedSnapshot.UserID)
	assert.Len(t, storedSnapshot.Items, 1)
}

func TestSet_WithTTL(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	userID := domain.UserID("user789")

	err := cache.Set(ctx, userID, sampleSnapshot(string(userID)))
	require.NoError(t, err)

	ttl := mr.TTL(cacheKey(userID))
	assert.True(t, ttl >= 15*time.Minute, "TTL should be at least base TTL")
	assert.True(t, ttl <= 20*time.Minute, "TTL should be base + max jitter")
}

func TestDelete_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	userID := domain.UserID("user999")

	data, err := json.Marshal(sampleSnapshot(string(userID)))
	require.NoError(t, err)
	require.NoError(t, mr.Set(cacheKey(userID), string(data)))
	assert.True(t, mr.Exists(cacheKey(userID)))

	require.NoError(t, cache.Delete(ctx, userID))
	assert.False(t, mr.Exists(cacheKey(userID)))
}

func TestDelete_NonExistentKey(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	err := cache.Delete(context.Background(), "nonexistent")
	assert.NoError(t, err)
}

func TestCacheKey_Format(t *testing.T) {
	key := cacheKey(domain.UserID("test123"))
	assert.Equal(t, "cart:test123", key)
}
