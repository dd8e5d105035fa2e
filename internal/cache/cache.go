package cache

import (
	"context"
	"errors"

	"github.com/carlosmoliv/shopping-cart/internal/domain"
)

type CartCache interface {
	Get(ctx context.Context, userID domain.UserID) (*domain.CartSnapshot, error)
	Set(ctx context.Context, userID domain.UserID, snapshot *domain.CartSnapshot) error
	Delete(ctx context.Context, userID domain.UserID) error
}

var ErrCacheMiss = errors.New("cache miss")
