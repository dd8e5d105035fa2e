package repository

import (
	"context"
	"errors"

	"github.com/carlosmoliv/shopping-cart/internal/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")

	// ErrConcurrentModification means the cart changed between read and save.
	// Retryable: re-read and reapply.
	ErrConcurrentModification = errors.New("cart was modified concurrently")
)

// CartRepository defines the interface for cart persistence.
// Consumers define this interface, not the MongoDB implementation.
type CartRepository interface {
	// FindByUserID atomically returns the user's cart, creating an empty one
	// when absent. Concurrent first access for the same user yields the same
	// cart, never duplicates.
	FindByUserID(ctx context.Context, userID domain.UserID) (*domain.Cart, error)

	// GetByUserID returns ErrCartNotFound when the user has no cart.
	GetByUserID(ctx context.Context, userID domain.UserID) (*domain.Cart, error)

	// Save persists the cart if its version still matches the stored one,
	// then increments the stored version. A stale version returns
	// ErrConcurrentModification and writes nothing.
	Save(ctx context.Context, cart *domain.Cart) error
}
