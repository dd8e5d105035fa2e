package repository

import (
	"context"
	"sync"

	"github.com/carlosmoliv/shopping-cart/internal/domain"
)

// MemoryRepository keeps carts in a process-local map. Useful for tests and
// for running the service without MongoDB. The mutex gives it the same
// atomic find-or-create and version-checked save contract as the Mongo
// implementation.
type MemoryRepository struct {
	mu    sync.Mutex
	carts map[domain.UserID]cartDocument
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		carts: make(map[domain.UserID]cartDocument),
	}
}

func (r *MemoryRepository) FindByUserID(_ context.Context, userID domain.UserID) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.carts[userID]
	if !ok {
		doc = toDocument(domain.NewCart(userID))
		r.carts[userID] = doc
	}
	return toDomain(doc)
}

func (r *MemoryRepository) GetByUserID(_ context.Context, userID domain.UserID) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.carts[userID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return toDomain(doc)
}

func (r *MemoryRepository) Save(_ context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := toDocument(cart)
	stored, ok := r.carts[cart.UserID()]
	if !ok || stored.Version != doc.Version {
		return ErrConcurrentModification
	}

	doc.Version++
	r.carts[cart.UserID()] = doc
	return nil
}
