package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/carlosmoliv/shopping-cart/internal/cache"
	"github.com/carlosmoliv/shopping-cart/internal/domain"
	"github.com/carlosmoliv/shopping-cart/internal/inventory"
	"github.com/carlosmoliv/shopping-cart/internal/publisher"
	"github.com/carlosmoliv/shopping-cart/internal/repository"
)

// ErrInsufficientStock means the inventory service authorized less than the
// requested quantity. Not retryable without a changed request.
var ErrInsufficientStock = errors.New("insufficient stock")

// CartService orchestrates cart commands: load the aggregate, consult the
// inventory collaborator, mutate, persist, then drain and publish events.
// The stock check is a point-in-time read with no reservation — authorized at
// check time, not guaranteed at commit time.
type CartService struct {
	repo      repository.CartRepository
	inventory inventory.Client
	publisher publisher.EventPublisher
	cache     cache.CartCache
	log       *zap.Logger
	sfg       singleflight.Group // Prevents cache stampede
}

func NewCartService(
	repo repository.CartRepository,
	inv inventory.Client,
	pub publisher.EventPublisher,
	cartCache cache.CartCache,
	log *zap.Logger,
) *CartService {
	return &CartService{
		repo:      repo,
		inventory: inv,
		publisher: pub,
		cache:     cartCache,
		log:       log,
	}
}

// AddItem runs the add-item workflow for one user. The caller only supplies
// the desired quantity; the authoritative unit price comes from the inventory
// response. Any error before Save leaves the stored cart untouched and
// publishes nothing. A stale write surfaces as ErrConcurrentModification for
// the caller to retry.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity decimal.Decimal) error {
	qty, err := domain.NewQuantity(quantity)
	if err != nil {
		return err
	}

	uid := domain.UserID(userID)
	cart, err := s.repo.FindByUserID(ctx, uid)
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}

	check, err := s.inventory.CheckStock(ctx, productID, qty.Value())
	if err != nil {
		return err
	}
	if !check.HasStock {
		return fmt.Errorf("%w: product %s, requested %s, available %s",
			ErrInsufficientStock, productID, qty, check.AvailableQuantity)
	}

	price, err := priceFrom(check.Product)
	if err != nil {
		return err
	}

	cart.AddItem(domain.ProductID(productID), check.Product.Name, price, qty)

	if err := s.repo.Save(ctx, cart); err != nil {
		return err
	}

	s.publishEvents(ctx, cart)
	s.invalidateCache(uid)
	return nil
}

// UpdateQuantity sets the quantity of an item already in the cart. Unlike
// AddItem it requires both the cart and the item to exist.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity decimal.Decimal) error {
	qty, err := domain.NewQuantity(quantity)
	if err != nil {
		return err
	}

	uid := domain.UserID(userID)
	cart, err := s.repo.GetByUserID(ctx, uid)
	if err != nil {
		return err
	}

	if err := cart.UpdateItemQuantity(domain.ProductID(productID), qty); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return err
	}

	s.publishEvents(ctx, cart)
	s.invalidateCache(uid)
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) error {
	uid := domain.UserID(userID)
	cart, err := s.repo.GetByUserID(ctx, uid)
	if err != nil {
		return err
	}

	if err := cart.RemoveItem(domain.ProductID(productID)); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return err
	}

	s.publishEvents(ctx, cart)
	s.invalidateCache(uid)
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	uid := domain.UserID(userID)
	cart, err := s.repo.GetByUserID(ctx, uid)
	if err != nil {
		return err
	}

	cart.Clear()

	if err := s.repo.Save(ctx, cart); err != nil {
		return err
	}

	s.publishEvents(ctx, cart)
	s.invalidateCache(uid)
	return nil
}

// GetCart returns the cart projection for a user, an empty one when none
// exists. Reads go through the cache with singleflight so concurrent misses
// for the same user hit the repository once.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.CartSnapshot, error) {
	uid := domain.UserID(userID)

	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		snapshot, err := s.cache.Get(ctx, uid)
		if err == nil {
			return snapshot, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("cache get failed", zap.String("user_id", userID), zap.Error(err))
		}

		cart, err := s.repo.GetByUserID(ctx, uid)
		if errors.Is(err, repository.ErrCartNotFound) {
			return domain.EmptyCartSnapshot(uid), nil
		}
		if err != nil {
			return nil, err
		}

		snapshot, err = cart.Snapshot()
		if err != nil {
			return nil, err
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(ctx, uid, snapshot); err != nil {
				s.log.Warn("cache set failed", zap.String("user_id", userID), zap.Error(err))
			}
		}()

		return snapshot, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.CartSnapshot), nil
}

// publishEvents drains the aggregate's buffer after a successful persist.
// A failed publish is logged and dropped here: the persisted cart stays, and
// redelivery is the transport's concern (consumers dedupe by event id).
func (s *CartService) publishEvents(ctx context.Context, cart *domain.Cart) {
	for _, event := range cart.DomainEvents() {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.log.Error("failed to publish event",
				zap.String("event_id", event.EventID()),
				zap.String("event_type", event.EventName()),
				zap.String("cart_id", event.AggregateID()),
				zap.Error(err))
		}
	}
	cart.ClearDomainEvents()
}

func (s *CartService) invalidateCache(userID domain.UserID) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.log.Warn("cache invalidate failed", zap.String("user_id", string(userID)), zap.Error(err))
	}
}

func priceFrom(product inventory.Product) (domain.Money, error) {
	cur := product.PriceCurrency
	if cur == "" {
		cur = string(domain.USD)
	}
	parsed, err := domain.ParseCurrency(cur)
	if err != nil {
		return domain.Money{}, fmt.Errorf("inventory price currency: %w", err)
	}
	return domain.NewMoney(product.PriceAmount, parsed), nil
}
