// internal/core/services/cart.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/gmods/storefront-be/internal/core/domain"
	"github.com/gmods/storefront-be/internal/core/ports"
)

// CartService owns the authoritative in-memory representation of every active
// cart, keyed by cart ID, and mirrors each cart into the durable store after
// every mutation. It is created once at application start and injected into
// consumers; there is no ambient singleton.
//
// A mutex serializes all mutations, so each operation is atomic with respect
// to concurrent HTTP handlers. Store writes are best-effort: a failed write
// leaves the in-memory cart correct for the current session, marks the
// snapshot as not persisted, and can be retried via Persist.
type CartService struct {
	store  ports.CartStore
	policy domain.PricingPolicy
	logger *slog.Logger

	mu          sync.Mutex
	carts       map[string]*domain.Cart
	subscribers []func(domain.Cart)
}

// Statically assert that *CartService implements the CartService interface.
var _ ports.CartService = (*CartService)(nil)

// NewCartService creates a new cart service with the given pricing policy
func NewCartService(store ports.CartStore, policy domain.PricingPolicy, logger *slog.Logger) *CartService {
	return &CartService{
		store:  store,
		policy: policy,
		logger: logger.With(slog.String("service", "cart")),
		carts:  make(map[string]*domain.Cart),
	}
}

// Get returns a snapshot of the cart, rehydrating it from the durable store
// on first access. A cart with no prior state starts empty.
func (s *CartService) Get(ctx context.Context, cartID string) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.cartLocked(ctx, cartID)
	if err != nil {
		return domain.Cart{}, err
	}
	return cart.Snapshot(), nil
}

// AddItem adds quantity units of the product to the cart. If an item with the
// same product/variation identifier already exists its quantity is increased
// instead of a duplicate entry being created. An unparseable product price
// rejects the call and leaves the cart unchanged.
func (s *CartService) AddItem(ctx context.Context, cartID string, product domain.Product, quantity, variationID int) (domain.Cart, error) {
	snap, err := s.mutate(ctx, cartID, func(cart *domain.Cart) error {
		return cart.AddItem(product, quantity, variationID, s.policy)
	})
	if err != nil {
		return domain.Cart{}, err
	}

	s.logger.InfoContext(ctx, "cart item added",
		slog.String("cart_id", cartID),
		slog.Int("product_id", product.ID),
		slog.Int("quantity", quantity),
		slog.Int("item_count", snap.ItemCount))
	return snap, nil
}

// UpdateQuantity sets the quantity of an existing cart item. A quantity of
// zero or less removes the item; an unknown item ID is a no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID, itemID string, quantity int) (domain.Cart, error) {
	snap, err := s.mutate(ctx, cartID, func(cart *domain.Cart) error {
		return cart.UpdateQuantity(itemID, quantity, s.policy)
	})
	if err != nil {
		return domain.Cart{}, err
	}

	s.logger.InfoContext(ctx, "cart quantity updated",
		slog.String("cart_id", cartID),
		slog.String("item_id", itemID),
		slog.Int("quantity", quantity))
	return snap, nil
}

// RemoveItem drops the item with the given identifier from the cart.
// Removing an absent item is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, cartID, itemID string) (domain.Cart, error) {
	snap, err := s.mutate(ctx, cartID, func(cart *domain.Cart) error {
		cart.RemoveItem(itemID, s.policy)
		return nil
	})
	if err != nil {
		return domain.Cart{}, err
	}

	s.logger.InfoContext(ctx, "cart item removed",
		slog.String("cart_id", cartID),
		slog.String("item_id", itemID))
	return snap, nil
}

// Clear empties the cart, zeroes all aggregates, and removes the persisted
// entry.
func (s *CartService) Clear(ctx context.Context, cartID string) (domain.Cart, error) {
	s.mu.Lock()
	cart, err := s.cartLocked(ctx, cartID)
	if err != nil {
		s.mu.Unlock()
		return domain.Cart{}, err
	}

	cart.Clear()
	if err := s.store.Delete(ctx, cartID); err != nil {
		s.logger.WarnContext(ctx, "failed to delete persisted cart",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()))
		cart.Persisted = false
	} else {
		cart.Persisted = true
	}

	snap := cart.Snapshot()
	subs := slices.Clone(s.subscribers)
	s.mu.Unlock()

	s.notify(subs, snap)
	s.logger.InfoContext(ctx, "cart cleared", slog.String("cart_id", cartID))
	return snap, nil
}

// SetOpen toggles the cart panel visibility flag. This is UI-only state and
// is never written to the durable store.
func (s *CartService) SetOpen(ctx context.Context, cartID string, open bool) (domain.Cart, error) {
	s.mu.Lock()
	cart, err := s.cartLocked(ctx, cartID)
	if err != nil {
		s.mu.Unlock()
		return domain.Cart{}, err
	}

	cart.IsOpen = open
	snap := cart.Snapshot()
	subs := slices.Clone(s.subscribers)
	s.mu.Unlock()

	s.notify(subs, snap)
	return snap, nil
}

// Persist writes the cart's current state to the durable store and reports
// the outcome, letting the caller decide whether to retry or surface a
// warning.
func (s *CartService) Persist(ctx context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.cartLocked(ctx, cartID)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, cartID, cart.Record()); err != nil {
		cart.Persisted = false
		return fmt.Errorf("failed to persist cart %s: %w", cartID, err)
	}
	cart.Persisted = true
	return nil
}

// Subscribe registers an observer invoked with a snapshot after every cart
// state change. Observers run synchronously on the mutating goroutine and
// must not call back into the service's mutation methods.
func (s *CartService) Subscribe(fn func(domain.Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Flush persists every in-memory cart. Called during graceful shutdown so
// active carts survive a restart even if an earlier best-effort write failed.
func (s *CartService) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for id, cart := range s.carts {
		if cart.IsEmpty() {
			continue
		}
		if err := s.store.Save(ctx, id, cart.Record()); err != nil {
			cart.Persisted = false
			errs = append(errs, fmt.Errorf("cart %s: %w", id, err))
			continue
		}
		cart.Persisted = true
	}
	return errors.Join(errs...)
}

// mutate applies fn to the cart under the lock, mirrors the result to the
// store, and notifies subscribers outside the lock.
func (s *CartService) mutate(ctx context.Context, cartID string, fn func(*domain.Cart) error) (domain.Cart, error) {
	s.mu.Lock()
	cart, err := s.cartLocked(ctx, cartID)
	if err != nil {
		s.mu.Unlock()
		return domain.Cart{}, err
	}

	if err := fn(cart); err != nil {
		s.mu.Unlock()
		return domain.Cart{}, err
	}

	if err := s.store.Save(ctx, cartID, cart.Record()); err != nil {
		s.logger.WarnContext(ctx, "cart persistence failed, in-memory state retained",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()))
		cart.Persisted = false
	} else {
		cart.Persisted = true
	}

	snap := cart.Snapshot()
	subs := slices.Clone(s.subscribers)
	s.mu.Unlock()

	s.notify(subs, snap)
	return snap, nil
}

// cartLocked returns the in-memory cart for cartID, loading it from the
// store on first access. Caller must hold s.mu.
func (s *CartService) cartLocked(ctx context.Context, cartID string) (*domain.Cart, error) {
	if cart, ok := s.carts[cartID]; ok {
		return cart, nil
	}

	rec, err := s.store.Load(ctx, cartID)
	switch {
	case err == nil:
		cart := domain.RestoreCart(cartID, rec)
		s.carts[cartID] = cart
		return cart, nil
	case errors.Is(err, ports.ErrCartNotFound):
		cart := domain.NewCart(cartID)
		s.carts[cartID] = cart
		return cart, nil
	default:
		return nil, fmt.Errorf("failed to load cart %s: %w", cartID, err)
	}
}

func (s *CartService) notify(subs []func(domain.Cart), snap domain.Cart) {
	for _, fn := range subs {
		fn(snap)
	}
}
