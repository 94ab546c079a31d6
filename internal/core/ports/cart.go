// internal/core/ports/cart.go
package ports

import (
	"context"
	"errors"

	"github.com/gmods/storefront-be/internal/core/domain"
)

// ErrCartNotFound is returned by CartStore.Load when no record exists for
// the requested cart ID. A missing record is how a cart starts life, so
// callers treat this as "empty cart", not a failure.
var ErrCartNotFound = errors.New("cart not found")

// CartService defines the application service port for the cart engine.
// Implemented by services.CartService; handlers depend on this interface.
type CartService interface {
	Get(ctx context.Context, cartID string) (domain.Cart, error)
	AddItem(ctx context.Context, cartID string, product domain.Product, quantity, variationID int) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, cartID, itemID string, quantity int) (domain.Cart, error)
	RemoveItem(ctx context.Context, cartID, itemID string) (domain.Cart, error)
	Clear(ctx context.Context, cartID string) (domain.Cart, error)
	SetOpen(ctx context.Context, cartID string, open bool) (domain.Cart, error)
	Persist(ctx context.Context, cartID string) error
	Subscribe(fn func(domain.Cart))
}

// CartStore defines the durable key-value persistence port for carts.
// Implemented by the Redis adapter. Load returns ErrCartNotFound when no
// record exists for the given cart ID.
type CartStore interface {
	Save(ctx context.Context, cartID string, rec domain.CartRecord) error
	Load(ctx context.Context, cartID string) (domain.CartRecord, error)
	Delete(ctx context.Context, cartID string) error
}
