// internal/adapters/redis/cart_store.go
package redis_a

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gmods/storefront-be/internal/core/domain"
	"github.com/gmods/storefront-be/internal/core/ports"
)

// CartStore persists cart records in Redis, one JSON entry per cart ID.
// A TTL of zero keeps carts until they are explicitly cleared.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Statically assert that *CartStore implements the CartStore interface.
var _ ports.CartStore = (*CartStore)(nil)

// NewCartStore creates a Redis-backed cart store
func NewCartStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *CartStore {
	return &CartStore{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "cart_store")),
	}
}

// Save writes the cart record, replacing any previous entry for the cart ID.
// Concurrent writers race; the last write wins with no merge.
func (s *CartStore) Save(ctx context.Context, cartID string, rec domain.CartRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	if err := s.client.Set(ctx, cartKey(cartID), data, s.ttl).Err(); err != nil {
		s.logger.ErrorContext(ctx, "failed to save cart",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()))
		return fmt.Errorf("redis set error: %w", err)
	}

	s.logger.DebugContext(ctx, "cart saved",
		slog.String("cart_id", cartID),
		slog.Int("items", len(rec.Items)))
	return nil
}

// Load reads the cart record for the given cart ID. Returns
// ports.ErrCartNotFound when no entry exists.
func (s *CartStore) Load(ctx context.Context, cartID string) (domain.CartRecord, error) {
	data, err := s.client.Get(ctx, cartKey(cartID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return domain.CartRecord{}, ports.ErrCartNotFound
		}
		s.logger.ErrorContext(ctx, "failed to load cart",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()))
		return domain.CartRecord{}, fmt.Errorf("redis get error: %w", err)
	}

	var rec domain.CartRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.CartRecord{}, fmt.Errorf("unmarshal error: %w", err)
	}

	return rec, nil
}

// Delete removes the persisted entry for the cart ID. Deleting an absent
// entry is not an error.
func (s *CartStore) Delete(ctx context.Context, cartID string) error {
	if err := s.client.Del(ctx, cartKey(cartID)).Err(); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete cart",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()))
		return fmt.Errorf("redis del error: %w", err)
	}
	return nil
}

func cartKey(cartID string) string {
	return BuildKey(PrefixCart, cartID)
}
