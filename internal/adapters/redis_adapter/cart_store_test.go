package redis_a_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/gmods/storefront-be/internal/adapters/redis_adapter"
	"github.com/gmods/storefront-be/internal/core/domain"
	"github.com/gmods/storefront-be/internal/core/ports"
	"github.com/gmods/storefront-be/test/helpers"
)

func TestCartStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	tr := helpers.SetupTestRedis(t)
	store := redis_a.NewCartStore(tr.Client, 0, helpers.TestLogger().Logger)

	cart := domain.NewCart("cart-1")
	policy := domain.DefaultPricingPolicy()
	require.NoError(t, cart.AddItem(helpers.CreateTestProduct(), 2, 0, policy))
	require.NoError(t, cart.AddItem(helpers.CreateTestProduct(func(p *domain.Product) {
		p.ID = 102
		p.Price = "5.00"
	}), 1, 7, policy))

	require.NoError(t, store.Save(ctx, "cart-1", cart.Record()))

	rec, err := store.Load(ctx, "cart-1")
	require.NoError(t, err)

	require.Len(t, rec.Items, 2)
	assert.Equal(t, "101", rec.Items[0].ID)
	assert.Equal(t, "102-7", rec.Items[1].ID)
	assert.Equal(t, cart.ItemCount, rec.ItemCount)
	assert.True(t, cart.Subtotal.Equal(rec.Subtotal))
	assert.True(t, cart.Tax.Equal(rec.Tax))
	assert.True(t, cart.Shipping.Equal(rec.Shipping))
	assert.True(t, cart.Total.Equal(rec.Total))
}

func TestCartStore_LoadMissing(t *testing.T) {
	ctx := context.Background()
	tr := helpers.SetupTestRedis(t)
	store := redis_a.NewCartStore(tr.Client, 0, helpers.TestLogger().Logger)

	_, err := store.Load(ctx, "nope")
	assert.ErrorIs(t, err, ports.ErrCartNotFound)
}

func TestCartStore_SaveReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	tr := helpers.SetupTestRedis(t)
	store := redis_a.NewCartStore(tr.Client, 0, helpers.TestLogger().Logger)

	cart := domain.NewCart("cart-1")
	policy := domain.DefaultPricingPolicy()
	require.NoError(t, cart.AddItem(helpers.CreateTestProduct(), 1, 0, policy))
	require.NoError(t, store.Save(ctx, "cart-1", cart.Record()))

	cart.Clear()
	require.NoError(t, store.Save(ctx, "cart-1", cart.Record()))

	rec, err := store.Load(ctx, "cart-1")
	require.NoError(t, err)
	assert.Empty(t, rec.Items)
	assert.Equal(t, 0, rec.ItemCount)
}

func TestCartStore_Delete(t *testing.T) {
	ctx := context.Background()
	tr := helpers.SetupTestRedis(t)
	store := redis_a.NewCartStore(tr.Client, 0, helpers.TestLogger().Logger)

	cart := domain.NewCart("cart-1")
	require.NoError(t, cart.AddItem(helpers.CreateTestProduct(), 1, 0, domain.DefaultPricingPolicy()))
	require.NoError(t, store.Save(ctx, "cart-1", cart.Record()))

	require.NoError(t, store.Delete(ctx, "cart-1"))

	_, err := store.Load(ctx, "cart-1")
	assert.ErrorIs(t, err, ports.ErrCartNotFound)

	// Deleting an absent entry is not an error.
	require.NoError(t, store.Delete(ctx, "cart-1"))
}

func TestCartStore_TTL(t *testing.T) {
	ctx := context.Background()
	tr := helpers.SetupTestRedis(t)
	store := redis_a.NewCartStore(tr.Client, time.Minute, helpers.TestLogger().Logger)

	cart := domain.NewCart("cart-1")
	require.NoError(t, cart.AddItem(helpers.CreateTestProduct(), 1, 0, domain.DefaultPricingPolicy()))
	require.NoError(t, store.Save(ctx, "cart-1", cart.Record()))

	tr.Server.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "cart-1")
	assert.ErrorIs(t, err, ports.ErrCartNotFound)
}
