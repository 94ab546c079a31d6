package domain_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmods/storefront-be/internal/core/domain"
)

func testProduct(id int, price string) domain.Product {
	return domain.Product{
		ID:     id,
		Name:   "Test Product",
		Price:  price,
		Status: domain.ProductPublish,
	}
}

func TestItemID(t *testing.T) {
	assert.Equal(t, "42", domain.ItemID(42, 0))
	assert.Equal(t, "42-7", domain.ItemID(42, 7))
	assert.Equal(t, "42", domain.ItemID(42, -1))
}

func TestCart_AddItem(t *testing.T) {
	policy := domain.DefaultPricingPolicy()

	t.Run("adds_new_item", func(t *testing.T) {
		cart := domain.NewCart("cart-1")
		err := cart.AddItem(testProduct(101, "29.99"), 2, 0, policy)
		require.NoError(t, err)

		require.Len(t, cart.Items, 1)
		assert.Equal(t, "101", cart.Items[0].ID)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.Equal(t, "59.98", cart.Items[0].Subtotal.String())
		assert.Equal(t, 2, cart.ItemCount)
	})

	t.Run("merges_existing_identifier", func(t *testing.T) {
		cart := domain.NewCart("cart-1")
		require.NoError(t, cart.AddItem(testProduct(101, "10"), 1, 0, policy))
		require.NoError(t, cart.AddItem(testProduct(101, "10"), 3, 0, policy))

		require.Len(t, cart.Items, 1)
		assert.Equal(t, 4, cart.Items[0].Quantity)
		assert.Equal(t, "40", cart.Items[0].Subtotal.String())
	})

	t.Run("variation_creates_distinct_line", func(t *testing.T) {
		cart := domain.NewCart("cart-1")
		require.NoError(t, cart.AddItem(testProduct(101, "10"), 1, 0, policy))
		require.NoError(t, cart.AddItem(testProduct(101, "12"), 1, 55, policy))

		require.Len(t, cart.Items, 2)
		assert.Equal(t, "101", cart.Items[0].ID)
		assert.Equal(t, "101-55", cart.Items[1].ID)
	})

	t.Run("quantity_below_one_defaults_to_one", func(t *testing.T) {
		cart := domain.NewCart("cart-1")
		require.NoError(t, cart.AddItem(testProduct(101, "10"), 0, 0, policy))
		assert.Equal(t, 1, cart.Items[0].Quantity)

		require.NoError(t, cart.AddItem(testProduct(102, "10"), -3, 0, policy))
		assert.Equal(t, 1, cart.Items[1].Quantity)
	})

	t.Run("unparseable_price_rejects_and_leaves_cart_untouched", func(t *testing.T) {
		cart := domain.NewCart("cart-1")
		require.NoError(t, cart.AddItem(testProduct(101, "10"), 1, 0, policy))
		before := cart.Snapshot()

		err := cart.AddItem(testProduct(102, "not-a-price"), 1, 0, policy)
		require.Error(t, err)

		var priceErr *domain.PriceError
		require.True(t, errors.As(err, &priceErr))
		assert.Equal(t, 102, priceErr.ProductID)

		assert.Len(t, cart.Items, 1)
		assert.True(t, before.Total.Equal(cart.Total))
		assert.Equal(t, before.ItemCount, cart.ItemCount)
	})

	t.Run("empty_price_rejected", func(t *testing.T) {
		cart := domain.NewCart("cart-1")
		err := cart.AddItem(testProduct(101, ""), 1, 0, policy)
		var priceErr *domain.PriceError
		require.True(t, errors.As(err, &priceErr))
	})

	t.Run("negative_price_rejected", func(t *testing.T) {
		cart := domain.NewCart("cart-1")
		err := cart.AddItem(testProduct(101, "-5.00"), 1, 0, policy)
		var priceErr *domain.PriceError
		require.True(t, errors.As(err, &priceErr))
	})
}

func TestCart_UpdateQuantity(t *testing.T) {
	policy := domain.DefaultPricingPolicy()

	t.Run("sets_quantity_and_recalculates", func(t *testing.T) {
		cart := domain.NewCart("cart-1")
		require.NoError(t, cart.AddItem(testProduct(101, "10"), 1, 0, policy))

		require.NoError(t, cart.UpdateQuantity("101", 5, policy))
		assert.Equal(t, 5, cart.Items[0].Quantity)
		assert.Equal(t, "50", cart.Subtotal.String())
		assert.Equal(t, 5, cart.ItemCount)
	})

	t.Run("zero_quantity_removes_item", func(t *testing.T) {
		cart := domain.NewCart("cart-1")
		require.NoError(t, cart.AddItem(testProduct(101, "10"), 2, 0, policy))

		require.NoError(t, cart.UpdateQuantity("101", 0, policy))
		assert.Empty(t, cart.Items)
		assert.True(t, cart.Total.IsZero())
	})

	t.Run("negative_quantity_removes_item", func(t *testing.T) {
		cart := domain.NewCart("cart-1")
		require.NoError(t, cart.AddItem(testProduct(101, "10"), 2, 0, policy))

		require.NoError(t, cart.UpdateQuantity("101", -1, policy))
		assert.Empty(t, cart.Items)
	})

	t.Run("unknown_identifier_is_noop", func(t *testing.T) {
		cart := domain.NewCart("cart-1")
		require.NoError(t, cart.AddItem(testProduct(101, "10"), 2, 0, policy))
		before := cart.Snapshot()

		require.NoError(t, cart.UpdateQuantity("999", 5, policy))
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, before.ItemCount, cart.ItemCount)
		assert.True(t, before.Total.Equal(cart.Total))
	})
}

func TestCart_RemoveItem(t *testing.T) {
	policy := domain.DefaultPricingPolicy()

	t.Run("removes_and_preserves_order", func(t *testing.T) {
		cart := domain.NewCart("cart-1")
		require.NoError(t, cart.AddItem(testProduct(101, "10"), 1, 0, policy))
		require.NoError(t, cart.AddItem(testProduct(102, "20"), 1, 0, policy))
		require.NoError(t, cart.AddItem(testProduct(103, "30"), 1, 0, policy))

		cart.RemoveItem("102", policy)

		require.Len(t, cart.Items, 2)
		assert.Equal(t, "101", cart.Items[0].ID)
		assert.Equal(t, "103", cart.Items[1].ID)
		assert.Equal(t, "40", cart.Subtotal.String())
	})

	t.Run("absent_identifier_is_noop", func(t *testing.T) {
		cart := domain.NewCart("cart-1")
		require.NoError(t, cart.AddItem(testProduct(101, "10"), 1, 0, policy))

		cart.RemoveItem("999", policy)
		assert.Len(t, cart.Items, 1)
	})
}

func TestCart_Clear(t *testing.T) {
	policy := domain.DefaultPricingPolicy()
	cart := domain.NewCart("cart-1")
	require.NoError(t, cart.AddItem(testProduct(101, "29.99"), 3, 0, policy))

	cart.Clear()

	assert.Empty(t, cart.Items)
	assert.True(t, cart.Subtotal.IsZero())
	assert.True(t, cart.Tax.IsZero())
	assert.True(t, cart.Shipping.IsZero())
	assert.True(t, cart.Total.IsZero())
	assert.Equal(t, 0, cart.ItemCount)
}

func TestCart_CalculateTotals(t *testing.T) {
	policy := domain.DefaultPricingPolicy()

	tests := []struct {
		name         string
		prices       []string
		quantities   []int
		wantSubtotal string
		wantTax      string
		wantShipping string
		wantTotal    string
	}{
		{
			name:         "over_threshold_gets_free_shipping",
			prices:       []string{"29.99"},
			quantities:   []int{2},
			wantSubtotal: "59.98",
			wantTax:      "6",
			wantShipping: "0",
			wantTotal:    "65.98",
		},
		{
			name:         "under_threshold_pays_flat_fee",
			prices:       []string{"10"},
			quantities:   []int{2},
			wantSubtotal: "20",
			wantTax:      "2",
			wantShipping: "5",
			wantTotal:    "27",
		},
		{
			name:         "exactly_at_threshold_still_pays_shipping",
			prices:       []string{"25"},
			quantities:   []int{2},
			wantSubtotal: "50",
			wantTax:      "5",
			wantShipping: "5",
			wantTotal:    "60",
		},
		{
			name:         "tax_rounds_on_cent_boundary",
			prices:       []string{"0.25"},
			quantities:   []int{1},
			wantSubtotal: "0.25",
			wantTax:      "0.03",
			wantShipping: "5",
			wantTotal:    "5.28",
		},
		{
			name:         "empty_cart_is_all_zero",
			prices:       nil,
			quantities:   nil,
			wantSubtotal: "0",
			wantTax:      "0",
			wantShipping: "5",
			wantTotal:    "5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := domain.NewCart("cart-1")
			for i, price := range tt.prices {
				require.NoError(t, cart.AddItem(testProduct(100+i, price), tt.quantities[i], 0, policy))
			}
			cart.CalculateTotals(policy)

			assert.Equal(t, tt.wantSubtotal, cart.Subtotal.String())
			assert.Equal(t, tt.wantTax, cart.Tax.String())
			assert.Equal(t, tt.wantShipping, cart.Shipping.String())
			assert.Equal(t, tt.wantTotal, cart.Total.String())
		})
	}
}

func TestCart_TotalInvariant(t *testing.T) {
	// Total must equal Subtotal + Tax + Shipping after any mutation sequence.
	policy := domain.DefaultPricingPolicy()
	cart := domain.NewCart("cart-1")

	check := func() {
		t.Helper()
		want := cart.Subtotal.Add(cart.Tax).Add(cart.Shipping)
		assert.True(t, cart.Total.Equal(want),
			"total %s != subtotal %s + tax %s + shipping %s",
			cart.Total, cart.Subtotal, cart.Tax, cart.Shipping)
	}

	require.NoError(t, cart.AddItem(testProduct(101, "19.99"), 1, 0, policy))
	check()
	require.NoError(t, cart.AddItem(testProduct(102, "7.49"), 3, 0, policy))
	check()
	require.NoError(t, cart.UpdateQuantity("101", 4, policy))
	check()
	cart.RemoveItem("102", policy)
	check()
	cart.Clear()
	check()
}

func TestCart_RecordRoundTrip(t *testing.T) {
	policy := domain.DefaultPricingPolicy()
	cart := domain.NewCart("cart-1")
	require.NoError(t, cart.AddItem(testProduct(101, "29.99"), 2, 0, policy))
	require.NoError(t, cart.AddItem(testProduct(102, "5"), 1, 7, policy))
	cart.IsOpen = true

	rec := cart.Record()
	restored := domain.RestoreCart("cart-1", rec)

	assert.Equal(t, cart.ID, restored.ID)
	require.Len(t, restored.Items, 2)
	assert.Equal(t, cart.Items, restored.Items)
	assert.True(t, cart.Subtotal.Equal(restored.Subtotal))
	assert.True(t, cart.Tax.Equal(restored.Tax))
	assert.True(t, cart.Shipping.Equal(restored.Shipping))
	assert.True(t, cart.Total.Equal(restored.Total))
	assert.Equal(t, cart.ItemCount, restored.ItemCount)

	// Panel visibility is session state and never round-trips.
	assert.False(t, restored.IsOpen)
	assert.True(t, restored.Persisted)
}

func TestCart_Snapshot(t *testing.T) {
	policy := domain.DefaultPricingPolicy()
	cart := domain.NewCart("cart-1")
	require.NoError(t, cart.AddItem(testProduct(101, "10"), 1, 0, policy))

	snap := cart.Snapshot()
	snap.Items[0].Quantity = 99

	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestPricingPolicy_Validate(t *testing.T) {
	tests := []struct {
		name      string
		policy    domain.PricingPolicy
		wantError bool
	}{
		{
			name:      "defaults_are_valid",
			policy:    domain.DefaultPricingPolicy(),
			wantError: false,
		},
		{
			name: "negative_tax_rate",
			policy: domain.PricingPolicy{
				TaxRate:         decimal.NewFromFloat(-0.1),
				FlatShippingFee: decimal.NewFromInt(5),
			},
			wantError: true,
		},
		{
			name: "negative_shipping_fee",
			policy: domain.PricingPolicy{
				TaxRate:         decimal.NewFromFloat(0.1),
				FlatShippingFee: decimal.NewFromInt(-5),
			},
			wantError: true,
		},
		{
			name: "zero_rates_are_valid",
			policy: domain.PricingPolicy{
				TaxRate:         decimal.Zero,
				FlatShippingFee: decimal.Zero,
			},
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
