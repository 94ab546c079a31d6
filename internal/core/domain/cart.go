// internal/core/domain/cart.go
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CartItem is one line entry in a cart, keyed by product (and optional
// variation) identifier. Product is a snapshot taken at add time, not
// live-synced with the catalog.
type CartItem struct {
	ID          string          `json:"id"`
	ProductID   int             `json:"product_id"`
	VariationID int             `json:"variation_id,omitempty"`
	Quantity    int             `json:"quantity"`
	Product     Product         `json:"product"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ItemID derives the deterministic cart item identifier for a product and
// optional variation: "{productID}" or "{productID}-{variationID}".
func ItemID(productID, variationID int) string {
	if variationID > 0 {
		return fmt.Sprintf("%d-%d", productID, variationID)
	}
	return fmt.Sprintf("%d", productID)
}

// PricingPolicy holds the tax and shipping parameters applied when cart
// totals are derived. The free-shipping boundary is strictly greater-than.
type PricingPolicy struct {
	TaxRate               decimal.Decimal `json:"tax_rate"`
	FreeShippingThreshold decimal.Decimal `json:"free_shipping_threshold"`
	FlatShippingFee       decimal.Decimal `json:"flat_shipping_fee"`
}

// DefaultPricingPolicy returns the storefront defaults: 10% tax, free
// shipping over $50, otherwise a flat $5 fee.
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		TaxRate:               decimal.NewFromFloat(0.10),
		FreeShippingThreshold: decimal.NewFromInt(50),
		FlatShippingFee:       decimal.NewFromInt(5),
	}
}

// Validate checks the policy for usable values
func (p PricingPolicy) Validate() error {
	if p.TaxRate.IsNegative() {
		return fmt.Errorf("tax rate cannot be negative")
	}
	if p.FlatShippingFee.IsNegative() {
		return fmt.Errorf("flat shipping fee cannot be negative")
	}
	return nil
}

// Cart is the aggregate of items a user intends to purchase plus derived
// monetary totals. Items keep insertion order; at most one item exists per
// identifier. Aggregates are recomputed after every item-list mutation, so an
// observable Cart is always internally consistent.
type Cart struct {
	ID        string          `json:"id"`
	Items     []CartItem      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`

	// IsOpen is UI panel state colocated with the cart for the storefront's
	// convenience. It is never persisted.
	IsOpen bool `json:"is_open"`

	// Persisted reports whether the last durable write for this cart
	// succeeded. In-memory state stays authoritative either way.
	Persisted bool `json:"persisted"`
}

// NewCart returns an empty cart with zeroed aggregates
func NewCart(id string) *Cart {
	c := &Cart{ID: id, Items: []CartItem{}}
	c.zeroTotals()
	return c
}

// AddItem adds quantity units of a product (with optional variation) to the
// cart. A quantity below 1 defaults to 1. Adding an already-present identifier
// merges into the existing line instead of creating a duplicate. The product's
// price string is parsed here; an unparseable price rejects the add and leaves
// the cart untouched.
func (c *Cart) AddItem(product Product, quantity, variationID int, policy PricingPolicy) error {
	if quantity < 1 {
		quantity = 1
	}

	price, err := product.UnitPrice()
	if err != nil {
		return err
	}

	id := ItemID(product.ID, variationID)
	if c.indexOf(id) >= 0 {
		existing := &c.Items[c.indexOf(id)]
		return c.UpdateQuantity(id, existing.Quantity+quantity, policy)
	}

	c.Items = append(c.Items, CartItem{
		ID:          id,
		ProductID:   product.ID,
		VariationID: variationID,
		Quantity:    quantity,
		Product:     product,
		Subtotal:    price.Mul(decimal.NewFromInt(int64(quantity))),
	})
	c.CalculateTotals(policy)
	return nil
}

// UpdateQuantity sets the quantity of the item with the given identifier.
// A quantity of zero or less removes the item. Unknown identifiers are a
// no-op.
func (c *Cart) UpdateQuantity(id string, quantity int, policy PricingPolicy) error {
	if quantity <= 0 {
		c.RemoveItem(id, policy)
		return nil
	}

	idx := c.indexOf(id)
	if idx < 0 {
		return nil
	}

	item := &c.Items[idx]
	price, err := item.Product.UnitPrice()
	if err != nil {
		return err
	}

	item.Quantity = quantity
	item.Subtotal = price.Mul(decimal.NewFromInt(int64(quantity)))
	c.CalculateTotals(policy)
	return nil
}

// RemoveItem drops the item with the given identifier, preserving the order
// of the remaining items. Removing an absent identifier is a no-op.
func (c *Cart) RemoveItem(id string, policy PricingPolicy) {
	idx := c.indexOf(id)
	if idx < 0 {
		return
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.CalculateTotals(policy)
}

// Clear resets the item list and all aggregates to zero
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.zeroTotals()
}

// CalculateTotals rederives all aggregate fields from the current item list.
// Monetary aggregates are rounded to 2 decimal places (half-up on the cent
// boundary) before being stored.
func (c *Cart) CalculateTotals(policy PricingPolicy) {
	subtotal := decimal.Zero
	itemCount := 0
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.Subtotal)
		itemCount += item.Quantity
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(policy.TaxRate).Round(2)

	shipping := policy.FlatShippingFee
	if subtotal.GreaterThan(policy.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	shipping = shipping.Round(2)

	c.Subtotal = subtotal
	c.Tax = tax
	c.Shipping = shipping
	c.Total = subtotal.Add(tax).Add(shipping).Round(2)
	c.ItemCount = itemCount
}

// Find returns the item with the given identifier, or nil
func (c *Cart) Find(id string) *CartItem {
	idx := c.indexOf(id)
	if idx < 0 {
		return nil
	}
	return &c.Items[idx]
}

// IsEmpty reports whether the cart holds no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) indexOf(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) zeroTotals() {
	c.Subtotal = decimal.Zero
	c.Tax = decimal.Zero
	c.Shipping = decimal.Zero
	c.Total = decimal.Zero
	c.ItemCount = 0
}

// CartRecord is the persisted shape of a cart: the ordered item list plus the
// four monetary aggregates and the item count. The visibility flag is
// deliberately absent. There is no schema version field; format upgrades are
// not handled.
type CartRecord struct {
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Shipping  decimal.Decimal `json:"shipping"`
	ItemCount int             `json:"itemCount"`
}

// Record returns the persistable projection of the cart
func (c *Cart) Record() CartRecord {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return CartRecord{
		Items:     items,
		Total:     c.Total,
		Subtotal:  c.Subtotal,
		Tax:       c.Tax,
		Shipping:  c.Shipping,
		ItemCount: c.ItemCount,
	}
}

// RestoreCart rebuilds a cart from its persisted record
func RestoreCart(id string, rec CartRecord) *Cart {
	c := NewCart(id)
	if len(rec.Items) > 0 {
		c.Items = append(c.Items[:0], rec.Items...)
	}
	c.Total = rec.Total
	c.Subtotal = rec.Subtotal
	c.Tax = rec.Tax
	c.Shipping = rec.Shipping
	c.ItemCount = rec.ItemCount
	c.Persisted = true
	return c
}

// Snapshot returns a deep-enough copy for external readers: the item slice is
// copied so callers cannot mutate engine-owned state.
func (c *Cart) Snapshot() Cart {
	dup := *c
	dup.Items = make([]CartItem, len(c.Items))
	copy(dup.Items, c.Items)
	return dup
}
