// internal/core/domain/order.go
package domain

// OrderStatus represents the lifecycle state of a WooCommerce order
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderOnHold     OrderStatus = "on-hold"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
	OrderFailed     OrderStatus = "failed"
	OrderTrash      OrderStatus = "trash"
)

// Order is the catalog-service order record, passed through as-is. Monetary
// fields remain decimal strings on this surface; the storefront never does
// arithmetic on them.
type Order struct {
	ID                 int            `json:"id"`
	ParentID           int            `json:"parent_id"`
	Number             string         `json:"number"`
	OrderKey           string         `json:"order_key"`
	CreatedVia         string         `json:"created_via"`
	Version            string         `json:"version"`
	Status             OrderStatus    `json:"status"`
	Currency           string         `json:"currency"`
	DateCreated        string         `json:"date_created"`
	DateModified       string         `json:"date_modified"`
	PricesIncludeTax   bool           `json:"prices_include_tax"`
	DiscountTotal      string         `json:"discount_total"`
	DiscountTax        string         `json:"discount_tax"`
	ShippingTotal      string         `json:"shipping_total"`
	ShippingTax        string         `json:"shipping_tax"`
	CartTax            string         `json:"cart_tax"`
	Total              string         `json:"total"`
	TotalTax           string         `json:"total_tax"`
	CustomerID         int            `json:"customer_id"`
	CustomerIPAddress  string         `json:"customer_ip_address"`
	CustomerUserAgent  string         `json:"customer_user_agent"`
	CustomerNote       string         `json:"customer_note"`
	Billing            Address        `json:"billing"`
	Shipping           Address        `json:"shipping"`
	PaymentMethod      string         `json:"payment_method"`
	PaymentMethodTitle string         `json:"payment_method_title"`
	TransactionID      string         `json:"transaction_id"`
	DateCompleted      *string        `json:"date_completed"`
	DatePaid           *string        `json:"date_paid"`
	CartHash           string         `json:"cart_hash"`
	MetaData           []MetaData     `json:"meta_data,omitempty"`
	LineItems          []LineItem     `json:"line_items"`
	TaxLines           []TaxLine      `json:"tax_lines,omitempty"`
	ShippingLines      []ShippingLine `json:"shipping_lines,omitempty"`
	FeeLines           []FeeLine      `json:"fee_lines,omitempty"`
	CouponLines        []CouponLine   `json:"coupon_lines,omitempty"`
	Refunds            []Refund       `json:"refunds,omitempty"`
}

// Address is a billing or shipping address
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// LineItem is a single product line on an order
type LineItem struct {
	ID          int        `json:"id,omitempty"`
	Name        string     `json:"name"`
	ProductID   int        `json:"product_id"`
	VariationID int        `json:"variation_id"`
	Quantity    int        `json:"quantity"`
	TaxClass    string     `json:"tax_class"`
	Subtotal    string     `json:"subtotal"`
	SubtotalTax string     `json:"subtotal_tax"`
	Total       string     `json:"total"`
	TotalTax    string     `json:"total_tax"`
	Taxes       []TaxEntry `json:"taxes,omitempty"`
	MetaData    []MetaData `json:"meta_data,omitempty"`
	SKU         string     `json:"sku"`
	Price       float64    `json:"price"`
	Image       *Image     `json:"image,omitempty"`
}

// TaxLine is a per-rate tax summary on an order
type TaxLine struct {
	ID               int        `json:"id"`
	RateCode         string     `json:"rate_code"`
	RateID           int        `json:"rate_id"`
	Label            string     `json:"label"`
	Compound         bool       `json:"compound"`
	TaxTotal         string     `json:"tax_total"`
	ShippingTaxTotal string     `json:"shipping_tax_total"`
	RatePercent      float64    `json:"rate_percent"`
	MetaData         []MetaData `json:"meta_data,omitempty"`
}

// ShippingLine is a shipping method charge on an order
type ShippingLine struct {
	ID          int        `json:"id"`
	MethodTitle string     `json:"method_title"`
	MethodID    string     `json:"method_id"`
	InstanceID  string     `json:"instance_id"`
	Total       string     `json:"total"`
	TotalTax    string     `json:"total_tax"`
	Taxes       []TaxEntry `json:"taxes,omitempty"`
	MetaData    []MetaData `json:"meta_data,omitempty"`
}

// FeeLine is an ad-hoc fee on an order
type FeeLine struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	TaxClass  string     `json:"tax_class"`
	TaxStatus string     `json:"tax_status"`
	Total     string     `json:"total"`
	TotalTax  string     `json:"total_tax"`
	Taxes     []TaxEntry `json:"taxes,omitempty"`
	MetaData  []MetaData `json:"meta_data,omitempty"`
}

// CouponLine is an applied coupon on an order
type CouponLine struct {
	ID          int        `json:"id"`
	Code        string     `json:"code"`
	Discount    string     `json:"discount"`
	DiscountTax string     `json:"discount_tax"`
	MetaData    []MetaData `json:"meta_data,omitempty"`
}

// Refund is a refund summary attached to an order
type Refund struct {
	ID     int    `json:"id"`
	Reason string `json:"reason"`
	Total  string `json:"total"`
}

// TaxEntry is a per-rate tax amount on a line
type TaxEntry struct {
	ID       int    `json:"id"`
	Total    string `json:"total"`
	Subtotal string `json:"subtotal"`
}
