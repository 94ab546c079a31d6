// internal/core/domain/product.go
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductType represents the WooCommerce product type
type ProductType string

const (
	ProductSimple   ProductType = "simple"
	ProductGrouped  ProductType = "grouped"
	ProductExternal ProductType = "external"
	ProductVariable ProductType = "variable"
)

// ProductStatus represents the publication status of a product
type ProductStatus string

const (
	ProductDraft   ProductStatus = "draft"
	ProductPending ProductStatus = "pending"
	ProductPrivate ProductStatus = "private"
	ProductPublish ProductStatus = "publish"
)

// StockStatus represents product stock availability
type StockStatus string

const (
	StockInStock    StockStatus = "instock"
	StockOutOfStock StockStatus = "outofstock"
	StockBackorder  StockStatus = "onbackorder"
)

// TaxStatus represents how a product is taxed
type TaxStatus string

const (
	TaxTaxable  TaxStatus = "taxable"
	TaxShipping TaxStatus = "shipping"
	TaxNone     TaxStatus = "none"
)

// Product is the catalog snapshot of a WooCommerce product. Monetary fields
// arrive as decimal-formatted strings and stay strings here; parsing happens
// at the point a product enters the cart (see UnitPrice).
type Product struct {
	ID                int                `json:"id"`
	Name              string             `json:"name"`
	Slug              string             `json:"slug"`
	Permalink         string             `json:"permalink"`
	DateCreated       string             `json:"date_created"`
	DateModified      string             `json:"date_modified"`
	Type              ProductType        `json:"type"`
	Status            ProductStatus      `json:"status"`
	Featured          bool               `json:"featured"`
	CatalogVisibility string             `json:"catalog_visibility"`
	Description       string             `json:"description"`
	ShortDescription  string             `json:"short_description"`
	SKU               string             `json:"sku"`
	Price             string             `json:"price"`
	RegularPrice      string             `json:"regular_price"`
	SalePrice         string             `json:"sale_price"`
	DateOnSaleFrom    *string            `json:"date_on_sale_from"`
	DateOnSaleTo      *string            `json:"date_on_sale_to"`
	OnSale            bool               `json:"on_sale"`
	Purchasable       bool               `json:"purchasable"`
	TotalSales        int                `json:"total_sales"`
	Virtual           bool               `json:"virtual"`
	Downloadable      bool               `json:"downloadable"`
	Downloads         []Download         `json:"downloads,omitempty"`
	DownloadLimit     int                `json:"download_limit"`
	DownloadExpiry    int                `json:"download_expiry"`
	ExternalURL       string             `json:"external_url"`
	ButtonText        string             `json:"button_text"`
	TaxStatus         TaxStatus          `json:"tax_status"`
	TaxClass          string             `json:"tax_class"`
	ManageStock       bool               `json:"manage_stock"`
	StockQuantity     *int               `json:"stock_quantity"`
	StockStatus       StockStatus        `json:"stock_status"`
	Backorders        string             `json:"backorders"`
	BackordersAllowed bool               `json:"backorders_allowed"`
	Backordered       bool               `json:"backordered"`
	SoldIndividually  bool               `json:"sold_individually"`
	Weight            string             `json:"weight"`
	Dimensions        Dimensions         `json:"dimensions"`
	ShippingRequired  bool               `json:"shipping_required"`
	ShippingTaxable   bool               `json:"shipping_taxable"`
	ShippingClass     string             `json:"shipping_class"`
	ShippingClassID   int                `json:"shipping_class_id"`
	ReviewsAllowed    bool               `json:"reviews_allowed"`
	AverageRating     string             `json:"average_rating"`
	RatingCount       int                `json:"rating_count"`
	UpsellIDs         []int              `json:"upsell_ids,omitempty"`
	CrossSellIDs      []int              `json:"cross_sell_ids,omitempty"`
	ParentID          int                `json:"parent_id"`
	PurchaseNote      string             `json:"purchase_note"`
	Categories        []CategoryRef      `json:"categories,omitempty"`
	Tags              []TagRef           `json:"tags,omitempty"`
	Images            []Image            `json:"images,omitempty"`
	Attributes        []Attribute        `json:"attributes,omitempty"`
	DefaultAttributes []DefaultAttribute `json:"default_attributes,omitempty"`
	Variations        []int              `json:"variations,omitempty"`
	GroupedProducts   []int              `json:"grouped_products,omitempty"`
	MenuOrder         int                `json:"menu_order"`
	PriceHTML         string             `json:"price_html"`
	RelatedIDs        []int              `json:"related_ids,omitempty"`
	MetaData          []MetaData         `json:"meta_data,omitempty"`
}

// Dimensions holds physical product dimensions as decimal strings
type Dimensions struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

// CategoryRef is a product's reference to a catalog category
type CategoryRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TagRef is a product's reference to a catalog tag
type TagRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Image is a catalog image attachment
type Image struct {
	ID           int    `json:"id"`
	DateCreated  string `json:"date_created,omitempty"`
	DateModified string `json:"date_modified,omitempty"`
	Src          string `json:"src"`
	Name         string `json:"name"`
	Alt          string `json:"alt"`
}

// Attribute is a product attribute with its option values
type Attribute struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Position  int      `json:"position"`
	Visible   bool     `json:"visible"`
	Variation bool     `json:"variation"`
	Options   []string `json:"options"`
}

// DefaultAttribute is the pre-selected option for a variable product
type DefaultAttribute struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Option string `json:"option"`
}

// Download is a downloadable file attached to a product
type Download struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	File string `json:"file"`
}

// MetaData is an arbitrary key/value pair attached to a catalog record
type MetaData struct {
	ID    int    `json:"id,omitempty"`
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Category is a full product category record from the catalog
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Parent      int    `json:"parent"`
	Description string `json:"description"`
	Display     string `json:"display"`
	Image       *Image `json:"image"`
	MenuOrder   int    `json:"menu_order"`
	Count       int    `json:"count"`
}

// PriceError reports a product price string that could not be parsed into a
// valid non-negative decimal amount.
type PriceError struct {
	ProductID int
	Value     string
	Err       error
}

func (e *PriceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid price %q for product %d: %v", e.Value, e.ProductID, e.Err)
	}
	return fmt.Sprintf("invalid price %q for product %d", e.Value, e.ProductID)
}

func (e *PriceError) Unwrap() error { return e.Err }

// UnitPrice parses the product's price string. The remote catalog formats
// prices as decimal strings; anything unparseable or negative is rejected here
// so a corrupted value never enters cart arithmetic.
func (p *Product) UnitPrice() (decimal.Decimal, error) {
	if p.Price == "" {
		return decimal.Zero, &PriceError{ProductID: p.ID, Value: p.Price}
	}
	d, err := decimal.NewFromString(p.Price)
	if err != nil {
		return decimal.Zero, &PriceError{ProductID: p.ID, Value: p.Price, Err: err}
	}
	if d.IsNegative() {
		return decimal.Zero, &PriceError{ProductID: p.ID, Value: p.Price}
	}
	return d, nil
}
