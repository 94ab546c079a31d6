// internal/core/ports/catalog.go
package ports

import (
	"context"

	"github.com/gmods/storefront-be/internal/core/domain"
)

// ProductFilters holds the catalog query parameters for product listings.
// Zero values mean "not set" and are omitted from the outgoing query.
type ProductFilters struct {
	Page     int
	PerPage  int
	Search   string
	Category string
	Tag      string
	Slug     string
	Featured bool
	OnSale   bool
	MinPrice string
	MaxPrice string
	InStock  bool
	OrderBy  string // date, id, title, slug, price, popularity, rating, ...
	Order    string // asc, desc
}

// OrderFilters holds the catalog query parameters for order listings
type OrderFilters struct {
	Page      int
	PerPage   int
	Status    string
	Customer  int
	DateStart string // RFC3339, maps to the catalog's "after" parameter
	DateEnd   string // RFC3339, maps to the catalog's "before" parameter
}

// ListResult is the paginated envelope returned by catalog list operations.
// Total and TotalPages come from the catalog's pagination response headers.
type ListResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
}

// CatalogClient defines the port to the remote product/order/customer
// catalog service. Each call is independent; failures carry the upstream
// status code and body, and there is no retry or circuit breaking at this
// layer.
type CatalogClient interface {
	// Products
	GetProducts(ctx context.Context, filters ProductFilters) (ListResult[domain.Product], error)
	GetProduct(ctx context.Context, id int) (domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, id int, product domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id int) (domain.Product, error)
	SearchProducts(ctx context.Context, query string, page, perPage int) (ListResult[domain.Product], error)
	GetFeaturedProducts(ctx context.Context, perPage int) (ListResult[domain.Product], error)
	GetSaleProducts(ctx context.Context, perPage int) (ListResult[domain.Product], error)
	GetCategories(ctx context.Context, page, perPage int) ([]domain.Category, error)
	GetRelatedProducts(ctx context.Context, productID int) ([]domain.Product, error)

	// Orders
	GetOrders(ctx context.Context, filters OrderFilters) (ListResult[domain.Order], error)
	GetOrder(ctx context.Context, id int) (domain.Order, error)
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	UpdateOrder(ctx context.Context, id int, order domain.Order) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (domain.Order, error)

	// Customers
	GetCustomers(ctx context.Context, page, perPage int) (ListResult[domain.Customer], error)
	GetCustomer(ctx context.Context, id int) (domain.Customer, error)
	CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	UpdateCustomer(ctx context.Context, id int, customer domain.Customer) (domain.Customer, error)

	// Health
	CheckConnection(ctx context.Context) error
}
