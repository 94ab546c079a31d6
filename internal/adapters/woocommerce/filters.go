// internal/adapters/woocommerce/filters.go
package woocommerce

import (
	"net/url"
	"strconv"

	"github.com/gmods/storefront-be/internal/core/ports"
)

const (
	defaultProductsPerPage  = 12
	defaultOrdersPerPage    = 10
	defaultCustomersPerPage = 10
	defaultCategoriesPage   = 100
)

// productParams serializes product filters into catalog query parameters.
// Unset fields are omitted entirely, mirroring how the catalog API treats
// absent parameters.
func productParams(f ports.ProductFilters) url.Values {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = defaultProductsPerPage
	}
	if f.OrderBy == "" {
		f.OrderBy = "date"
	}
	if f.Order == "" {
		f.Order = "desc"
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(f.Page))
	params.Set("per_page", strconv.Itoa(f.PerPage))
	params.Set("orderby", f.OrderBy)
	params.Set("order", f.Order)

	setIfPresent(params, "search", f.Search)
	setIfPresent(params, "category", f.Category)
	setIfPresent(params, "tag", f.Tag)
	setIfPresent(params, "slug", f.Slug)
	setIfPresent(params, "min_price", f.MinPrice)
	setIfPresent(params, "max_price", f.MaxPrice)

	if f.Featured {
		params.Set("featured", "true")
	}
	if f.OnSale {
		params.Set("on_sale", "true")
	}
	if f.InStock {
		params.Set("stock_status", "instock")
	}

	return params
}

// orderParams serializes order filters into catalog query parameters
func orderParams(f ports.OrderFilters) url.Values {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = defaultOrdersPerPage
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(f.Page))
	params.Set("per_page", strconv.Itoa(f.PerPage))

	setIfPresent(params, "status", f.Status)
	setIfPresent(params, "after", f.DateStart)
	setIfPresent(params, "before", f.DateEnd)
	if f.Customer > 0 {
		params.Set("customer", strconv.Itoa(f.Customer))
	}

	return params
}

func pageParams(page, perPage int) url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	return params
}

func setIfPresent(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}
