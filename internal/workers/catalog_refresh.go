// internal/workers/catalog_refresh.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/hibiken/asynq"

	"github.com/gmods/storefront-be/internal/core/ports"
)

// TypeCatalogRefresh is the task type for rewarming the catalog cache
const TypeCatalogRefresh = "catalog:refresh"

// NewCatalogRefreshTask creates a catalog refresh task
func NewCatalogRefreshTask() *asynq.Task {
	return asynq.NewTask(TypeCatalogRefresh, nil)
}

// CatalogRefreshProcessor rewarms the catalog cache in the background so the
// hot storefront paths (featured products, categories) rarely pay the
// upstream round trip.
type CatalogRefreshProcessor struct {
	catalog ports.CatalogClient
	cache   ports.CacheRepository
	ttl     time.Duration
	logger  *slog.Logger
}

// NewCatalogRefreshProcessor creates a new catalog refresh processor
func NewCatalogRefreshProcessor(catalog ports.CatalogClient, cache ports.CacheRepository, ttl time.Duration, logger *slog.Logger) *CatalogRefreshProcessor {
	return &CatalogRefreshProcessor{
		catalog: catalog,
		cache:   cache,
		ttl:     ttl,
		logger:  logger.With(slog.String("processor", "catalog_refresh")),
	}
}

// RefreshCatalog fetches featured products and categories from the upstream
// catalog and writes them into the cache under the same keys the API
// handlers read.
func (p *CatalogRefreshProcessor) RefreshCatalog(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "refreshing catalog cache")
	start := time.Now()

	result, err := p.catalog.GetFeaturedProducts(ctx, 12)
	if err != nil {
		return fmt.Errorf("failed to fetch featured products: %w", err)
	}

	warmed := 0
	for _, product := range result.Data {
		key := "prod:item:" + strconv.Itoa(product.ID)
		if err := p.cache.SetWithTTL(ctx, key, product, p.ttl); err != nil {
			p.logger.WarnContext(ctx, "failed to warm product cache",
				slog.Int("product_id", product.ID),
				slog.String("error", err.Error()))
			continue
		}
		warmed++
	}

	categories, err := p.catalog.GetCategories(ctx, 1, 100)
	if err != nil {
		return fmt.Errorf("failed to fetch categories: %w", err)
	}
	if err := p.cache.SetWithTTL(ctx, "cat:list:1:100", categories, p.ttl); err != nil {
		p.logger.WarnContext(ctx, "failed to warm category cache",
			slog.String("error", err.Error()))
	}

	p.logger.InfoContext(ctx, "catalog cache refreshed",
		slog.Int("products_warmed", warmed),
		slog.Int("categories", len(categories)),
		slog.Duration("duration", time.Since(start)))

	return nil
}
