package service

import (
	"context"
	"errors"

	"sales-service/internal/models"
	"sales-service/internal/redisclient"
	"sales-service/internal/store"
	"sales-service/internal/util"

	"go.uber.org/zap"
)

// CatalogStore is the persistence surface the catalog needs.
type CatalogStore interface {
	GetActiveProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetActiveProducts(ctx context.Context) ([]models.Product, error)
}

// ProductCache is a read-through cache for catalog lookups. Implementations
// must return redisclient.ErrCacheMiss for absent keys.
type ProductCache interface {
	GetProduct(ctx context.Context, productID int64) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product) error
	InvalidateProduct(ctx context.Context, productID int64) error
}

// Catalog resolves product ids to current unit price and stock level.
// Lookups are read-only; cache failures fall through to the database.
type Catalog struct {
	store  CatalogStore
	cache  ProductCache
	logger *zap.Logger
}

// NewCatalog creates a catalog. cache may be nil to disable caching.
func NewCatalog(store CatalogStore, cache ProductCache) *Catalog {
	return &Catalog{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// Lookup resolves a product id. Only active products resolve; inactive or
// missing products yield ErrProductNotFound.
func (c *Catalog) Lookup(ctx context.Context, productID int64) (*models.Product, error) {
	if c.cache != nil {
		product, err := c.cache.GetProduct(ctx, productID)
		if err == nil {
			util.CatalogCacheHitsTotal.Inc()
			return product, nil
		}
		if !errors.Is(err, redisclient.ErrCacheMiss) {
			c.logger.Warn("Catalog cache read failed, falling back to DB",
				zap.Int64("product_id", productID),
				zap.Error(err))
		}
	}
	util.CatalogCacheMissesTotal.Inc()

	product, err := c.store.GetActiveProductByID(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.SetProduct(ctx, product); err != nil {
			c.logger.Warn("Failed to cache product",
				zap.Int64("product_id", productID),
				zap.Error(err))
		}
	}

	return product, nil
}

// Invalidate drops a product from the cache after its stock changed.
func (c *Catalog) Invalidate(ctx context.Context, productID int64) {
	if c.cache == nil {
		return
	}
	if err := c.cache.InvalidateProduct(ctx, productID); err != nil {
		c.logger.Warn("Failed to invalidate cached product",
			zap.Int64("product_id", productID),
			zap.Error(err))
	}
}

// ListActive returns the active products offered on the order form.
func (c *Catalog) ListActive(ctx context.Context) ([]models.Product, error) {
	return c.store.GetActiveProducts(ctx)
}
