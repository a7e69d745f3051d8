package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sales-service/internal/models"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned when a key is absent from the cache.
var ErrCacheMiss = errors.New("cache miss")

type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client used as a read-through product cache
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func productKey(productID int64) string {
	return fmt.Sprintf("product:%d", productID)
}

// GetProduct retrieves a cached product, ErrCacheMiss when absent
func (c *Client) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	data, err := c.rdb.Get(ctx, productKey(productID)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get failed: %w", err)
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("cache entry corrupt: %w", err)
	}
	return &product, nil
}

// SetProduct caches a product with the configured TTL
func (c *Client) SetProduct(ctx context.Context, product *models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}
	return c.rdb.Set(ctx, productKey(product.ID), data, c.ttl).Err()
}

// InvalidateProduct drops a product from the cache. Called after stock
// changes so cached stock levels do not outlive a sale.
func (c *Client) InvalidateProduct(ctx context.Context, productID int64) error {
	return c.rdb.Del(ctx, productKey(productID)).Err()
}
